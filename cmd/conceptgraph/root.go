package main

import (
	"encoding/json"
	"fmt"
	"io"

	"conceptgraph/internal/config"
	"conceptgraph/internal/loader"
	"conceptgraph/internal/logging"
	"conceptgraph/internal/repository/sqlite"
	"conceptgraph/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "conceptgraph",
	Short: "Serve and query a concept knowledge graph",
	Long: `conceptgraph loads a concept graph snapshot (builtin, file or sqlite)
and answers related-concept, shortest-path, search and filter queries,
either over HTTP (serve) or as one-shot commands.

Examples:
  conceptgraph serve --addr :3001
  conceptgraph related liver --depth 2
  conceptgraph path liver xiaoyao_san
  conceptgraph import graph.yaml`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: search standard locations)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level (debug, info, warn, error)")
}

// loadConfig reads the config named by --config or found on the search path.
// An explicit --config leaves Origin.Searched empty.
func loadConfig() (*config.Config, config.Origin, error) {
	var (
		cfg    *config.Config
		origin config.Origin
		err    error
	)
	if configPath != "" {
		origin.Path = configPath
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, origin, err = config.Load()
	}
	if err != nil {
		return nil, origin, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, origin, nil
}

// app holds what every command builds from the config
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	repo   *sqlite.Repository
	events *service.EventBus
	svc    *service.GraphService
}

// appOptions tune newApp per command
type appOptions struct {
	// withRepo opens the SQLite database even when the source does not need it
	withRepo    bool
	serviceOpts []service.Option
}

// newApp builds the logger, database and service for cfg
func newApp(cfg *config.Config, o appOptions) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, events: service.NewEventBus()}

	opts := []service.Option{service.WithLogger(logger)}
	if o.withRepo || cfg.Snapshot.Source == config.SourceSQLite {
		repo, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.repo = repo
		opts = append(opts, service.WithRepository(repo))
	}

	var source loader.Source
	if a.repo != nil {
		source, err = loader.NewSource(cfg.Snapshot, a.repo)
	} else {
		source, err = loader.NewSource(cfg.Snapshot, nil)
	}
	if err != nil {
		a.Close()
		return nil, err
	}

	opts = append(opts, o.serviceOpts...)
	a.svc = service.NewGraphService(source, cfg.Query, a.events, opts...)
	return a, nil
}

// Close releases the database and flushes the logger
func (a *app) Close() {
	if a.repo != nil {
		if err := a.repo.Close(); err != nil {
			a.logger.Warn("close database", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
