// Package config provides configuration management for the concept graph
// server and CLI.
//
// Config file locations (priority order):
//  1. $CONCEPTGRAPH_CONFIG
//  2. ./conceptgraph.yaml
//  3. $XDG_CONFIG_HOME/conceptgraph/config.yaml
//  4. ~/.config/conceptgraph/config.yaml
//  5. /etc/conceptgraph/config.yaml
//
// When no file is found the defaults are used.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Load finds and loads the config file, or returns defaults if none found.
// The returned Origin lists the locations searched.
func Load() (*Config, Origin, error) {
	path, searched := FindConfigPath()
	origin := Origin{Path: path, Searched: searched}

	if path == "" {
		return DefaultConfig(), origin, nil
	}

	cfg, err := LoadFromPath(path)
	return cfg, origin, err
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Server: ServerConfig{
			Addr:         ":3001",
			ReadTimeout:  Duration(15 * time.Second),
			WriteTimeout: Duration(15 * time.Second),
			IdleTimeout:  Duration(60 * time.Second),
			CORSOrigins:  []string{"*"},
		},
		Snapshot: SnapshotConfig{Source: SourceBuiltin, Debounce: Duration(500 * time.Millisecond)},
		Database: DatabaseConfig{Path: "./conceptgraph.db"},
		Query: QueryConfig{
			DefaultDepth:   2,
			MaxDepth:       3,
			ResultCap:      10,
			SearchLimit:    10,
			MaxSearchLimit: 50,
			MaxNodeLimit:   1000,
		},
		Log:       LogConfig{Level: "info", Format: "json"},
		Telemetry: TelemetryConfig{Metrics: true, Tracing: "none"},
	}
}

// applyDefaults fills in values a partial config file left at zero
func (c *Config) applyDefaults() {
	def := DefaultConfig()

	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Snapshot.Source == "" {
		c.Snapshot.Source = SourceBuiltin
	}
	if c.Snapshot.Debounce == 0 {
		c.Snapshot.Debounce = def.Snapshot.Debounce
	}
	if c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Query.DefaultDepth == 0 {
		c.Query.DefaultDepth = def.Query.DefaultDepth
	}
	if c.Query.MaxDepth == 0 {
		c.Query.MaxDepth = def.Query.MaxDepth
	}
	if c.Query.ResultCap == 0 {
		c.Query.ResultCap = def.Query.ResultCap
	}
	if c.Query.SearchLimit == 0 {
		c.Query.SearchLimit = def.Query.SearchLimit
	}
	if c.Query.MaxSearchLimit == 0 {
		c.Query.MaxSearchLimit = def.Query.MaxSearchLimit
	}
	if c.Query.MaxNodeLimit == 0 {
		c.Query.MaxNodeLimit = def.Query.MaxNodeLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Telemetry.Tracing == "" {
		c.Telemetry.Tracing = def.Telemetry.Tracing
	}
}

// Validate rejects inconsistent settings
func (c *Config) Validate() error {
	var errs []error

	if !c.Snapshot.Source.Valid() {
		errs = append(errs, fmt.Errorf("snapshot.source: unknown source %q", c.Snapshot.Source))
	}
	if c.Snapshot.Source == SourceFile && c.Snapshot.Path == "" {
		errs = append(errs, errors.New("snapshot.path: required for the file source"))
	}
	if c.Snapshot.Debounce < 0 {
		errs = append(errs, errors.New("snapshot.debounce: must be >= 0"))
	}
	if c.Snapshot.Source == SourceSQLite && c.Database.Path == "" {
		errs = append(errs, errors.New("database.path: required for the sqlite source"))
	}

	q := c.Query
	if q.MaxDepth < 1 {
		errs = append(errs, fmt.Errorf("query.max_depth: must be >= 1, got %d", q.MaxDepth))
	}
	if q.DefaultDepth < 1 || q.DefaultDepth > q.MaxDepth {
		errs = append(errs, fmt.Errorf("query.default_depth: must be in [1, %d], got %d", q.MaxDepth, q.DefaultDepth))
	}
	if q.ResultCap < 1 {
		errs = append(errs, fmt.Errorf("query.result_cap: must be >= 1, got %d", q.ResultCap))
	}
	if q.MaxSearchLimit < 1 {
		errs = append(errs, fmt.Errorf("query.max_search_limit: must be >= 1, got %d", q.MaxSearchLimit))
	}
	if q.SearchLimit < 1 || q.SearchLimit > q.MaxSearchLimit {
		errs = append(errs, fmt.Errorf("query.search_limit: must be in [1, %d], got %d", q.MaxSearchLimit, q.SearchLimit))
	}
	if q.MaxNodeLimit < 1 {
		errs = append(errs, fmt.Errorf("query.max_node_limit: must be >= 1, got %d", q.MaxNodeLimit))
	}
	if q.StepBudget < 0 {
		errs = append(errs, fmt.Errorf("query.step_budget: must be >= 0, got %d", q.StepBudget))
	}

	if c.Server.RateLimit.RequestsPerSecond < 0 || c.Server.RateLimit.Burst < 0 {
		errs = append(errs, errors.New("server.rate_limit: values must be >= 0"))
	}

	switch c.Log.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	switch c.Telemetry.Tracing {
	case "none", "stdout":
	default:
		errs = append(errs, fmt.Errorf("telemetry.tracing: unknown exporter %q", c.Telemetry.Tracing))
	}

	return errors.Join(errs...)
}

// Summary returns a one-line description of the effective source and query limits
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Source: %s", c.Snapshot.Source)
	switch c.Snapshot.Source {
	case SourceFile:
		summary += fmt.Sprintf(" (%s, watch=%t)", c.Snapshot.Path, c.Snapshot.Watch)
	case SourceSQLite:
		summary += fmt.Sprintf(" (%s)", c.Database.Path)
	}
	summary += fmt.Sprintf("; Query: depth %d (max %d), cap %d, search limit %d (max %d)",
		c.Query.DefaultDepth, c.Query.MaxDepth, c.Query.ResultCap,
		c.Query.SearchLimit, c.Query.MaxSearchLimit)
	return summary
}
