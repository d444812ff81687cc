package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conceptgraph/internal/config"
	"conceptgraph/internal/handler"
	"conceptgraph/internal/hub"
	"conceptgraph/internal/service"
	"conceptgraph/internal/telemetry"
	"conceptgraph/internal/watcher"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Load the configured snapshot and serve the graph API, server-sent
events on /events and Prometheus metrics on /metrics.

With snapshot.source=file and snapshot.watch=true the file is reloaded
whenever it changes. A reload that fails validation keeps the current
snapshot.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, origin, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	tp, shutdownTracing, err := telemetry.Setup(cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	opts := []service.Option{service.WithTracer(tp.Tracer("conceptgraph/service"))}
	var metricsHandler http.Handler
	if cfg.Telemetry.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, service.WithMetrics(telemetry.NewMetrics(reg)))
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	a, err := newApp(cfg, appOptions{serviceOpts: opts})
	if err != nil {
		return err
	}
	defer a.Close()
	logger := a.logger

	if origin.Defaulted() {
		logger.Info("no config file found, using defaults", zap.Strings("searched", origin.Searched))
	} else {
		logger.Info("config loaded", zap.String("path", origin.Path))
	}
	logger.Info("effective config", zap.String("summary", cfg.Summary()))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	info, err := a.svc.Reload(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	logger.Info("starting conceptgraph",
		zap.String("source", a.svc.SourceName()),
		zap.Int("nodes", info.Nodes),
		zap.Int("edges", info.Edges),
	)

	sseHub := hub.New(logger)

	srv := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: handler.NewRouter(handler.RouterConfig{
			Service: a.svc,
			Server:  cfg.Server,
			Query:   cfg.Query,
			Events:  sseHub,
			Metrics: metricsHandler,
			Logger:  logger,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout.Duration(),
		WriteTimeout: cfg.Server.WriteTimeout.Duration(),
		IdleTimeout:  cfg.Server.IdleTimeout.Duration(),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sseHub.Run(gctx)
	})

	g.Go(func() error {
		relayEvents(gctx, a.events, sseHub)
		return nil
	})

	if cfg.Snapshot.Source == config.SourceFile && cfg.Snapshot.Watch {
		w := watcher.New(cfg.Snapshot.Path, func() {
			// Failures are logged and published by the service
			_, _ = a.svc.Reload(gctx)
		}, logger).WithDebounce(cfg.Snapshot.Debounce.Duration())
		g.Go(func() error {
			if err := w.Watch(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("watch %s: %w", cfg.Snapshot.Path, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server", zap.Int("sse_clients", sseHub.ClientCount()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped", zap.Error(err))
		return err
	}
	logger.Info("server stopped")
	return nil
}

// relayEvents forwards event bus events to the SSE hub until ctx is done
func relayEvents(ctx context.Context, bus *service.EventBus, sseHub *hub.Hub) {
	events := make(chan service.Event, 100)
	bus.Subscribe(events)
	defer bus.Unsubscribe(events)

	for {
		select {
		case event := <-events:
			sseHub.Broadcast(event)
		case <-ctx.Done():
			return
		}
	}
}
