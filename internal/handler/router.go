package handler

import (
	"net/http"

	"conceptgraph/internal/config"
	"conceptgraph/internal/service"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig wires the router's dependencies. Events and Metrics are
// optional; their routes are only mounted when set.
type RouterConfig struct {
	Service *service.GraphService
	Server  config.ServerConfig
	Query   config.QueryConfig
	Events  http.Handler
	Metrics http.Handler
	Logger  *zap.Logger
}

// NewRouter configures all routes and middleware
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	graphHandler := NewGraphHandler(cfg.Service, cfg.Query, logger)

	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(Logger(logger.Named("http")))

	origins := cfg.Server.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", graphHandler.Health)
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics)
	}
	if cfg.Events != nil {
		router.Handle("/events", cfg.Events)
	}

	router.Route("/api/graph", func(r chi.Router) {
		if cfg.Server.RateLimit.Enabled() {
			r.Use(RateLimit(cfg.Server.RateLimit.RequestsPerSecond, cfg.Server.RateLimit.Burst, logger))
		}

		r.Get("/knowledge", graphHandler.Knowledge)
		r.Get("/search", graphHandler.Search)
		r.Get("/concepts/{id}", graphHandler.Concept)
		r.Get("/concepts/{id}/related", graphHandler.Related)
		r.Post("/path", graphHandler.Path)

		r.Get("/snapshot", graphHandler.Snapshot)
		r.Post("/snapshot", graphHandler.ImportSnapshot)
		r.Post("/snapshot/reload", graphHandler.ReloadSnapshot)
		r.Get("/export/{format}", graphHandler.Export)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusNotFound, Envelope{Success: false, Error: "route not found"})
	})

	return router
}
