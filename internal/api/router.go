package api

import (
	"net/http"

	"github.com/dStensland/LostCity-sub008/internal/dedup"
	"github.com/dStensland/LostCity-sub008/internal/engine"
	"github.com/dStensland/LostCity-sub008/internal/enrich"
	"github.com/dStensland/LostCity-sub008/internal/merge"
	"github.com/dStensland/LostCity-sub008/internal/store"
	ws "github.com/dStensland/LostCity-sub008/internal/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Store     *store.PostgresStore
	Resolver  *dedup.Resolver
	Merger    *merge.Engine
	Runner    *enrich.Runner
	Registry  *enrich.Registry
	Limiter   *engine.RateLimiter
	Scheduler *engine.Scheduler
	Hub       *ws.Hub
}

// NewRouter creates and configures the HTTP router.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	r.Use(corsMiddleware)

	// Handlers
	eventHandler := NewEventHandler(d.Store, d.Resolver, d.Merger, d.Limiter, d.Scheduler, d.Registry.Types())
	venueHandler := NewVenueHandler(d.Store, d.Store)
	sourceHandler := NewSourceHandler(d.Store)
	enrichmentHandler := NewEnrichmentHandler(d.Store, d.Runner)
	metricsHandler := NewMetricsHandler(d.Store, d.Scheduler, d.Hub)

	// WebSocket endpoint
	r.Get("/ws", d.Hub.HandleWebSocket)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", HealthHandler())

		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.Ingest)
			r.Post("/resolve", eventHandler.Resolve)
			r.Get("/", eventHandler.List)
			r.Get("/{id}", eventHandler.Get)
		})

		r.Route("/venues", func(r chi.Router) {
			r.Post("/", venueHandler.Create)
			r.Get("/", venueHandler.List)
			r.Get("/{id}", venueHandler.Get)
			r.Get("/{id}/provenance", venueHandler.Provenance)
		})

		r.Route("/sources", func(r chi.Router) {
			r.Post("/", sourceHandler.Register)
			r.Get("/", sourceHandler.List)
		})

		r.Route("/enrichment", func(r chi.Router) {
			r.Post("/batch", enrichmentHandler.RunBatch)
			r.Get("/log", enrichmentHandler.Log)
		})

		r.Get("/metrics", metricsHandler.Metrics)
	})

	return r
}

// corsMiddleware adds CORS headers for dashboard development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
