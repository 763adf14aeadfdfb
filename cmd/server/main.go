package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dStensland/LostCity-sub008/internal/api"
	"github.com/dStensland/LostCity-sub008/internal/config"
	"github.com/dStensland/LostCity-sub008/internal/dedup"
	"github.com/dStensland/LostCity-sub008/internal/domain"
	"github.com/dStensland/LostCity-sub008/internal/engine"
	"github.com/dStensland/LostCity-sub008/internal/enrich"
	"github.com/dStensland/LostCity-sub008/internal/merge"
	"github.com/dStensland/LostCity-sub008/internal/store"
	"github.com/dStensland/LostCity-sub008/internal/websocket"
	"github.com/dStensland/LostCity-sub008/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize PostgreSQL
	ctx := context.Background()
	pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()
	logger.Info("connected to PostgreSQL")

	// Run database migrations
	if err := pgStore.RunMigrations(ctx, "migrations"); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// Initialize Redis
	redisStore, err := store.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisStore.Close()
	logger.Info("connected to Redis")

	// WebSocket hub for the live enrichment feed
	hub := websocket.NewHub(logger)
	go hub.Run()

	// Enrichment registry
	registry := enrich.NewRegistry()
	if err := enrich.RegisterBuiltins(registry); err != nil {
		logger.Error("failed to register enrichments", "error", err)
		os.Exit(1)
	}

	// Dedup + merge core
	scorer := dedup.NewScorer()
	scorer.Cutoff = float64(cfg.FuzzyCutoff)
	resolver := dedup.NewResolver(pgStore, scorer, logger)
	merger := merge.NewEngine(domain.DefaultLadder(), merge.EventStrategies(), pgStore, logger)

	// Redis-backed coordination
	lock := engine.NewEntityLock(redisStore.Client(), logger)
	limiter := engine.NewRateLimiter(redisStore.Client(), logger)
	breaker := engine.NewCircuitBreaker(redisStore.Client(), logger)
	scheduler := engine.NewScheduler(redisStore, cfg.BatchMaxScore, logger)

	// Enrichment runner
	venueMerger := merge.NewEngine(domain.DefaultLadder(), merge.VenueStrategies(), pgStore, logger)
	runner := enrich.NewRunner(pgStore, pgStore, registry, venueMerger, logger).
		WithLocker(lock).
		WithBreaker(breaker).
		WithNotifier(hub)

	// Background workers drain the enrichment queue
	workerCtx, stopWorkers := context.WithCancel(ctx)
	pool := worker.NewPool(cfg.NumWorkers, runner, logger)
	pool.Start(workerCtx)

	dispatcher := worker.NewDispatcher(redisStore.Client(), pool, logger)
	go dispatcher.Start(workerCtx)

	// Setup router
	router := api.NewRouter(api.Deps{
		Store:     pgStore,
		Resolver:  resolver,
		Merger:    merger,
		Runner:    runner,
		Registry:  registry,
		Limiter:   limiter,
		Scheduler: scheduler,
		Hub:       hub,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// The dispatcher must have fully stopped before the pool's job channel
	// closes, otherwise an in-flight poll could submit into a closed channel.
	stopWorkers()
	dispatcher.Wait()
	pool.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
