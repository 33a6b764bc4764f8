// Package main is the entrypoint for the GameSmith API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/kiranshivaraju/gamesmith/internal/api"
	"github.com/kiranshivaraju/gamesmith/internal/api/handler"
	mw "github.com/kiranshivaraju/gamesmith/internal/api/middleware"
	"github.com/kiranshivaraju/gamesmith/internal/api/response"
	"github.com/kiranshivaraju/gamesmith/internal/cache"
	"github.com/kiranshivaraju/gamesmith/internal/config"
	"github.com/kiranshivaraju/gamesmith/internal/image"
	"github.com/kiranshivaraju/gamesmith/internal/queue"
	"github.com/kiranshivaraju/gamesmith/internal/store"
	"github.com/kiranshivaraju/gamesmith/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "image_provider", cfg.Image.Provider, "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create image provider
	provider, err := image.NewProvider(cfg.Image)
	if err != nil {
		return fmt.Errorf("create image provider: %w", err)
	}
	slog.Info("image provider initialized", "provider", provider.Name())

	// 6. Create store, task queue, and workers
	pgStore := store.NewPostgresStore(pool)
	taskQueue := queue.New(pgStore, redisCache)
	generator := worker.NewGenerator(taskQueue, provider, cfg.Image.GenerationTimeout)
	matchmaker := worker.NewMatchmaker(taskQueue, pgStore, cfg.Matchmaker.Interval)
	poller := queue.NewPoller(taskQueue, cfg.Poll.Interval, cfg.Poll.Timeout)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		matchmaker.Run(ctx)
	}()

	// 7. Build router with dependencies
	deps := api.Dependencies{
		RateLimit: mw.NewRateLimit(redisCache, 60),

		HealthHandler:       healthHandler(pgStore, redisCache),
		GenerateHandler:     handler.NewGenerateHandler(generator),
		MatchHandler:        handler.NewMatchHandler(taskQueue),
		MatchSessionHandler: handler.NewMatchSessionHandler(poller),
		GetTaskHandler:      handler.NewGetTaskHandler(taskQueue),
		ListTasksHandler:    handler.NewListTasksHandler(taskQueue),
	}

	router := api.NewRouter(deps)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout: 15 * time.Second,
		// The match-session long poll holds the connection up to the wait
		// ceiling; the write timeout must outlive it.
		WriteTimeout: cfg.Poll.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	wg.Wait()
	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and cache connectivity.
func healthHandler(s store.Store, c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"cache":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := c.Ping(r.Context()); err != nil {
			checks["cache"] = "degraded"
		}

		degraded := checks["database"] != "ok" || checks["cache"] != "ok"
		if degraded {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
