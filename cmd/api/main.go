// Command api is the Scoracle Games API server.
//
// Serves stored canonical games over HTTP and, when enabled, runs the
// periodic provider sweep and the on-demand sweep listener in-process.
//
// Usage:
//
//	scoracle-games-api
//	API_PORT=8080 SWEEP_ENABLED=true scoracle-games-api
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/scoracle-games/internal/api"
	"github.com/albapepper/scoracle-games/internal/cache"
	"github.com/albapepper/scoracle-games/internal/config"
	"github.com/albapepper/scoracle-games/internal/db"
	"github.com/albapepper/scoracle-games/internal/listener"
	"github.com/albapepper/scoracle-games/internal/registry"
	"github.com/albapepper/scoracle-games/internal/sweep"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Provider registry — providers without keys register as unavailable
	reg := registry.New(cfg, logger)
	logger.Info("Provider registry built", "sports", reg.Sports())

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Periodic sweep worker
	if cfg.SweepEnabled {
		go sweep.StartWorker(ctx, pool.Pool, reg, cfg, logger)
		logger.Info("Sweep worker enabled", "interval", cfg.SweepInterval)
	} else {
		logger.Info("Sweep worker disabled (SWEEP_ENABLED=false)")
	}

	// On-demand sweep listener (LISTEN/NOTIFY)
	go listener.Start(ctx, cfg.DatabaseURL, pool.Pool, reg, logger)

	// HTTP server
	router := api.NewRouter(pool.Pool, appCache, cfg, reg)
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API server listening", "addr", addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
