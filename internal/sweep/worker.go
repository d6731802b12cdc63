package sweep

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-games/internal/config"
	"github.com/albapepper/scoracle-games/internal/registry"
	"github.com/albapepper/scoracle-games/internal/store"
)

// StartWorker runs periodic sweeps as a Go ticker. All scheduled work is
// driven from Go since the API server is already a persistent process.
// Blocks until ctx is cancelled. Intended to be called with `go`.
func StartWorker(ctx context.Context, pool *pgxpool.Pool, reg *registry.Registry, cfg *config.Config, logger *slog.Logger) {
	logger.Info("Sweep worker started",
		"interval", cfg.SweepInterval,
		"days", cfg.SweepDays,
		"major_only", cfg.SweepMajor)

	ticker := time.NewTicker(cfg.SweepInterval)
	defer ticker.Stop()

	// First sweep runs immediately; waiting a full interval after boot
	// would leave storage empty for hours.
	runOnce(ctx, pool, reg, cfg, logger)

	for {
		select {
		case <-ticker.C:
			runOnce(ctx, pool, reg, cfg, logger)
		case <-ctx.Done():
			logger.Info("Sweep worker stopped")
			return
		}
	}
}

func runOnce(ctx context.Context, pool *pgxpool.Pool, reg *registry.Registry, cfg *config.Config, logger *slog.Logger) {
	result := Run(ctx, pool, reg, Options{
		Days:      cfg.SweepDays,
		MajorOnly: cfg.SweepMajor,
		Workers:   cfg.SweepWorkers,
		Pause:     cfg.SweepPause,
	}, logger)

	for _, e := range result.Errors {
		logger.Error("sweep error", "error", e)
	}

	// Post-sweep hook: refresh read-side views (fire-and-warn).
	if result.GamesSaved > 0 {
		if err := store.RefreshMaterializedViews(ctx, pool, logger); err != nil {
			logger.Warn("Post-sweep view refresh failed", "error", err)
		}
	}
}
