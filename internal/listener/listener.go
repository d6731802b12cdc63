// Package listener provides a Postgres LISTEN/NOTIFY consumer for on-demand
// sweep requests. It holds a dedicated pgx connection (not from the pool)
// listening on the `sweep_requested` channel.
//
// Anything with database access (an admin console, a cron job, another
// service) can pg_notify a request to re-fetch one sport or date without
// waiting for the next scheduled sweep.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-games/internal/registry"
	"github.com/albapepper/scoracle-games/internal/sweep"
)

const (
	channel          = "sweep_requested"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// SweepRequest is the JSON payload from pg_notify('sweep_requested', ...).
// Zero values fall back to sweep defaults: empty Sport means all sports,
// empty Date means today, Days < 1 means one day.
type SweepRequest struct {
	Sport     string `json:"sport"`
	Date      string `json:"date"`
	Days      int    `json:"days"`
	MajorOnly bool   `json:"major_only"`
}

// Start opens a dedicated connection and listens on the sweep_requested
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, pool *pgxpool.Pool, reg *registry.Registry, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, pool, reg, logger)
		if ctx.Err() != nil {
			logger.Info("Sweep listener stopped (context cancelled)")
			return
		}

		logger.Error("Sweep listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, pool *pgxpool.Pool, reg *registry.Registry, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Sweep listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var req SweepRequest
		if err := json.Unmarshal([]byte(notification.Payload), &req); err != nil {
			logger.Warn("Failed to parse sweep request",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Info("Sweep request received",
			"sport", req.Sport, "date", req.Date, "days", req.Days)

		// Run asynchronously to avoid blocking the listener connection.
		go handleRequest(ctx, pool, reg, req, logger)
	}
}

// sweepRunning admits one requested sweep at a time. A burst of pg_notify
// calls must not fan out into overlapping full sweeps against the same
// provider quotas; requests arriving mid-sweep are dropped with a log line
// and the next notification can re-request them.
var sweepRunning atomic.Bool

func handleRequest(ctx context.Context, pool *pgxpool.Pool, reg *registry.Registry, req SweepRequest, logger *slog.Logger) {
	if !sweepRunning.CompareAndSwap(false, true) {
		logger.Info("Sweep request skipped, another requested sweep is running",
			"sport", req.Sport, "date", req.Date)
		return
	}
	defer sweepRunning.Store(false)

	opts := sweep.Options{
		Date:      req.Date,
		Days:      req.Days,
		MajorOnly: req.MajorOnly,
		Workers:   1,
	}
	if req.Sport != "" {
		opts.Sports = []string{req.Sport}
	}

	result := sweep.Run(ctx, pool, reg, opts, logger)
	logger.Info("Requested sweep finished", "summary", result.Summary())
}
