// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-games/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool. Pool sizing bounds how
// many concurrent upserts a sweep can hold open; acquisition waits instead
// of exhausting connections.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API and sweep
// layers use. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// API: games for a sport on a date
		"games_by_sport_date": `
			SELECT api_game_id, sport, league_id, league_name, season,
			       home_team_name, away_team_name, start_time, end_time,
			       status, score_home, score_away, venue, provider
			FROM ` + config.GamesTable + `
			WHERE sport = $1 AND start_time::date = $2::date
			ORDER BY start_time NULLS LAST, api_game_id`,

		// API: distinct stored leagues with game counts
		"leagues_list": `
			SELECT sport, league_id, MAX(league_name), season, provider, COUNT(*)
			FROM ` + config.GamesTable + `
			WHERE ($1::text IS NULL OR sport = $1)
			GROUP BY sport, league_id, season, provider
			ORDER BY sport, league_id`,

		// API: per-sport totals for the root/status endpoints
		"games_count_by_sport": `
			SELECT sport, COUNT(*) FROM ` + config.GamesTable + ` GROUP BY sport`,

		// Sweep bookkeeping: last successful fetch per sport
		"last_fetched_by_sport": `
			SELECT sport, MAX(fetched_at) FROM ` + config.GamesTable + ` GROUP BY sport`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
