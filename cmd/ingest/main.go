// Command ingest is the Scoracle Games ingestion CLI.
//
// Usage:
//
//	scoracle-games-ingest discover --sport DARTS
//	scoracle-games-ingest games --sport FOOTBALL --league 39 --date 2026-08-29
//	scoracle-games-ingest sweep --date 2026-08-29 --days 3 --major --workers 2
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-games/internal/config"
	"github.com/albapepper/scoracle-games/internal/db"
	"github.com/albapepper/scoracle-games/internal/provider"
	"github.com/albapepper/scoracle-games/internal/registry"
	"github.com/albapepper/scoracle-games/internal/store"
	"github.com/albapepper/scoracle-games/internal/sweep"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "scoracle-games-ingest",
		Short: "Scoracle Games ingestion CLI",
	}

	root.AddCommand(discoverCmd())
	root.AddCommand(gamesCmd())
	root.AddCommand(sweepCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// discover command
// --------------------------------------------------------------------------

func discoverCmd() *cobra.Command {
	var sport string
	var season int
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover leagues/tournaments for a sport",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, reg *registry.Registry, pool *db.Pool) error {
				source, err := reg.Resolve(sport)
				if err != nil {
					return err
				}
				if season == 0 {
					season = config.SportRegistry[sport].CurrentSeason
				}

				start := time.Now()
				leagues, err := source.FetchLeagues(ctx, sport, season)
				if err != nil {
					return fmt.Errorf("discover leagues: %w", err)
				}
				for _, lg := range leagues {
					logger.Info("League",
						"id", lg.ID, "name", lg.Name, "type", lg.Type,
						"country", lg.Country, "season", lg.Season)
				}
				logger.Info("Discovery finished",
					"sport", sport, "provider", source.Name(),
					"count", len(leagues), "duration", time.Since(start).Round(time.Second))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sport, "sport", "", "Sport ID (FOOTBALL, DARTS, GOLF, ...)")
	cmd.Flags().IntVar(&season, "season", 0, "Season year (default: current)")
	_ = cmd.MarkFlagRequired("sport")
	return cmd
}

// --------------------------------------------------------------------------
// games command
// --------------------------------------------------------------------------

func gamesCmd() *cobra.Command {
	var sport, leagueID, date string
	var season int
	var save bool
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Fetch games for one league and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, reg *registry.Registry, pool *db.Pool) error {
				source, err := reg.Resolve(sport)
				if err != nil {
					return err
				}
				if season == 0 {
					season = config.SportRegistry[sport].CurrentSeason
				}
				if date == "" {
					date = time.Now().Format("2006-01-02")
				}

				league := provider.League{
					ID:       leagueID,
					Season:   season,
					Sport:    sport,
					Provider: source.Name(),
				}

				start := time.Now()
				games, err := source.FetchGames(ctx, sport, league, date)
				if err != nil {
					return fmt.Errorf("fetch games: %w", err)
				}

				saved := 0
				for _, g := range games {
					logger.Info("Game",
						"id", g.APIGameID, "home", g.HomeTeam, "away", g.AwayTeam,
						"status", g.Status, "start", g.StartTime)
					if save {
						if err := store.SaveGame(ctx, pool.Pool, g); err != nil {
							logger.Error("save error", "error", err)
							continue
						}
						saved++
					}
				}
				logger.Info("Games fetch finished",
					"sport", sport, "league", leagueID, "date", date,
					"fetched", len(games), "saved", saved,
					"duration", time.Since(start).Round(time.Second))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sport, "sport", "", "Sport ID")
	cmd.Flags().StringVar(&leagueID, "league", "", "Provider league/tournament ID")
	cmd.Flags().StringVar(&date, "date", "", "Date YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&season, "season", 0, "Season year (default: current)")
	cmd.Flags().BoolVar(&save, "save", true, "Upsert fetched games into storage")
	_ = cmd.MarkFlagRequired("sport")
	_ = cmd.MarkFlagRequired("league")
	return cmd
}

// --------------------------------------------------------------------------
// sweep command
// --------------------------------------------------------------------------

func sweepCmd() *cobra.Command {
	var (
		date    string
		days    int
		sport   string
		major   bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Discover and fetch games for all configured sports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, cfg *config.Config, reg *registry.Registry, pool *db.Pool) error {
				opts := sweep.Options{
					Date:      date,
					Days:      days,
					MajorOnly: major,
					Workers:   workers,
					Pause:     cfg.SweepPause,
				}
				if sport != "" {
					opts.Sports = []string{sport}
				}

				start := time.Now()
				result := sweep.Run(ctx, pool.Pool, reg, opts, logger)
				logger.Info("Sweep finished",
					"duration", time.Since(start).Round(time.Second),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("sweep error", "error", e)
				}
				if result.GamesSaved > 0 {
					if err := store.RefreshMaterializedViews(ctx, pool.Pool, logger); err != nil {
						logger.Warn("View refresh failed", "error", err)
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "First date YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&days, "days", 1, "Consecutive days to fetch")
	cmd.Flags().StringVar(&sport, "sport", "", "Limit to one sport (empty = all)")
	cmd.Flags().BoolVar(&major, "major", false, "Keep only major leagues")
	cmd.Flags().IntVar(&workers, "workers", 2, "Concurrent sport workers")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading, registry construction, DB connection, and
// context cancellation.
func run(fn func(ctx context.Context, cfg *config.Config, reg *registry.Registry, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	reg := registry.New(cfg, logger)

	return fn(ctx, cfg, reg, pool)
}
