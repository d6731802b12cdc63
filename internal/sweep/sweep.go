package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-games/internal/config"
	"github.com/albapepper/scoracle-games/internal/registry"
	"github.com/albapepper/scoracle-games/internal/store"
)

// saveGame is stubbed in tests; sweeps always persist through the store.
var saveGame = store.SaveGame

// Options controls one sweep run.
type Options struct {
	Date      string   // first date to fetch, ISO "2006-01-02"; empty = today
	Days      int      // how many consecutive days including Date; min 1
	Sports    []string // sports to sweep; empty = all resolvable
	MajorOnly bool     // keep only allow-listed league names
	Workers   int      // concurrent sport workers
	Pause     time.Duration // pacing sleep between leagues and days
}

// normalize fills defaults and validates the date. A malformed date fails
// the whole run: requests arrive from the CLI and from raw pg_notify
// payloads, and sweeping zero-time dates would silently fetch nothing real.
func (o *Options) normalize() (time.Time, error) {
	if o.Date == "" {
		o.Date = time.Now().Format("2006-01-02")
	}
	firstDay, err := time.Parse("2006-01-02", o.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid sweep date %q: must be YYYY-MM-DD", o.Date)
	}
	if o.Days < 1 {
		o.Days = 1
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return firstDay, nil
}

// Run sweeps every requested sport: discover leagues, fetch games for each
// league across the date range, upsert every game. Sports run on a worker
// pool; persistence is an idempotent upsert, so no cross-sport ordering is
// needed. Partial failure is the norm — everything is counted, logged, and
// carried in the Result, never propagated.
func Run(ctx context.Context, pool *pgxpool.Pool, reg *registry.Registry, opts Options, logger *slog.Logger) Result {
	start := time.Now()

	var result Result
	firstDay, err := opts.normalize()
	if err != nil {
		result.AddErrorf("%v", err)
		logger.Error("Sweep rejected", "error", err)
		result.Duration = time.Since(start)
		return result
	}

	sports := opts.Sports
	if len(sports) == 0 {
		sports = reg.Sports()
	}

	if len(sports) == 0 {
		logger.Info("No sports available to sweep")
		result.Duration = time.Since(start)
		return result
	}

	workers := opts.Workers
	if workers > len(sports) {
		workers = len(sports)
	}

	ch := make(chan string, len(sports))
	for _, sport := range sports {
		ch <- sport
	}
	close(ch)

	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sport := range ch {
				r := sweepSport(ctx, pool, reg, sport, opts, firstDay, logger)
				mu.Lock()
				result.Add(r)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	result.Duration = time.Since(start)

	logger.Info("Sweep complete", "summary", result.Summary())
	return result
}

// sweepSport handles one sport end to end: discovery, league filtering, and
// per-league per-day fetches.
func sweepSport(ctx context.Context, pool *pgxpool.Pool, reg *registry.Registry, sport string, opts Options, firstDay time.Time, logger *slog.Logger) Result {
	var result Result

	source, err := reg.Resolve(sport)
	if err != nil {
		result.SportsSkipped++
		if errors.Is(err, registry.ErrProviderUnavailable) {
			logger.Info("Skipping sport, provider unavailable", "sport", sport)
		} else {
			result.AddErrorf("resolve %s: %v", sport, err)
			logger.Warn("Skipping sport", "sport", sport, "error", err)
		}
		return result
	}

	season := config.SportRegistry[sport].CurrentSeason

	leagues, err := source.FetchLeagues(ctx, sport, season)
	if err != nil {
		// Discovery failures are non-fatal: the sport contributes nothing
		// this cycle.
		result.SportsSkipped++
		result.AddErrorf("discover %s leagues: %v", sport, err)
		logger.Warn("League discovery failed", "sport", sport, "provider", source.Name(), "error", err)
		return result
	}

	result.SportsProcessed++
	result.LeaguesDiscovered += len(leagues)

	if opts.MajorOnly {
		kept := leagues[:0]
		for _, lg := range leagues {
			if IsMajorLeague(lg.Name) {
				kept = append(kept, lg)
			}
		}
		leagues = kept
	}

	logger.Info("Sweeping sport",
		"sport", sport, "provider", source.Name(),
		"leagues", len(leagues), "date", opts.Date, "days", opts.Days)

	for _, league := range leagues {
		if ctx.Err() != nil {
			result.AddErrorf("sweep %s cancelled", sport)
			return result
		}

		fetchedAny := false
		for d := 0; d < opts.Days; d++ {
			date := firstDay.AddDate(0, 0, d).Format("2006-01-02")

			games, err := source.FetchGames(ctx, sport, league, date)
			if err != nil {
				result.AddErrorf("fetch %s league %s date %s: %v", sport, league.ID, date, err)
				logger.Warn("Game fetch failed",
					"sport", sport, "league", league.ID, "date", date, "error", err)
				continue
			}
			fetchedAny = true
			result.GamesFetched += len(games)

			for _, g := range games {
				if err := saveGame(ctx, pool, g); err != nil {
					result.SaveFailures++
					result.AddErrorf("save game: %v", err)
					logger.Warn("Game save failed",
						"sport", sport, "league", league.ID, "game", g.APIGameID, "error", err)
					continue
				}
				result.GamesSaved++
			}

			// Orchestration-level pacing on top of the provider limiter.
			pause(ctx, opts.Pause)
		}
		if fetchedAny {
			result.LeaguesFetched++
		}
	}

	return result
}

func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
