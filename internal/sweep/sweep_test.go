package sweep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-games/internal/provider"
	"github.com/albapepper/scoracle-games/internal/registry"
)

// fakeSource drives sweeps without the network. leagueErr fails discovery;
// gameErrs fails fetches for specific league ids.
type fakeSource struct {
	name      string
	sports    []string
	leagues   []provider.League
	leagueErr error
	gameErrs  map[string]error
	perLeague int // games returned per successful fetch
}

func (f *fakeSource) Name() string     { return f.name }
func (f *fakeSource) Sports() []string { return f.sports }

func (f *fakeSource) FetchLeagues(_ context.Context, sport string, _ int) ([]provider.League, error) {
	if f.leagueErr != nil {
		return nil, f.leagueErr
	}
	return f.leagues, nil
}

func (f *fakeSource) FetchGames(_ context.Context, sport string, league provider.League, date string) ([]provider.Game, error) {
	if err, ok := f.gameErrs[league.ID]; ok {
		return nil, err
	}
	games := make([]provider.Game, f.perLeague)
	for i := range games {
		games[i] = provider.Game{
			APIGameID: fmt.Sprintf("%s-%s-%d", league.ID, date, i),
			Sport:     sport,
			LeagueID:  league.ID,
			Season:    league.Season,
			Provider:  f.name,
		}
	}
	return games, nil
}

// stubSave replaces the store upsert for the duration of the test and
// returns the slice of games it captured.
func stubSave(t *testing.T, fail func(provider.Game) error) *[]provider.Game {
	t.Helper()
	var saved []provider.Game
	orig := saveGame
	saveGame = func(_ context.Context, _ *pgxpool.Pool, g provider.Game) error {
		if fail != nil {
			if err := fail(g); err != nil {
				return err
			}
		}
		saved = append(saved, g)
		return nil
	}
	t.Cleanup(func() { saveGame = orig })
	return &saved
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func leagues(ids ...string) []provider.League {
	out := make([]provider.League, len(ids))
	for i, id := range ids {
		out[i] = provider.League{ID: id, Name: "League " + id, Season: 2025}
	}
	return out
}

func TestRunSweepsAllSports(t *testing.T) {
	saved := stubSave(t, nil)
	reg := registry.NewWithSources(
		&fakeSource{name: "a", sports: []string{"DARTS"}, leagues: leagues("1", "2"), perLeague: 2},
		&fakeSource{name: "b", sports: []string{"GOLF"}, leagues: leagues("9"), perLeague: 1},
	)

	result := Run(context.Background(), nil, reg, Options{Date: "2026-08-29", Workers: 2}, discard())

	assert.Equal(t, 2, result.SportsProcessed)
	assert.Equal(t, 0, result.SportsSkipped)
	assert.Equal(t, 3, result.LeaguesDiscovered)
	assert.Equal(t, 3, result.LeaguesFetched)
	assert.Equal(t, 5, result.GamesFetched)
	assert.Equal(t, 5, result.GamesSaved)
	assert.Len(t, *saved, 5)
	assert.Empty(t, result.Errors)
}

// One sport failing discovery must not stop the others.
func TestRunToleratesDiscoveryFailure(t *testing.T) {
	saved := stubSave(t, nil)
	reg := registry.NewWithSources(
		&fakeSource{name: "a", sports: []string{"DARTS"}, leagueErr: fmt.Errorf("upstream down")},
		&fakeSource{name: "b", sports: []string{"GOLF"}, leagues: leagues("9"), perLeague: 1},
	)

	result := Run(context.Background(), nil, reg, Options{Date: "2026-08-29"}, discard())

	assert.Equal(t, 1, result.SportsProcessed)
	assert.Equal(t, 1, result.SportsSkipped)
	assert.Equal(t, 1, result.GamesSaved)
	assert.Len(t, *saved, 1)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "upstream down")
}

// One league failing its fetch must not stop the remaining leagues.
func TestRunToleratesLeagueFetchFailure(t *testing.T) {
	stubSave(t, nil)
	reg := registry.NewWithSources(&fakeSource{
		name:      "a",
		sports:    []string{"DARTS"},
		leagues:   leagues("1", "2", "3"),
		perLeague: 1,
		gameErrs:  map[string]error{"2": fmt.Errorf("boom")},
	})

	result := Run(context.Background(), nil, reg, Options{Date: "2026-08-29"}, discard())

	assert.Equal(t, 1, result.SportsProcessed)
	assert.Equal(t, 3, result.LeaguesDiscovered)
	assert.Equal(t, 2, result.LeaguesFetched)
	assert.Equal(t, 2, result.GamesSaved)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "league 2")
}

func TestRunCountsSaveFailures(t *testing.T) {
	saved := stubSave(t, func(g provider.Game) error {
		if g.LeagueID == "1" {
			return fmt.Errorf("constraint violation")
		}
		return nil
	})
	reg := registry.NewWithSources(&fakeSource{
		name: "a", sports: []string{"DARTS"}, leagues: leagues("1", "2"), perLeague: 2,
	})

	result := Run(context.Background(), nil, reg, Options{Date: "2026-08-29"}, discard())

	assert.Equal(t, 4, result.GamesFetched)
	assert.Equal(t, 2, result.GamesSaved)
	assert.Equal(t, 2, result.SaveFailures)
	assert.Len(t, *saved, 2)
}

func TestRunMultiDayFetchesEachDate(t *testing.T) {
	saved := stubSave(t, nil)
	reg := registry.NewWithSources(&fakeSource{
		name: "a", sports: []string{"DARTS"}, leagues: leagues("1"), perLeague: 1,
	})

	result := Run(context.Background(), nil, reg, Options{Date: "2026-08-29", Days: 3}, discard())

	assert.Equal(t, 3, result.GamesSaved)
	require.Len(t, *saved, 3)
	assert.Equal(t, "1-2026-08-29-0", (*saved)[0].APIGameID)
	assert.Equal(t, "1-2026-08-31-0", (*saved)[2].APIGameID)
}

func TestRunMajorOnlyFiltersLeagues(t *testing.T) {
	stubSave(t, nil)
	reg := registry.NewWithSources(&fakeSource{
		name:   "a",
		sports: []string{"DARTS"},
		leagues: []provider.League{
			{ID: "1", Name: "PDC World Championship", Season: 2025},
			{ID: "2", Name: "Regional Qualifier", Season: 2025},
		},
		perLeague: 1,
	})

	result := Run(context.Background(), nil, reg, Options{Date: "2026-08-29", MajorOnly: true}, discard())

	assert.Equal(t, 2, result.LeaguesDiscovered)
	assert.Equal(t, 1, result.LeaguesFetched)
	assert.Equal(t, 1, result.GamesSaved)
}

// A malformed date must fail the run outright with a recorded error, not
// proceed against zero-time dates. Bad dates arrive from the CLI flag and
// from raw pg_notify payloads.
func TestRunRejectsMalformedDate(t *testing.T) {
	saved := stubSave(t, nil)
	src := &fakeSource{name: "a", sports: []string{"DARTS"}, leagues: leagues("1"), perLeague: 1}
	reg := registry.NewWithSources(src)

	result := Run(context.Background(), nil, reg, Options{Date: "29/08/2026", Days: 2}, discard())

	assert.Equal(t, 0, result.SportsProcessed)
	assert.Equal(t, 0, result.GamesFetched)
	assert.Empty(t, *saved)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "29/08/2026")
}

func TestRunSkipsUnknownRequestedSport(t *testing.T) {
	stubSave(t, nil)
	reg := registry.NewWithSources(&fakeSource{
		name: "a", sports: []string{"DARTS"}, leagues: leagues("1"), perLeague: 1,
	})

	result := Run(context.Background(), nil, reg, Options{Date: "2026-08-29", Sports: []string{"CURLING", "DARTS"}}, discard())

	assert.Equal(t, 1, result.SportsSkipped)
	assert.Equal(t, 1, result.SportsProcessed)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "CURLING")
}

func TestIsMajorLeague(t *testing.T) {
	assert.True(t, IsMajorLeague("English Premier League"))
	assert.True(t, IsMajorLeague("UEFA CHAMPIONS LEAGUE"))
	assert.True(t, IsMajorLeague("PGA Tour"))
	assert.False(t, IsMajorLeague("County Cup Division Two"))
	assert.False(t, IsMajorLeague(""))
}
