package golfapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-games/internal/provider"
	"github.com/albapepper/scoracle-games/internal/ratelimit"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler("rapid-key", ratelimit.New(1000), 5*time.Second, nil)
}

func serveFixture(t *testing.T, fn http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(fn)
	t.Cleanup(srv.Close)

	orig := baseURL
	baseURL = srv.URL
	t.Cleanup(func() { baseURL = orig })
}

const toursPayload = `{
	"tours": [
		{"tourId": 1, "name": "PGA Tour", "country": "USA", "season": 2025},
		{"tourId": 2, "name": "European Tour", "country": "EUR", "season": 2025},
		{"tourId": 0, "name": "Broken"}
	]
}`

const schedulePayload = `{
	"schedule": [
		{"tournId": "033", "name": "The Open Championship", "status": "Official",
		 "course": "Royal Portrush",
		 "date": {"start": "2026-08-27T00:00:00Z", "end": "2026-08-30T00:00:00Z"}},
		{"tournId": "014", "name": "BMW Championship", "status": "Scheduled",
		 "course": "Wentworth",
		 "date": {"start": "2026-09-10T00:00:00Z", "end": "2026-09-13T00:00:00Z"}},
		{"tournId": "", "name": "No id"},
		{"tournId": "099", "name": "Broken dates",
		 "date": {"start": "not a date", "end": "also bad"}}
	]
}`

func TestFetchLeaguesSendsRapidAPIHeaders(t *testing.T) {
	serveFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "rapid-key", r.Header.Get("x-rapidapi-key"))
		assert.Equal(t, apiHost, r.Header.Get("x-rapidapi-host"))
		assert.Equal(t, "/tours", r.URL.Path)
		assert.Equal(t, "2025", r.URL.Query().Get("year"))
		w.Write([]byte(toursPayload))
	})

	leagues, err := testHandler(t).FetchLeagues(context.Background(), "GOLF", 2025)
	require.NoError(t, err)
	require.Len(t, leagues, 2)

	assert.Equal(t, "1", leagues[0].ID)
	assert.Equal(t, "PGA Tour", leagues[0].Name)
	assert.Equal(t, "tour", leagues[0].Type)
	assert.Equal(t, provider.NameGolfAPI, leagues[0].Provider)
}

func TestFetchLeaguesRejectsOtherSports(t *testing.T) {
	_, err := testHandler(t).FetchLeagues(context.Background(), "DARTS", 2025)
	require.Error(t, err)
}

// The schedule endpoint only filters by season, so events outside the
// requested day are dropped client-side. Events with no id or broken dates
// are skipped without failing the fetch.
func TestFetchGamesFiltersByDate(t *testing.T) {
	serveFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("tourId"))
		assert.Equal(t, "2025", r.URL.Query().Get("year"))
		w.Write([]byte(schedulePayload))
	})

	league := provider.League{ID: "1", Name: "PGA Tour", Season: 2025, Sport: "GOLF"}
	games, err := testHandler(t).FetchGames(context.Background(), "GOLF", league, "2026-08-28")
	require.NoError(t, err)
	require.Len(t, games, 1)

	g := games[0]
	assert.Equal(t, "033", g.APIGameID)
	assert.Equal(t, "GOLF", g.Sport)
	assert.Equal(t, "1", g.LeagueID)
	// No home/away in golf, the event name stands in and there is no score.
	assert.Equal(t, "The Open Championship", g.HomeTeam)
	assert.Empty(t, g.AwayTeam)
	assert.Nil(t, g.Score)
	assert.Equal(t, "Royal Portrush", g.Venue)
	require.NotNil(t, g.StartTime)
	require.NotNil(t, g.EndTime)
}

// The first and last day of an event's range must both match the event,
// regardless of the host timezone: the date comparison runs entirely in UTC.
func TestFetchGamesIncludesBoundaryDays(t *testing.T) {
	serveFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(schedulePayload))
	})

	league := provider.League{ID: "1", Name: "PGA Tour", Season: 2025, Sport: "GOLF"}
	h := testHandler(t)

	for _, day := range []string{"2026-08-27", "2026-08-30"} {
		games, err := h.FetchGames(context.Background(), "GOLF", league, day)
		require.NoError(t, err)
		require.Len(t, games, 1, "day %s", day)
		assert.Equal(t, "033", games[0].APIGameID)
	}

	// One day past the range is out.
	games, err := h.FetchGames(context.Background(), "GOLF", league, "2026-08-31")
	require.NoError(t, err)
	assert.Empty(t, games)
}

func TestFetchGamesInvalidDate(t *testing.T) {
	league := provider.League{ID: "1", Name: "PGA Tour", Season: 2025, Sport: "GOLF"}
	_, err := testHandler(t).FetchGames(context.Background(), "GOLF", league, "28-08-2026")
	require.Error(t, err)
}
