package listener

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/scoracle-games/internal/provider"
	"github.com/albapepper/scoracle-games/internal/registry"
)

// countingSource records discovery calls and returns nothing, so handled
// requests are observable without touching storage.
type countingSource struct {
	calls atomic.Int32
}

func (s *countingSource) Name() string     { return "counting" }
func (s *countingSource) Sports() []string { return []string{"DARTS"} }

func (s *countingSource) FetchLeagues(context.Context, string, int) ([]provider.League, error) {
	s.calls.Add(1)
	return nil, nil
}

func (s *countingSource) FetchGames(context.Context, string, provider.League, string) ([]provider.Game, error) {
	return nil, nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseSweepRequestPayload(t *testing.T) {
	var req SweepRequest
	payload := `{"sport": "DARTS", "date": "2026-08-29", "days": 2, "major_only": true}`
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	assert.Equal(t, "DARTS", req.Sport)
	assert.Equal(t, 2, req.Days)
	assert.True(t, req.MajorOnly)
}

// A request arriving while another requested sweep runs must be dropped, not
// fanned out into an overlapping sweep.
func TestConcurrentRequestIsSkipped(t *testing.T) {
	src := &countingSource{}
	reg := registry.NewWithSources(src)
	req := SweepRequest{Sport: "DARTS", Date: "2026-08-29"}

	sweepRunning.Store(true)
	t.Cleanup(func() { sweepRunning.Store(false) })

	handleRequest(context.Background(), nil, reg, req, discard())
	assert.Equal(t, int32(0), src.calls.Load())

	sweepRunning.Store(false)
	handleRequest(context.Background(), nil, reg, req, discard())
	assert.Equal(t, int32(1), src.calls.Load())
	assert.False(t, sweepRunning.Load(), "guard must release after the sweep finishes")
}
