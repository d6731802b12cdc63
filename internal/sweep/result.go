// Package sweep orchestrates batch discovery and fetching across every
// configured sport, persisting each normalized game. One league failing
// never stops the sweep over the remaining leagues.
package sweep

import (
	"fmt"
	"time"
)

// Result tracks counts and errors from one sweep run.
type Result struct {
	SportsProcessed   int
	SportsSkipped     int
	LeaguesDiscovered int
	LeaguesFetched    int
	GamesFetched      int
	GamesSaved        int
	SaveFailures      int
	Duration          time.Duration
	Errors            []string
}

// Add merges another Result into this one.
func (r *Result) Add(other Result) {
	r.SportsProcessed += other.SportsProcessed
	r.SportsSkipped += other.SportsSkipped
	r.LeaguesDiscovered += other.LeaguesDiscovered
	r.LeaguesFetched += other.LeaguesFetched
	r.GamesFetched += other.GamesFetched
	r.GamesSaved += other.GamesSaved
	r.SaveFailures += other.SaveFailures
	r.Errors = append(r.Errors, other.Errors...)
}

// AddErrorf records a formatted error message.
func (r *Result) AddErrorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Summary returns a human-readable summary of the sweep.
func (r *Result) Summary() string {
	return fmt.Sprintf(
		"sports=%d skipped=%d leagues=%d/%d games_fetched=%d saved=%d save_failures=%d errors=%d dur=%s",
		r.SportsProcessed, r.SportsSkipped, r.LeaguesFetched, r.LeaguesDiscovered,
		r.GamesFetched, r.GamesSaved, r.SaveFailures, len(r.Errors),
		r.Duration.Round(time.Second))
}
