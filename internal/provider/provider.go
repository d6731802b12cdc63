package provider

import "context"

// Provider name tags carried on every canonical record.
const (
	NameAPISports = "apisports"
	NameSportDevs = "sportdevs"
	NameGolfAPI   = "golfapi"
)

// Source is the polymorphic provider interface. One implementation per
// upstream; the registry resolves a sport to its Source once, so call sites
// never branch on provider names.
type Source interface {
	// Name returns the provider tag (NameAPISports etc.).
	Name() string

	// Sports returns the sport IDs this source can serve.
	Sports() []string

	// FetchLeagues discovers leagues/tournaments for a sport and season.
	// Network and decode failures surface as errors; callers treat them as
	// non-fatal (a sport with no discoverable leagues contributes nothing
	// this cycle).
	FetchLeagues(ctx context.Context, sport string, season int) ([]League, error)

	// FetchGames fetches and normalizes games for one league on one date
	// (ISO "2006-01-02"). A malformed individual game is logged and
	// skipped — it never discards the rest of the batch.
	FetchGames(ctx context.Context, sport string, league League, date string) ([]Game, error)
}
