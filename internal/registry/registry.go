// Package registry is the static source of truth for "which provider serves
// sport X". It is built once at startup from config and never mutated.
//
// An unknown sport is a configuration error surfaced to the caller — there
// is deliberately no default-provider fallback. A provider whose API key is
// missing is registered as unavailable: its sports resolve to an error and
// are skipped by batch callers, never crashed on.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/albapepper/scoracle-games/internal/config"
	"github.com/albapepper/scoracle-games/internal/provider"
	"github.com/albapepper/scoracle-games/internal/provider/apisports"
	"github.com/albapepper/scoracle-games/internal/provider/golfapi"
	"github.com/albapepper/scoracle-games/internal/provider/sportdevs"
	"github.com/albapepper/scoracle-games/internal/ratelimit"
)

var (
	// ErrUnsupportedSport means no provider is configured for the sport.
	ErrUnsupportedSport = errors.New("unsupported sport")

	// ErrProviderUnavailable means the sport's provider has no API key.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// Registry resolves sports to provider sources.
type Registry struct {
	sources     map[string]provider.Source // sport -> source
	unavailable map[string]string          // sport -> provider name lacking a key
}

// New builds the registry from config. Each provider gets one handler and
// one sliding-window limiter shared by all of its sports.
func New(cfg *config.Config, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		sources:     make(map[string]provider.Source),
		unavailable: make(map[string]string),
	}

	if cfg.APISportsKey != "" {
		lim := ratelimit.New(cfg.APISportsCallsPerMin)
		r.register(apisports.NewHandler(cfg.APISportsKey, lim, cfg.HTTPTimeout, logger))
	} else {
		r.markUnavailable(provider.NameAPISports, "FOOTBALL", "BASKETBALL", "RUGBY")
		logger.Warn("APISPORTS_API_KEY not set; football/basketball/rugby disabled")
	}

	if cfg.SportDevsKey != "" {
		lim := ratelimit.New(cfg.SportDevsCallsPerMin)
		r.register(sportdevs.NewHandler(cfg.SportDevsKey, lim, cfg.HTTPTimeout, logger))
	} else {
		r.markUnavailable(provider.NameSportDevs, "DARTS", "TENNIS", "ESPORTS")
		logger.Warn("SPORTDEVS_API_KEY not set; darts/tennis/esports disabled")
	}

	if cfg.RapidAPIKey != "" {
		lim := ratelimit.New(cfg.GolfAPICallsPerMin)
		r.register(golfapi.NewHandler(cfg.RapidAPIKey, lim, cfg.HTTPTimeout, logger))
	} else {
		r.markUnavailable(provider.NameGolfAPI, "GOLF")
		logger.Warn("RAPIDAPI_KEY not set; golf disabled")
	}

	return r
}

// NewWithSources builds a registry from explicit sources. Used by tests and
// anywhere a fake provider stands in for a real upstream.
func NewWithSources(sources ...provider.Source) *Registry {
	r := &Registry{
		sources:     make(map[string]provider.Source),
		unavailable: make(map[string]string),
	}
	for _, s := range sources {
		r.register(s)
	}
	return r
}

func (r *Registry) register(s provider.Source) {
	for _, sport := range s.Sports() {
		r.sources[sport] = s
	}
}

func (r *Registry) markUnavailable(providerName string, sports ...string) {
	for _, sport := range sports {
		r.unavailable[sport] = providerName
	}
}

// Resolve returns the source serving a sport.
func (r *Registry) Resolve(sport string) (provider.Source, error) {
	if s, ok := r.sources[sport]; ok {
		return s, nil
	}
	if name, ok := r.unavailable[sport]; ok {
		return nil, fmt.Errorf("%w: %s needs an API key for %s", ErrProviderUnavailable, sport, name)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedSport, sport)
}

// Sports returns the resolvable sports in sorted order.
func (r *Registry) Sports() []string {
	sports := make([]string, 0, len(r.sources))
	for sport := range r.sources {
		sports = append(sports, sport)
	}
	sort.Strings(sports)
	return sports
}
