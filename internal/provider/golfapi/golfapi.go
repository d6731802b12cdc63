// Package golfapi normalizes data from the Live Golf Data API on RapidAPI.
//
// Auth is the RapidAPI two-header scheme (x-rapidapi-key + x-rapidapi-host).
// Tours map to leagues and scheduled tournaments map to games. Golf has no
// head-to-head score, so Score is always nil; the date filter is applied
// client-side against each event's start/end range because the schedule
// endpoint only filters by season.
package golfapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/albapepper/scoracle-games/internal/provider"
	"github.com/albapepper/scoracle-games/internal/ratelimit"
)

const apiHost = "live-golf-data.p.rapidapi.com"

var baseURL = "https://live-golf-data.p.rapidapi.com"

// Handler fetches and normalizes golf data.
type Handler struct {
	client *provider.Client
	apiKey string
	logger *slog.Logger
}

// NewHandler creates a golf handler. RapidAPI basic plans carry very small
// quotas, so the configured limit should stay conservative.
func NewHandler(apiKey string, limiter *ratelimit.Limiter, timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client: provider.NewClient(provider.NameGolfAPI, limiter, timeout),
		apiKey: apiKey,
		logger: logger,
	}
}

func (h *Handler) Name() string { return provider.NameGolfAPI }

func (h *Handler) Sports() []string { return []string{"GOLF"} }

func (h *Handler) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	headers := map[string]string{
		"x-rapidapi-key":  h.apiKey,
		"x-rapidapi-host": apiHost,
	}
	return h.client.Get(ctx, u, headers)
}

// --------------------------------------------------------------------------
// Tours (leagues)
// --------------------------------------------------------------------------

type toursRaw struct {
	Tours []struct {
		TourID  int    `json:"tourId"`
		Name    string `json:"name"`
		Country string `json:"country"`
		Season  int    `json:"season"`
	} `json:"tours"`
}

// FetchLeagues discovers golf tours for a season.
func (h *Handler) FetchLeagues(ctx context.Context, sport string, season int) ([]provider.League, error) {
	if sport != "GOLF" {
		return nil, fmt.Errorf("golfapi does not serve sport %s", sport)
	}

	params := url.Values{"year": {strconv.Itoa(season)}}
	body, err := h.get(ctx, "/tours", params)
	if err != nil {
		return nil, fmt.Errorf("fetch golf tours: %w", err)
	}

	var raw toursRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode golf tours: %w", err)
	}

	leagues := make([]provider.League, 0, len(raw.Tours))
	for _, t := range raw.Tours {
		if t.TourID == 0 || t.Name == "" {
			h.logger.Warn("Skipping tour missing id or name", "provider", h.Name())
			continue
		}
		leagues = append(leagues, provider.League{
			ID:       strconv.Itoa(t.TourID),
			Name:     t.Name,
			Type:     "tour",
			Country:  t.Country,
			Season:   season,
			Sport:    sport,
			Provider: h.Name(),
		})
	}
	return leagues, nil
}

// --------------------------------------------------------------------------
// Schedule (games)
// --------------------------------------------------------------------------

type scheduleRaw struct {
	Schedule []json.RawMessage `json:"schedule"`
}

type eventRaw struct {
	TournID string `json:"tournId"`
	Name    string `json:"name"`
	Status  string `json:"status"`
	Course  string `json:"course"`
	Date    struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"date"`
}

// FetchGames fetches the season schedule for a tour and keeps events whose
// start/end range covers the requested date.
func (h *Handler) FetchGames(ctx context.Context, sport string, league provider.League, date string) ([]provider.Game, error) {
	if sport != "GOLF" {
		return nil, fmt.Errorf("golfapi does not serve sport %s", sport)
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	params := url.Values{
		"tourId": {league.ID},
		"year":   {strconv.Itoa(league.Season)},
	}
	body, err := h.get(ctx, "/schedule", params)
	if err != nil {
		return nil, fmt.Errorf("fetch golf schedule tour=%s: %w", league.ID, err)
	}

	var raw scheduleRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decode golf schedule: %w", err)
	}

	var games []provider.Game
	for _, item := range raw.Schedule {
		g, err := h.parseEvent(league, item, day)
		if err != nil {
			h.logger.Warn("Skipping unparseable event", "provider", h.Name(), "tour", league.ID, "error", err)
			continue
		}
		if g == nil {
			continue // outside the requested date
		}
		games = append(games, *g)
	}
	return games, nil
}

// parseEvent returns (nil, nil) for events that do not cover day.
func (h *Handler) parseEvent(league provider.League, item json.RawMessage, day time.Time) (*provider.Game, error) {
	var raw eventRaw
	if err := json.Unmarshal(item, &raw); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if raw.TournID == "" {
		return nil, fmt.Errorf("event missing tournId")
	}

	start := provider.ParseDateTime(raw.Date.Start)
	end := provider.ParseDateTime(raw.Date.End)
	if start == nil || end == nil {
		return nil, fmt.Errorf("event %s has unparseable dates", raw.TournID)
	}
	// day is parsed in UTC, so the event bounds are compared as UTC dates
	// too. Mixing locations here would drop boundary days on hosts with a
	// large offset.
	if day.Before(truncateDay(start.UTC())) || day.After(truncateDay(end.UTC())) {
		return nil, nil
	}

	return &provider.Game{
		APIGameID:  raw.TournID,
		Sport:      "GOLF",
		LeagueID:   league.ID,
		LeagueName: league.Name,
		Season:     league.Season,
		// Field events have no home/away sides; the event name stands in.
		HomeTeam:  raw.Name,
		StartTime: start,
		EndTime:   end,
		Status:    raw.Status,
		Venue:     raw.Course,
		Provider:  h.Name(),
		Raw:       item,
	}, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
