// Package sportdevs normalizes data from the SportDevs per-sport APIs
// (darts, tennis, esports).
//
// Each sport lives on its own host. Auth is a plain query-string key.
// Filters use PostgREST-style expressions ("tournament_id=eq.123"),
// discovery is offset/limit paginated, and the matches-by-date endpoint
// groups matches under date buckets that must be flattened.
package sportdevs

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

var baseURLs = map[string]string{
	"DARTS":   "https://darts.sportdevs.com",
	"TENNIS":  "https://tennis.sportdevs.com",
	"ESPORTS": "https://esports.sportdevs.com",
}

const discoveryPageSize = 50

// Handler fetches and normalizes SportDevs data.
type Handler struct {
	client *provider.Client
	apiKey string
	logger *slog.Logger
}

// NewHandler creates a SportDevs handler sharing one limiter across sports.
func NewHandler(apiKey string, limiter *ratelimit.Limiter, timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client: provider.NewClient(provider.NameSportDevs, limiter, timeout),
		apiKey: apiKey,
		logger: logger,
	}
}

func (h *Handler) Name() string { return provider.NameSportDevs }

func (h *Handler) Sports() []string { return []string{"DARTS", "TENNIS", "ESPORTS"} }

func (h *Handler) get(ctx context.Context, sport, path string, params url.Values) ([]byte, error) {
	base, ok := baseURLs[sport]
	if !ok {
		return nil, fmt.Errorf("sportdevs does not serve sport %s", sport)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", h.apiKey)
	return h.client.Get(ctx, base+path+"?"+params.Encode(), nil)
}

// --------------------------------------------------------------------------
// Tournaments (leagues)
// --------------------------------------------------------------------------

type tournamentRaw struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	ClassName  string `json:"class_name"`
	SeasonName string `json:"season_name"`
	Importance int    `json:"importance"`
}

// FetchLeagues discovers tournaments for a sport, walking offset/limit pages
// until a short page signals the end.
func (h *Handler) FetchLeagues(ctx context.Context, sport string, season int) ([]provider.League, error) {
	var leagues []provider.League
	offset := 0

	for {
		params := url.Values{
			"limit":  {strconv.Itoa(discoveryPageSize)},
			"offset": {strconv.Itoa(offset)},
		}
		body, err := h.get(ctx, sport, "/tournaments", params)
		if err != nil {
			return nil, fmt.Errorf("fetch %s tournaments: %w", sport, err)
		}

		var items []json.RawMessage
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("decode %s tournaments: %w", sport, err)
		}

		for _, item := range items {
			var raw tournamentRaw
			if err := json.Unmarshal(item, &raw); err != nil || raw.ID == 0 || raw.Name == "" {
				h.logger.Warn("Skipping unparseable tournament", "provider", h.Name(), "sport", sport, "error", err)
				continue
			}
			leagues = append(leagues, provider.League{
				ID:       strconv.Itoa(raw.ID),
				Name:     raw.Name,
				Type:     "tournament",
				Country:  raw.ClassName,
				Season:   season,
				Sport:    sport,
				Provider: h.Name(),
				Meta:     tournamentMeta(raw),
			})
		}

		if len(items) < discoveryPageSize {
			return leagues, nil
		}
		offset += discoveryPageSize
	}
}

func tournamentMeta(raw tournamentRaw) map[string]interface{} {
	meta := make(map[string]interface{})
	if raw.SeasonName != "" {
		meta["season_name"] = raw.SeasonName
	}
	if raw.Importance != 0 {
		meta["importance"] = raw.Importance
	}
	if len(meta) == 0 {
		return nil
	}
	return meta
}

// --------------------------------------------------------------------------
// Matches
// --------------------------------------------------------------------------

// dateGroupRaw is one date bucket from matches-by-date. The matches array
// inside is the unit that becomes canonical games.
type dateGroupRaw struct {
	Date    string            `json:"date"`
	Matches []json.RawMessage `json:"matches"`
}

type matchRaw struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`
	StartTime    string `json:"start_time"`
	StatusType   string `json:"status_type"`
	ArenaName    string `json:"arena_name"`
	HomeScore    *struct {
		Current int `json:"current"`
	} `json:"home_team_score"`
	AwayScore *struct {
		Current int `json:"current"`
	} `json:"away_team_score"`
}

// FetchGames fetches matches for one tournament on one date and flattens the
// date-group buckets into a single list of canonical games.
func (h *Handler) FetchGames(ctx context.Context, sport string, league provider.League, date string) ([]provider.Game, error) {
	params := url.Values{
		"date":          {"eq." + date},
		"tournament_id": {"eq." + league.ID},
	}
	body, err := h.get(ctx, sport, "/matches-by-date", params)
	if err != nil {
		return nil, fmt.Errorf("fetch %s matches tournament=%s date=%s: %w", sport, league.ID, date, err)
	}

	var groups []dateGroupRaw
	if err := json.Unmarshal(body, &groups); err != nil {
		return nil, fmt.Errorf("decode %s matches: %w", sport, err)
	}

	var games []provider.Game
	for _, group := range groups {
		for _, item := range group.Matches {
			g, err := h.parseMatch(sport, league, item)
			if err != nil {
				h.logger.Warn("Skipping unparseable match",
					"provider", h.Name(), "sport", sport, "tournament", league.ID, "error", err)
				continue
			}
			games = append(games, g)
		}
	}
	return games, nil
}

func (h *Handler) parseMatch(sport string, league provider.League, item json.RawMessage) (provider.Game, error) {
	var raw matchRaw
	if err := json.Unmarshal(item, &raw); err != nil {
		return provider.Game{}, fmt.Errorf("decode match: %w", err)
	}
	if raw.ID == 0 {
		return provider.Game{}, fmt.Errorf("match missing id")
	}

	var score *provider.Score
	if raw.HomeScore != nil && raw.AwayScore != nil {
		score = &provider.Score{Home: raw.HomeScore.Current, Away: raw.AwayScore.Current}
	}

	return provider.Game{
		APIGameID:  strconv.Itoa(raw.ID),
		Sport:      sport,
		LeagueID:   league.ID,
		LeagueName: league.Name,
		Season:     league.Season,
		HomeTeam:   raw.HomeTeamName,
		AwayTeam:   raw.AwayTeamName,
		StartTime:  provider.ParseDateTime(raw.StartTime),
		Status:     raw.StatusType,
		Score:      score,
		Venue:      raw.ArenaName,
		Provider:   h.Name(),
		Raw:        item,
	}, nil
}
