// Package apisports normalizes data from the API-Sports family of REST APIs
// (football, basketball, rugby).
//
// Each sport lives on its own host. Auth is a single x-apisports-key header.
// Football wraps games in a "fixture" object with a "goals" score; basketball
// and rugby return a flatter game object with a "scores" block whose values
// are either plain numbers or {"total": n} objects.
package apisports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/scoracle-games/internal/provider"
	"github.com/albapepper/scoracle-games/internal/ratelimit"
)

// baseURLs maps each sport to its API-Sports host.
var baseURLs = map[string]string{
	"FOOTBALL":   "https://v3.football.api-sports.io",
	"BASKETBALL": "https://v1.basketball.api-sports.io",
	"RUGBY":      "https://v1.rugby.api-sports.io",
}

// gamesPath maps each sport to its games endpoint. Football calls them
// fixtures; everything else calls them games.
var gamesPath = map[string]string{
	"FOOTBALL":   "/fixtures",
	"BASKETBALL": "/games",
	"RUGBY":      "/games",
}

// Handler fetches and normalizes API-Sports data.
type Handler struct {
	client *provider.Client
	apiKey string
	logger *slog.Logger
}

// NewHandler creates an API-Sports handler. The limiter is shared across all
// three sports — they count against one provider quota.
func NewHandler(apiKey string, limiter *ratelimit.Limiter, timeout time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		client: provider.NewClient(provider.NameAPISports, limiter, timeout),
		apiKey: apiKey,
		logger: logger,
	}
}

func (h *Handler) Name() string { return provider.NameAPISports }

func (h *Handler) Sports() []string { return []string{"FOOTBALL", "BASKETBALL", "RUGBY"} }

// envelope is the common API-Sports response wrapper. Items stay raw so one
// malformed entry cannot poison the whole batch decode.
type envelope struct {
	Response []json.RawMessage `json:"response"`
	Errors   json.RawMessage   `json:"errors"`
}

func (h *Handler) get(ctx context.Context, sport, path string, params url.Values) (*envelope, error) {
	base, ok := baseURLs[sport]
	if !ok {
		return nil, fmt.Errorf("apisports does not serve sport %s", sport)
	}
	u := base + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	body, err := h.client.Get(ctx, u, map[string]string{"x-apisports-key": h.apiKey})
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	// API-Sports reports quota and auth failures in-band with HTTP 200 and a
	// populated errors object; the errors field is [] or {} when healthy.
	if e := strings.TrimSpace(string(env.Errors)); e != "" && e != "[]" && e != "{}" && e != "null" {
		return nil, fmt.Errorf("apisports error response: %s", provider.Truncate(env.Errors, 200))
	}
	return &env, nil
}

// --------------------------------------------------------------------------
// Leagues
// --------------------------------------------------------------------------

// footballLeagueRaw is the nested league shape on the football host.
type footballLeagueRaw struct {
	League struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"league"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"country"`
}

// flatLeagueRaw is the flat league shape on the basketball/rugby hosts.
type flatLeagueRaw struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Country struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"country"`
}

// FetchLeagues discovers leagues for a sport and season.
func (h *Handler) FetchLeagues(ctx context.Context, sport string, season int) ([]provider.League, error) {
	params := url.Values{"season": {strconv.Itoa(season)}}
	env, err := h.get(ctx, sport, "/leagues", params)
	if err != nil {
		return nil, fmt.Errorf("fetch %s leagues: %w", sport, err)
	}

	leagues := make([]provider.League, 0, len(env.Response))
	for _, item := range env.Response {
		lg, err := h.parseLeague(sport, season, item)
		if err != nil {
			h.logger.Warn("Skipping unparseable league", "provider", h.Name(), "sport", sport, "error", err)
			continue
		}
		leagues = append(leagues, lg)
	}
	return leagues, nil
}

func (h *Handler) parseLeague(sport string, season int, item json.RawMessage) (provider.League, error) {
	var id int
	var name, typ, country, code string

	if sport == "FOOTBALL" {
		var raw footballLeagueRaw
		if err := json.Unmarshal(item, &raw); err != nil {
			return provider.League{}, fmt.Errorf("decode league: %w", err)
		}
		id, name, typ = raw.League.ID, raw.League.Name, raw.League.Type
		country, code = raw.Country.Name, raw.Country.Code
	} else {
		var raw flatLeagueRaw
		if err := json.Unmarshal(item, &raw); err != nil {
			return provider.League{}, fmt.Errorf("decode league: %w", err)
		}
		id, name, typ = raw.ID, raw.Name, raw.Type
		country, code = raw.Country.Name, raw.Country.Code
	}

	if id == 0 || name == "" {
		return provider.League{}, fmt.Errorf("league missing id or name")
	}

	return provider.League{
		ID:          strconv.Itoa(id),
		Name:        name,
		Type:        typ,
		Country:     country,
		CountryCode: code,
		Season:      season,
		Sport:       sport,
		Provider:    h.Name(),
	}, nil
}

// --------------------------------------------------------------------------
// Games
// --------------------------------------------------------------------------

// footballGameRaw is the fixture shape on the football host.
type footballGameRaw struct {
	Fixture struct {
		ID     int    `json:"id"`
		Date   string `json:"date"`
		Status struct {
			Long string `json:"long"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home *int `json:"home"`
		Away *int `json:"away"`
	} `json:"goals"`
}

// flatGameRaw is the game shape on the basketball/rugby hosts. Score values
// are either plain numbers (rugby) or {"total": n} objects (basketball).
type flatGameRaw struct {
	ID     int    `json:"id"`
	Date   string `json:"date"`
	Status struct {
		Long string `json:"long"`
	} `json:"status"`
	Venue json.RawMessage `json:"venue"`
	Teams struct {
		Home struct {
			Name string `json:"name"`
		} `json:"home"`
		Away struct {
			Name string `json:"name"`
		} `json:"away"`
	} `json:"teams"`
	Scores struct {
		Home json.RawMessage `json:"home"`
		Away json.RawMessage `json:"away"`
	} `json:"scores"`
}

// FetchGames fetches games for one league on one date. API-Sports filters by
// exact date equality server-side.
func (h *Handler) FetchGames(ctx context.Context, sport string, league provider.League, date string) ([]provider.Game, error) {
	params := url.Values{
		"league": {league.ID},
		"season": {strconv.Itoa(league.Season)},
		"date":   {date},
	}
	env, err := h.get(ctx, sport, gamesPath[sport], params)
	if err != nil {
		return nil, fmt.Errorf("fetch %s games league=%s date=%s: %w", sport, league.ID, date, err)
	}

	games := make([]provider.Game, 0, len(env.Response))
	for _, item := range env.Response {
		g, err := h.parseGame(sport, league, item)
		if err != nil {
			h.logger.Warn("Skipping unparseable game", "provider", h.Name(), "sport", sport, "league", league.ID, "error", err)
			continue
		}
		games = append(games, g)
	}
	return games, nil
}

func (h *Handler) parseGame(sport string, league provider.League, item json.RawMessage) (provider.Game, error) {
	if sport == "FOOTBALL" {
		var raw footballGameRaw
		if err := json.Unmarshal(item, &raw); err != nil {
			return provider.Game{}, fmt.Errorf("decode game: %w", err)
		}
		if raw.Fixture.ID == 0 {
			return provider.Game{}, fmt.Errorf("game missing fixture id")
		}
		var score *provider.Score
		if raw.Goals.Home != nil && raw.Goals.Away != nil {
			score = &provider.Score{Home: *raw.Goals.Home, Away: *raw.Goals.Away}
		}
		return provider.Game{
			APIGameID:  strconv.Itoa(raw.Fixture.ID),
			Sport:      sport,
			LeagueID:   league.ID,
			LeagueName: league.Name,
			Season:     league.Season,
			HomeTeam:   raw.Teams.Home.Name,
			AwayTeam:   raw.Teams.Away.Name,
			StartTime:  provider.ParseDateTime(raw.Fixture.Date),
			Status:     raw.Fixture.Status.Long,
			Score:      score,
			Venue:      raw.Fixture.Venue.Name,
			Provider:   h.Name(),
			Raw:        item,
		}, nil
	}

	var raw flatGameRaw
	if err := json.Unmarshal(item, &raw); err != nil {
		return provider.Game{}, fmt.Errorf("decode game: %w", err)
	}
	if raw.ID == 0 {
		return provider.Game{}, fmt.Errorf("game missing id")
	}

	var score *provider.Score
	home, okH := scoreValue(raw.Scores.Home)
	away, okA := scoreValue(raw.Scores.Away)
	if okH && okA {
		score = &provider.Score{Home: home, Away: away}
	}

	return provider.Game{
		APIGameID:  strconv.Itoa(raw.ID),
		Sport:      sport,
		LeagueID:   league.ID,
		LeagueName: league.Name,
		Season:     league.Season,
		HomeTeam:   raw.Teams.Home.Name,
		AwayTeam:   raw.Teams.Away.Name,
		StartTime:  provider.ParseDateTime(raw.Date),
		Status:     raw.Status.Long,
		Score:      score,
		Venue:      venueName(raw.Venue),
		Provider:   h.Name(),
		Raw:        item,
	}, nil
}

// scoreValue extracts a score that is either a plain number or an object
// carrying a "total" field.
func scoreValue(raw json.RawMessage) (int, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var obj struct {
		Total *int `json:"total"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil && obj.Total != nil {
		return *obj.Total, true
	}
	return 0, false
}

// venueName extracts a venue that is either a plain string or an object
// carrying a "name" field.
func venueName(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Name
	}
	return ""
}
