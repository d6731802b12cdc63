// Package provider defines the canonical data types every upstream normalizes
// into, plus the Source interface each provider implements. These structs are
// the contract between provider handlers and the store — providers output
// these, the store writes them to Postgres.
//
// Adding a new provider means implementing Source against these types. The
// sweep orchestrator and the games schema never change.
package provider

import (
	"encoding/json"
	"time"
)

// League is the canonical league/tournament shape produced by discovery.
// Transient: consumed immediately by the games fetch, never persisted on
// its own in this pipeline.
type League struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Type        string                 `json:"type,omitempty"`
	Country     string                 `json:"country,omitempty"`
	CountryCode string                 `json:"country_code,omitempty"`
	Season      int                    `json:"season"`
	Sport       string                 `json:"sport"`
	Provider    string                 `json:"provider"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
}

// Score is a structured home/away score pair. Absent for sports where a
// head-to-head score does not apply (golf, motorsport).
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Game is the canonical game record persisted by the store.
//
// Natural key: (Sport, LeagueID, Season, APIGameID). Re-fetching the same
// external game must update the stored row, never duplicate it.
type Game struct {
	APIGameID  string          `json:"api_game_id"`
	Sport      string          `json:"sport"`
	LeagueID   string          `json:"league_id"`
	LeagueName string          `json:"league_name,omitempty"`
	Season     int             `json:"season"`
	HomeTeam   string          `json:"home_team_name"`
	AwayTeam   string          `json:"away_team_name"`
	StartTime  *time.Time      `json:"start_time,omitempty"`
	EndTime    *time.Time      `json:"end_time,omitempty"`
	Status     string          `json:"status,omitempty"`
	Score      *Score          `json:"score,omitempty"`
	Venue      string          `json:"venue,omitempty"`
	Provider   string          `json:"provider"`
	Raw        json.RawMessage `json:"raw,omitempty"`
}
