// Package store persists canonical game records. The upsert is one
// parameterized INSERT ... ON CONFLICT DO UPDATE statement generated from a
// single authoritative column list, so the insert and update branches can
// never drift apart.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-games/internal/config"
	"github.com/albapepper/scoracle-games/internal/provider"
)

// Natural key: re-fetching the same external game updates in place.
var gameKeyColumns = []string{"api_game_id", "sport", "league_id", "season"}

// Every mutable column. The upsert overwrites all of them on conflict.
var gameDataColumns = []string{
	"league_name",
	"home_team_name",
	"away_team_name",
	"start_time",
	"end_time",
	"status",
	"score_home",
	"score_away",
	"venue",
	"provider",
	"raw_response",
	"fetched_at",
}

var upsertGameSQL = buildUpsertGameSQL()

func buildUpsertGameSQL() string {
	cols := append(append([]string{}, gameKeyColumns...), gameDataColumns...)

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	sets := make([]string, len(gameDataColumns))
	for i, col := range gameDataColumns {
		sets[i] = fmt.Sprintf("%s = EXCLUDED.%s", col, col)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s, updated_at = NOW()",
		config.GamesTable,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(gameKeyColumns, ", "),
		strings.Join(sets, ", "),
	)
}

// SaveGame upserts one canonical game. Errors are returned for the caller to
// log and count; they carry enough context (external id, sport, league) to
// diagnose without the payload.
func SaveGame(ctx context.Context, pool *pgxpool.Pool, g provider.Game) error {
	if g.APIGameID == "" {
		return fmt.Errorf("save game: empty api_game_id (sport=%s league=%s)", g.Sport, g.LeagueID)
	}

	raw := g.Raw
	if raw == nil {
		raw = json.RawMessage("{}")
	}

	var scoreHome, scoreAway *int
	if g.Score != nil {
		scoreHome, scoreAway = &g.Score.Home, &g.Score.Away
	}

	_, err := pool.Exec(ctx, upsertGameSQL,
		// key columns
		g.APIGameID, g.Sport, g.LeagueID, g.Season,
		// data columns, same order as gameDataColumns
		nilEmpty(g.LeagueName), nilEmpty(g.HomeTeam), nilEmpty(g.AwayTeam),
		g.StartTime, g.EndTime, nilEmpty(g.Status),
		scoreHome, scoreAway, nilEmpty(g.Venue), g.Provider, raw,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert game %s (sport=%s league=%s): %w", g.APIGameID, g.Sport, g.LeagueID, err)
	}
	return nil
}

// nilEmpty returns nil for empty strings (maps to SQL NULL).
func nilEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
