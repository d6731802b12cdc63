package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/scoracle-games/internal/provider"
)

// LeagueRow is a distinct league as stored alongside its games.
type LeagueRow struct {
	Sport      string `json:"sport"`
	LeagueID   string `json:"league_id"`
	LeagueName string `json:"league_name"`
	Season     int    `json:"season"`
	Provider   string `json:"provider"`
	GameCount  int    `json:"game_count"`
}

// ListGames returns stored games for a sport on a date (ISO "2006-01-02"),
// ordered by start time.
func ListGames(ctx context.Context, pool *pgxpool.Pool, sport, date string) ([]provider.Game, error) {
	rows, err := pool.Query(ctx, "games_by_sport_date", sport, date)
	if err != nil {
		return nil, fmt.Errorf("list games sport=%s date=%s: %w", sport, date, err)
	}
	defer rows.Close()

	var games []provider.Game
	for rows.Next() {
		var g provider.Game
		var leagueName, homeTeam, awayTeam, status, venue *string
		var scoreHome, scoreAway *int

		if err := rows.Scan(
			&g.APIGameID, &g.Sport, &g.LeagueID, &leagueName, &g.Season,
			&homeTeam, &awayTeam, &g.StartTime, &g.EndTime,
			&status, &scoreHome, &scoreAway, &venue, &g.Provider,
		); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}

		g.LeagueName = deref(leagueName)
		g.HomeTeam = deref(homeTeam)
		g.AwayTeam = deref(awayTeam)
		g.Status = deref(status)
		g.Venue = deref(venue)
		if scoreHome != nil && scoreAway != nil {
			g.Score = &provider.Score{Home: *scoreHome, Away: *scoreAway}
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// ListLeagues returns the distinct leagues present in storage, with game
// counts, optionally filtered by sport (empty = all).
func ListLeagues(ctx context.Context, pool *pgxpool.Pool, sport string) ([]LeagueRow, error) {
	var sportParam interface{} = sport
	if sport == "" {
		sportParam = nil
	}

	rows, err := pool.Query(ctx, "leagues_list", sportParam)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	defer rows.Close()

	var leagues []LeagueRow
	for rows.Next() {
		var l LeagueRow
		var name *string
		if err := rows.Scan(&l.Sport, &l.LeagueID, &name, &l.Season, &l.Provider, &l.GameCount); err != nil {
			return nil, fmt.Errorf("scan league: %w", err)
		}
		l.LeagueName = deref(name)
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

// CountGames returns per-sport stored game counts.
func CountGames(ctx context.Context, pool *pgxpool.Pool) (map[string]int, error) {
	rows, err := pool.Query(ctx, "games_count_by_sport")
	if err != nil {
		return nil, fmt.Errorf("count games: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var sport string
		var n int
		if err := rows.Scan(&sport, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[sport] = n
	}
	return counts, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
