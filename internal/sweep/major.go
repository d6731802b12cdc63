package sweep

import "strings"

// majorLeagueNames is the curated allow-list applied when a sweep runs in
// major-only mode. Matching is case-insensitive substring, so "Premier
// League" covers both the English and Scottish competitions on purpose.
var majorLeagueNames = []string{
	// Football
	"premier league",
	"la liga",
	"serie a",
	"bundesliga",
	"ligue 1",
	"champions league",
	"europa league",
	// Basketball
	"nba",
	"euroleague",
	// Rugby
	"six nations",
	"super rugby",
	"top 14",
	// Darts
	"pdc",
	"world championship",
	"premier league darts",
	// Tennis
	"atp",
	"wta",
	"grand slam",
	// Esports
	"lck",
	"lec",
	"major",
	// Golf
	"pga",
	"lpga",
	"dp world",
}

// IsMajorLeague reports whether a league name matches the allow-list.
func IsMajorLeague(name string) bool {
	lower := strings.ToLower(name)
	for _, m := range majorLeagueNames {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
