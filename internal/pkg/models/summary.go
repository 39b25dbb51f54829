package models

import (
	"sort"
	"time"
)

// LeagueStats holds per-league counts of a run.
type LeagueStats struct {
	Matches int `json:"matches"`
	Markets int `json:"markets"`
}

// Summary is computed once at the end of an extraction run.
type Summary struct {
	RunID            string                 `json:"run_id"`
	GeneratedAt      time.Time              `json:"generated_at"`
	Sources          []string               `json:"sources"`
	Pages            int                    `json:"pages"`
	LinesTotal       int                    `json:"lines_total"`
	LinesMatched     int                    `json:"lines_matched"`
	LinesDropped     int                    `json:"lines_dropped"`
	DuplicateMarkets int                    `json:"duplicate_markets"`
	TotalMatches     int                    `json:"total_matches"`
	TotalMarkets     int                    `json:"total_markets"`
	Leagues          map[string]LeagueStats `json:"leagues"`
	DropReasons      map[string]int         `json:"drop_reasons,omitempty"`
}

// UnknownLeague is used for matches seen before any league header.
const UnknownLeague = "Unknown"

// LeagueBreakdown counts matches and markets per league.
func LeagueBreakdown(matches []Match) map[string]LeagueStats {
	out := make(map[string]LeagueStats)
	for i := range matches {
		league := matches[i].League
		if league == "" {
			league = UnknownLeague
		}
		s := out[league]
		s.Matches++
		s.Markets += len(matches[i].Markets)
		out[league] = s
	}
	return out
}

// CountMarkets sums markets over all matches.
func CountMarkets(matches []Match) int {
	n := 0
	for i := range matches {
		n += len(matches[i].Markets)
	}
	return n
}

// SortedLeagues returns league names ordered by match count, then name.
func (s *Summary) SortedLeagues() []string {
	names := make([]string, 0, len(s.Leagues))
	for name := range s.Leagues {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s.Leagues[names[i]], s.Leagues[names[j]]
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}
		return names[i] < names[j]
	})
	return names
}
