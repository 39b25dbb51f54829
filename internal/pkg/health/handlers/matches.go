package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// GetMatchesFunc returns stored matches filtered by league and team
type GetMatchesFunc func(league, team string) []models.Match

var getMatchesFunc GetMatchesFunc

// SetGetMatchesFunc sets the function to get matches
func SetGetMatchesFunc(fn GetMatchesFunc) {
	getMatchesFunc = fn
}

// GetSummaryFunc returns the summary of the last run, false before any run
type GetSummaryFunc func() (models.Summary, bool)

var getSummaryFunc GetSummaryFunc

// SetGetSummaryFunc sets the function to get the summary
func SetGetSummaryFunc(fn GetSummaryFunc) {
	getSummaryFunc = fn
}

// HandleMatches handles /matches endpoint.
// Query parameters: league (exact, folded), team (substring of either side).
func HandleMatches(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	league := r.URL.Query().Get("league")
	team := r.URL.Query().Get("team")

	matches := []models.Match{}
	if getMatchesFunc != nil {
		matches = getMatchesFunc(league, team)
	}

	duration := time.Since(startTime)
	matchCount := len(matches)

	w.Header().Set("X-Query-Duration", duration.String())
	w.Header().Set("X-Matches-Count", fmt.Sprintf("%d", matchCount))

	slog.Debug("Served matches", "count", matchCount, "league", league, "team", team, "duration", duration)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"meta": map[string]interface{}{
			"count":    matchCount,
			"duration": duration.String(),
			"league":   league,
			"team":     team,
		},
	})
}

// HandleSummary handles /summary endpoint
func HandleSummary(w http.ResponseWriter, r *http.Request) {
	if getSummaryFunc == nil {
		respondError(w, http.StatusNotFound, "no extraction has run yet")
		return
	}
	s, ok := getSummaryFunc()
	if !ok {
		respondError(w, http.StatusNotFound, "no extraction has run yet")
		return
	}
	respondJSON(w, http.StatusOK, s)
}
