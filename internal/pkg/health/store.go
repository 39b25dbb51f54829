package health

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/tippmixmentor/tippmix/internal/extractor"
	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// InMemoryResultStore keeps the latest extraction result for API access
type InMemoryResultStore struct {
	mu     sync.RWMutex
	result *extractor.Result
}

var globalResultStore = &InMemoryResultStore{}

// SetResult replaces the stored result
func SetResult(res *extractor.Result) {
	if res == nil {
		return
	}
	globalResultStore.mu.Lock()
	defer globalResultStore.mu.Unlock()

	globalResultStore.result = res
	slog.Debug("Stored extraction result", "run_id", res.Summary.RunID, "matches", len(res.Matches))
}

// GetMatches returns stored matches, optionally filtered by league and team.
// Filters compare folded text; team matches either side as a substring.
func GetMatches(league, team string) []models.Match {
	globalResultStore.mu.RLock()
	defer globalResultStore.mu.RUnlock()

	if globalResultStore.result == nil {
		return []models.Match{}
	}

	leagueKey := models.NormalizeKeyPart(league)
	teamKey := models.NormalizeKeyPart(team)

	out := make([]models.Match, 0, len(globalResultStore.result.Matches))
	for _, m := range globalResultStore.result.Matches {
		if leagueKey != "" && models.NormalizeKeyPart(m.League) != leagueKey {
			continue
		}
		if teamKey != "" &&
			!strings.Contains(models.NormalizeKeyPart(m.Team1), teamKey) &&
			!strings.Contains(models.NormalizeKeyPart(m.Team2), teamKey) {
			continue
		}
		// Create copy to avoid race conditions
		matchCopy := m
		matchCopy.Markets = append([]models.Market(nil), m.Markets...)
		out = append(out, matchCopy)
	}
	return out
}

// GetSummary returns the summary of the stored result
func GetSummary() (models.Summary, bool) {
	globalResultStore.mu.RLock()
	defer globalResultStore.mu.RUnlock()

	if globalResultStore.result == nil {
		return models.Summary{}, false
	}
	return globalResultStore.result.Summary, true
}

// ClearResults drops the stored result
func ClearResults() {
	globalResultStore.mu.Lock()
	defer globalResultStore.mu.Unlock()
	globalResultStore.result = nil
}
