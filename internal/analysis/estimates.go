package analysis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// Estimate is a user-supplied probability set for one market of a match.
type Estimate struct {
	Team1         string             `yaml:"team1"`
	Team2         string             `yaml:"team2"`
	Date          string             `yaml:"date,omitempty"`
	Market        string             `yaml:"market,omitempty"` // defaults to the main market
	Probabilities map[string]float64 `yaml:"probabilities"`    // outcome -> probability
}

// Estimates indexes probability estimates by teams and market.
type Estimates struct {
	defaultMarket string
	byKey         map[string]Estimate
}

type estimatesFile struct {
	Estimates []Estimate `yaml:"estimates"`
}

// NewEstimates indexes a list of estimates. Probabilities outside (0, 1)
// are rejected.
func NewEstimates(list []Estimate, defaultMarket string) (*Estimates, error) {
	e := &Estimates{defaultMarket: defaultMarket, byKey: make(map[string]Estimate, len(list))}
	for i, est := range list {
		if strings.TrimSpace(est.Team1) == "" || strings.TrimSpace(est.Team2) == "" {
			return nil, fmt.Errorf("estimate %d: team1 and team2 are required", i)
		}
		var sum float64
		for outcome, p := range est.Probabilities {
			if p <= 0 || p >= 1 {
				return nil, fmt.Errorf("estimate %d (%s - %s): probability %.3f for %q outside (0, 1)", i, est.Team1, est.Team2, p, outcome)
			}
			sum += p
		}
		if sum > 1.0001 {
			return nil, fmt.Errorf("estimate %d (%s - %s): probabilities sum to %.3f", i, est.Team1, est.Team2, sum)
		}
		e.byKey[e.key(est.Date, est.Team1, est.Team2, est.Market)] = est
	}
	return e, nil
}

// LoadEstimates reads estimates from YAML:
//
//	estimates:
//	  - team1: Ferencváros
//	    team2: Újpest
//	    probabilities: {"1": 0.72, "X": 0.18, "2": 0.10}
func LoadEstimates(path, defaultMarket string) (*Estimates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read estimates file: %w", err)
	}
	var f estimatesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse estimates file %s: %w", path, err)
	}
	return NewEstimates(f.Estimates, defaultMarket)
}

func (e *Estimates) key(date, team1, team2, market string) string {
	if strings.TrimSpace(market) == "" {
		market = e.defaultMarket
	}
	return strings.TrimSpace(date) + "|" + models.NormalizeKeyPart(team1) + "|" + models.NormalizeKeyPart(team2) + "|" + models.NormalizeKeyPart(market)
}

// Lookup returns the estimate for a market of a match. A dated estimate
// wins over an undated one.
func (e *Estimates) Lookup(m *models.Match, market string) (Estimate, bool) {
	if e == nil {
		return Estimate{}, false
	}
	if m.Date != "" {
		if est, ok := e.byKey[e.key(m.Date, m.Team1, m.Team2, market)]; ok {
			return est, true
		}
	}
	est, ok := e.byKey[e.key("", m.Team1, m.Team2, market)]
	return est, ok
}

// Len is the number of indexed estimates.
func (e *Estimates) Len() int {
	if e == nil {
		return 0
	}
	return len(e.byKey)
}
