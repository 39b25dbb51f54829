// Package analysis prices extracted slips: margins, value bets, Kelly
// staking, accumulators and backtests.
package analysis

import (
	"math"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// Outcomes in slip column order.
var Outcomes = []string{"1", "X", "2"}

// ImpliedProbability returns 1/odd, or 0 for an invalid odd.
func ImpliedProbability(odd float64) float64 {
	if !isFinitePositiveOdd(odd) {
		return 0
	}
	return 1.0 / odd
}

// Overround returns the bookmaker margin of a full market: sum(1/odd) - 1.
func Overround(odds []float64) float64 {
	var sum float64
	for _, o := range odds {
		sum += ImpliedProbability(o)
	}
	if sum == 0 {
		return 0
	}
	return sum - 1.0
}

// RemoveMargin scales implied probabilities so they sum to 1.
func RemoveMargin(odds []float64) []float64 {
	probs := make([]float64, len(odds))
	var sum float64
	for i, o := range odds {
		probs[i] = ImpliedProbability(o)
		sum += probs[i]
	}
	if sum == 0 {
		return probs
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// MarketOdds returns a market's odds keyed by outcome.
func MarketOdds(mk *models.Market) map[string]float64 {
	out := make(map[string]float64, 3)
	for _, o := range Outcomes {
		if d, ok := mk.OddsFor(o); ok {
			out[o] = d.InexactFloat64()
		}
	}
	return out
}

// MarginReport describes the margin of one market.
type MarginReport struct {
	MatchID   string             `json:"match_id"`
	MatchName string             `json:"match_name"`
	League    string             `json:"league"`
	Market    string             `json:"market"`
	Overround float64            `json:"overround_percent"`
	FairProbs map[string]float64 `json:"fair_probabilities"`
	FairOdds  map[string]float64 `json:"fair_odds"`
}

// Margins reports the overround of every market with at least two prices.
// Two-way 1/2 markets (draw no bet, over/under) are complete books too.
func Margins(matches []models.Match) []MarginReport {
	var out []MarginReport
	for i := range matches {
		m := &matches[i]
		for j := range m.Markets {
			mk := &m.Markets[j]
			byOutcome := MarketOdds(mk)
			if len(byOutcome) < 2 {
				continue
			}

			keys := make([]string, 0, len(byOutcome))
			odds := make([]float64, 0, len(byOutcome))
			for _, o := range Outcomes {
				if v, ok := byOutcome[o]; ok {
					keys = append(keys, o)
					odds = append(odds, v)
				}
			}
			fair := RemoveMargin(odds)

			r := MarginReport{
				MatchID:   m.ID,
				MatchName: m.Name(),
				League:    m.League,
				Market:    mk.Name,
				Overround: round(Overround(odds) * 100),
				FairProbs: make(map[string]float64, len(keys)),
				FairOdds:  make(map[string]float64, len(keys)),
			}
			for k, o := range keys {
				r.FairProbs[o] = round4(fair[k])
				if fair[k] > 0 {
					r.FairOdds[o] = round(1.0 / fair[k])
				}
			}
			out = append(out, r)
		}
	}
	return out
}

func isFinitePositiveOdd(odd float64) bool {
	return odd > 1.0 && !math.IsInf(odd, 0) && !math.IsNaN(odd)
}

// round rounds to 2 decimal places.
func round(val float64) float64 {
	return math.Round(val*100) / 100
}

func round4(val float64) float64 {
	return math.Round(val*10000) / 10000
}
