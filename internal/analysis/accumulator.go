package analysis

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// ErrSameMatch is returned when an accumulator holds two legs of one match.
var ErrSameMatch = errors.New("accumulator legs must come from different matches")

// Leg is one selection of an accumulator.
type Leg struct {
	MatchID     string          `json:"match_id"`
	MatchName   string          `json:"match_name"`
	Market      string          `json:"market"`
	Outcome     string          `json:"outcome"`
	Odds        decimal.Decimal `json:"odds"`
	Probability float64         `json:"probability,omitempty"`
}

// Accumulator is a combined bet; it wins only if every leg wins.
type Accumulator struct {
	Legs []Leg `json:"legs"`
}

// NewAccumulator validates the legs: at least two, distinct matches,
// odds above 1.
func NewAccumulator(legs ...Leg) (*Accumulator, error) {
	if len(legs) < 2 {
		return nil, fmt.Errorf("accumulator needs at least 2 legs, got %d", len(legs))
	}
	seen := make(map[string]struct{}, len(legs))
	for _, l := range legs {
		if _, dup := seen[l.MatchID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrSameMatch, l.MatchID)
		}
		seen[l.MatchID] = struct{}{}
		if l.Odds.LessThanOrEqual(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("leg %s %s: odds %s must be above 1", l.MatchID, l.Outcome, l.Odds.String())
		}
	}
	return &Accumulator{Legs: legs}, nil
}

// LegFromMatch picks an outcome of the first market carrying name.
func LegFromMatch(m *models.Match, market, outcome string) (Leg, error) {
	mk, ok := m.MarketByName(market)
	if !ok {
		return Leg{}, fmt.Errorf("match %s has no market %q", m.Name(), market)
	}
	return legFromMarket(m, mk, outcome)
}

// LegFromValueBet picks the exact market and outcome a value bet was found
// on, carrying its estimated probability.
func LegFromValueBet(m *models.Match, vb models.ValueBet) (Leg, error) {
	mk, ok := m.MarketByKey(vb.Market, vb.OrigMarket)
	if !ok {
		return Leg{}, fmt.Errorf("match %s has no market %q (%q)", m.Name(), vb.Market, vb.OrigMarket)
	}
	leg, err := legFromMarket(m, mk, vb.Outcome)
	if err != nil {
		return Leg{}, err
	}
	leg.Probability = vb.Probability
	return leg, nil
}

func legFromMarket(m *models.Match, mk *models.Market, outcome string) (Leg, error) {
	odd, ok := mk.OddsFor(outcome)
	if !ok {
		return Leg{}, fmt.Errorf("match %s market %q has no outcome %q", m.Name(), mk.Name, outcome)
	}
	return Leg{
		MatchID:   m.ID,
		MatchName: m.Name(),
		Market:    mk.Name,
		Outcome:   outcome,
		Odds:      odd,
	}, nil
}

// CombinedOdds is the exact product of the leg odds.
func (a *Accumulator) CombinedOdds() decimal.Decimal {
	total := decimal.NewFromInt(1)
	for _, l := range a.Legs {
		total = total.Mul(l.Odds)
	}
	return total
}

// CombinedProbability multiplies leg probabilities, falling back to the
// margin-inclusive implied probability for legs without an estimate.
func (a *Accumulator) CombinedProbability() float64 {
	p := 1.0
	for _, l := range a.Legs {
		lp := l.Probability
		if lp <= 0 {
			lp = ImpliedProbability(l.Odds.InexactFloat64())
		}
		p *= lp
	}
	return p
}

// ExpectedValue per unit staked: odds * p - 1.
func (a *Accumulator) ExpectedValue() float64 {
	return a.CombinedOdds().InexactFloat64()*a.CombinedProbability() - 1.0
}

// Payout returns the return of a winning stake, rounded to 2 places.
func (a *Accumulator) Payout(stake decimal.Decimal) decimal.Decimal {
	return stake.Mul(a.CombinedOdds()).Round(2)
}
