package analysis

import (
	"log/slog"
	"sort"
	"time"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// FindValueBets compares slip odds with estimated probabilities and returns
// outcomes whose value reaches minValuePercent, best first, at most keepTop.
// Ties keep a fixed order: match, market, raw market text, outcome.
func FindValueBets(matches []models.Match, est *Estimates, staking Staking, minValuePercent float64, keepTop int) []models.ValueBet {
	if keepTop <= 0 {
		keepTop = 100
	}
	now := time.Now()

	var valueBets []models.ValueBet
	for i := range matches {
		m := &matches[i]
		for j := range m.Markets {
			mk := &m.Markets[j]
			e, ok := est.Lookup(m, mk.Name)
			if !ok {
				continue
			}

			byOutcome := MarketOdds(mk)
			for _, outcome := range Outcomes {
				odd, ok := byOutcome[outcome]
				if !ok {
					continue
				}
				p, ok := e.Probabilities[outcome]
				if !ok || !isFinitePositiveOdd(odd) {
					continue
				}

				// value: (bookmaker_odd / fair_odd - 1) * 100
				fairOdd := 1.0 / p
				valuePercent := (odd/fairOdd - 1.0) * 100.0
				if valuePercent < minValuePercent {
					continue
				}

				fraction, stake := staking.Stake(staking.Bankroll, odd, p)
				valueBets = append(valueBets, models.ValueBet{
					MatchID:            m.ID,
					MatchName:          m.Name(),
					Date:               m.Date,
					Time:               m.Time,
					League:             m.League,
					Market:             mk.Name,
					OrigMarket:         mk.OrigMarket,
					Outcome:            outcome,
					BookmakerOdd:       odd,
					ImpliedProbability: round4(ImpliedProbability(odd)),
					Probability:        p,
					FairOdd:            round(fairOdd),
					ValuePercent:       round(valuePercent),
					KellyFraction:      round4(fraction),
					Stake:              stake,
					PotentialWin:       round(stake * odd),
					FoundAt:            now,
				})
			}
		}
	}

	sort.SliceStable(valueBets, func(i, j int) bool {
		a, b := valueBets[i], valueBets[j]
		if a.ValuePercent != b.ValuePercent {
			return a.ValuePercent > b.ValuePercent
		}
		if a.MatchID != b.MatchID {
			return a.MatchID < b.MatchID
		}
		if a.Market != b.Market {
			return a.Market < b.Market
		}
		if a.OrigMarket != b.OrigMarket {
			return a.OrigMarket < b.OrigMarket
		}
		return a.Outcome < b.Outcome
	})

	if len(valueBets) > keepTop {
		valueBets = valueBets[:keepTop]
	}

	slog.Debug("Analysis: value bets computed", "matches", len(matches), "estimates", est.Len(), "found", len(valueBets))
	return valueBets
}

// Stats aggregates a list of value bets.
func Stats(bets []models.ValueBet) models.ValueBetStats {
	s := models.ValueBetStats{
		TotalFound:       len(bets),
		LeaguesBreakdown: make(map[string]int),
		MarketsBreakdown: make(map[string]int),
	}
	var sumValue float64
	for _, b := range bets {
		s.TotalStake += b.Stake
		sumValue += b.ValuePercent
		if b.ValuePercent > s.BestValue {
			s.BestValue = b.ValuePercent
		}
		s.LeaguesBreakdown[b.League]++
		s.MarketsBreakdown[b.Market]++
	}
	if len(bets) > 0 {
		s.AverageValue = round(sumValue / float64(len(bets)))
	}
	s.TotalStake = round(s.TotalStake)
	return s
}
