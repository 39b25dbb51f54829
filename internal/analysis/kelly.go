package analysis

import (
	"github.com/tippmixmentor/tippmix/internal/pkg/config"
)

// Staking sizes bets against a bankroll.
type Staking struct {
	Bankroll        float64
	KellyFraction   float64 // 0.25 = quarter Kelly
	MaxStakePercent float64 // cap per bet, percent of bankroll
	FlatStake       float64 // used by flat backtests; 0 means 1% of bankroll
}

// StakingFromConfig copies the staking settings of the analysis config.
func StakingFromConfig(cfg *config.AnalysisConfig) Staking {
	return Staking{
		Bankroll:        cfg.Bankroll,
		KellyFraction:   cfg.KellyFraction,
		MaxStakePercent: cfg.MaxStakePercent,
		FlatStake:       cfg.FlatStake,
	}
}

// Kelly returns the full Kelly fraction (b*p - q) / b for decimal odds odd
// and win probability p. No edge returns 0.
func Kelly(odd, p float64) float64 {
	if !isFinitePositiveOdd(odd) || p <= 0 || p >= 1 {
		return 0
	}
	b := odd - 1.0 // net odds
	q := 1.0 - p
	k := (b*p - q) / b
	if k <= 0 {
		return 0
	}
	return k
}

// Fraction applies fractional Kelly and the per-bet cap.
func (s Staking) Fraction(odd, p float64) float64 {
	f := Kelly(odd, p) * s.KellyFraction
	if maxPct := s.MaxStakePercent / 100; maxPct > 0 && f > maxPct {
		f = maxPct
	}
	return f
}

// Stake returns the bankroll share and the rounded stake for one bet.
func (s Staking) Stake(bankroll, odd, p float64) (fraction, stake float64) {
	fraction = s.Fraction(odd, p)
	return fraction, round(bankroll * fraction)
}

func (s Staking) flatStake() float64 {
	if s.FlatStake > 0 {
		return s.FlatStake
	}
	return round(s.Bankroll * 0.01)
}
