package models

import (
	"time"
)

// ValueBet is an outcome whose estimated probability beats the price on the slip.
type ValueBet struct {
	MatchID    string `json:"match_id"`
	MatchName  string `json:"match_name"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	League     string `json:"league"`
	Market     string `json:"market"`
	OrigMarket string `json:"orig_market,omitempty"` // raw market text, tells apart markets sharing a name
	Outcome    string `json:"outcome"`               // "1", "X", "2"

	// Odds and probabilities
	BookmakerOdd       float64 `json:"bookmaker_odd"`
	ImpliedProbability float64 `json:"implied_probability"` // 1 / bookmaker_odd
	Probability        float64 `json:"probability"`         // estimated true probability
	FairOdd            float64 `json:"fair_odd"`            // 1 / probability
	ValuePercent       float64 `json:"value_percent"`       // (bookmaker_odd * probability - 1) * 100

	// Staking
	KellyFraction float64 `json:"kelly_fraction"` // share of bankroll after fractional Kelly and cap
	Stake         float64 `json:"stake"`
	PotentialWin  float64 `json:"potential_win"`

	FoundAt time.Time `json:"found_at"`
}

// ValueBetStats aggregates a list of value bets.
type ValueBetStats struct {
	TotalFound       int            `json:"total_found"`
	TotalStake       float64        `json:"total_stake"`
	AverageValue     float64        `json:"average_value"`
	BestValue        float64        `json:"best_value"`
	LeaguesBreakdown map[string]int `json:"leagues_breakdown"`
	MarketsBreakdown map[string]int `json:"markets_breakdown"`
}
