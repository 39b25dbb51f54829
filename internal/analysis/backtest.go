package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SettledBet is a past bet with its result.
type SettledBet struct {
	MatchName   string  `yaml:"match" json:"match"`
	Date        string  `yaml:"date" json:"date"`
	Outcome     string  `yaml:"outcome" json:"outcome"`
	Odds        float64 `yaml:"odds" json:"odds"`
	Probability float64 `yaml:"probability" json:"probability"`
	Won         bool    `yaml:"won" json:"won"`
}

// BacktestResult summarizes one staking strategy over settled bets.
type BacktestResult struct {
	Strategy      string  `json:"strategy"`
	Bets          int     `json:"bets"`
	Placed        int     `json:"placed"`
	Wins          int     `json:"wins"`
	HitRate       float64 `json:"hit_rate"`
	Staked        float64 `json:"staked"`
	Profit        float64 `json:"profit"`
	ROI           float64 `json:"roi_percent"`
	StartBankroll float64 `json:"start_bankroll"`
	FinalBankroll float64 `json:"final_bankroll"`
	MaxDrawdown   float64 `json:"max_drawdown_percent"`
}

type settledFile struct {
	Bets []SettledBet `yaml:"bets"`
}

// LoadSettledBets reads a YAML list of settled bets under "bets".
func LoadSettledBets(path string) ([]SettledBet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settled bets: %w", err)
	}
	var f settledFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse settled bets %s: %w", path, err)
	}
	return f.Bets, nil
}

// Backtest replays bets in order with flat and Kelly staking.
func Backtest(bets []SettledBet, s Staking) []BacktestResult {
	return []BacktestResult{
		replay("flat", bets, s, func(float64, SettledBet) float64 { return s.flatStake() }),
		replay("kelly", bets, s, func(bankroll float64, b SettledBet) float64 {
			_, stake := s.Stake(bankroll, b.Odds, b.Probability)
			return stake
		}),
	}
}

func replay(name string, bets []SettledBet, s Staking, stakeFor func(bankroll float64, b SettledBet) float64) BacktestResult {
	r := BacktestResult{Strategy: name, Bets: len(bets), StartBankroll: s.Bankroll}

	bankroll := s.Bankroll
	peak := bankroll
	for _, b := range bets {
		if !isFinitePositiveOdd(b.Odds) {
			continue
		}
		stake := stakeFor(bankroll, b)
		if stake > bankroll {
			stake = bankroll
		}
		if stake <= 0 {
			continue
		}

		r.Placed++
		r.Staked += stake
		if b.Won {
			r.Wins++
			bankroll += stake * (b.Odds - 1)
		} else {
			bankroll -= stake
		}

		if bankroll > peak {
			peak = bankroll
		}
		if peak > 0 {
			if dd := (peak - bankroll) / peak * 100; dd > r.MaxDrawdown {
				r.MaxDrawdown = dd
			}
		}
	}

	r.FinalBankroll = round(bankroll)
	r.Profit = round(bankroll - s.Bankroll)
	r.Staked = round(r.Staked)
	r.MaxDrawdown = round(r.MaxDrawdown)
	if r.Placed > 0 {
		r.HitRate = round(float64(r.Wins) / float64(r.Placed) * 100)
	}
	if r.Staked > 0 {
		r.ROI = round(r.Profit / r.Staked * 100)
	}
	return r
}
