package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/tippmixmentor/tippmix/internal/analysis"
	pkgconfig "github.com/tippmixmentor/tippmix/internal/pkg/config"
	"github.com/tippmixmentor/tippmix/internal/pkg/export"
	"github.com/tippmixmentor/tippmix/internal/pkg/logging"
	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

type options struct {
	configPath string
	input      string
	estimates  string
	settled    string
	top        int
	minValue   float64
	accLegs    int
	accStake   float64
	out        string
}

// AccumulatorReport describes the combined bet built from the best value bets.
type AccumulatorReport struct {
	Legs          []analysis.Leg `json:"legs"`
	CombinedOdds  string         `json:"combined_odds"`
	Probability   float64        `json:"probability"`
	ExpectedValue float64        `json:"expected_value"`
	Stake         string         `json:"stake"`
	Payout        string         `json:"payout"`
}

// Report is the analyzer output document.
type Report struct {
	RunID       string                    `json:"run_id"`
	Margins     []analysis.MarginReport   `json:"margins"`
	ValueBets   []models.ValueBet         `json:"value_bets,omitempty"`
	Stats       *models.ValueBetStats     `json:"value_bet_stats,omitempty"`
	Accumulator *AccumulatorReport        `json:"accumulator,omitempty"`
	Backtest    []analysis.BacktestResult `json:"backtest,omitempty"`
}

func main() {
	if err := run(); err != nil {
		slog.Error("Analyzer failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	opts := parseFlags()
	if opts.input == "" {
		flag.Usage()
		return fmt.Errorf("-in is required")
	}

	appConfig := pkgconfig.Default()
	if opts.configPath != "" {
		cfg, err := pkgconfig.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		appConfig = cfg
	}
	if opts.minValue >= 0 {
		appConfig.Analysis.MinValuePercent = opts.minValue
	}
	if opts.estimates == "" {
		opts.estimates = appConfig.Analysis.EstimatesFile
	}

	if _, closer, err := logging.SetupLogger(&appConfig.Logging, "analyzer"); err != nil {
		slog.Warn("Failed to setup logging, continuing with default logger", "error", err)
	} else {
		defer closer.Close()
	}

	doc, err := export.LoadJSON(opts.input)
	if err != nil {
		return err
	}
	slog.Info("Loaded extraction", "run_id", doc.Summary.RunID, "matches", len(doc.Matches))

	staking := analysis.StakingFromConfig(&appConfig.Analysis)
	report := Report{
		RunID:   doc.Summary.RunID,
		Margins: analysis.Margins(doc.Matches),
	}

	if opts.estimates != "" {
		est, err := analysis.LoadEstimates(opts.estimates, appConfig.Extractor.DefaultMarket)
		if err != nil {
			return err
		}
		report.ValueBets = analysis.FindValueBets(doc.Matches, est, staking, appConfig.Analysis.MinValuePercent, opts.top)
		stats := analysis.Stats(report.ValueBets)
		report.Stats = &stats
		slog.Info("Value bets found", "estimates", est.Len(), "value_bets", stats.TotalFound, "best_value", stats.BestValue)

		if opts.accLegs >= 2 {
			acc, err := buildAccumulator(doc.Matches, report.ValueBets, opts.accLegs, opts.accStake)
			if err != nil {
				slog.Warn("No accumulator built", "error", err)
			} else {
				report.Accumulator = acc
			}
		}
	}

	if opts.settled != "" {
		bets, err := analysis.LoadSettledBets(opts.settled)
		if err != nil {
			return err
		}
		report.Backtest = analysis.Backtest(bets, staking)
		for _, r := range report.Backtest {
			slog.Info("Backtest", "strategy", r.Strategy, "placed", r.Placed, "roi_percent", r.ROI, "final_bankroll", r.FinalBankroll, "max_drawdown_percent", r.MaxDrawdown)
		}
	}

	var w io.Writer = os.Stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.out, err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// buildAccumulator combines the best value bets of distinct matches.
func buildAccumulator(matches []models.Match, bets []models.ValueBet, legs int, stake float64) (*AccumulatorReport, error) {
	byID := make(map[string]*models.Match, len(matches))
	for i := range matches {
		byID[matches[i].ID] = &matches[i]
	}

	seen := make(map[string]bool)
	var picked []analysis.Leg
	for _, vb := range bets {
		if len(picked) == legs {
			break
		}
		m, ok := byID[vb.MatchID]
		if !ok || seen[vb.MatchID] {
			continue
		}
		leg, err := analysis.LegFromValueBet(m, vb)
		if err != nil {
			continue
		}
		seen[vb.MatchID] = true
		picked = append(picked, leg)
	}

	acc, err := analysis.NewAccumulator(picked...)
	if err != nil {
		return nil, err
	}
	stakeDec := decimal.NewFromFloat(stake)
	return &AccumulatorReport{
		Legs:          acc.Legs,
		CombinedOdds:  acc.CombinedOdds().String(),
		Probability:   acc.CombinedProbability(),
		ExpectedValue: acc.ExpectedValue(),
		Stake:         stakeDec.StringFixed(2),
		Payout:        acc.Payout(stakeDec).StringFixed(2),
	}, nil
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.configPath, "config", os.Getenv("CONFIG_PATH"), "Path to config file (can be set via CONFIG_PATH env var). Empty = built-in defaults")
	flag.StringVar(&opts.input, "in", "", "Extraction JSON written by the extractor")
	flag.StringVar(&opts.estimates, "estimates", "", "YAML probability estimates (default analysis.estimates_file)")
	flag.StringVar(&opts.settled, "settled", "", "YAML settled bets for a backtest")
	flag.IntVar(&opts.top, "top", 20, "Keep at most N value bets")
	flag.Float64Var(&opts.minValue, "min-value", -1, "Override analysis.min_value_percent (0 = any positive value). Negative = use config")
	flag.IntVar(&opts.accLegs, "acc-legs", 0, "Build an accumulator from the best N value bets (N >= 2)")
	flag.Float64Var(&opts.accStake, "acc-stake", 1000, "Accumulator stake")
	flag.StringVar(&opts.out, "out", "", "Write the report to a file instead of stdout")
	flag.Parse()
	return opts
}
