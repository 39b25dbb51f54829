package validation

import (
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tippmixmentor/tippmix/internal/pkg/interfaces"
	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

var clockRe = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// Validator implements data validation
type Validator struct {
	minOdds decimal.Decimal
	maxOdds decimal.Decimal
}

// NewValidator creates a new validator accepting odds within [minOdds, maxOdds]
func NewValidator(minOdds, maxOdds float64) interfaces.Validator {
	return &Validator{
		minOdds: decimal.NewFromFloat(minOdds),
		maxOdds: decimal.NewFromFloat(maxOdds),
	}
}

// ValidateMatch validates match data
func (v *Validator) ValidateMatch(match *models.Match) error {
	if match == nil {
		return fmt.Errorf("match cannot be nil")
	}

	// Validate required fields
	if match.Team1 == "" {
		return fmt.Errorf("team1 cannot be empty")
	}

	if match.Team2 == "" {
		return fmt.Errorf("team2 cannot be empty")
	}

	if models.NormalizeKeyPart(match.Team1) == models.NormalizeKeyPart(match.Team2) {
		return fmt.Errorf("team1 and team2 are the same: %s", match.Team1)
	}

	if !clockRe.MatchString(match.Time) {
		return fmt.Errorf("invalid time format: %q", match.Time)
	}

	// Date is optional, slips without a header still produce matches
	if match.Date != "" {
		if _, err := time.Parse("2006-01-02", match.Date); err != nil {
			return fmt.Errorf("invalid date %q: %w", match.Date, err)
		}
	}

	if len(match.Markets) == 0 {
		return fmt.Errorf("match %s has no markets", match.Name())
	}

	if match.MarketCount != len(match.Markets) {
		return fmt.Errorf("market_count %d does not match %d markets", match.MarketCount, len(match.Markets))
	}

	for i := range match.Markets {
		if err := v.ValidateMarket(&match.Markets[i]); err != nil {
			return fmt.Errorf("market %d validation failed: %w", i, err)
		}
	}

	return nil
}

// ValidateMarket validates market data
func (v *Validator) ValidateMarket(market *models.Market) error {
	if market == nil {
		return fmt.Errorf("market cannot be nil")
	}

	if market.Name == "" {
		return fmt.Errorf("market name cannot be empty")
	}

	odds := market.Odds()
	if len(odds) == 0 {
		return fmt.Errorf("market %s has no odds", market.Name)
	}

	for _, o := range odds {
		if err := v.CheckOdds(o); err != nil {
			return fmt.Errorf("market %s: %w", market.Name, err)
		}
	}

	return nil
}

// CheckOdds reports whether a single odds value is inside the accepted range.
func (v *Validator) CheckOdds(o decimal.Decimal) error {
	if o.LessThan(v.minOdds) || o.GreaterThan(v.maxOdds) {
		return fmt.Errorf("odds %s outside [%s, %s]", o.String(), v.minOdds.String(), v.maxOdds.String())
	}
	return nil
}
