package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Match is one fixture assembled from a betting slip, with every market
// found for it during a run.
type Match struct {
	ID          string   `json:"id"`
	Date        string   `json:"date"` // ISO YYYY-MM-DD, empty when the slip had no date header
	Day         string   `json:"day"`  // weekday name
	Time        string   `json:"time"` // HH:MM
	League      string   `json:"league"`
	Team1       string   `json:"team1"`
	Team2       string   `json:"team2"`
	EventCode   string   `json:"event_code,omitempty"` // slip event number, when printed
	Page        int      `json:"page,omitempty"`       // first page the match was seen on
	Source      string   `json:"source,omitempty"`     // input file
	Markets     []Market `json:"markets"`
	MarketCount int      `json:"market_count"`
}

// Market is one betting market line of a match.
type Market struct {
	Name       string           `json:"name"`        // canonical label, e.g. "Over/Under 2.5"
	OrigMarket string           `json:"orig_market"` // raw matched text from the slip
	Odds1      *decimal.Decimal `json:"odds1,omitempty"`
	OddsX      *decimal.Decimal `json:"oddsX,omitempty"`
	Odds2      *decimal.Decimal `json:"odds2,omitempty"`
}

// OddsPlaces is the precision odds are printed with on slips and in output.
const OddsPlaces = 2

// MarshalJSON writes odds as fixed two-decimal strings ("4.20").
func (mk Market) MarshalJSON() ([]byte, error) {
	fixed := func(d *decimal.Decimal) *string {
		if d == nil {
			return nil
		}
		s := d.StringFixed(OddsPlaces)
		return &s
	}
	return json.Marshal(struct {
		Name       string  `json:"name"`
		OrigMarket string  `json:"orig_market"`
		Odds1      *string `json:"odds1,omitempty"`
		OddsX      *string `json:"oddsX,omitempty"`
		Odds2      *string `json:"odds2,omitempty"`
	}{
		Name:       mk.Name,
		OrigMarket: mk.OrigMarket,
		Odds1:      fixed(mk.Odds1),
		OddsX:      fixed(mk.OddsX),
		Odds2:      fixed(mk.Odds2),
	})
}

// Name returns "Team1 - Team2".
func (m *Match) Name() string {
	return strings.TrimSpace(m.Team1) + " - " + strings.TrimSpace(m.Team2)
}

// RefreshMarketCount recomputes the derived market_count field.
func (m *Match) RefreshMarketCount() {
	m.MarketCount = len(m.Markets)
}

// MarketByName returns the first market carrying the given name.
func (m *Match) MarketByName(name string) (*Market, bool) {
	for i := range m.Markets {
		if strings.EqualFold(m.Markets[i].Name, name) {
			return &m.Markets[i], true
		}
	}
	return nil, false
}

// MarketByKey returns the market with the given canonical name and raw
// text, compared the way the aggregator deduplicates them.
func (m *Match) MarketByKey(name, orig string) (*Market, bool) {
	want := MarketKey(name, orig)
	for i := range m.Markets {
		if MarketKey(m.Markets[i].Name, m.Markets[i].OrigMarket) == want {
			return &m.Markets[i], true
		}
	}
	return nil, false
}

// Odds returns the present odds values in 1, X, 2 order.
func (mk *Market) Odds() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, 3)
	for _, d := range []*decimal.Decimal{mk.Odds1, mk.OddsX, mk.Odds2} {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// OddsFor returns the odds for outcome "1", "X" or "2".
func (mk *Market) OddsFor(outcome string) (decimal.Decimal, bool) {
	var d *decimal.Decimal
	switch strings.ToUpper(strings.TrimSpace(outcome)) {
	case "1":
		d = mk.Odds1
	case "X":
		d = mk.OddsX
	case "2":
		d = mk.Odds2
	}
	if d == nil {
		return decimal.Zero, false
	}
	return *d, true
}

// SetOdds assigns parsed values by count: three values fill 1/X/2, two fill
// 1/2, one fills 1.
func (mk *Market) SetOdds(values []decimal.Decimal) {
	mk.Odds1, mk.OddsX, mk.Odds2 = nil, nil, nil
	ptr := func(d decimal.Decimal) *decimal.Decimal { return &d }
	switch len(values) {
	case 0:
	case 1:
		mk.Odds1 = ptr(values[0])
	case 2:
		mk.Odds1 = ptr(values[0])
		mk.Odds2 = ptr(values[1])
	default:
		mk.Odds1 = ptr(values[0])
		mk.OddsX = ptr(values[1])
		mk.Odds2 = ptr(values[2])
	}
}
