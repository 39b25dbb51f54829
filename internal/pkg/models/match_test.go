package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decs(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, v := range values {
		out = append(out, decimal.RequireFromString(v))
	}
	return out
}

func TestMarketSetOdds(t *testing.T) {
	tests := []struct {
		name        string
		values      []decimal.Decimal
		one, x, two string
	}{
		{"three values", decs("1.85", "3.40", "4.20"), "1.85", "3.4", "4.2"},
		{"two values", decs("1.70", "2.05"), "1.7", "", "2.05"},
		{"one value", decs("1.30"), "1.3", "", ""},
	}
	str := func(d *decimal.Decimal) string {
		if d == nil {
			return ""
		}
		return d.String()
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mk Market
			mk.SetOdds(tt.values)
			assert.Equal(t, tt.one, str(mk.Odds1))
			assert.Equal(t, tt.x, str(mk.OddsX))
			assert.Equal(t, tt.two, str(mk.Odds2))
			assert.Len(t, mk.Odds(), len(tt.values))
		})
	}
}

func TestMarketJSONUsesDecimalStrings(t *testing.T) {
	mk := Market{Name: "Over/Under 2.5", OrigMarket: "Gólszám 2,5"}
	mk.SetOdds(decs("1.75", "1.95"))

	raw, err := json.Marshal(mk)
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"Over/Under 2.5","orig_market":"Gólszám 2,5","odds1":"1.75","odds2":"1.95"}`, string(raw))
}

func TestMarketJSONKeepsTwoDecimals(t *testing.T) {
	mk := Market{Name: "Main market"}
	mk.SetOdds(decs("1.85", "3.40", "4.2"))

	raw, err := json.Marshal(&mk)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Main market","orig_market":"","odds1":"1.85","oddsX":"3.40","odds2":"4.20"}`, string(raw))

	var back Market
	require.NoError(t, json.Unmarshal(raw, &back))
	x, ok := back.OddsFor("X")
	require.True(t, ok)
	assert.True(t, x.Equal(decimal.RequireFromString("3.4")))
}

func TestMarketOddsFor(t *testing.T) {
	mk := Market{Name: "Main market"}
	mk.SetOdds(decs("2.10", "3.30", "3.25"))

	x, ok := mk.OddsFor("x")
	require.True(t, ok)
	assert.Equal(t, "3.3", x.String())

	var two Market
	two.SetOdds(decs("1.50", "2.40"))
	_, ok = two.OddsFor("X")
	assert.False(t, ok)
}

func TestLeagueBreakdown(t *testing.T) {
	matches := []Match{
		{League: "NB I", Markets: make([]Market, 3)},
		{League: "NB I", Markets: make([]Market, 1)},
		{League: "", Markets: make([]Market, 2)},
	}
	got := LeagueBreakdown(matches)
	assert.Equal(t, LeagueStats{Matches: 2, Markets: 4}, got["NB I"])
	assert.Equal(t, LeagueStats{Matches: 1, Markets: 2}, got[UnknownLeague])
	assert.Equal(t, 6, CountMarkets(matches))

	s := Summary{Leagues: got}
	assert.Equal(t, []string{"NB I", UnknownLeague}, s.SortedLeagues())
}
