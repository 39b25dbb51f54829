package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

func market(name string, odds ...string) models.Market {
	values := make([]decimal.Decimal, 0, len(odds))
	for _, o := range odds {
		values = append(values, decimal.RequireFromString(o))
	}
	mk := models.Market{Name: name}
	mk.SetOdds(values)
	return mk
}

func validMatch() models.Match {
	m := models.Match{
		Date:    "2025-10-18",
		Day:     "Szombat",
		Time:    "18:00",
		League:  "NB I",
		Team1:   "Ferencváros",
		Team2:   "Újpest",
		Markets: []models.Market{market("Main market", "1.45", "4.20", "6.50")},
	}
	m.RefreshMarketCount()
	return m
}

func TestValidateMatch(t *testing.T) {
	v := NewValidator(1.01, 50.0)

	tests := []struct {
		name    string
		mutate  func(m *models.Match)
		wantErr bool
	}{
		{"valid", func(m *models.Match) {}, false},
		{"no date is fine", func(m *models.Match) { m.Date = "" }, false},
		{"missing team1", func(m *models.Match) { m.Team1 = "" }, true},
		{"same teams", func(m *models.Match) { m.Team2 = "ferencvaros" }, true},
		{"bad time", func(m *models.Match) { m.Time = "25:10" }, true},
		{"bad date", func(m *models.Match) { m.Date = "2025-13-40" }, true},
		{"no markets", func(m *models.Match) { m.Markets = nil; m.RefreshMarketCount() }, true},
		{"stale market count", func(m *models.Match) { m.MarketCount = 7 }, true},
		{"odds too high", func(m *models.Match) {
			m.Markets = []models.Market{market("Main market", "1.01", "60.00", "1.50")}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMatch()
			tt.mutate(&m)
			err := v.ValidateMatch(&m)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMarket(t *testing.T) {
	v := NewValidator(1.01, 50.0)

	mk := market("Over/Under 2.5", "1.75", "1.95")
	assert.NoError(t, v.ValidateMarket(&mk))

	empty := models.Market{Name: "Main market"}
	assert.Error(t, v.ValidateMarket(&empty))

	low := market("Main market", "1.00")
	assert.Error(t, v.ValidateMarket(&low))

	edge := market("Main market", "1.01", "50.00")
	assert.NoError(t, v.ValidateMarket(&edge))
}

func TestSanitizeMatch(t *testing.T) {
	s := NewSanitizer()
	m := models.Match{
		Team1:  " - Debreceni\tVSC ",
		Team2:  "Paks *",
		League: "  NB   I\x07 ",
		Markets: []models.Market{
			{Name: " Over/Under  2.5 ", OrigMarket: "Gólszám\x00 2,5"},
		},
	}

	require.NoError(t, s.SanitizeMatch(&m))

	assert.Equal(t, "Debreceni VSC", m.Team1)
	assert.Equal(t, "Paks", m.Team2)
	assert.Equal(t, "NB I", m.League)
	assert.Equal(t, "Over/Under 2.5", m.Markets[0].Name)
	assert.Equal(t, "Gólszám 2,5", m.Markets[0].OrigMarket)
	assert.Equal(t, 1, m.MarketCount)
}

func TestTruncateKeepsRunes(t *testing.T) {
	assert.Equal(t, "Győ", truncate("Győri ETO", 3))
	assert.Equal(t, "abc", truncate("abc", 10))
}

func TestCleanTeamName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"MTK,", "MTK"},
		{"Paks*", "Paks"},
		{"• Újpest  FC ", "Újpest FC"},
		{"FTC;\t", "FTC"},
		{"Ferencváros", "Ferencváros"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanTeamName(tt.in), tt.in)
	}
}
