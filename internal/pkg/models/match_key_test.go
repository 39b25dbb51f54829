package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeyPart(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Ferencváros", "ferencvaros"},
		{"  Újpest   FC ", "ujpest fc"},
		{"Győri ETO", "gyori eto"},
		{"Man. City", "man city"},
		{"Al-Hilal", "al hilal"},
		{"Nottingham F.", "nottingham f"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizeKeyPart(tt.input), tt.input)
	}
}

func TestMatchKey_FoldsAccentsAndSpacing(t *testing.T) {
	k1 := MatchKey("2025-10-18", "18:00", "Újpest", "Debreceni VSC")
	k2 := MatchKey("2025-10-18", "18:00", "ujpest", "Debreceni  VSC")
	assert.Equal(t, k1, k2)

	k3 := MatchKey("2025-10-18", "20:00", "Újpest", "Debreceni VSC")
	assert.NotEqual(t, k1, k3)
}

func TestMatchKey_NoDate(t *testing.T) {
	assert.Equal(t, "nodate|15:30|mtk|paks", MatchKey("", "15:30", "MTK", "Paks"))
}

func TestMarketKey(t *testing.T) {
	assert.Equal(t, MarketKey("Over/Under 2.5", "Gólszám 2,5"), MarketKey("over/under 2.5", "gólszám 2,5"))
	assert.NotEqual(t, MarketKey("Over/Under 2.5", "Gólszám 2,5"), MarketKey("Over/Under 3.5", "Gólszám 3,5"))
}
