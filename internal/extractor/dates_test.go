package extractor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDateHeader(t *testing.T) {
	tests := []struct {
		line string
		want string
		ok   bool
	}{
		{"2025. október 18., szombat", "2025-10-18", true},
		{"2025. OKTÓBER 18.", "2025-10-18", true},
		{"2025.10.18.", "2025-10-18", true},
		{"2025-10-19 vasárnap", "2025-10-19", true},
		{"Szombat, 2025.10.18.", "2025-10-18", true},
		{"2025.02.30.", "", false},
		{"Labdarúgás", "", false},
		{"Szo 18:00 Paks - ZTE 2,10 3,30 3,10", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := parseDateHeader(tt.line)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.Format("2006-01-02"))
			}
		})
	}
}

func TestResolveDate(t *testing.T) {
	saturday := time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-10-18", resolveDate(saturday, time.Saturday).Format("2006-01-02"))
	assert.Equal(t, "2025-10-19", resolveDate(saturday, time.Sunday).Format("2006-01-02"))
	assert.Equal(t, "2025-10-20", resolveDate(saturday, time.Monday).Format("2006-01-02"))
	assert.Equal(t, "2025-10-24", resolveDate(saturday, time.Friday).Format("2006-01-02"))
}

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"18:00", "18:00", true},
		{"9.30", "09:30", true},
		{"0:05", "00:05", true},
		{"24:00", "", false},
		{"18:7", "", false},
		{"18:60", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeClock(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseDayAbbr(t *testing.T) {
	wd, ok := parseDayAbbr("Sze")
	assert.True(t, ok)
	assert.Equal(t, time.Wednesday, wd)

	wd, ok = parseDayAbbr("szo.")
	assert.True(t, ok)
	assert.Equal(t, time.Saturday, wd)

	_, ok = parseDayAbbr("Sz")
	assert.False(t, ok)

	assert.Equal(t, "Csütörtök", WeekdayName(time.Thursday))
}
