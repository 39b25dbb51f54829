package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

func sample() (models.Summary, []models.Match) {
	main := models.Market{Name: "Main market"}
	main.SetOdds([]decimal.Decimal{
		decimal.RequireFromString("1.45"),
		decimal.RequireFromString("4.2"),
		decimal.RequireFromString("6.5"),
	})
	ou := models.Market{Name: "Over/Under 2.5", OrigMarket: "Gólszám 2,5"}
	ou.SetOdds([]decimal.Decimal{decimal.RequireFromString("1.8"), decimal.RequireFromString("1.95")})

	matches := []models.Match{{
		ID: "2025-10-18|18:00|ferencvaros|ujpest", Date: "2025-10-18", Day: "Szombat", Time: "18:00",
		League: "NB I", Team1: "Ferencváros", Team2: "Újpest",
		Markets: []models.Market{main, ou}, MarketCount: 2,
	}}
	summary := models.Summary{
		RunID:        "run-1",
		Sources:      []string{"slip.pdf"},
		Pages:        1,
		LinesTotal:   10,
		LinesMatched: 2,
		LinesDropped: 1,
		TotalMatches: 1,
		TotalMarkets: 2,
		Leagues:      models.LeagueBreakdown(matches),
		DropReasons:  map[string]int{"no odds": 1},
	}
	return summary, matches
}

func TestExportToJSON(t *testing.T) {
	summary, matches := sample()
	data, err := NewExporter().ExportToJSON(summary, matches)
	require.NoError(t, err)

	var decoded struct {
		Summary models.Summary   `json:"summary"`
		Matches []map[string]any `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 1, decoded.Summary.TotalMatches)
	assert.Equal(t, 2, decoded.Summary.Leagues["NB I"].Markets)
	require.Len(t, decoded.Matches, 1)

	markets := decoded.Matches[0]["markets"].([]any)
	first := markets[0].(map[string]any)
	assert.Equal(t, "1.45", first["odds1"])
	assert.Equal(t, "4.20", first["oddsX"])
	second := markets[1].(map[string]any)
	_, hasX := second["oddsX"]
	assert.False(t, hasX)
	assert.True(t, strings.HasPrefix(string(data), "{\n  \"summary\""))
}

func TestExportEmptyMatchesIsArray(t *testing.T) {
	data, err := NewExporter().ExportToJSON(models.Summary{}, nil)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"matches": []`)
}

func TestExportToCSV(t *testing.T) {
	_, matches := sample()
	data, err := NewExporter().ExportToCSV(matches)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,date,day,time,league,team1,team2,event_code,market,orig_market,odds1,oddsX,odds2", lines[0])
	assert.Equal(t, "2025-10-18|18:00|ferencvaros|ujpest,2025-10-18,Szombat,18:00,NB I,Ferencváros,Újpest,,Main market,,1.45,4.20,6.50", lines[1])
	assert.Equal(t, "2025-10-18|18:00|ferencvaros|ujpest,2025-10-18,Szombat,18:00,NB I,Ferencváros,Újpest,,Over/Under 2.5,\"Gólszám 2,5\",1.80,,1.95", lines[2])
}

func TestWriteFile(t *testing.T) {
	summary, matches := sample()
	dir := t.TempDir()
	e := NewExporter()

	jsonPath := filepath.Join(dir, "out", "slip.json")
	require.NoError(t, e.WriteFile(jsonPath, summary, matches))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id": "run-1"`)

	csvPath := filepath.Join(dir, "slip.CSV")
	require.NoError(t, e.WriteFile(csvPath, summary, matches))
	data, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,date"))
}

func TestPrintSummary(t *testing.T) {
	summary, _ := sample()
	var buf bytes.Buffer
	NewExporter().PrintSummary(&buf, summary)

	out := buf.String()
	assert.Contains(t, out, "Total Matches: 1")
	assert.Contains(t, out, "Total Markets: 2")
	assert.Contains(t, out, "NB I")
	assert.Contains(t, out, "no odds")
	assert.NotContains(t, out, "Duplicate")
}

func TestLoadJSON(t *testing.T) {
	summary, matches := sample()
	path := filepath.Join(t.TempDir(), "slip.json")
	require.NoError(t, NewExporter().WriteFile(path, summary, matches))

	doc, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, doc.Matches, 1)
	assert.Equal(t, "run-1", doc.Summary.RunID)

	mk, ok := doc.Matches[0].MarketByName("Over/Under 2.5")
	require.True(t, ok)
	odd, ok := mk.OddsFor("2")
	require.True(t, ok)
	assert.Equal(t, "1.95", odd.String())

	_, err = LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
