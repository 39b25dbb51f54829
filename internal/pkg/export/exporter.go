package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// Export is the document written for one run: the summary block first,
// then the matches.
type Export struct {
	Summary models.Summary `json:"summary"`
	Matches []models.Match `json:"matches"`
}

// csvHeader is one row per market with the match columns repeated.
var csvHeader = []string{
	"id", "date", "day", "time", "league", "team1", "team2", "event_code",
	"market", "orig_market", "odds1", "oddsX", "odds2",
}

// Exporter handles the export formats
type Exporter struct{}

// NewExporter creates a new exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// ExportMatches wraps matches and their summary.
func (e *Exporter) ExportMatches(summary models.Summary, matches []models.Match) *Export {
	if matches == nil {
		matches = []models.Match{}
	}
	return &Export{Summary: summary, Matches: matches}
}

// ExportToJSON exports to indented JSON
func (e *Exporter) ExportToJSON(summary models.Summary, matches []models.Match) ([]byte, error) {
	return json.MarshalIndent(e.ExportMatches(summary, matches), "", "  ")
}

// WriteCSV writes one row per market.
func (e *Exporter) WriteCSV(w io.Writer, matches []models.Match) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, m := range matches {
		for _, mk := range m.Markets {
			row := []string{
				m.ID, m.Date, m.Day, m.Time, m.League, m.Team1, m.Team2, m.EventCode,
				mk.Name, mk.OrigMarket, oddString(&mk, "1"), oddString(&mk, "X"), oddString(&mk, "2"),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("failed to write csv row for %s: %w", m.ID, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportToCSV exports matches to CSV
func (e *Exporter) ExportToCSV(matches []models.Match) ([]byte, error) {
	var b strings.Builder
	if err := e.WriteCSV(&b, matches); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

// WriteFile writes the export to path; the format follows the extension
// (.csv, anything else JSON). Parent directories are created.
func (e *Exporter) WriteFile(path string, summary models.Summary, matches []models.Match) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	var (
		data []byte
		err  error
	)
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		data, err = e.ExportToCSV(matches)
	} else {
		data, err = e.ExportToJSON(summary, matches)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads a document written by ExportToJSON.
func LoadJSON(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc Export
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &doc, nil
}

// PrintSummary prints a human readable summary of a run
func (e *Exporter) PrintSummary(w io.Writer, s models.Summary) {
	fmt.Fprintf(w, "=== Extraction Summary ===\n")
	fmt.Fprintf(w, "Run: %s\n", s.RunID)
	fmt.Fprintf(w, "Sources: %d, pages: %d\n", len(s.Sources), s.Pages)
	fmt.Fprintf(w, "Lines: %d total, %d matched, %d dropped\n", s.LinesTotal, s.LinesMatched, s.LinesDropped)
	fmt.Fprintf(w, "Total Matches: %d\n", s.TotalMatches)
	fmt.Fprintf(w, "Total Markets: %d\n", s.TotalMarkets)
	if s.DuplicateMarkets > 0 {
		fmt.Fprintf(w, "Duplicate markets ignored: %d\n", s.DuplicateMarkets)
	}

	if len(s.Leagues) > 0 {
		fmt.Fprintf(w, "\nLeagues:\n")
		for _, name := range s.SortedLeagues() {
			ls := s.Leagues[name]
			fmt.Fprintf(w, "  %-30s %4d matches %5d markets\n", name, ls.Matches, ls.Markets)
		}
	}

	if len(s.DropReasons) > 0 {
		fmt.Fprintf(w, "\nDropped lines:\n")
		for _, reason := range sortedKeys(s.DropReasons) {
			fmt.Fprintf(w, "  %-30s %4d\n", reason, s.DropReasons[reason])
		}
	}
}

func oddString(mk *models.Market, outcome string) string {
	d, ok := mk.OddsFor(outcome)
	if !ok {
		return ""
	}
	return d.StringFixed(2)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
