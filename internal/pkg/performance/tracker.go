package performance

import (
	"log/slog"
	"sync"
	"time"
)

const maxInputTimings = 1000

// Tracker tracks performance metrics for extraction runs
type Tracker struct {
	mu sync.RWMutex

	// Overall metrics
	TotalRuns    int
	TotalInputs  int
	FailedInputs int
	CacheHits    int
	TotalPages   int
	TotalLines   int
	DroppedLines int
	TotalMatches int
	TotalMarkets int

	// Timing metrics
	TotalDuration   time.Duration
	TextDuration    time.Duration // text acquisition (PDF reading, pdftotext)
	ExtractDuration time.Duration // classify, parse, aggregate

	// Per-input metrics, most recent last
	InputTimings []InputTiming
}

// InputTiming tracks one processed input
type InputTiming struct {
	Path        string        `json:"path"`
	Backend     string        `json:"backend,omitempty"`
	Pages       int           `json:"pages"`
	Lines       int           `json:"lines"`
	Matches     int           `json:"matches"`
	Markets     int           `json:"markets"`
	Dropped     int           `json:"dropped"`
	TextTime    time.Duration `json:"text_time"`
	ExtractTime time.Duration `json:"extract_time"`
	Cached      bool          `json:"cached"`
	Success     bool          `json:"success"`
	Error       string        `json:"error,omitempty"`
	Timestamp   time.Time     `json:"timestamp"`
}

// Snapshot is a copy of the counters, safe to serialize.
type Snapshot struct {
	TotalRuns       int           `json:"total_runs"`
	TotalInputs     int           `json:"total_inputs"`
	FailedInputs    int           `json:"failed_inputs"`
	CacheHits       int           `json:"cache_hits"`
	TotalPages      int           `json:"total_pages"`
	TotalLines      int           `json:"total_lines"`
	DroppedLines    int           `json:"dropped_lines"`
	TotalMatches    int           `json:"total_matches"`
	TotalMarkets    int           `json:"total_markets"`
	TotalDuration   string        `json:"total_duration"`
	TextDuration    string        `json:"text_duration"`
	ExtractDuration string        `json:"extract_duration"`
	AvgInputTime    string        `json:"avg_input_time"`
	RecentInputs    []InputTiming `json:"recent_inputs"`
}

var globalTracker = &Tracker{
	InputTimings: make([]InputTiming, 0, 64),
}

// GetTracker returns the global performance tracker
func GetTracker() *Tracker {
	return globalTracker
}

// NewTracker returns an empty tracker, for tests and isolated runs.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Reset resets all metrics
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalRuns = 0
	t.TotalInputs = 0
	t.FailedInputs = 0
	t.CacheHits = 0
	t.TotalPages = 0
	t.TotalLines = 0
	t.DroppedLines = 0
	t.TotalMatches = 0
	t.TotalMarkets = 0
	t.TotalDuration = 0
	t.TextDuration = 0
	t.ExtractDuration = 0
	t.InputTimings = t.InputTimings[:0]
}

// RecordInput records one processed input
func (t *Tracker) RecordInput(it InputTiming) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now()
	}

	t.TotalInputs++
	if !it.Success {
		t.FailedInputs++
	}
	if it.Cached {
		t.CacheHits++
	}
	t.TotalPages += it.Pages
	t.TotalLines += it.Lines
	t.DroppedLines += it.Dropped
	t.TotalMatches += it.Matches
	t.TotalMarkets += it.Markets
	t.TextDuration += it.TextTime
	t.ExtractDuration += it.ExtractTime

	if len(t.InputTimings) >= maxInputTimings {
		copy(t.InputTimings, t.InputTimings[1:])
		t.InputTimings = t.InputTimings[:len(t.InputTimings)-1]
	}
	t.InputTimings = append(t.InputTimings, it)
}

// RecordRun records a complete run over a set of inputs
func (t *Tracker) RecordRun(total time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.TotalRuns++
	t.TotalDuration += total
}

// Snapshot returns a copy of the metrics with at most recent inputs.
func (t *Tracker) Snapshot(recent int) Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s := Snapshot{
		TotalRuns:       t.TotalRuns,
		TotalInputs:     t.TotalInputs,
		FailedInputs:    t.FailedInputs,
		CacheHits:       t.CacheHits,
		TotalPages:      t.TotalPages,
		TotalLines:      t.TotalLines,
		DroppedLines:    t.DroppedLines,
		TotalMatches:    t.TotalMatches,
		TotalMarkets:    t.TotalMarkets,
		TotalDuration:   t.TotalDuration.String(),
		TextDuration:    t.TextDuration.String(),
		ExtractDuration: t.ExtractDuration.String(),
		AvgInputTime:    time.Duration(0).String(),
	}
	if t.TotalInputs > 0 {
		s.AvgInputTime = ((t.TextDuration + t.ExtractDuration) / time.Duration(t.TotalInputs)).String()
	}

	start := 0
	if recent >= 0 && len(t.InputTimings) > recent {
		start = len(t.InputTimings) - recent
	}
	s.RecentInputs = append([]InputTiming{}, t.InputTimings[start:]...)
	return s
}

// PrintSummary logs a performance summary
func (t *Tracker) PrintSummary() {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.TotalInputs == 0 {
		slog.Info("No performance data collected yet")
		return
	}

	slog.Info("PERFORMANCE SUMMARY")

	slog.Info("Overall Statistics",
		"total_runs", t.TotalRuns,
		"total_inputs", t.TotalInputs,
		"failed_inputs", t.FailedInputs,
		"cache_hits", t.CacheHits,
		"total_pages", t.TotalPages,
		"total_lines", t.TotalLines,
		"dropped_lines", t.DroppedLines,
		"total_matches", t.TotalMatches,
		"total_markets", t.TotalMarkets)

	processed := t.TextDuration + t.ExtractDuration
	textPercent, extractPercent := 0.0, 0.0
	if processed > 0 {
		textPercent = float64(t.TextDuration) / float64(processed) * 100
		extractPercent = float64(t.ExtractDuration) / float64(processed) * 100
	}
	avgInput := processed / time.Duration(t.TotalInputs)

	slog.Info("Timing Breakdown",
		"text", t.TextDuration, "text_percent", textPercent,
		"extract", t.ExtractDuration, "extract_percent", extractPercent,
		"avg_per_input", avgInput,
		"wall_total", t.TotalDuration)

	// Slowest input
	var slowest InputTiming
	for _, it := range t.InputTimings {
		if it.TextTime+it.ExtractTime > slowest.TextTime+slowest.ExtractTime {
			slowest = it
		}
	}
	if slowest.Path != "" {
		slog.Info("Slowest input",
			"path", slowest.Path,
			"backend", slowest.Backend,
			"pages", slowest.Pages,
			"duration", slowest.TextTime+slowest.ExtractTime)
	}
}
