// Package extractor classifies slip lines and assembles them into matches.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tippmixmentor/tippmix/internal/pkg/config"
	"github.com/tippmixmentor/tippmix/internal/pkg/interfaces"
	"github.com/tippmixmentor/tippmix/internal/pkg/models"
	"github.com/tippmixmentor/tippmix/internal/pkg/textsource"
	"github.com/tippmixmentor/tippmix/internal/pkg/validation"
)

// RulesVersion changes whenever classification or parsing output changes;
// cached results from other versions are ignored.
const RulesVersion = "2025.10.3"

const ctxCheckEvery = 256

// Result is the output of one extraction run.
type Result struct {
	Summary     models.Summary `json:"summary"`
	Matches     []models.Match `json:"matches"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
}

// Extractor runs the classify, parse, aggregate pipeline over documents.
// It holds no per-run state and is safe for concurrent use.
type Extractor struct {
	classifier *Classifier
	parser     *LineParser
	aliases    *Aliases
	validator  interfaces.Validator
	sanitizer  interfaces.DataSanitizer
	logger     *slog.Logger
	now        func() time.Time

	fingerprint string
}

// New builds an extractor from config. aliases may be nil.
func New(cfg *config.ExtractorConfig, aliases *Aliases, logger *slog.Logger) *Extractor {
	if aliases == nil {
		aliases = NewAliases()
	}
	if logger == nil {
		logger = slog.Default()
	}
	parser := NewLineParser(cfg.DefaultMarket, cfg.MinOdds, cfg.MaxOdds)
	return &Extractor{
		classifier:  NewClassifier(aliases),
		parser:      parser,
		aliases:     aliases,
		validator:   validation.NewValidator(cfg.MinOdds, cfg.MaxOdds),
		sanitizer:   validation.NewSanitizer(),
		logger:      logger,
		now:         time.Now,
		fingerprint: fingerprintOf(parser, aliases),
	}
}

// state is carried from line to line while reading a document.
type state struct {
	page    int
	date    time.Time
	hasDate bool
	league  string
}

type run struct {
	source      string
	agg         *Aggregator
	pages       map[int]struct{}
	linesTotal  int
	matched     int
	diagnostics []Diagnostic
}

// ExtractText runs the pipeline over raw text.
func (e *Extractor) ExtractText(ctx context.Context, source, text string) (*Result, error) {
	return e.Extract(ctx, textsource.FromText(source, "text", text))
}

// Extract runs the pipeline over one document.
func (e *Extractor) Extract(ctx context.Context, doc *textsource.Document) (*Result, error) {
	r := &run{
		source: doc.Path,
		agg:    NewAggregator(),
		pages:  make(map[int]struct{}),
	}
	st := &state{page: 1}

	lineNo := 0
	for _, page := range doc.Pages {
		st.page = page.Number
		r.pages[st.page] = struct{}{}

		for _, line := range page.Lines {
			lineNo++
			r.linesTotal++
			if lineNo%ctxCheckEvery == 0 {
				if err := ctx.Err(); err != nil {
					return nil, fmt.Errorf("extract %s: %w", doc.Path, err)
				}
			}
			e.handleLine(r, st, lineNo, line)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extract %s: %w", doc.Path, err)
	}

	matches := e.finalize(r)
	res := &Result{
		Matches:     matches,
		Diagnostics: r.diagnostics,
	}
	res.Summary = e.summarize(matches, []string{doc.Path}, len(r.pages), r.linesTotal, r.matched, r.agg.Duplicates(), r.diagnostics)

	e.logger.Debug("document extracted",
		"source", doc.Path,
		"backend", doc.Backend,
		"pages", len(r.pages),
		"lines", r.linesTotal,
		"matches", len(matches),
		"dropped", len(r.diagnostics))
	return res, nil
}

func (e *Extractor) handleLine(r *run, st *state, lineNo int, line string) {
	kind := e.classifier.Classify(line)
	switch kind {
	case KindPageMarker:
		if n, ok := parsePageMarker(line); ok {
			if n == 0 {
				n = st.page + 1
			}
			st.page = n
			r.pages[n] = struct{}{}
		}

	case KindDateHeader:
		if d, ok := parseDateHeader(line); ok {
			st.date, st.hasDate = d, true
		}

	case KindLeagueHeader:
		if name := e.aliases.League(line); name != "" {
			st.league = name
		}

	case KindMatch, KindMatchCandidate:
		ml, err := e.parser.Parse(line)
		if err != nil {
			r.diagnostics = append(r.diagnostics, newDiagnostic(r.source, st.page, lineNo, strings.TrimSpace(line), err))
			return
		}
		r.matched++
		r.agg.Add(e.record(r, st, ml))
	}
}

func (e *Extractor) record(r *run, st *state, ml *MatchLine) Record {
	ml.Team1 = e.aliases.Team(validation.CleanTeamName(ml.Team1))
	ml.Team2 = e.aliases.Team(validation.CleanTeamName(ml.Team2))

	rec := Record{
		Day:    WeekdayName(ml.Weekday),
		League: st.league,
		Page:   st.page,
		Source: r.source,
		Line:   ml,
	}
	if st.hasDate {
		d := resolveDate(st.date, ml.Weekday)
		rec.Date = d.Format("2006-01-02")
		rec.Day = WeekdayName(d.Weekday())
	}
	return rec
}

// finalize sanitizes and validates the aggregated matches; invalid ones
// become diagnostics.
func (e *Extractor) finalize(r *run) []models.Match {
	all := r.agg.Matches()
	out := make([]models.Match, 0, len(all))
	for i := range all {
		m := all[i]
		if m.League == "" {
			m.League = models.UnknownLeague
		}
		if err := e.sanitizer.SanitizeMatch(&m); err != nil {
			r.diagnostics = append(r.diagnostics, newDiagnostic(r.source, m.Page, 0, m.Name(), fmt.Errorf("%w: %v", ErrInvalidMatch, err)))
			continue
		}
		if err := e.validator.ValidateMatch(&m); err != nil {
			r.diagnostics = append(r.diagnostics, newDiagnostic(r.source, m.Page, 0, m.Name(), fmt.Errorf("%w: %v", ErrInvalidMatch, err)))
			continue
		}
		out = append(out, m)
	}
	return out
}

func (e *Extractor) summarize(matches []models.Match, sources []string, pages, lines, matched, dups int, diags []Diagnostic) models.Summary {
	s := models.Summary{
		RunID:            uuid.NewString(),
		GeneratedAt:      e.now().UTC(),
		Sources:          sources,
		Pages:            pages,
		LinesTotal:       lines,
		LinesMatched:     matched,
		LinesDropped:     len(diags),
		DuplicateMarkets: dups,
		TotalMatches:     len(matches),
		TotalMarkets:     models.CountMarkets(matches),
		Leagues:          models.LeagueBreakdown(matches),
	}
	if len(diags) > 0 {
		s.DropReasons = make(map[string]int)
		for _, d := range diags {
			s.DropReasons[d.Reason]++
		}
	}
	return s
}

// Merge combines per-input results into one, deduplicating matches across
// inputs. Inputs keep their order; nil results are skipped.
func (e *Extractor) Merge(results ...*Result) *Result {
	agg := NewAggregator()
	var (
		sources            []string
		diags              []Diagnostic
		pages, lines, hits int
		dups               int
	)
	for _, r := range results {
		if r == nil {
			continue
		}
		for _, m := range r.Matches {
			agg.AddMatch(m)
		}
		sources = append(sources, r.Summary.Sources...)
		diags = append(diags, r.Diagnostics...)
		pages += r.Summary.Pages
		lines += r.Summary.LinesTotal
		hits += r.Summary.LinesMatched
		dups += r.Summary.DuplicateMarkets
	}
	dups += agg.Duplicates()

	matches := agg.Matches()
	return &Result{
		Summary:     e.summarize(matches, sources, pages, lines, hits, dups, diags),
		Matches:     matches,
		Diagnostics: diags,
	}
}
