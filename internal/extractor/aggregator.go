package extractor

import (
	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// Record is a parsed match line with the state it was read under.
type Record struct {
	Date   string
	Day    string
	League string
	Page   int
	Source string
	Line   *MatchLine
}

type matchEntry struct {
	match   *models.Match
	markets map[string]struct{}
}

// Aggregator merges records into matches keyed by models.MatchKey.
// Matches and markets keep first-seen order; a repeated market is counted
// and ignored.
type Aggregator struct {
	order      []*matchEntry
	index      map[string]*matchEntry
	duplicates int
}

func NewAggregator() *Aggregator {
	return &Aggregator{index: make(map[string]*matchEntry)}
}

// Add merges one record. It reports whether a new market was stored.
func (a *Aggregator) Add(r Record) bool {
	ml := r.Line
	key := models.MatchKey(r.Date, ml.Time, ml.Team1, ml.Team2)

	e, ok := a.index[key]
	if !ok {
		e = &matchEntry{
			match: &models.Match{
				ID:        key,
				Date:      r.Date,
				Day:       r.Day,
				Time:      ml.Time,
				League:    r.League,
				Team1:     ml.Team1,
				Team2:     ml.Team2,
				EventCode: ml.EventCode,
				Page:      r.Page,
				Source:    r.Source,
			},
			markets: make(map[string]struct{}),
		}
		a.index[key] = e
		a.order = append(a.order, e)
	}
	if e.match.League == "" {
		e.match.League = r.League
	}
	if e.match.EventCode == "" {
		e.match.EventCode = ml.EventCode
	}

	mk := models.Market{Name: ml.Market, OrigMarket: ml.OrigMarket}
	mk.SetOdds(ml.Odds)
	return a.addMarket(e, mk)
}

// AddMatch merges an already assembled match, used when combining runs.
func (a *Aggregator) AddMatch(m models.Match) {
	key := models.MatchKey(m.Date, m.Time, m.Team1, m.Team2)
	e, ok := a.index[key]
	if !ok {
		cp := m
		cp.ID = key
		cp.Markets = nil
		e = &matchEntry{match: &cp, markets: make(map[string]struct{})}
		a.index[key] = e
		a.order = append(a.order, e)
	}
	if e.match.League == "" {
		e.match.League = m.League
	}
	for _, mk := range m.Markets {
		a.addMarket(e, mk)
	}
}

func (a *Aggregator) addMarket(e *matchEntry, mk models.Market) bool {
	mkKey := models.MarketKey(mk.Name, mk.OrigMarket)
	if _, dup := e.markets[mkKey]; dup {
		a.duplicates++
		return false
	}
	e.markets[mkKey] = struct{}{}
	e.match.Markets = append(e.match.Markets, mk)
	return true
}

// Duplicates is the number of repeated markets ignored so far.
func (a *Aggregator) Duplicates() int {
	return a.duplicates
}

// Len is the number of distinct matches.
func (a *Aggregator) Len() int {
	return len(a.order)
}

// Matches returns the matches in first-seen order with market_count set.
func (a *Aggregator) Matches() []models.Match {
	out := make([]models.Match, 0, len(a.order))
	for _, e := range a.order {
		m := *e.match
		m.Markets = append([]models.Market(nil), e.match.Markets...)
		m.RefreshMarketCount()
		out = append(out, m)
	}
	return out
}
