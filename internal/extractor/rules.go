package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// Kind is the class of a slip line.
type Kind int

const (
	KindNoise Kind = iota
	KindPageMarker
	KindDateHeader
	KindMatch
	KindMatchCandidate // day and time present but the line did not parse
	KindLeagueHeader
)

func (k Kind) String() string {
	switch k {
	case KindPageMarker:
		return "page"
	case KindDateHeader:
		return "date"
	case KindMatch:
		return "match"
	case KindMatchCandidate:
		return "candidate"
	case KindLeagueHeader:
		return "league"
	default:
		return "noise"
	}
}

const (
	dayAbbrPattern = `(?i:Sze|Szo|Cs|H|K|P|V)\.?`
	clockPattern   = `\d{1,2}[:.]\d{2}`
	oddPattern     = `\d{1,3}[.,]\d{2}`
)

var (
	pageMarkerRe = regexp.MustCompile(`(?i)^(?:={2,}\s*page\s+(\d+)\s*={2,}|-{2,}\s*oldal\s+(\d+)\s*-{2,}|\f)$`)

	// <day> <HH:MM> [<event code>] <body> <odds...>
	matchLineRe = regexp.MustCompile(`^(` + dayAbbrPattern + `)\s+(` + clockPattern + `)\s+(?:(\d{5,6})\s+)?(.+?)\s+(` + oddPattern + `(?:\s+` + oddPattern + `){0,2})$`)

	// Same prefix without the odds tail, used to report why a line was dropped.
	candidateRe = regexp.MustCompile(`^(` + dayAbbrPattern + `)\s+(\d{1,2}[:.]\d{1,2})\s+(.*)$`)

	anyOddRe   = regexp.MustCompile(`(^|\s)` + oddPattern + `(\s|$)`)
	anyClockRe = regexp.MustCompile(`(^|\s)\d{1,2}:\d{2}(\s|$)`)

	leagueKeywordRe = regexp.MustCompile(`\b(liga|ligaja|bajnoksag|kupa|kupaja|nb i{1,3}|premier league|serie a|bundesliga|la liga|laliga|ligue 1|eredivisie|championship|division|league|cup|superliga|ekstraklasa)\b`)
)

const (
	minLeagueLen = 3
	maxLeagueLen = 80
)

// rule is one entry of the ordered classification table.
type rule struct {
	kind  Kind
	match func(line string) bool
}

// Classifier assigns a Kind to each line; the first matching rule wins.
type Classifier struct {
	aliases *Aliases
	rules   []rule
}

// NewClassifier builds the rule table. Known league spellings from aliases
// count as league headers even without a keyword ("Angol 1.").
func NewClassifier(aliases *Aliases) *Classifier {
	if aliases == nil {
		aliases = NewAliases()
	}
	c := &Classifier{aliases: aliases}
	c.rules = []rule{
		{KindPageMarker, func(l string) bool { return pageMarkerRe.MatchString(l) }},
		{KindDateHeader, func(l string) bool { _, ok := parseDateHeader(l); return ok }},
		{KindMatch, matchLineRe.MatchString},
		{KindMatchCandidate, candidateRe.MatchString},
		{KindLeagueHeader, c.isLeagueHeader},
	}
	return c
}

// Classify returns the kind of a single line.
func (c *Classifier) Classify(line string) Kind {
	if line != "\f" {
		line = strings.TrimSpace(line)
	}
	if line == "" {
		return KindNoise
	}
	for _, r := range c.rules {
		if r.match(line) {
			return r.kind
		}
	}
	return KindNoise
}

func (c *Classifier) isLeagueHeader(line string) bool {
	n := len([]rune(line))
	if n < minLeagueLen || n > maxLeagueLen {
		return false
	}
	if anyOddRe.MatchString(line) || anyClockRe.MatchString(line) {
		return false
	}
	if sportPrefixRe.MatchString(line) {
		return true
	}
	if c.aliases.IsKnownLeague(line) {
		return true
	}
	return leagueKeywordRe.MatchString(strings.ToLower(models.FoldAccents(line)))
}

// parsePageMarker returns the page number of a marker line; 0 for a bare
// form feed, meaning "next page".
func parsePageMarker(line string) (int, bool) {
	m := pageMarkerRe.FindStringSubmatch(strings.Trim(line, " \t"))
	if m == nil {
		return 0, false
	}
	for _, g := range m[1:] {
		if g != "" {
			n, err := strconv.Atoi(g)
			return n, err == nil
		}
	}
	return 0, true
}
