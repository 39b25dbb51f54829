package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MatchLine is one parsed match-odds line.
type MatchLine struct {
	DayAbbr    string
	Weekday    time.Weekday
	Time       string // HH:MM
	EventCode  string
	Team1      string
	Team2      string
	Market     string // canonical name
	OrigMarket string // raw market text, empty for the main market
	Odds       []decimal.Decimal
}

var teamSeparatorRe = regexp.MustCompile(`\s+[-–—]\s+|\s+(?i:vs\.?|v\.)\s+`)

// LineParser turns match lines into MatchLine values.
type LineParser struct {
	defaultMarket string
	minOdds       decimal.Decimal
	maxOdds       decimal.Decimal
}

// NewLineParser returns a parser labelling starter-less lines with
// defaultMarket and accepting odds within [minOdds, maxOdds].
func NewLineParser(defaultMarket string, minOdds, maxOdds float64) *LineParser {
	if defaultMarket == "" {
		defaultMarket = "Main market"
	}
	return &LineParser{
		defaultMarket: defaultMarket,
		minOdds:       decimal.NewFromFloat(minOdds),
		maxOdds:       decimal.NewFromFloat(maxOdds),
	}
}

// Parse parses a line already classified as a match or match candidate.
// Errors wrap one of the Err* sentinels.
func (p *LineParser) Parse(line string) (*MatchLine, error) {
	line = strings.TrimSpace(line)

	m := matchLineRe.FindStringSubmatch(line)
	if m == nil {
		if candidateRe.MatchString(line) {
			c := candidateRe.FindStringSubmatch(line)
			if _, ok := normalizeClock(c[2]); !ok {
				return nil, fmt.Errorf("%w: %q", ErrBadTime, c[2])
			}
			return nil, ErrNoOdds
		}
		return nil, fmt.Errorf("%w: not a match line", ErrNoOdds)
	}

	wd, ok := parseDayAbbr(m[1])
	if !ok {
		return nil, fmt.Errorf("%w: unknown day %q", ErrBadTime, m[1])
	}
	clock, ok := normalizeClock(m[2])
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadTime, m[2])
	}

	team1, team2, market, err := splitBody(m[4])
	if err != nil {
		return nil, err
	}

	odds, err := p.parseOdds(m[5])
	if err != nil {
		return nil, err
	}

	ml := &MatchLine{
		DayAbbr:   strings.TrimSuffix(m[1], "."),
		Weekday:   wd,
		Time:      clock,
		EventCode: m[3],
		Team1:     team1,
		Team2:     team2,
		Odds:      odds,
	}
	if market == "" {
		ml.Market = p.defaultMarket
	} else {
		ml.Market = CanonicalMarket(market)
		ml.OrigMarket = market
	}
	return ml, nil
}

// splitBody splits "Team1 - Team2 [market]".
func splitBody(body string) (team1, team2, market string, err error) {
	loc := teamSeparatorRe.FindStringIndex(body)
	if loc == nil {
		return "", "", "", fmt.Errorf("%w in %q", ErrNoTeams, body)
	}
	team1 = strings.TrimSpace(body[:loc[0]])
	team2, market = splitTeam2Market(body[loc[1]:])
	if team1 == "" || team2 == "" {
		return "", "", "", fmt.Errorf("%w: empty team in %q", ErrNoTeams, body)
	}
	return team1, team2, market, nil
}

func (p *LineParser) parseOdds(s string) ([]decimal.Decimal, error) {
	fields := strings.Fields(s)
	odds := make([]decimal.Decimal, 0, len(fields))
	for _, f := range fields {
		d, err := decimal.NewFromString(strings.ReplaceAll(f, ",", "."))
		if err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrBadOdds, f, err)
		}
		if d.LessThan(p.minOdds) || d.GreaterThan(p.maxOdds) {
			return nil, fmt.Errorf("%w: %s not in [%s, %s]", ErrOddsOutOfRange, d.String(), p.minOdds.String(), p.maxOdds.String())
		}
		odds = append(odds, d)
	}
	if len(odds) == 0 {
		return nil, ErrNoOdds
	}
	return odds, nil
}
