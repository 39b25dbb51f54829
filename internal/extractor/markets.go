package extractor

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// marketStarter is a phrase that opens the market text on a match line.
// Prefixes are accent-folded and lower-cased.
type marketStarter struct {
	prefix    string
	canonical string
}

// Longer phrases first so "golok szama" beats a shorter overlap.
var marketStarters = []marketStarter{
	{"dontetlennel a tet visszajar", "Draw no bet"},
	{"mindket csapat szerez golt", "Both teams to score"},
	{"mindket csapat golt szerez", "Both teams to score"},
	{"felido/vegeredmeny", "Half time/Full time"},
	{"felido / vegeredmeny", "Half time/Full time"},
	{"pontos eredmeny", "Correct score"},
	{"golok szama", "Over/Under"},
	{"sarga lapok", "Cards"},
	{"1. felido", "1st half"},
	{"2. felido", "2nd half"},
	{"szogletek", "Corners"},
	{"szoglet", "Corners"},
	{"hendikep", "Handicap"},
	{"handicap", "Handicap"},
	{"ketesely", "Double chance"},
	{"golszam", "Over/Under"},
	{"lapok", "Cards"},
	{"dnb", "Draw no bet"},
	{"btts", "Both teams to score"},
}

var decimalCommaRe = regexp.MustCompile(`(\d),(\d)`)

// foldRunes folds accents rune by rune so indexes line up with the input.
func foldRunes(s string) []rune {
	in := []rune(s)
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
		if r < utf8.RuneSelf {
			continue
		}
		if f := []rune(models.FoldAccents(string(r))); len(f) > 0 {
			out[i] = unicode.ToLower(f[0])
		}
	}
	return out
}

// hasPrefixAt reports whether folded[at:] starts with prefix and the
// phrase is word aligned on both ends.
func hasPrefixAt(folded []rune, at int, prefix string) bool {
	p := []rune(prefix)
	if at+len(p) > len(folded) {
		return false
	}
	if at > 0 && !unicode.IsSpace(folded[at-1]) {
		return false
	}
	for i, r := range p {
		if folded[at+i] != r {
			return false
		}
	}
	end := at + len(p)
	if end < len(folded) {
		next := folded[end]
		if unicode.IsLetter(next) || unicode.IsDigit(next) {
			return false
		}
	}
	return true
}

// findMarketStarter returns the rune index of the earliest starter in s.
func findMarketStarter(s string) (int, *marketStarter) {
	folded := foldRunes(s)
	for at := range folded {
		if at > 0 && !unicode.IsSpace(folded[at-1]) {
			continue
		}
		for i := range marketStarters {
			if hasPrefixAt(folded, at, marketStarters[i].prefix) {
				return at, &marketStarters[i]
			}
		}
	}
	return -1, nil
}

// splitTeam2Market separates team2 from the trailing market text.
func splitTeam2Market(rest string) (team2, market string) {
	at, _ := findMarketStarter(rest)
	if at < 0 {
		return strings.TrimSpace(rest), ""
	}
	r := []rune(rest)
	return strings.TrimSpace(string(r[:at])), strings.TrimSpace(string(r[at:]))
}

// CanonicalMarket maps raw slip text such as "Gólszám 2,5" to a canonical
// market name ("Over/Under 2.5"). Unknown text is returned cleaned up.
func CanonicalMarket(raw string) string {
	raw = strings.Join(strings.Fields(raw), " ")
	if raw == "" {
		return ""
	}
	at, st := findMarketStarter(raw)
	if at != 0 || st == nil {
		return normalizeParam(raw)
	}

	r := []rune(raw)
	rest := strings.TrimSpace(string(r[utf8.RuneCountInString(st.prefix):]))
	rest = strings.TrimLeft(rest, ":-– ")
	if rest == "" {
		return st.canonical
	}
	// "1. félidő gólszám 1,5" nests another market
	if next, _ := findMarketStarter(rest); next == 0 {
		return st.canonical + " " + CanonicalMarket(rest)
	}
	return st.canonical + " " + normalizeParam(rest)
}

func normalizeParam(s string) string {
	return decimalCommaRe.ReplaceAllString(strings.TrimSpace(s), "$1.$2")
}
