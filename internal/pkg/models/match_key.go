package models

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MatchKey builds the composite key used to deduplicate matches within a run.
//
// Team names are folded (accents removed, lower-cased, punctuation collapsed)
// so "Újpest FC" printed on two pages with different OCR artefacts still
// lands on the same key. Format: date|time|team1|team2.
func MatchKey(date, clock, team1, team2 string) string {
	d := strings.TrimSpace(date)
	if d == "" {
		d = "nodate"
	}
	return d + "|" + strings.TrimSpace(clock) + "|" + NormalizeKeyPart(team1) + "|" + NormalizeKeyPart(team2)
}

// MarketKey is the semantic key of a market within one match.
func MarketKey(name, orig string) string {
	return NormalizeKeyPart(name) + "|" + NormalizeKeyPart(orig)
}

// NormalizeKeyPart folds a free-text value for use inside a key or alias lookup.
func NormalizeKeyPart(s string) string {
	s = strings.ToLower(strings.TrimSpace(FoldAccents(s)))
	if s == "" {
		return ""
	}
	s = strings.NewReplacer(
		".", " ",
		"/", " ",
		"\\", " ",
		"|", " ",
		"-", " ",
		"–", " ",
		"'", "",
		"’", "",
	).Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// FoldAccents strips combining marks: "Ferencváros" -> "Ferencvaros", "Győr" -> "Gyor".
func FoldAccents(s string) string {
	// transform.Chain is stateful, build one per call
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
