package extractor

import (
	"io"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint identifies everything that shapes extraction output: the
// rules version, market and odds settings, and the alias tables. Results
// cached under one fingerprint are not valid under another.
func (e *Extractor) Fingerprint() string {
	return e.fingerprint
}

func fingerprintOf(p *LineParser, a *Aliases) string {
	h := xxhash.New()
	_, _ = io.WriteString(h, RulesVersion+"\n")
	_, _ = io.WriteString(h, p.defaultMarket+"\n")
	_, _ = io.WriteString(h, p.minOdds.String()+"\n")
	_, _ = io.WriteString(h, p.maxOdds.String()+"\n")
	writeTable(h, "team", a.teams)
	writeTable(h, "league", a.leagues)
	return RulesVersion + "-" + strconv.FormatUint(h.Sum64(), 16)
}

func writeTable(w io.Writer, kind string, table map[string]string) {
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = io.WriteString(w, kind+":"+k+"="+table[k]+"\n")
	}
}
