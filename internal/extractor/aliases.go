package extractor

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// Aliases maps spellings found on slips to canonical team and league names.
// Keys are compared after models.NormalizeKeyPart.
type Aliases struct {
	teams   map[string]string
	leagues map[string]string
}

// aliasFile is the YAML layout of extractor.aliases_file:
//
//	teams:
//	  Ferencváros: [FTC, Fradi, Ferencvárosi TC]
//	leagues:
//	  NB I: [OTP Bank Liga]
type aliasFile struct {
	Teams   map[string][]string `yaml:"teams"`
	Leagues map[string][]string `yaml:"leagues"`
}

var builtinTeams = map[string][]string{
	"Ferencváros":       {"FTC", "Fradi", "Ferencvárosi TC", "Ferencvaros"},
	"Újpest":            {"Újpest FC", "UTE", "Újpest TE"},
	"Debrecen":          {"DVSC", "Debreceni VSC"},
	"MTK":               {"MTK Budapest"},
	"Puskás Akadémia":   {"Puskás Akadémia FC", "Puskás AFC", "Puskás Ak."},
	"Paks":              {"Paksi FC", "PFC"},
	"Zalaegerszeg":      {"ZTE", "Zalaegerszegi TE", "ZTE FC"},
	"Győri ETO":         {"ETO FC Győr", "Győri ETO FC", "ETO"},
	"Kecskemét":         {"Kecskeméti TE", "KTE"},
	"Fehérvár":          {"Fehérvár FC", "MOL Fehérvár", "Videoton"},
	"Diósgyőr":          {"DVTK", "Diósgyőri VTK"},
	"Nyíregyháza":       {"Nyíregyháza Spartacus"},
	"Kisvárda":          {"Kisvárda Master Good"},
	"Manchester City":   {"Man City", "Manchester C."},
	"Manchester United": {"Man Utd", "Man United", "Manchester U.", "Manchester Utd"},
	"Bayern München":    {"Bayern", "Bayern Munich", "FC Bayern"},
	"Dortmund":          {"Borussia Dortmund", "B. Dortmund", "BVB"},
	"Paris SG":          {"PSG", "Paris Saint-Germain", "Paris St. Germain"},
	"Atlético Madrid":   {"Atl. Madrid", "Atletico Madrid"},
	"Real Madrid":       {"Real Madrid CF"},
	"Inter":             {"Inter Milano", "Internazionale"},
	"Milan":             {"AC Milan"},
	"Tottenham":         {"Tottenham Hotspur", "Spurs"},
	"Wolves":            {"Wolverhampton", "Wolverhampton Wanderers"},
	"Nottingham Forest": {"Nottingham F.", "Nottm Forest"},
	"Newcastle":         {"Newcastle Utd", "Newcastle United"},
}

var builtinLeagues = map[string][]string{
	"NB I":              {"OTP Bank Liga", "Magyar NB I", "Nemzeti Bajnokság I"},
	"NB II":             {"Merkantil Bank Liga", "Magyar NB II"},
	"Premier League":    {"Angol Premier League", "Angol Premier Liga", "Angol 1.", "Angol bajnokság"},
	"Championship":      {"Angol Championship", "Angol 2."},
	"La Liga":           {"Spanyol 1.", "Spanyol La Liga", "Spanyol bajnokság", "LaLiga"},
	"Serie A":           {"Olasz 1.", "Olasz Serie A", "Olasz bajnokság"},
	"Bundesliga":        {"Német 1.", "Német Bundesliga", "Német bajnokság"},
	"Ligue 1":           {"Francia 1.", "Francia Ligue 1", "Francia bajnokság"},
	"Eredivisie":        {"Holland 1.", "Holland Eredivisie"},
	"Champions League":  {"Bajnokok Ligája", "BL", "UEFA Bajnokok Ligája"},
	"Europa League":     {"Európa-liga", "Európa Liga", "UEFA Európa-liga"},
	"Conference League": {"Konferencia-liga", "Konferencia Liga", "UEFA Konferencia-liga"},
	"Magyar Kupa":       {"MOL Magyar Kupa"},
}

var sportPrefixRe = regexp.MustCompile(`(?i)^(labdarúgás|labdarugas|labdarúgas|foci|football|soccer)\b\s*[,:\-–]?\s*`)

// NewAliases returns the built-in alias tables.
func NewAliases() *Aliases {
	a := &Aliases{
		teams:   make(map[string]string),
		leagues: make(map[string]string),
	}
	a.add(a.teams, builtinTeams)
	a.add(a.leagues, builtinLeagues)
	return a
}

// LoadAliases extends the built-in tables from a YAML file.
// An empty path returns the built-ins.
func LoadAliases(path string) (*Aliases, error) {
	a := NewAliases()
	if path == "" {
		return a, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read aliases file: %w", err)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse aliases file %s: %w", path, err)
	}

	a.add(a.teams, f.Teams)
	a.add(a.leagues, f.Leagues)
	return a, nil
}

func (a *Aliases) add(dst map[string]string, src map[string][]string) {
	for canonical, spellings := range src {
		dst[models.NormalizeKeyPart(canonical)] = canonical
		for _, s := range spellings {
			if k := models.NormalizeKeyPart(s); k != "" {
				dst[k] = canonical
			}
		}
	}
}

// Team returns the canonical team name, or name unchanged.
func (a *Aliases) Team(name string) string {
	if c, ok := a.teams[models.NormalizeKeyPart(name)]; ok {
		return c
	}
	return name
}

// League returns the canonical league name for a header line, with any
// sport prefix ("Labdarúgás, ") removed.
func (a *Aliases) League(header string) string {
	name := strings.TrimSpace(sportPrefixRe.ReplaceAllString(strings.TrimSpace(header), ""))
	name = strings.TrimRight(name, ":-– ")
	if c, ok := a.leagues[models.NormalizeKeyPart(name)]; ok {
		return c
	}
	return name
}

// IsKnownLeague reports whether s is a known league spelling.
func (a *Aliases) IsKnownLeague(s string) bool {
	name := sportPrefixRe.ReplaceAllString(strings.TrimSpace(s), "")
	_, ok := a.leagues[models.NormalizeKeyPart(name)]
	return ok
}
