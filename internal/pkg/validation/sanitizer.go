package validation

import (
	"regexp"
	"strings"

	"github.com/tippmixmentor/tippmix/internal/pkg/interfaces"
	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

var (
	controlRe    = regexp.MustCompile(`[\x00-\x1F\x7F]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

const (
	maxTeamLen   = 100
	maxLeagueLen = 120
	maxMarketLen = 200
)

// Sanitizer implements data sanitization
type Sanitizer struct{}

// NewSanitizer creates a new sanitizer
func NewSanitizer() interfaces.DataSanitizer {
	return &Sanitizer{}
}

// SanitizeMatch sanitizes match data
func (s *Sanitizer) SanitizeMatch(match *models.Match) error {
	if match == nil {
		return nil
	}

	match.Team1 = s.sanitizeTeamName(match.Team1)
	match.Team2 = s.sanitizeTeamName(match.Team2)
	match.League = truncate(s.sanitizeString(match.League), maxLeagueLen)
	match.Day = s.sanitizeString(match.Day)
	match.Time = strings.TrimSpace(match.Time)
	match.Date = strings.TrimSpace(match.Date)

	for i := range match.Markets {
		if err := s.SanitizeMarket(&match.Markets[i]); err != nil {
			return err
		}
	}
	match.RefreshMarketCount()

	return nil
}

// SanitizeMarket sanitizes market data
func (s *Sanitizer) SanitizeMarket(market *models.Market) error {
	if market == nil {
		return nil
	}

	market.Name = truncate(s.sanitizeString(market.Name), maxMarketLen)
	market.OrigMarket = truncate(s.sanitizeString(market.OrigMarket), maxMarketLen)

	return nil
}

func (s *Sanitizer) sanitizeString(str string) string {
	sanitized := controlRe.ReplaceAllString(str, " ")
	sanitized = whitespaceRe.ReplaceAllString(sanitized, " ")
	return strings.TrimSpace(sanitized)
}

func (s *Sanitizer) sanitizeTeamName(name string) string {
	return CleanTeamName(name)
}

// CleanTeamName normalizes whitespace and trims separators and bullets that
// OCR leaves glued to the edges of a team name. Match keys are built from
// the cleaned name.
func CleanTeamName(name string) string {
	sanitized := controlRe.ReplaceAllString(name, " ")
	sanitized = whitespaceRe.ReplaceAllString(sanitized, " ")
	sanitized = strings.Trim(sanitized, "-–,;:*•·| ")
	return truncate(sanitized, maxTeamLen)
}

// truncate cuts on a rune boundary.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) > max {
		r = r[:max]
	}
	return strings.TrimSpace(string(r))
}
