package extractor

import (
	"errors"
)

// Reasons a match candidate line is dropped.
var (
	ErrNoTeams        = errors.New("no team separator")
	ErrNoOdds         = errors.New("no odds")
	ErrBadOdds        = errors.New("unparsable odds")
	ErrOddsOutOfRange = errors.New("odds out of range")
	ErrBadTime        = errors.New("invalid kickoff time")
	ErrInvalidMatch   = errors.New("invalid match")
)

var reasons = []error{ErrNoTeams, ErrNoOdds, ErrBadOdds, ErrOddsOutOfRange, ErrBadTime, ErrInvalidMatch}

// Diagnostic records one dropped line.
type Diagnostic struct {
	Source string `json:"source,omitempty"`
	Page   int    `json:"page"`
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

func newDiagnostic(source string, page, line int, text string, err error) Diagnostic {
	d := Diagnostic{
		Source: source,
		Page:   page,
		Line:   line,
		Text:   text,
		Reason: reasonOf(err),
	}
	if d.Reason != err.Error() {
		d.Detail = err.Error()
	}
	return d
}

func reasonOf(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r) {
			return r.Error()
		}
	}
	return err.Error()
}
