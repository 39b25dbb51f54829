package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tippmixmentor/tippmix/internal/pkg/models"
)

// Hungarian month names, accent-folded.
var monthsHU = map[string]time.Month{
	"januar":     time.January,
	"februar":    time.February,
	"marcius":    time.March,
	"aprilis":    time.April,
	"majus":      time.May,
	"junius":     time.June,
	"julius":     time.July,
	"augusztus":  time.August,
	"szeptember": time.September,
	"oktober":    time.October,
	"november":   time.November,
	"december":   time.December,
}

// Hungarian weekday names, accent-folded.
var weekdaysHU = map[string]time.Weekday{
	"hetfo":     time.Monday,
	"kedd":      time.Tuesday,
	"szerda":    time.Wednesday,
	"csutortok": time.Thursday,
	"pentek":    time.Friday,
	"szombat":   time.Saturday,
	"vasarnap":  time.Sunday,
}

// Day abbreviations printed in front of match lines.
var dayAbbrHU = map[string]time.Weekday{
	"h":   time.Monday,
	"k":   time.Tuesday,
	"sze": time.Wednesday,
	"cs":  time.Thursday,
	"p":   time.Friday,
	"szo": time.Saturday,
	"v":   time.Sunday,
}

var weekdayNamesHU = [...]string{
	time.Sunday:    "Vasárnap",
	time.Monday:    "Hétfő",
	time.Tuesday:   "Kedd",
	time.Wednesday: "Szerda",
	time.Thursday:  "Csütörtök",
	time.Friday:    "Péntek",
	time.Saturday:  "Szombat",
}

const (
	monthAlt   = `januar|februar|marcius|aprilis|majus|junius|julius|augusztus|szeptember|oktober|november|december`
	weekdayAlt = `hetfo|kedd|szerda|csutortok|pentek|szombat|vasarnap`
)

// Date header patterns run on the folded, lower-cased line.
var (
	// 2025. oktober 18., szombat
	longDateRe = regexp.MustCompile(`^(\d{4})\.?\s*(` + monthAlt + `)\s+(\d{1,2})\.?,?\s*(` + weekdayAlt + `)?\.?$`)
	// 2025.10.18., szombat | 2025-10-18
	numericDateRe = regexp.MustCompile(`^(\d{4})[.\-/]\s*(\d{1,2})[.\-/]\s*(\d{1,2})\.?,?\s*(` + weekdayAlt + `)?\.?$`)
	// szombat, 2025.10.18.
	weekdayFirstDateRe = regexp.MustCompile(`^(` + weekdayAlt + `),?\s+(\d{4})[.\-/]\s*(\d{1,2})[.\-/]\s*(\d{1,2})\.?$`)
)

// WeekdayName returns the Hungarian weekday name.
func WeekdayName(wd time.Weekday) string {
	return weekdayNamesHU[wd]
}

// parseDayAbbr maps a match-line day abbreviation to a weekday.
func parseDayAbbr(s string) (time.Weekday, bool) {
	wd, ok := dayAbbrHU[strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), "."))]
	return wd, ok
}

// parseDateHeader recognizes a date header line.
func parseDateHeader(line string) (time.Time, bool) {
	folded := strings.ToLower(strings.TrimSpace(models.FoldAccents(line)))

	if m := longDateRe.FindStringSubmatch(folded); m != nil {
		return buildDate(m[1], strconv.Itoa(int(monthsHU[m[2]])), m[3])
	}
	if m := numericDateRe.FindStringSubmatch(folded); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	if m := weekdayFirstDateRe.FindStringSubmatch(folded); m != nil {
		return buildDate(m[2], m[3], m[4])
	}
	return time.Time{}, false
}

func buildDate(y, mo, d string) (time.Time, bool) {
	year, err1 := strconv.Atoi(y)
	month, err2 := strconv.Atoi(mo)
	day, err3 := strconv.Atoi(d)
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 2025-02-31 into March, reject those
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

// resolveDate returns the first date on or after header falling on wd.
// Slips print one date header and then list several days below it.
func resolveDate(header time.Time, wd time.Weekday) time.Time {
	diff := (int(wd) - int(header.Weekday()) + 7) % 7
	return header.AddDate(0, 0, diff)
}

// normalizeClock turns "9.30" or "9:30" into "09:30".
func normalizeClock(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", ":")
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return "", false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 || len(parts[1]) != 2 {
		return "", false
	}
	return twoDigits(h) + ":" + twoDigits(m), true
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
