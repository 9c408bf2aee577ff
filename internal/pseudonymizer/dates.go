package pseudonymizer

import (
	"strconv"
	"strings"
	"time"
)

// Generic-date detection and date parsing. Date handling is two-phase by
// design: spans are collected (and parsed) during scanning, but labels are
// only computed during substitution, once the reference date is final.

// detectDates finds numeric D-M-Y dates not already claimed by the
// birth-date detector (the resolver enforces that: birth-date spans carry
// a lower rank and identical offsets). Candidates that do not parse to a
// real calendar date are non-matches.
func (e *Engine) detectDates(text string) []span {
	var out []span
	for _, m := range e.dateRe.re.FindAllStringIndex(text, -1) {
		lo, hi := m[0], m[1]
		d, ok := parseNumericDate(text[lo:hi])
		if !ok {
			continue
		}
		out = append(out, span{
			start: lo, end: hi,
			category: CatDate,
			text:     text[lo:hi],
			rank:     rankDate,
			date:     d, hasDate: true,
		})
	}
	return out
}

// detectIncidentDate scans for a date in the context of an incident
// keyword (schade, ongeval, trauma, …). First parsable hit wins.
func (e *Engine) detectIncidentDate(text string) (time.Time, bool) {
	for _, p := range e.incidentRes {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			lo, hi := m[2*p.group], m[2*p.group+1]
			if lo < 0 || hi < 0 {
				continue
			}
			if d, ok := parseNumericDate(text[lo:hi]); ok {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// parseNumericDate parses D-M-Y / D/M/Y. Two-digit years are windowed:
// below 50 → 2000s, 50 and up → 1900s. Day and month are range-checked and
// the result is verified against the calendar (31-02 does not normalize
// into March, it is rejected).
func parseNumericDate(s string) (time.Time, bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '/' })
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	year, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if year < 100 {
		if year < 50 {
			year += 2000
		} else {
			year += 1900
		}
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, false // e.g. 31-02 rolled over
	}
	return d, true
}

// inputDateFormats are the textual day-month-year forms accepted from the
// incident-date input (CLI flag, HTTP field).
var inputDateFormats = []string{"02-01-2006", "02/01/2006", "2006-01-02", "02-01-06"}

// ParseInputDate parses an externally supplied reference date. Unlike
// document scanning, a malformed value here is a caller error and is
// reported as one.
func ParseInputDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range inputDateFormats {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return d, nil
		}
	}
	return time.Time{}, &DateParseError{Input: s}
}

// DateParseError reports an unparsable reference-date input.
type DateParseError struct {
	Input string
}

func (e *DateParseError) Error() string {
	return "unrecognized date format: " + strconv.Quote(e.Input) + " (want dd-mm-jjjj)"
}
