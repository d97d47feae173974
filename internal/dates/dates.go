// Package dates holds the canonical date and time string helpers every
// other package buckets on.
//
// Date strings are always zero-padded YYYY-MM-DD, so comparing them as
// strings gives the same answer as comparing the days they name.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	Layout         = "2006-01-02"
	MonthKeyLayout = "2006-01"
	// InvalidTime is returned by FormatTime12Hour for malformed input.
	InvalidTime = "Invalid Time"
	// AllDay is the label FormatTimeRange uses for all-day bookings.
	AllDay = "All Day"
)

// Tense classifies a day relative to today.
type Tense int

const (
	Past Tense = iota
	Today
	Future
)

func (t Tense) String() string {
	switch t {
	case Past:
		return "past"
	case Today:
		return "today"
	default:
		return "future"
	}
}

// looseLayouts are tried in order by NormalizeDate.
var looseLayouts = []string{
	Layout,
	"2006-1-2",
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// FormatDate returns t as YYYY-MM-DD in t's own location, or "" for the
// zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// NormalizeDate converts a date-like string to its canonical form.
// Unparsable input yields "".
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range looseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return FormatDate(t)
		}
	}
	return ""
}

// ParseDate parses a canonical date string as local midnight.
func ParseDate(s string) (time.Time, bool) {
	return ParseDateIn(s, time.Local)
}

// ParseDateIn parses a canonical date string as midnight in loc.
func ParseDateIn(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// StartOfDay truncates t to midnight in its location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 on t's calendar day.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MonthYearKey returns the YYYY-MM bucket key for t, or "" for zero.
func MonthYearKey(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(MonthKeyLayout)
}

// MonthKeyOf derives the bucket key from a date string.
func MonthKeyOf(date string) (string, bool) {
	t, err := time.Parse(Layout, strings.TrimSpace(date))
	if err != nil {
		return "", false
	}
	return MonthYearKey(t), true
}

// MonthLabel renders a YYYY-MM key as "March 2025". Unparsable keys are
// returned unchanged.
func MonthLabel(key string) string {
	t, err := time.Parse(MonthKeyLayout, key)
	if err != nil {
		return key
	}
	return t.Format("January 2006")
}

// FormatTime12Hour converts "13:30" to "1:30 PM".
func FormatTime12Hour(hhmm string) string {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "" {
		return ""
	}
	h, m, ok := splitClock(hhmm)
	if !ok {
		return InvalidTime
	}
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

// FormatTimeRange renders the display time of a booking. The all-day flag
// overrides whatever times are set.
func FormatTimeRange(start, end string, allDay bool) string {
	if allDay {
		return AllDay
	}
	s, e := FormatTime12Hour(start), FormatTime12Hour(end)
	switch {
	case s == "" && e == "":
		return ""
	case e == "":
		return s
	case s == "":
		return "until " + e
	default:
		return s + " - " + e
	}
}

func splitClock(hhmm string) (int, int, bool) {
	parts := strings.Split(hhmm, ":")
	if len(parts) != 2 || len(parts[1]) != 2 || parts[0] == "" || len(parts[0]) > 2 {
		return 0, 0, false
	}
	if !digits(parts[0]) || !digits(parts[1]) {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, 0, false
	}
	return h, m, true
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Classify places t relative to now's calendar day.
func Classify(t, now time.Time) Tense {
	day := StartOfDay(t.In(now.Location()))
	today := StartOfDay(now)
	switch {
	case day.Before(today):
		return Past
	case day.Equal(today):
		return Today
	default:
		return Future
	}
}
