// Package daterange resolves named dashboard presets into concrete
// inclusive day bounds.
package daterange

import (
	"errors"
	"strings"
	"time"

	"eventbook/internal/dates"
)

const (
	Last30Days Preset = "last30days"
	Last90Days Preset = "last90days"
	ThisMonth  Preset = "thisMonth"
	LastMonth  Preset = "lastMonth"
	ThisYear   Preset = "thisYear"
	AllTime    Preset = "allTime"
	Custom     Preset = "custom"
)

var ErrUnknownPreset = errors.New("unknown date range preset")

// Preset names a shorthand date range.
type Preset string

// Presets lists every supported preset in display order.
var Presets = []Preset{Last30Days, Last90Days, ThisMonth, LastMonth, ThisYear, AllTime, Custom}

// Query is the user-selected filter state.
type Query struct {
	Preset      Preset
	CustomStart string // YYYY-MM-DD, only read for Custom
	CustomEnd   string
}

// Bounds is an inclusive range. A zero Start or End leaves that side open.
type Bounds struct {
	Start time.Time
	End   time.Time
}

// ParsePreset maps a raw identifier onto a Preset. Matching ignores case;
// an empty identifier selects AllTime.
func ParsePreset(s string) (Preset, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return AllTime, true
	}
	for _, p := range Presets {
		if strings.EqualFold(string(p), s) {
			return p, true
		}
	}
	return "", false
}

// Resolve turns q into bounds relative to now's calendar day. Custom dates
// that fail to parse leave their side open.
func Resolve(q Query, now time.Time) (Bounds, error) {
	today := dates.StartOfDay(now)
	y, m, _ := today.Date()
	loc := today.Location()

	switch q.Preset {
	case Last30Days:
		return Bounds{Start: today.AddDate(0, 0, -30), End: dates.EndOfDay(today)}, nil
	case Last90Days:
		return Bounds{Start: today.AddDate(0, 0, -90), End: dates.EndOfDay(today)}, nil
	case ThisMonth:
		return monthBounds(y, m, loc), nil
	case LastMonth:
		return monthBounds(y, m-1, loc), nil
	case ThisYear:
		return Bounds{
			Start: time.Date(y, time.January, 1, 0, 0, 0, 0, loc),
			End:   dates.EndOfDay(time.Date(y, time.December, 31, 0, 0, 0, 0, loc)),
		}, nil
	case AllTime, "":
		return Bounds{}, nil
	case Custom:
		var b Bounds
		if t, ok := dates.ParseDateIn(q.CustomStart, loc); ok {
			b.Start = t
		}
		if t, ok := dates.ParseDateIn(q.CustomEnd, loc); ok {
			b.End = dates.EndOfDay(t)
		}
		return b, nil
	default:
		return Bounds{}, ErrUnknownPreset
	}
}

// monthBounds normalizes month overflow, so month 0 is December of y-1.
func monthBounds(y int, m time.Month, loc *time.Location) Bounds {
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	return Bounds{Start: first, End: dates.EndOfDay(last)}
}

// Unbounded reports whether neither side constrains.
func (b Bounds) Unbounded() bool {
	return b.Start.IsZero() && b.End.IsZero()
}

// Contains checks t against whichever bounds are set.
func (b Bounds) Contains(t time.Time) bool {
	if !b.Start.IsZero() && t.Before(b.Start) {
		return false
	}
	if !b.End.IsZero() && t.After(b.End) {
		return false
	}
	return true
}

// ContainsDate parses a YYYY-MM-DD string in loc and checks it.
// Unparsable dates never match.
func (b Bounds) ContainsDate(s string, loc *time.Location) bool {
	t, ok := dates.ParseDateIn(s, loc)
	if !ok {
		return false
	}
	return b.Contains(t)
}
