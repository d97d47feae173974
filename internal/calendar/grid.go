// Package calendar builds Sunday-started calendar grids and attaches
// events and notes to their day cells.
package calendar

import (
	"fmt"
	"time"

	"eventbook/internal/core"
	"eventbook/internal/dates"
)

const (
	Monthly ViewMode = "monthly"
	Weekly  ViewMode = "weekly"
)

// maxWeeks bounds a monthly grid: 31 days starting on a Saturday spill
// into a sixth week, never a seventh.
const maxWeeks = 6

type (
	ViewMode string

	Cell struct {
		Date            time.Time           `json:"-"`
		DateString      string              `json:"date"`
		IsToday         bool                `json:"isToday"`
		IsCurrentPeriod bool                `json:"isCurrentPeriod"`
		IsPast          bool                `json:"isPast"`
		Events          []core.Event        `json:"events"`
		Notes           []core.CalendarNote `json:"notes"`
	}

	// Week is always seven cells, Sunday first.
	Week [7]Cell

	Grid struct {
		Mode      ViewMode  `json:"mode"`
		Reference time.Time `json:"-"`
		Start     time.Time `json:"-"`
		End       time.Time `json:"-"`
		Weeks     []Week    `json:"weeks"`
	}
)

// ParseViewMode defaults to Monthly for anything but "weekly".
func ParseViewMode(s string) ViewMode {
	if ViewMode(s) == Weekly {
		return Weekly
	}
	return Monthly
}

// WeekStart returns midnight of the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	d := dates.StartOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekEnd returns midnight of the Saturday on or after t.
func WeekEnd(t time.Time) time.Time {
	d := dates.StartOfDay(t)
	return d.AddDate(0, 0, int(time.Saturday-d.Weekday()))
}

// Build lays out the grid for ref in the given mode. now decides the
// today and past flags.
func Build(ref time.Time, mode ViewMode, now time.Time) Grid {
	ref = dates.StartOfDay(ref)
	today := dates.StartOfDay(now.In(ref.Location()))

	var start, end time.Time
	inPeriod := func(time.Time) bool { return true }
	switch mode {
	case Weekly:
		start = WeekStart(ref)
		end = start.AddDate(0, 0, 6)
	default:
		mode = Monthly
		first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
		last := first.AddDate(0, 1, -1)
		start, end = WeekStart(first), WeekEnd(last)
		inPeriod = func(d time.Time) bool { return d.Month() == first.Month() && d.Year() == first.Year() }
	}

	g := Grid{Mode: mode, Reference: ref, Start: start}
	cursor := start
	for w := 0; w < maxWeeks && !cursor.After(end); w++ {
		var week Week
		for i := range week {
			week[i] = Cell{
				Date:            cursor,
				DateString:      dates.FormatDate(cursor),
				IsToday:         dates.SameDay(cursor, today),
				IsCurrentPeriod: inPeriod(cursor),
				IsPast:          cursor.Before(today),
			}
			// AddDate rather than Add keeps cells on midnight across DST.
			cursor = cursor.AddDate(0, 0, 1)
		}
		g.Weeks = append(g.Weeks, week)
	}
	g.End = cursor.AddDate(0, 0, -1)
	return g
}

// Days flattens the grid in order.
func (g Grid) Days() []Cell {
	out := make([]Cell, 0, len(g.Weeks)*7)
	for _, w := range g.Weeks {
		out = append(out, w[:]...)
	}
	return out
}

// Title is the header shown above the grid.
func (g Grid) Title() string {
	if g.Mode == Weekly {
		if g.Start.Year() != g.End.Year() {
			return fmt.Sprintf("%s – %s", g.Start.Format("Jan 2, 2006"), g.End.Format("Jan 2, 2006"))
		}
		return fmt.Sprintf("%s – %s", g.Start.Format("Jan 2"), g.End.Format("Jan 2, 2006"))
	}
	return g.Reference.Format("January 2006")
}

// Navigate shifts ref by step periods. Monthly steps land on day 1 of the
// target month so short months never get skipped; weekly steps move
// exactly seven days each.
func Navigate(ref time.Time, mode ViewMode, step int) time.Time {
	ref = dates.StartOfDay(ref)
	if mode == Weekly {
		return ref.AddDate(0, 0, 7*step)
	}
	return time.Date(ref.Year(), ref.Month()+time.Month(step), 1, 0, 0, 0, 0, ref.Location())
}

func Previous(ref time.Time, mode ViewMode) time.Time { return Navigate(ref, mode, -1) }

func Next(ref time.Time, mode ViewMode) time.Time { return Navigate(ref, mode, 1) }
