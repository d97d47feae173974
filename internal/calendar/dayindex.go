package calendar

import (
	"strings"

	"eventbook/internal/core"
)

// DayIndex maps date strings to the events and notes carrying exactly
// that string. Matching is string equality, so callers must hand in
// canonical YYYY-MM-DD dates.
type DayIndex struct {
	events map[string][]core.Event
	notes  map[string][]core.CalendarNote
}

// NewDayIndex indexes events and notes, keeping their input order per day.
// Surrounding whitespace is ignored. Undated events are left out.
func NewDayIndex(events []core.Event, notes []core.CalendarNote) *DayIndex {
	ix := &DayIndex{
		events: make(map[string][]core.Event),
		notes:  make(map[string][]core.CalendarNote),
	}
	for _, e := range events {
		day := strings.TrimSpace(e.EventDate)
		if day == "" {
			continue
		}
		ix.events[day] = append(ix.events[day], e)
	}
	for _, n := range notes {
		day := strings.TrimSpace(n.Date)
		if day == "" {
			continue
		}
		ix.notes[day] = append(ix.notes[day], n)
	}
	return ix
}

// EventsOn returns the events dated exactly date.
func (ix *DayIndex) EventsOn(date string) []core.Event {
	return ix.events[date]
}

// NotesOn returns the notes dated exactly date.
func (ix *DayIndex) NotesOn(date string) []core.CalendarNote {
	return ix.notes[date]
}

// Attach fills every cell of g from ix. Cells without entries get empty,
// non-nil slices so they encode as [] rather than null.
func (g *Grid) Attach(ix *DayIndex) {
	for w := range g.Weeks {
		for d := range g.Weeks[w] {
			c := &g.Weeks[w][d]
			c.Events = append([]core.Event{}, ix.EventsOn(c.DateString)...)
			c.Notes = append([]core.CalendarNote{}, ix.NotesOn(c.DateString)...)
		}
	}
}
