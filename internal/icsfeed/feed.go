// Package icsfeed renders bookings as an iCalendar feed so external
// calendar clients can subscribe to them.
package icsfeed

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"eventbook/internal/core"
	"eventbook/internal/dates"
)

const (
	defaultName   = "Eventbook"
	productID     = "-//eventbook//bookings//EN"
	uidDomain     = "eventbook"
	defaultLength = time.Hour
)

// Feed converts events to VEVENTs. Dates are read in Location.
type Feed struct {
	Name     string
	Location *time.Location
	Now      func() time.Time
}

func New(loc *time.Location, now func() time.Time) *Feed {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Feed{Name: defaultName, Location: loc, Now: now}
}

// Calendar builds the feed. Events without a usable date are left out.
func (f *Feed) Calendar(events []core.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(f.Name)

	stamp := f.Now().UTC()
	for _, e := range events {
		day, ok := dates.ParseDateIn(e.EventDate, f.Location)
		if !ok {
			continue
		}
		ve := cal.AddEvent(fmt.Sprintf("%s@%s", e.ID, uidDomain))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(summary(e))
		ve.SetLocation(e.Venue())
		if d := description(e); d != "" {
			ve.SetDescription(d)
		}
		ve.SetStatus(objectStatus(e.Status))

		start, end, allDay := span(e, day)
		if allDay {
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(end)
		} else {
			ve.SetStartAt(start)
			ve.SetEndAt(end)
		}
	}
	return cal
}

// Write serializes the feed for events to w.
func (f *Feed) Write(w io.Writer, events []core.Event) error {
	return f.Calendar(events).SerializeTo(w)
}

// span returns the occupied interval. Untimed or all-day bookings take the
// whole day; a missing end lasts defaultLength and an end at or before the
// start runs past midnight.
func span(e core.Event, day time.Time) (time.Time, time.Time, bool) {
	if e.AllDay || e.StartTime == "" {
		return day, day.AddDate(0, 0, 1), true
	}
	start, ok := atClock(day, e.StartTime)
	if !ok {
		return day, day.AddDate(0, 0, 1), true
	}
	end, ok := atClock(day, e.EndTime)
	if !ok {
		return start, start.Add(defaultLength), false
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, false
}

func atClock(day time.Time, hhmm string) (time.Time, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(hhmm))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), true
}

func summary(e core.Event) string {
	if name := strings.TrimSpace(e.EventName); name != "" {
		return name
	}
	return e.Client()
}

func description(e core.Event) string {
	var lines []string
	if c := strings.TrimSpace(e.ClientName); c != "" {
		lines = append(lines, "Client: "+c)
	}
	if !e.GrandTotal.IsZero() {
		lines = append(lines, "Total: "+e.GrandTotal.Decimal().StringFixed(2))
	}
	if n := strings.TrimSpace(e.Notes); n != "" {
		lines = append(lines, n)
	}
	return strings.Join(lines, "\n")
}

func objectStatus(s core.Status) ical.ObjectStatus {
	if s == core.Pending {
		return ical.ObjectStatusTentative
	}
	return ical.ObjectStatusConfirmed
}
