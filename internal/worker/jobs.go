package worker

import (
	"context"
	"time"

	"eventbook/internal/core"
	"eventbook/internal/dates"
	"eventbook/internal/log"
)

// EventLister is the read access the overdue job needs.
type EventLister interface {
	ListEvents(ctx context.Context) ([]core.Event, error)
}

// RolloverJob purges cached reports at the start of a day. Relative
// presets are keyed by date, so yesterday's entries would otherwise sit
// in the cache until their TTL.
func RolloverJob(invalidator Invalidator, logger *log.Logger) func(context.Context) {
	return func(ctx context.Context) {
		invalidator.Invalidate()
		logger.InfoContext(ctx, "Report cache rolled over")
	}
}

// OverdueJob logs upcoming bookings whose date has passed and which still
// need to be closed out as finished.
func OverdueJob(events EventLister, now func() time.Time, logger *log.Logger) func(context.Context) {
	return func(ctx context.Context) {
		all, err := events.ListEvents(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "Overdue check failed", log.FieldError, err.Error())
			return
		}
		overdue := OverdueBookings(all, now())
		if len(overdue) == 0 {
			return
		}
		ids := make([]string, 0, len(overdue))
		for _, e := range overdue {
			ids = append(ids, e.ID)
		}
		logger.WarnContext(ctx, "Upcoming bookings are past their date", "count", len(overdue), "ids", ids)
	}
}

// OverdueBookings returns upcoming events dated before now's calendar day,
// oldest first.
func OverdueBookings(events []core.Event, now time.Time) []core.Event {
	today := dates.StartOfDay(now)
	var out []core.Event
	for _, e := range core.FilterByStatus(events, core.Upcoming) {
		day, ok := dates.ParseDateIn(e.EventDate, now.Location())
		if ok && day.Before(today) {
			out = append(out, e)
		}
	}
	core.SortByDateTime(out)
	return out
}
