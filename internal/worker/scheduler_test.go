package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventbook/internal/core"
	"eventbook/internal/log"
)

func TestSchedulerAddAndNext(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	s := NewScheduler(loc, nil)
	if err := s.Add("rollover", "0 0 * * *", func(context.Context) {}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.Add("broken", "every day", func(context.Context) {}); err == nil {
		t.Fatalf("expected error for malformed spec")
	}

	s.Start()
	defer s.Stop(context.Background())

	next := s.Next()
	if len(next) != 1 {
		t.Fatalf("expected 1 entry, got %v", next)
	}
	n := next["rollover"].In(loc)
	if n.Hour() != 0 || n.Minute() != 0 {
		t.Fatalf("rollover should fire at local midnight, got %v", n)
	}
}

func TestSchedulerStopHonoursDeadline(t *testing.T) {
	s := NewScheduler(time.UTC, nil)
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestRolloverJob(t *testing.T) {
	inv := &countingInvalidator{}
	RolloverJob(inv, log.New(log.DefaultConfig()))(context.Background())
	if inv.n != 1 {
		t.Fatalf("expected one purge, got %d", inv.n)
	}
}

type staticLister struct {
	events []core.Event
	err    error
}

func (s staticLister) ListEvents(context.Context) ([]core.Event, error) { return s.events, s.err }

func TestOverdueBookings(t *testing.T) {
	now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	events := []core.Event{
		{ID: "late2", Status: core.Upcoming, EventDate: "2025-03-10"},
		{ID: "today", Status: core.Upcoming, EventDate: "2025-03-15"},
		{ID: "late1", Status: core.Upcoming, EventDate: "2025-02-01"},
		{ID: "done", Status: core.Finished, EventDate: "2025-01-01"},
		{ID: "undated", Status: core.Upcoming},
		{ID: "future", Status: core.Upcoming, EventDate: "2025-04-01"},
	}
	got := OverdueBookings(events, now)
	if len(got) != 2 || got[0].ID != "late1" || got[1].ID != "late2" {
		t.Fatalf("unexpected overdue list: %+v", got)
	}

	// Errors and empty results are logged, never panics.
	logger := log.New(log.DefaultConfig())
	OverdueJob(staticLister{err: errors.New("down")}, func() time.Time { return now }, logger)(context.Background())
	OverdueJob(staticLister{events: events}, func() time.Time { return now }, logger)(context.Background())
}
