package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventbook/internal/analytics"
	"eventbook/internal/cache"
	"eventbook/internal/calendar"
	"eventbook/internal/core"
	"eventbook/internal/dates"
	"eventbook/internal/daterange"
	"eventbook/internal/log"
	"eventbook/internal/records"

	"golang.org/x/sync/errgroup"
)

// Snapshot is one consistent read of both collections.
type Snapshot struct {
	Events []core.Event
	Notes  []core.CalendarNote
}

// CalendarView is a grid plus what a host UI needs to page through it.
type CalendarView struct {
	Title     string            `json:"title"`
	Mode      calendar.ViewMode `json:"mode"`
	Reference string            `json:"reference"`
	Start     string            `json:"start"`
	End       string            `json:"end"`
	Prev      string            `json:"prev"`
	Next      string            `json:"next"`
	Today     string            `json:"today"`
	Grid      calendar.Grid     `json:"grid"`
}

// DayView lists what is booked on one date.
type DayView struct {
	Date   string              `json:"date"`
	Tense  string              `json:"tense"`
	Events []core.Event        `json:"events"`
	Notes  []core.CalendarNote `json:"notes"`
}

// DashboardService derives reports and calendars from the stores. Reports
// are cached until Invalidate is called or their TTL passes.
type DashboardService struct {
	events  records.EventLister
	notes   records.NoteLister
	reports cache.Cache[analytics.Report]
	now     func() time.Time
	logger  *log.Logger
}

type DashboardOption func(*DashboardService)

// WithClock sets the source of "now". Its location drives every date
// computation.
func WithClock(now func() time.Time) DashboardOption {
	return func(s *DashboardService) { s.now = now }
}

func WithReportCache(c cache.Cache[analytics.Report]) DashboardOption {
	return func(s *DashboardService) { s.reports = c }
}

func WithLogger(l *log.Logger) DashboardOption {
	return func(s *DashboardService) { s.logger = l }
}

func NewDashboardService(events records.EventLister, notes records.NoteLister, opts ...DashboardOption) *DashboardService {
	s := &DashboardService{
		events:  events,
		notes:   notes,
		reports: cache.NewLRUCache[analytics.Report](64, 5*time.Minute),
		now:     time.Now,
		logger:  log.New(log.DefaultConfig()),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.WithComponent(log.ComponentDashboard)
	return s
}

// Snapshot loads events and notes concurrently.
func (s *DashboardService) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		events, err := s.events.ListEvents(gctx)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}
		snap.Events = events
		return nil
	})
	g.Go(func() error {
		notes, err := s.notes.ListCalendarNotes(gctx)
		if err != nil {
			return fmt.Errorf("list calendar notes: %w", err)
		}
		snap.Notes = notes
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Report builds the dashboard for q. Relative presets are keyed by the
// current day so a cached report never outlives its window.
func (s *DashboardService) Report(ctx context.Context, q daterange.Query) (analytics.Report, error) {
	now := s.now()
	bounds, err := daterange.Resolve(q, now)
	if err != nil {
		return analytics.Report{}, err
	}

	key := reportKey(q, now)
	if r, ok := s.reports.Get(key); ok {
		s.logger.DebugContext(ctx, "Report served from cache", log.FieldPreset, q.Preset, log.FieldCacheHit, true)
		return r, nil
	}

	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return analytics.Report{}, fmt.Errorf("list events: %w", err)
	}
	r := analytics.BuildReport(events, bounds, now.Location())
	s.reports.Set(key, r)

	s.logger.DebugContext(ctx, "Report computed",
		log.FieldPreset, q.Preset,
		log.FieldCacheHit, false,
		"events", r.KPIs.EventCount)
	return r, nil
}

// Compare slices the monthly breakdown of the q report to [from, to].
func (s *DashboardService) Compare(ctx context.Context, q daterange.Query, from, to string) (analytics.Comparison, error) {
	r, err := s.Report(ctx, q)
	if err != nil {
		return analytics.Comparison{}, err
	}
	return analytics.Compare(r.MonthlyBreakdown, strings.TrimSpace(from), strings.TrimSpace(to)), nil
}

// Calendar lays out the grid containing ref and attaches events and notes.
// An unparsable ref falls back to today. statuses narrows the events shown.
func (s *DashboardService) Calendar(ctx context.Context, mode calendar.ViewMode, ref string, statuses ...core.Status) (CalendarView, error) {
	now := s.now()
	refDay, ok := dates.ParseDateIn(ref, now.Location())
	if !ok {
		refDay = dates.StartOfDay(now)
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return CalendarView{}, err
	}

	grid := calendar.Build(refDay, mode, now)
	grid.Attach(calendar.NewDayIndex(core.FilterByStatus(snap.Events, statuses...), snap.Notes))

	return CalendarView{
		Title:     grid.Title(),
		Mode:      mode,
		Reference: dates.FormatDate(refDay),
		Start:     dates.FormatDate(grid.Start),
		End:       dates.FormatDate(grid.End),
		Prev:      dates.FormatDate(calendar.Previous(refDay, mode)),
		Next:      dates.FormatDate(calendar.Next(refDay, mode)),
		Today:     dates.FormatDate(now),
		Grid:      grid,
	}, nil
}

// Day returns the events and notes on date, events in time order.
func (s *DashboardService) Day(ctx context.Context, date string) (DayView, error) {
	now := s.now()
	day, ok := dates.ParseDateIn(date, now.Location())
	if !ok {
		return DayView{}, core.ErrInvalidDate
	}
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return DayView{}, err
	}
	key := dates.FormatDate(day)
	ix := calendar.NewDayIndex(snap.Events, snap.Notes)
	events := append([]core.Event{}, ix.EventsOn(key)...)
	core.SortByDateTime(events)
	return DayView{
		Date:   key,
		Tense:  dates.Classify(day, now).String(),
		Events: events,
		Notes:  append([]core.CalendarNote{}, ix.NotesOn(key)...),
	}, nil
}

// Invalidate drops every cached report.
func (s *DashboardService) Invalidate() {
	s.reports.Purge()
}

func reportKey(q daterange.Query, now time.Time) string {
	return strings.Join([]string{string(q.Preset), q.CustomStart, q.CustomEnd, dates.FormatDate(now)}, "|")
}
