package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"eventbook/internal/amqp"
	"eventbook/internal/core"
	"eventbook/internal/dates"
	"eventbook/internal/log"
	"eventbook/internal/records"
)

var ErrMissingID = errors.New("missing id")

// ChangePublisher announces writes to other instances. *amqp.Client
// satisfies it.
type ChangePublisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
}

// Invalidator drops derived state after a write.
type Invalidator interface {
	Invalidate()
}

// BookingService validates and persists bookings and calendar notes,
// then announces the change. Publishing is best effort: a write that
// reached the store is never failed because the broker is down.
type BookingService struct {
	store       records.Store
	publisher   ChangePublisher
	invalidator Invalidator
	logger      *log.Logger
}

func NewBookingService(store records.Store, publisher ChangePublisher, invalidator Invalidator, logger *log.Logger) *BookingService {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &BookingService{
		store:       store,
		publisher:   publisher,
		invalidator: invalidator,
		logger:      logger.WithComponent(log.ComponentBooking),
	}
}

// ListEvents returns bookings matching any of statuses and the search
// query, ordered by date and time.
func (s *BookingService) ListEvents(ctx context.Context, query string, statuses ...core.Status) ([]core.Event, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events = core.Search(core.FilterByStatus(events, statuses...), query)
	out := append([]core.Event{}, events...)
	core.SortByDateTime(out)
	return out, nil
}

func (s *BookingService) CreateEvent(ctx context.Context, e core.Event) (core.Event, error) {
	e = normalizeEvent(e)
	if err := e.Validate(); err != nil {
		return core.Event{}, err
	}
	created, err := s.store.CreateEvent(ctx, e)
	if err != nil {
		return core.Event{}, fmt.Errorf("save event: %w", err)
	}
	s.logBooking(ctx, "Booking created", log.OpCreate, created)
	s.afterWrite(ctx, amqp.KindEvent, amqp.OpCreated, created.ID)
	return created, nil
}

func (s *BookingService) UpdateEvent(ctx context.Context, id string, e core.Event) (core.Event, error) {
	if strings.TrimSpace(id) == "" {
		return core.Event{}, ErrMissingID
	}
	e.ID = id
	e = normalizeEvent(e)
	if err := e.Validate(); err != nil {
		return core.Event{}, err
	}
	updated, err := s.store.UpdateEvent(ctx, e)
	if err != nil {
		return core.Event{}, fmt.Errorf("update event: %w", err)
	}
	s.logBooking(ctx, "Booking updated", log.OpUpdate, updated)
	s.afterWrite(ctx, amqp.KindEvent, amqp.OpUpdated, updated.ID)
	return updated, nil
}

func (s *BookingService) DeleteEvent(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if err := s.store.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.InfoContext(ctx, "Booking deleted", log.FieldEventID, id, log.FieldOperation, log.OpDelete)
	s.afterWrite(ctx, amqp.KindEvent, amqp.OpDeleted, id)
	return nil
}

// ListNotes returns calendar notes ordered by date.
func (s *BookingService) ListNotes(ctx context.Context) ([]core.CalendarNote, error) {
	notes, err := s.store.ListCalendarNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list calendar notes: %w", err)
	}
	sort.SliceStable(notes, func(i, j int) bool { return notes[i].Date < notes[j].Date })
	return notes, nil
}

func (s *BookingService) CreateNote(ctx context.Context, n core.CalendarNote) (core.CalendarNote, error) {
	n = normalizeNote(n)
	if err := n.Validate(); err != nil {
		return core.CalendarNote{}, err
	}
	created, err := s.store.CreateNote(ctx, n)
	if err != nil {
		return core.CalendarNote{}, fmt.Errorf("save note: %w", err)
	}
	s.logger.InfoContext(ctx, "Calendar note created", log.FieldNoteID, created.ID, log.FieldEventDate, created.Date)
	s.afterWrite(ctx, amqp.KindNote, amqp.OpCreated, created.ID)
	return created, nil
}

func (s *BookingService) UpdateNote(ctx context.Context, id string, n core.CalendarNote) (core.CalendarNote, error) {
	if strings.TrimSpace(id) == "" {
		return core.CalendarNote{}, ErrMissingID
	}
	n.ID = id
	n = normalizeNote(n)
	if err := n.Validate(); err != nil {
		return core.CalendarNote{}, err
	}
	updated, err := s.store.UpdateNote(ctx, n)
	if err != nil {
		return core.CalendarNote{}, fmt.Errorf("update note: %w", err)
	}
	s.afterWrite(ctx, amqp.KindNote, amqp.OpUpdated, updated.ID)
	return updated, nil
}

func (s *BookingService) DeleteNote(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingID
	}
	if err := s.store.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	s.afterWrite(ctx, amqp.KindNote, amqp.OpDeleted, id)
	return nil
}

func (s *BookingService) afterWrite(ctx context.Context, kind amqp.Kind, op amqp.Op, id string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, amqp.NewChangeMessage(kind, op, id)); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish change message",
			log.FieldError, err,
			"kind", kind,
			"id", id)
	}
}

func (s *BookingService) logBooking(ctx context.Context, msg, op string, e core.Event) {
	fields := log.NewFields().
		WithOperation(op).
		WithBooking(e.ID, string(e.Status), e.EventDate, e.Client(), e.Venue(), string(e.GrandTotal))
	s.logger.InfoContext(ctx, msg, fields.ToSlice()...)
}

// normalizeEvent trims free text and canonicalizes the date so the day
// index can match it by string. An unparsable date is kept as typed so
// validation can reject it.
func normalizeEvent(e core.Event) core.Event {
	e.ClientName = strings.TrimSpace(e.ClientName)
	e.EventName = strings.TrimSpace(e.EventName)
	e.BuildingArea = strings.TrimSpace(e.BuildingArea)
	e.StartTime = strings.TrimSpace(e.StartTime)
	e.EndTime = strings.TrimSpace(e.EndTime)
	if st, ok := core.ParseStatus(string(e.Status)); ok {
		e.Status = st
	} else if strings.TrimSpace(string(e.Status)) == "" {
		e.Status = core.Pending
	}
	if d := dates.NormalizeDate(e.EventDate); d != "" {
		e.EventDate = d
	} else {
		e.EventDate = strings.TrimSpace(e.EventDate)
	}
	return e
}

func normalizeNote(n core.CalendarNote) core.CalendarNote {
	n.Title = strings.TrimSpace(n.Title)
	n.Color = strings.ToLower(strings.TrimSpace(n.Color))
	if n.Color == "" {
		n.Color = core.DefaultNoteColor
	}
	if d := dates.NormalizeDate(n.Date); d != "" {
		n.Date = d
	}
	return n
}
