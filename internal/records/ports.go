package records

import (
	"context"
	"errors"

	"eventbook/internal/core"
)

// ErrNotFound is returned by writers when the target ID does not exist.
var ErrNotFound = errors.New("record not found")

// Ports for outbound adapters.
type (
	EventLister interface {
		// ListEvents returns every booking regardless of status.
		ListEvents(ctx context.Context) ([]core.Event, error)
	}

	NoteLister interface {
		ListCalendarNotes(ctx context.Context) ([]core.CalendarNote, error)
	}

	// EventWriter persists bookings. CreateEvent assigns the ID when the
	// input has none and returns the stored record.
	EventWriter interface {
		CreateEvent(ctx context.Context, e core.Event) (core.Event, error)
		UpdateEvent(ctx context.Context, e core.Event) (core.Event, error)
		DeleteEvent(ctx context.Context, id string) error
	}

	NoteWriter interface {
		CreateNote(ctx context.Context, n core.CalendarNote) (core.CalendarNote, error)
		UpdateNote(ctx context.Context, n core.CalendarNote) (core.CalendarNote, error)
		DeleteNote(ctx context.Context, id string) error
	}

	// Store is the full read/write surface a backend provides.
	Store interface {
		EventLister
		NoteLister
		EventWriter
		NoteWriter
	}
)
