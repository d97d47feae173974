package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"eventbook/internal/core"
	"eventbook/internal/records"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListEvents implements records.EventLister
func (r *SQLiteRepository) ListEvents(ctx context.Context) ([]core.Event, error) {
	rows, err := r.queries.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := make([]core.Event, 0, len(rows))
	for _, row := range rows {
		e, err := eventFromRow(row)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}

// ListCalendarNotes implements records.NoteLister
func (r *SQLiteRepository) ListCalendarNotes(ctx context.Context) ([]core.CalendarNote, error) {
	rows, err := r.queries.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list calendar notes: %w", err)
	}
	notes := make([]core.CalendarNote, 0, len(rows))
	for _, row := range rows {
		notes = append(notes, core.CalendarNote{
			ID:      row.ID,
			Title:   row.Title,
			Content: row.Content,
			Color:   row.Color,
			Date:    row.NoteDate,
		})
	}
	return notes, nil
}

func (r *SQLiteRepository) CreateEvent(ctx context.Context, e core.Event) (core.Event, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	row, err := rowFromEvent(e)
	if err != nil {
		return core.Event{}, err
	}
	if err := r.queries.InsertEvent(ctx, row); err != nil {
		return core.Event{}, fmt.Errorf("create event: %w", err)
	}

	slog.InfoContext(ctx, "Event saved to SQLite",
		"id", e.ID,
		"status", e.Status,
		"event_date", e.EventDate)

	return e, nil
}

func (r *SQLiteRepository) UpdateEvent(ctx context.Context, e core.Event) (core.Event, error) {
	row, err := rowFromEvent(e)
	if err != nil {
		return core.Event{}, err
	}
	n, err := r.queries.UpdateEvent(ctx, row)
	if err != nil {
		return core.Event{}, fmt.Errorf("update event %s: %w", e.ID, err)
	}
	if n == 0 {
		return core.Event{}, fmt.Errorf("event %s: %w", e.ID, records.ErrNotFound)
	}
	return e, nil
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id string) error {
	n, err := r.queries.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", id, records.ErrNotFound)
	}
	slog.InfoContext(ctx, "Event deleted from SQLite", "id", id)
	return nil
}

func (r *SQLiteRepository) CreateNote(ctx context.Context, n core.CalendarNote) (core.CalendarNote, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if err := r.queries.InsertNote(ctx, noteRow(n)); err != nil {
		return core.CalendarNote{}, fmt.Errorf("create note: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) UpdateNote(ctx context.Context, n core.CalendarNote) (core.CalendarNote, error) {
	affected, err := r.queries.UpdateNote(ctx, noteRow(n))
	if err != nil {
		return core.CalendarNote{}, fmt.Errorf("update note %s: %w", n.ID, err)
	}
	if affected == 0 {
		return core.CalendarNote{}, fmt.Errorf("note %s: %w", n.ID, records.ErrNotFound)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteNote(ctx context.Context, id string) error {
	affected, err := r.queries.DeleteNote(ctx, id)
	if err != nil {
		return fmt.Errorf("delete note %s: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("note %s: %w", id, records.ErrNotFound)
	}
	return nil
}

func rowFromEvent(e core.Event) (EventRow, error) {
	files := e.Files
	if files == nil {
		files = []core.Attachment{}
	}
	b, err := json.Marshal(files)
	if err != nil {
		return EventRow{}, fmt.Errorf("encode attachments: %w", err)
	}
	return EventRow{
		ID:                  e.ID,
		Status:              string(e.Status),
		EventDate:           e.EventDate,
		StartTime:           e.StartTime,
		EndTime:             e.EndTime,
		AllDay:              e.AllDay,
		ClientName:          e.ClientName,
		EventName:           e.EventName,
		BuildingArea:        e.BuildingArea,
		Notes:               e.Notes,
		PriceGiven:          string(e.PriceGiven),
		DownPaymentRequired: string(e.DownPaymentRequired),
		DownPaymentReceived: string(e.DownPaymentReceived),
		AmountDueAfter:      string(e.AmountDueAfter),
		AmountPaidAfter:     string(e.AmountPaidAfter),
		GrandTotal:          string(e.GrandTotal),
		SecurityDeposit:     string(e.SecurityDeposit),
		Files:               string(b),
	}, nil
}

func eventFromRow(row EventRow) (core.Event, error) {
	var files []core.Attachment
	if row.Files != "" {
		if err := json.Unmarshal([]byte(row.Files), &files); err != nil {
			return core.Event{}, fmt.Errorf("decode attachments for event %s: %w", row.ID, err)
		}
	}
	return core.Event{
		ID:                  row.ID,
		Status:              core.Status(row.Status),
		EventDate:           row.EventDate,
		StartTime:           row.StartTime,
		EndTime:             row.EndTime,
		AllDay:              row.AllDay,
		ClientName:          row.ClientName,
		EventName:           row.EventName,
		BuildingArea:        row.BuildingArea,
		Notes:               row.Notes,
		PriceGiven:          core.Amount(row.PriceGiven),
		DownPaymentRequired: core.Amount(row.DownPaymentRequired),
		DownPaymentReceived: core.Amount(row.DownPaymentReceived),
		AmountDueAfter:      core.Amount(row.AmountDueAfter),
		AmountPaidAfter:     core.Amount(row.AmountPaidAfter),
		GrandTotal:          core.Amount(row.GrandTotal),
		SecurityDeposit:     core.Amount(row.SecurityDeposit),
		Files:               files,
	}, nil
}

func noteRow(n core.CalendarNote) NoteRow {
	return NoteRow{ID: n.ID, Title: n.Title, Content: n.Content, Color: n.Color, NoteDate: n.Date}
}

var _ records.Store = (*SQLiteRepository)(nil)
