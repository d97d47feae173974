package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// EventRow mirrors the events table.
type EventRow struct {
	ID                  string
	Status              string
	EventDate           string
	StartTime           string
	EndTime             string
	AllDay              bool
	ClientName          string
	EventName           string
	BuildingArea        string
	Notes               string
	PriceGiven          string
	DownPaymentRequired string
	DownPaymentReceived string
	AmountDueAfter      string
	AmountPaidAfter     string
	GrandTotal          string
	SecurityDeposit     string
	Files               string
}

type NoteRow struct {
	ID       string
	Title    string
	Content  string
	Color    string
	NoteDate string
}

const eventColumns = `id, status, event_date, start_time, end_time, all_day, client_name, event_name,
building_area, notes, price_given, down_payment_required, down_payment_received,
amount_due_after, amount_paid_after, grand_total, security_deposit, files`

const listEvents = `SELECT ` + eventColumns + ` FROM events ORDER BY event_date, start_time, id`

func (q *Queries) ListEvents(ctx context.Context) ([]EventRow, error) {
	rows, err := q.db.QueryContext(ctx, listEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []EventRow
	for rows.Next() {
		var i EventRow
		if err := rows.Scan(
			&i.ID, &i.Status, &i.EventDate, &i.StartTime, &i.EndTime, &i.AllDay,
			&i.ClientName, &i.EventName, &i.BuildingArea, &i.Notes,
			&i.PriceGiven, &i.DownPaymentRequired, &i.DownPaymentReceived,
			&i.AmountDueAfter, &i.AmountPaidAfter, &i.GrandTotal, &i.SecurityDeposit, &i.Files,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const insertEvent = `INSERT INTO events (` + eventColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (q *Queries) InsertEvent(ctx context.Context, r EventRow) error {
	_, err := q.db.ExecContext(ctx, insertEvent,
		r.ID, r.Status, r.EventDate, r.StartTime, r.EndTime, r.AllDay,
		r.ClientName, r.EventName, r.BuildingArea, r.Notes,
		r.PriceGiven, r.DownPaymentRequired, r.DownPaymentReceived,
		r.AmountDueAfter, r.AmountPaidAfter, r.GrandTotal, r.SecurityDeposit, r.Files,
	)
	return err
}

const updateEvent = `UPDATE events SET
status = ?, event_date = ?, start_time = ?, end_time = ?, all_day = ?,
client_name = ?, event_name = ?, building_area = ?, notes = ?,
price_given = ?, down_payment_required = ?, down_payment_received = ?,
amount_due_after = ?, amount_paid_after = ?, grand_total = ?, security_deposit = ?,
files = ?, updated_at = CURRENT_TIMESTAMP
WHERE id = ?`

// UpdateEvent returns the number of rows changed.
func (q *Queries) UpdateEvent(ctx context.Context, r EventRow) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateEvent,
		r.Status, r.EventDate, r.StartTime, r.EndTime, r.AllDay,
		r.ClientName, r.EventName, r.BuildingArea, r.Notes,
		r.PriceGiven, r.DownPaymentRequired, r.DownPaymentReceived,
		r.AmountDueAfter, r.AmountPaidAfter, r.GrandTotal, r.SecurityDeposit,
		r.Files, r.ID,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteEvent(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listNotes = `SELECT id, title, content, color, note_date FROM calendar_notes ORDER BY note_date, id`

func (q *Queries) ListNotes(ctx context.Context) ([]NoteRow, error) {
	rows, err := q.db.QueryContext(ctx, listNotes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []NoteRow
	for rows.Next() {
		var i NoteRow
		if err := rows.Scan(&i.ID, &i.Title, &i.Content, &i.Color, &i.NoteDate); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (q *Queries) InsertNote(ctx context.Context, r NoteRow) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO calendar_notes (id, title, content, color, note_date) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.Content, r.Color, r.NoteDate)
	return err
}

func (q *Queries) UpdateNote(ctx context.Context, r NoteRow) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE calendar_notes SET title = ?, content = ?, color = ?, note_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		r.Title, r.Content, r.Color, r.NoteDate, r.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteNote(ctx context.Context, id string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM calendar_notes WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
