package core

import (
	"errors"
	"sort"
	"strings"

	"eventbook/internal/dates"
)

const (
	Pending  Status = "pending"
	Upcoming Status = "upcoming"
	Finished Status = "finished"
)

const (
	// UnknownVenue buckets events without a building area.
	UnknownVenue = "Unknown"
	// UnnamedClient buckets events whose client name is blank.
	UnnamedClient = "Unnamed Client"
	// DefaultNoteColor is applied to notes saved without a swatch.
	DefaultNoteColor = "blue"
)

// NoteColors lists the swatch identifiers a calendar note may carry.
var NoteColors = []string{"blue", "green", "yellow", "orange", "red", "purple", "gray"}

type (
	Status string

	Attachment struct {
		Name        string `json:"name" yaml:"name"`
		URL         string `json:"url" yaml:"url"`
		StoragePath string `json:"storagePath" yaml:"storagePath"`
	}

	Event struct {
		ID        string `json:"id" yaml:"id"`
		Status    Status `json:"status" yaml:"status"`
		EventDate string `json:"eventDate" yaml:"eventDate"` // YYYY-MM-DD or empty
		StartTime string `json:"startTime" yaml:"startTime"` // HH:MM, 24-hour
		EndTime   string `json:"endTime" yaml:"endTime"`
		AllDay    bool   `json:"allDay" yaml:"allDay"`

		ClientName   string `json:"clientName" yaml:"clientName"`
		EventName    string `json:"eventName" yaml:"eventName"`
		BuildingArea string `json:"buildingArea" yaml:"buildingArea"`
		Notes        string `json:"notes" yaml:"notes"`

		PriceGiven          Amount `json:"priceGiven" yaml:"priceGiven"`
		DownPaymentRequired Amount `json:"downPaymentRequired" yaml:"downPaymentRequired"`
		DownPaymentReceived Amount `json:"downPaymentReceived" yaml:"downPaymentReceived"`
		AmountDueAfter      Amount `json:"amountDueAfter" yaml:"amountDueAfter"`
		AmountPaidAfter     Amount `json:"amountPaidAfter" yaml:"amountPaidAfter"`
		GrandTotal          Amount `json:"grandTotal" yaml:"grandTotal"`
		SecurityDeposit     Amount `json:"securityDeposit" yaml:"securityDeposit"`

		Files []Attachment `json:"files" yaml:"files"`
	}

	CalendarNote struct {
		ID      string `json:"id" yaml:"id"`
		Title   string `json:"title" yaml:"title"`
		Content string `json:"content" yaml:"content"`
		Color   string `json:"color" yaml:"color"`
		Date    string `json:"date" yaml:"date"` // YYYY-MM-DD
	}
)

var (
	ErrInvalidStatus = errors.New("invalid status")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidTime   = errors.New("invalid time")
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidColor  = errors.New("invalid color")
)

// ParseStatus maps a raw status string onto a known Status.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s Status) Valid() bool {
	switch s {
	case Pending, Upcoming, Finished:
		return true
	default:
		return false
	}
}

// Venue returns the trimmed building area, or UnknownVenue when blank.
func (e Event) Venue() string {
	if v := strings.TrimSpace(e.BuildingArea); v != "" {
		return v
	}
	return UnknownVenue
}

// Client returns the trimmed client name, or UnnamedClient when blank.
func (e Event) Client() string {
	if c := strings.TrimSpace(e.ClientName); c != "" {
		return c
	}
	return UnnamedClient
}

// Revenue is the coerced grand total as a float.
func (e Event) Revenue() float64 {
	return e.GrandTotal.Float()
}

// HasDate reports whether the event can be placed on a calendar.
func (e Event) HasDate() bool {
	return strings.TrimSpace(e.EventDate) != ""
}

func (e Event) Validate() error {
	if !e.Status.Valid() {
		return ErrInvalidStatus
	}
	if e.HasDate() {
		if _, ok := dates.ParseDate(e.EventDate); !ok {
			return ErrInvalidDate
		}
	}
	for _, tm := range []string{e.StartTime, e.EndTime} {
		if tm != "" && dates.FormatTime12Hour(tm) == dates.InvalidTime {
			return ErrInvalidTime
		}
	}
	return nil
}

func (n CalendarNote) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return ErrEmptyTitle
	}
	if _, ok := dates.ParseDate(n.Date); !ok {
		return ErrInvalidDate
	}
	if n.Color == "" {
		return nil
	}
	for _, c := range NoteColors {
		if c == n.Color {
			return nil
		}
	}
	return ErrInvalidColor
}

// FilterByStatus keeps events whose status is one of statuses.
// No statuses means no filtering.
func FilterByStatus(events []Event, statuses ...Status) []Event {
	if len(statuses) == 0 {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		for _, s := range statuses {
			if e.Status == s {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Search keeps events whose client, event name or venue contains query,
// ignoring case. A blank query keeps everything.
func Search(events []Event, query string) []Event {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return events
	}
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if strings.Contains(strings.ToLower(e.ClientName), q) ||
			strings.Contains(strings.ToLower(e.EventName), q) ||
			strings.Contains(strings.ToLower(e.BuildingArea), q) {
			out = append(out, e)
		}
	}
	return out
}

// SortByDateTime orders events by date then start time. Undated events
// sort last; all-day events lead their day.
func SortByDateTime(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.HasDate() != b.HasDate() {
			return a.HasDate()
		}
		if a.EventDate != b.EventDate {
			return a.EventDate < b.EventDate
		}
		if a.AllDay != b.AllDay {
			return a.AllDay
		}
		return a.StartTime < b.StartTime
	})
}
