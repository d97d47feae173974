// Package memory is an in-process records.Store, optionally seeded from a
// YAML file. Data does not survive a restart.
package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"eventbook/internal/core"
	"eventbook/internal/dates"
	"eventbook/internal/records"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

type Store struct {
	mu     sync.Mutex
	events []core.Event
	notes  []core.CalendarNote
}

// Seed is the on-disk layout of a seed file.
type Seed struct {
	Events []core.Event        `yaml:"events"`
	Notes  []core.CalendarNote `yaml:"notes"`
}

func New(events []core.Event, notes []core.CalendarNote) *Store {
	s := &Store{}
	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		s.events = append(s.events, cloneEvent(e))
	}
	for _, n := range notes {
		if n.ID == "" {
			n.ID = uuid.NewString()
		}
		s.notes = append(s.notes, n)
	}
	return s
}

// NewFromFile seeds a store from a YAML file. An empty path or a missing
// file yields an empty store.
func NewFromFile(path string) (*Store, error) {
	seed, err := LoadSeed(path)
	if err != nil {
		return nil, err
	}
	return New(seed.Events, seed.Notes), nil
}

// LoadSeed reads a seed file. An empty path or a missing file is an empty
// seed.
func LoadSeed(path string) (Seed, error) {
	var seed Seed
	if path == "" {
		return seed, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return seed, nil
	}
	if err != nil {
		return seed, fmt.Errorf("read seed %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &seed); err != nil {
		return seed, fmt.Errorf("parse seed %s: %w", path, err)
	}
	for i := range seed.Events {
		seed.Events[i].EventDate = canonicalDate(seed.Events[i].EventDate)
	}
	for i := range seed.Notes {
		seed.Notes[i].Date = canonicalDate(seed.Notes[i].Date)
	}
	return seed, nil
}

// canonicalDate rewrites parsable dates as YYYY-MM-DD and trims the rest.
func canonicalDate(s string) string {
	if d := dates.NormalizeDate(s); d != "" {
		return d
	}
	return strings.TrimSpace(s)
}

func (s *Store) ListEvents(_ context.Context) ([]core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, cloneEvent(e))
	}
	return out, nil
}

func (s *Store) ListCalendarNotes(_ context.Context) ([]core.CalendarNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.CalendarNote{}, s.notes...), nil
}

func (s *Store) CreateEvent(_ context.Context, e core.Event) (core.Event, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, cloneEvent(e))
	return cloneEvent(e), nil
}

func (s *Store) UpdateEvent(_ context.Context, e core.Event) (core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == e.ID {
			s.events[i] = cloneEvent(e)
			return cloneEvent(e), nil
		}
	}
	return core.Event{}, fmt.Errorf("event %s: %w", e.ID, records.ErrNotFound)
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.events {
		if s.events[i].ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("event %s: %w", id, records.ErrNotFound)
}

func (s *Store) CreateNote(_ context.Context, n core.CalendarNote) (core.CalendarNote, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, n)
	return n, nil
}

func (s *Store) UpdateNote(_ context.Context, n core.CalendarNote) (core.CalendarNote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == n.ID {
			s.notes[i] = n
			return n, nil
		}
	}
	return core.CalendarNote{}, fmt.Errorf("note %s: %w", n.ID, records.ErrNotFound)
}

func (s *Store) DeleteNote(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notes {
		if s.notes[i].ID == id {
			s.notes = append(s.notes[:i], s.notes[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("note %s: %w", id, records.ErrNotFound)
}

// cloneEvent detaches the attachment slice so callers cannot mutate
// stored state.
func cloneEvent(e core.Event) core.Event {
	if e.Files != nil {
		e.Files = append([]core.Attachment{}, e.Files...)
	}
	return e
}

var _ records.Store = (*Store)(nil)
