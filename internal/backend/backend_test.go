package backend

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"eventbook/internal/amqp"
	"eventbook/internal/config"
)

const seedYAML = `events:
  - id: e1
    status: finished
    eventDate: "2025-03-04"
    clientName: Acme
    grandTotal: "1000"
notes:
  - title: Deposit due
    date: "2025-03-20"
    color: red
`

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil, "x"); err == nil {
		t.Fatalf("nil config must fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "postgres"}, "x"); err == nil {
		t.Fatalf("postgres is not a backend")
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "sqlite", SQLiteDBPath: "db", AMQPURL: "amqp://x"}, "host-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.Source != "host-1" || cfg.AMQPURL != "amqp://x" {
		t.Fatalf("unexpected conversion: %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"unknown", Config{Type: "csv"}, true},
		{"amqp without queue", Config{Type: MemoryBackend, AMQPURL: "amqp://x", AMQPExchange: "e"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("wantErr=%v got %v", tt.wantErr, err)
			}
		})
	}
}

func TestMemoryBackendSeeds(t *testing.T) {
	ctx := context.Background()
	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: MemoryBackend, SeedFile: writeSeed(t)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer res.Close()

	events, _ := res.Store.ListEvents(ctx)
	notes, _ := res.Store.ListCalendarNotes(ctx)
	if len(events) != 1 || len(notes) != 1 || notes[0].ID == "" {
		t.Fatalf("seed not loaded: %d events %d notes", len(events), len(notes))
	}
	if res.Pinger != nil || res.Changes != nil {
		t.Fatalf("memory backend has no pinger or change feed")
	}
}

func TestSQLiteBackendSeedsOnce(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "eventbook.db")
	cfg := Config{Type: SQLiteBackend, SQLiteDBPath: dbPath, SeedFile: writeSeed(t)}

	res, err := NewFactory(nil).CreateBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := res.Pinger.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := res.Store.DeleteEvent(ctx, "e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// The note survives, so the second start must not re-import e1.
	res, err = NewFactory(nil).CreateBackend(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer res.Close()
	events, _ := res.Store.ListEvents(ctx)
	if len(events) != 0 {
		t.Fatalf("seed must only apply to an empty database, got %d events", len(events))
	}
}

func TestChangeFeedFailureIsNotFatal(t *testing.T) {
	f := NewFactory(nil)
	f.dial = func(url, exchange, queue, source string) (*amqp.Client, error) {
		return nil, errors.New("connection refused")
	}
	res, err := f.CreateBackend(context.Background(), Config{
		Type: MemoryBackend, AMQPURL: "amqp://localhost", AMQPExchange: "e", AMQPQueue: "q",
	})
	if err != nil {
		t.Fatalf("broker failure must not fail startup: %v", err)
	}
	if res.Changes != nil {
		t.Fatalf("expected no change feed")
	}
	if err := res.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
