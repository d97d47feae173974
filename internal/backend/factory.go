package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"eventbook/internal/amqp"
	"eventbook/internal/records/memory"
	"eventbook/internal/storage"
)

// Factory creates backends based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

type DefaultFactory struct {
	logger *slog.Logger
	// dial is swapped in tests.
	dial func(url, exchange, queue, source string) (*amqp.Client, error)
}

func NewFactory(logger *slog.Logger) *DefaultFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger, dial: amqp.NewClient}
}

func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		res *BackendResult
		err error
	)
	switch config.Type {
	case SQLiteBackend:
		res, err = f.createSQLiteBackend(ctx, config)
	case MemoryBackend:
		res, err = f.createMemoryBackend(config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	f.attachChangeFeed(res, config)
	return res, nil
}

// attachChangeFeed connects to the broker when configured. A broker that
// is down does not stop the app; it runs without cross-instance sync.
func (f *DefaultFactory) attachChangeFeed(res *BackendResult, config Config) {
	if config.AMQPURL == "" {
		return
	}
	client, err := f.dial(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, config.Source)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without change feed", "error", err)
		return
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)

	res.Changes = client
	storeCleanup := res.Cleanup
	res.Cleanup = func() error {
		var errs []error
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close amqp: %w", err))
		}
		if storeCleanup != nil {
			if err := storeCleanup(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	seeded, err := seedIfEmpty(ctx, repo, config.SeedFile)
	if err != nil {
		repo.Close()
		return nil, err
	}

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"seeded", seeded)

	return &BackendResult{
		Type:    SQLiteBackend,
		Store:   repo,
		Pinger:  repo,
		Cleanup: repo.Close,
	}, nil
}

// seedIfEmpty imports the seed file into a database that has no bookings
// and no notes yet. It reports how many records were written.
func seedIfEmpty(ctx context.Context, repo *storage.SQLiteRepository, path string) (int, error) {
	events, err := repo.ListEvents(ctx)
	if err != nil {
		return 0, fmt.Errorf("check existing events: %w", err)
	}
	notes, err := repo.ListCalendarNotes(ctx)
	if err != nil {
		return 0, fmt.Errorf("check existing notes: %w", err)
	}
	if len(events) > 0 || len(notes) > 0 {
		return 0, nil
	}

	seed, err := memory.LoadSeed(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range seed.Events {
		if _, err := repo.CreateEvent(ctx, e); err != nil {
			return n, fmt.Errorf("seed event: %w", err)
		}
		n++
	}
	for _, note := range seed.Notes {
		if _, err := repo.CreateNote(ctx, note); err != nil {
			return n, fmt.Errorf("seed note: %w", err)
		}
		n++
	}
	return n, nil
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store, err := memory.NewFromFile(config.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "seed_file", config.SeedFile)
	return &BackendResult{Type: MemoryBackend, Store: store}, nil
}
