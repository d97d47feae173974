package worker

import (
	"context"
	"sync/atomic"

	"eventbook/internal/amqp"
	"eventbook/internal/log"
)

// Invalidator drops cached reports. *services.DashboardService
// satisfies it.
type Invalidator interface {
	Invalidate()
}

// ChangeWorker reacts to change notifications published by other
// instances sharing the same store. It never reads message payloads:
// the next request recomputes from a fresh snapshot.
type ChangeWorker struct {
	source      string
	invalidator Invalidator
	logger      *log.Logger

	handled atomic.Int64
	skipped atomic.Int64
}

// NewChangeWorker builds a worker that ignores messages tagged with
// source, the tag this instance publishes under.
func NewChangeWorker(source string, invalidator Invalidator, logger *log.Logger) *ChangeWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ChangeWorker{
		source:      source,
		invalidator: invalidator,
		logger:      logger.WithComponent(log.ComponentAMQP),
	}
}

// HandleChange processes a single change message from AMQP.
func (w *ChangeWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.Source != "" && msg.Source == w.source {
		w.skipped.Add(1)
		return nil
	}

	w.invalidator.Invalidate()
	w.handled.Add(1)

	w.logger.DebugContext(ctx, "Report cache purged after remote change",
		"kind", msg.Kind,
		"op", msg.Op,
		"id", msg.ID,
		"source", msg.Source,
		"timestamp", msg.Timestamp)
	return nil
}

// Run consumes from client until ctx ends.
func (w *ChangeWorker) Run(ctx context.Context, client *amqp.Client) error {
	w.logger.InfoContext(ctx, "Change worker started", "source", w.source)
	return client.Run(ctx, func(msg *amqp.ChangeMessage) error {
		return w.HandleChange(ctx, msg)
	})
}

// Stats reports how many messages were applied and how many were our own.
func (w *ChangeWorker) Stats() (handled, skipped int64) {
	return w.handled.Load(), w.skipped.Load()
}
