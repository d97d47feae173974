package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"eventbook/internal/log"
)

// Scheduler runs named maintenance jobs on cron schedules evaluated in a
// fixed location. A job still running when its next tick fires is skipped.
type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger
	ctx    context.Context
	cancel context.CancelFunc
	names  map[cron.EntryID]string
}

func NewScheduler(loc *time.Location, logger *log.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		logger: logger.WithComponent(log.ComponentScheduler),
		ctx:    ctx,
		cancel: cancel,
		names:  make(map[cron.EntryID]string),
	}
}

// Add registers fn under a standard five-field spec.
func (s *Scheduler) Add(name, spec string, fn func(ctx context.Context)) error {
	id, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		fn(s.ctx)
		s.logger.Debug("Scheduled job finished", "job", name, log.FieldDuration, time.Since(start).Milliseconds())
	})
	if err != nil {
		return fmt.Errorf("schedule %s: %w", name, err)
	}
	s.names[id] = name
	s.logger.Info("Scheduled job registered", "job", name, "spec", spec)
	return nil
}

// Next reports when each registered job fires next, keyed by name.
func (s *Scheduler) Next() map[string]time.Time {
	out := make(map[string]time.Time, len(s.names))
	for _, e := range s.cron.Entries() {
		out[s.names[e.ID]] = e.Next
	}
	return out
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	s.cancel()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("Scheduler stop timed out")
	}
}
