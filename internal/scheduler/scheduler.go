package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/lhzhang/itemmarket-data/internal/job"
)

// Runner is the unit of work the scheduler triggers on each cron slot.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler fires a Runner on a cron spec.
type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a scheduler that invokes runner on the given cron spec.
// The spec uses the standard five-field format.
func New(spec string, runner Runner, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cron:   cron.New(),
		runner: runner,
		logger: logger.With("component", "scheduler"),
	}

	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("register recompute schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start begins firing cron slots. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop halts the cron timetable and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

// RunNow triggers the runner outside the timetable, for run-on-start
// and manual invocation.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.runner.Run(ctx)
}

func (s *Scheduler) tick() {
	err := s.runner.Run(s.ctx)
	switch {
	case err == nil:
	case errors.Is(err, job.ErrAlreadyRunning):
		s.logger.Warn("previous recompute still running, skipping slot")
	case errors.Is(err, context.Canceled):
		// shutting down
	default:
		s.logger.Error("scheduled recompute failed", "error", err)
	}
}
