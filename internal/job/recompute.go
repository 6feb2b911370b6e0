package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lhzhang/itemmarket-data/internal/model"
	"github.com/lhzhang/itemmarket-data/internal/rollup"
)

// ErrAlreadyRunning is returned when a recompute cycle is triggered
// while a previous one is still in flight.
var ErrAlreadyRunning = errors.New("recompute already in flight")

// SumSource supplies the market-wide aggregate series.
type SumSource interface {
	DailyAskSums(ctx context.Context) ([]model.PriceSum, error)
}

// TrendSink persists the recomputed daily rows.
type TrendSink interface {
	ReplaceAll(ctx context.Context, rows []model.TrendRow) error
}

// Config holds recompute settings.
type Config struct {
	// Timeout caps one cycle; zero means no cap.
	Timeout time.Duration
}

// Recompute runs full trend recomputation cycles.
type Recompute struct {
	cfg    Config
	sums   SumSource
	trends TrendSink
	logger *slog.Logger

	mu sync.Mutex // serializes cycles
}

// New creates a Recompute job.
func New(cfg Config, sums SumSource, trends TrendSink, logger *slog.Logger) *Recompute {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recompute{
		cfg:    cfg,
		sums:   sums,
		trends: trends,
		logger: logger,
	}
}

// Run executes one recomputation cycle. It returns ErrAlreadyRunning
// when a cycle is already in flight. Upstream and persistence failures
// propagate to the caller with the stored rows left untouched; an empty
// upstream is not an error and also leaves the table untouched.
func (r *Recompute) Run(ctx context.Context) error {
	if !r.mu.TryLock() {
		return ErrAlreadyRunning
	}
	defer r.mu.Unlock()

	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	runID := uuid.New()
	logger := r.logger.With("run_id", runID)
	start := time.Now()

	logger.Info("trend recompute started")

	sums, err := r.sums.DailyAskSums(ctx)
	if err != nil {
		return fmt.Errorf("query daily ask sums: %w", err)
	}
	if len(sums) == 0 {
		logger.Info("no price data, leaving trend table untouched")
		return nil
	}

	rows, stats := rollup.Build(sums, logger)
	if len(rows) == 0 {
		logger.Warn("rollup produced no rows, leaving trend table untouched",
			"samples", len(sums),
		)
		return nil
	}

	if err := r.trends.ReplaceAll(ctx, rows); err != nil {
		return fmt.Errorf("replace trend rows: %w", err)
	}

	logger.Info("trend recompute complete",
		"samples", len(sums),
		"days", len(rows),
		"skipped_days", stats.SkippedDays,
		"replaced", stats.Replaced,
		"smoothed", stats.Smoothed,
		"guard_trips", stats.GuardTrips,
		"duration", time.Since(start),
	)
	return nil
}
