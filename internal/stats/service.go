package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lhzhang/itemmarket-data/internal/model"
	"github.com/lhzhang/itemmarket-data/internal/ranker"
)

// Window lengths for the mover rankings.
const (
	Window24h = 24 * time.Hour
	Window7d  = 7 * 24 * time.Hour
)

// PriceSource is the subset of the price store used by the service.
type PriceSource interface {
	ObservationsInRange(ctx context.Context, itemID *int64, typ model.PriceType, from, to int64) ([]model.PriceObservation, error)
	LatestBefore(ctx context.Context, typ model.PriceType, before int64, itemIDs []int64) (map[int64]ranker.PricePoint, error)
	Items(ctx context.Context) ([]model.Item, error)
}

// Service computes market statistics from raw quote data.
type Service struct {
	prices      PriceSource
	historyDays int
	logger      *slog.Logger

	now func() time.Time // injectable clock
}

// New creates a Service. historyDays bounds ItemHistory lookback.
func New(prices PriceSource, historyDays int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		prices:      prices,
		historyDays: historyDays,
		logger:      logger,
		now:         time.Now,
	}
}

// Movers24h ranks all items by ask price change over the last 24 hours.
// Items with a single in-window sample fall back to their last quote
// from before the window, so they never compare against themselves.
func (s *Service) Movers24h(ctx context.Context) ([]model.RankedItem, error) {
	return s.movers(ctx, Window24h, true)
}

// Movers7d ranks all items by ask price change over the last 7 days.
func (s *Service) Movers7d(ctx context.Context) ([]model.RankedItem, error) {
	return s.movers(ctx, Window7d, false)
}

func (s *Service) movers(ctx context.Context, window time.Duration, sparseFallback bool) ([]model.RankedItem, error) {
	now := s.now().Unix()
	windowStart := now - int64(window.Seconds())

	obs, err := s.prices.ObservationsInRange(ctx, nil, model.PriceTypeAsk, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("query window observations: %w", err)
	}

	snap := ranker.WindowSnapshots(obs, windowStart)

	// Without the fallback, single-sample items keep their in-window
	// reference and rank at 0% change.
	reference := snap.Earliest
	if sparseFallback {
		var prior map[int64]ranker.PricePoint
		if len(snap.Single) > 0 {
			prior, err = s.prices.LatestBefore(ctx, model.PriceTypeAsk, windowStart, snap.Single)
			if err != nil {
				return nil, fmt.Errorf("query fallback references: %w", err)
			}
		}
		reference = snap.Reference(prior)
	}

	ranked := ranker.Rank(snap.Latest, reference)
	s.logger.Debug("computed movers",
		"window", window,
		"items", len(ranked),
		"single_sample", len(snap.Single),
	)
	return ranked, nil
}

// Items lists all items with their latest ask quote.
func (s *Service) Items(ctx context.Context) ([]model.Item, error) {
	items, err := s.prices.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}
