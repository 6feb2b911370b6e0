package stats

import (
	"context"
	"fmt"

	"github.com/lhzhang/itemmarket-data/internal/cleaner"
	"github.com/lhzhang/itemmarket-data/internal/model"
)

// History is the cleaned quote history of one item, both sides,
// ordered by timestamp ascending.
type History struct {
	ItemID int64
	Ask    []model.PriceObservation
	Bid    []model.PriceObservation
}

// ItemHistory returns the item's ask and bid observations over the
// configured lookback, each sequence run through the outlier cleaner.
// Timestamps are preserved; only prices change. An item with no
// observations yields an empty history, not an error.
func (s *Service) ItemHistory(ctx context.Context, itemID int64) (*History, error) {
	to := s.now().Unix()
	from := to - int64(s.historyDays)*24*3600

	h := &History{ItemID: itemID}
	for _, typ := range []model.PriceType{model.PriceTypeAsk, model.PriceTypeBid} {
		obs, err := s.prices.ObservationsInRange(ctx, &itemID, typ, from, to)
		if err != nil {
			return nil, fmt.Errorf("query %s history for item %d: %w", typ, itemID, err)
		}

		cleaned := s.cleanSeries(obs, itemID, typ)
		switch typ {
		case model.PriceTypeAsk:
			h.Ask = cleaned
		case model.PriceTypeBid:
			h.Bid = cleaned
		}
	}
	return h, nil
}

// cleanSeries replaces the prices of an observation sequence with their
// cleaned values. No MA context exists for a single item's history.
func (s *Service) cleanSeries(obs []model.PriceObservation, itemID int64, typ model.PriceType) []model.PriceObservation {
	if len(obs) == 0 {
		return nil
	}

	prices := make([]float64, len(obs))
	for i, o := range obs {
		prices[i] = o.Price
	}

	cleaned, cs := cleaner.Clean(prices, nil, nil)
	if cs.GuardTripped {
		s.logger.Warn("cleaning round cap reached for item history",
			"item_id", itemID,
			"type", typ,
			"samples", len(obs),
		)
	}

	out := make([]model.PriceObservation, len(obs))
	for i, o := range obs {
		o.Price = cleaned[i]
		out[i] = o
	}
	return out
}
