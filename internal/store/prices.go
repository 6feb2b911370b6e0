package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lhzhang/itemmarket-data/internal/model"
	"github.com/lhzhang/itemmarket-data/internal/ranker"
)

// PriceStore reads the raw quote data written by the ingestion sync.
// All queries return rows ordered by timestamp ascending; ingestion
// guarantees no duplicate timestamps per (item, type).
type PriceStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPriceStore creates a PriceStore.
func NewPriceStore(db *pgxpool.Pool, logger *slog.Logger) *PriceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceStore{db: db, logger: logger}
}

// ObservationsInRange returns same-type observations with from <=
// timestamp <= to, ordered by timestamp then item. A nil itemID spans
// the whole market.
func (s *PriceStore) ObservationsInRange(ctx context.Context, itemID *int64, typ model.PriceType, from, to int64) ([]model.PriceObservation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT timestamp, item_id, price, type
		FROM prices
		WHERE type = $1
		  AND timestamp BETWEEN $2 AND $3
		  AND ($4::bigint IS NULL OR item_id = $4)
		ORDER BY timestamp, item_id`,
		typ, from, to, itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	var out []model.PriceObservation
	for rows.Next() {
		var o model.PriceObservation
		if err := rows.Scan(&o.Timestamp, &o.ItemID, &o.Price, &o.Type); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return out, nil
}

// DailyAskSums returns the market-wide aggregate series: for every
// timestamp with ask quotes, the sum of ask prices across all items,
// ordered ascending. This feeds the daily trend rollup.
func (s *PriceStore) DailyAskSums(ctx context.Context) ([]model.PriceSum, error) {
	rows, err := s.db.Query(ctx, `
		SELECT timestamp, SUM(price)
		FROM prices
		WHERE type = $1
		GROUP BY timestamp
		ORDER BY timestamp`,
		model.PriceTypeAsk,
	)
	if err != nil {
		return nil, fmt.Errorf("query ask sums: %w", err)
	}
	defer rows.Close()

	var out []model.PriceSum
	for rows.Next() {
		var ps model.PriceSum
		if err := rows.Scan(&ps.Timestamp, &ps.SumPrice); err != nil {
			return nil, fmt.Errorf("scan ask sum: %w", err)
		}
		out = append(out, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ask sums: %w", err)
	}
	return out, nil
}

// LatestBefore returns, per requested item, the newest sample strictly
// before the given timestamp. Items without such a sample are absent
// from the result. Used for the single-sample ranking fallback.
func (s *PriceStore) LatestBefore(ctx context.Context, typ model.PriceType, before int64, itemIDs []int64) (map[int64]ranker.PricePoint, error) {
	if len(itemIDs) == 0 {
		return map[int64]ranker.PricePoint{}, nil
	}

	rows, err := s.db.Query(ctx, `
		SELECT DISTINCT ON (item_id) item_id, price, timestamp
		FROM prices
		WHERE type = $1
		  AND timestamp < $2
		  AND item_id = ANY($3)
		ORDER BY item_id, timestamp DESC`,
		typ, before, itemIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("query prior samples: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]ranker.PricePoint, len(itemIDs))
	for rows.Next() {
		var id int64
		var p ranker.PricePoint
		if err := rows.Scan(&id, &p.Price, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan prior sample: %w", err)
		}
		out[id] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate prior samples: %w", err)
	}
	return out, nil
}

// Items lists all items with their latest ask quote, ordered by ID.
// Items that never traded come back with a zero CurrentPrice.
func (s *PriceStore) Items(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT i.id, i.name, COALESCE(i.name_cn, ''),
		       COALESCE(p.price, 0), COALESCE(p.timestamp, 0)
		FROM items i
		LEFT JOIN LATERAL (
			SELECT price, timestamp
			FROM prices
			WHERE item_id = i.id AND type = $1
			ORDER BY timestamp DESC
			LIMIT 1
		) p ON true
		ORDER BY i.id`,
		model.PriceTypeAsk,
	)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.NameCN, &it.CurrentPrice, &it.PriceUpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}
