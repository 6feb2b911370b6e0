package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lhzhang/itemmarket-data/internal/model"
)

// TrendStore persists and reads the daily market trend rows.
type TrendStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewTrendStore creates a TrendStore.
func NewTrendStore(db *pgxpool.Pool, logger *slog.Logger) *TrendStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TrendStore{db: db, logger: logger}
}

const createTrendsTable = `
	CREATE TABLE IF NOT EXISTS market_trends (
		day DATE PRIMARY KEY,
		open_price DOUBLE PRECISION NOT NULL,
		close_price DOUBLE PRECISION NOT NULL,
		high_price DOUBLE PRECISION NOT NULL,
		low_price DOUBLE PRECISION NOT NULL,
		ma5 DOUBLE PRECISION,
		ma10 DOUBLE PRECISION,
		volume INTEGER NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// EnsureSchema creates the market_trends table if it does not exist.
// The quote tables are owned by ingestion and never created here.
func (s *TrendStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createTrendsTable); err != nil {
		return fmt.Errorf("create market_trends table: %w", err)
	}
	return nil
}

const insertTrendRow = `
	INSERT INTO market_trends (day, open_price, close_price, high_price, low_price, ma5, ma10, volume)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

// ReplaceAll atomically discards every stored row and inserts the new
// set. The delete and the batch insert share one transaction: on any
// failure the transaction rolls back and the previous rows survive.
func (s *TrendStore) ReplaceAll(ctx context.Context, rows []model.TrendRow) error {
	start := time.Now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM market_trends`); err != nil {
		return fmt.Errorf("clear market_trends: %w", err)
	}

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(insertTrendRow, trendRowArgs(r)...)
	}

	results := tx.SendBatch(ctx, batch)
	for range rows {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert trend row: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace transaction: %w", err)
	}

	s.logger.Debug("replaced trend rows",
		"count", len(rows),
		"duration", time.Since(start),
	)
	return nil
}

// Read returns trend rows sorted by day ascending. A nil since returns
// the whole history; otherwise only rows with day >= since.
func (s *TrendStore) Read(ctx context.Context, since *time.Time) ([]model.TrendRow, error) {
	query := `
		SELECT day, open_price, close_price, high_price, low_price, ma5, ma10, volume
		FROM market_trends`
	args := []any{}
	if since != nil {
		query += ` WHERE day >= $1`
		args = append(args, *since)
	}
	query += ` ORDER BY day`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query market_trends: %w", err)
	}
	defer rows.Close()

	var out []model.TrendRow
	for rows.Next() {
		var r model.TrendRow
		if err := rows.Scan(&r.Day, &r.Open, &r.Close, &r.High, &r.Low, &r.MA5, &r.MA10, &r.Volume); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		r.Day = r.Day.UTC()
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate market_trends: %w", err)
	}
	return out, nil
}

// trendRowArgs orders a row's fields for the insert statement. Nil MA
// pointers become SQL NULLs.
func trendRowArgs(r model.TrendRow) []any {
	return []any{r.Day, r.Open, r.Close, r.High, r.Low, r.MA5, r.MA10, r.Volume}
}
