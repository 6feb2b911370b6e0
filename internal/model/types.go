package model

import "time"

// -----------------------------------------------------------------------------
// Relational Types
// -----------------------------------------------------------------------------

// Item represents a tradeable commodity item.
type Item struct {
	ID     int64  // Primary key
	Name   string // Canonical (English) name
	NameCN string // Localized name, may be empty

	// Latest known ask quote, zero-valued when the item has never traded.
	CurrentPrice   float64
	PriceUpdatedAt int64 // Unix seconds, 0 when CurrentPrice is unset
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// PriceType distinguishes the two quote sides.
type PriceType string

const (
	PriceTypeAsk PriceType = "ask" // Sell-side quote
	PriceTypeBid PriceType = "bid" // Buy-side quote
)

// PriceObservation is a single raw quote sample as recorded by ingestion.
// Observations are immutable and read-only to the engine.
type PriceObservation struct {
	Timestamp int64     // Unix seconds
	ItemID    int64     // Foreign key to Item
	Price     float64   // Quoted price, > 0
	Type      PriceType // ask or bid
}

// PriceSum is one market-wide aggregate sample: the sum of all items'
// ask prices observed at a single timestamp.
type PriceSum struct {
	Timestamp int64   // Unix seconds
	SumPrice  float64 // Sum of ask prices across items
}

// DailyPriceBucket collects the same-type price samples of one UTC
// calendar day, in intraday timestamp order. Built transiently during
// rollup and never persisted.
type DailyPriceBucket struct {
	Day     time.Time // UTC midnight
	Samples []float64
}

// -----------------------------------------------------------------------------
// Derived Types
// -----------------------------------------------------------------------------

// TrendRow is one persisted day of the market-wide trend.
// Invariants: Low <= Open, Close <= High; Volume == number of cleaned
// samples that produced the row. MA5/MA10 are nil until enough prior
// days exist.
type TrendRow struct {
	Day    time.Time // Primary key, UTC midnight
	Open   float64   // First cleaned sample of the day
	Close  float64   // Last cleaned sample of the day
	High   float64   // Max cleaned sample
	Low    float64   // Min cleaned sample
	MA5    *float64  // Trailing 5-day average of Close, nil before day 5
	MA10   *float64  // Trailing 10-day average of Close, nil before day 10
	Volume int       // Cleaned sample count
}

// RankedItem is one entry of a top-movers ranking. Derived, never
// persisted. Both prices are strictly positive; items that cannot
// satisfy that are excluded from rankings, not zero-filled.
type RankedItem struct {
	ItemID             int64
	CurrentPrice       float64
	ReferencePrice     float64
	ChangePercentage   float64 // (current - reference) / reference * 100
	ReferenceTimestamp int64   // Unix seconds of the reference sample
}
