// Package store implements the Postgres repositories of the engine.
//
// Two stores exist:
//   - PriceStore: read-only access to the ingested quote tables
//     (prices, items). Ingestion itself lives outside this repository.
//   - TrendStore: the precomputed market_trends table, rewritten as a
//     whole on every recomputation (ReplaceAll) and range-read by day.
//
// ReplaceAll runs delete-then-insert inside one transaction, so a
// failed recomputation leaves the previous rows intact rather than an
// empty or half-written table.
package store
