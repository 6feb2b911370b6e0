// Package database provides connection pool management for PostgreSQL.
//
// One database holds everything the engine touches: the ingested
// quote tables (prices, items) and the precomputed market_trends table.
package database
