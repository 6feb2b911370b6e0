// Package model defines shared data types used across the item market
// trend engine.
//
// Conventions:
//   - Prices: float64, strictly positive once recorded
//   - Timestamps: int64 seconds since Unix epoch
//   - Days: time.Time at UTC midnight (day bucketing is done in UTC)
package model
