// Package stats serves the read-side statistics of the market:
// ranked top movers over rolling windows, the item list with current
// prices, and cleaned per-item price histories.
//
// Every price sequence leaving this package has been through the
// outlier cleaner; raw feed spikes never reach a caller.
package stats
