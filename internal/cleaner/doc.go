// Package cleaner implements outlier detection and smoothing for raw
// price sequences.
//
// The upstream feed contains spikes and dropouts; every read and write
// path that consumes a price sequence cleans it through this single
// implementation rather than carrying its own heuristic.
//
// Cleaning combines four tightening bounds (IQR, two-sigma, median
// ratio, and optionally a moving-average corridor), replaces values
// outside them, then damps adjacent jumps above 50%. The whole
// procedure repeats, at most three rounds, while replacements keep
// happening and the sequence stays spread out.
package cleaner
