// Package rollup builds the daily market-wide trend from cleaned
// intraday price sums.
//
// The build is a strict left-to-right fold over calendar days: the
// moving averages of the already-finalized closes feed the cleaning of
// the next day, so days cannot be processed independently or in
// parallel without changing the output.
//
// Day boundaries are UTC.
package rollup
