// Package job orchestrates one full trend recomputation cycle:
// fetch the market-wide aggregate series, roll it up into daily rows,
// and replace the stored trend table as a whole.
//
// At most one cycle may be in flight at a time; a cycle triggered while
// another runs is rejected with ErrAlreadyRunning rather than queued,
// since the replace is destructive and two writers would interleave.
package job
