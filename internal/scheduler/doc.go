// Package scheduler runs the trend recompute on a cron timetable.
//
// The scheduler wraps robfig/cron and invokes a Runner on each slot. A
// slot that fires while the previous run is still in flight is skipped
// rather than queued, so a slow recompute never builds a backlog.
package scheduler
