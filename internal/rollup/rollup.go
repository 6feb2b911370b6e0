package rollup

import (
	"log/slog"
	"time"

	"github.com/lhzhang/itemmarket-data/internal/cleaner"
	"github.com/lhzhang/itemmarket-data/internal/model"
)

// BuildStats summarizes one rollup pass.
type BuildStats struct {
	Days        int // buckets seen in the input
	SkippedDays int // buckets that produced no cleaned samples
	Replaced    int // outlier replacements across all days
	Smoothed    int // adjacent jumps damped across all days
	GuardTrips  int // days whose cleaning hit the round cap
}

// BucketByDay partitions timestamp-ordered market samples into UTC
// calendar-day buckets, preserving intraday order. Days without samples
// are absent from the result, never zero-filled.
func BucketByDay(samples []model.PriceSum) []model.DailyPriceBucket {
	var buckets []model.DailyPriceBucket
	for _, s := range samples {
		day := dayOf(s.Timestamp)
		if n := len(buckets); n == 0 || !buckets[n-1].Day.Equal(day) {
			buckets = append(buckets, model.DailyPriceBucket{Day: day})
		}
		last := &buckets[len(buckets)-1]
		last.Samples = append(last.Samples, s.SumPrice)
	}
	return buckets
}

// Build folds timestamp-ordered market samples into one TrendRow per
// day. Each day's samples are cleaned with the trailing MA5/MA10 of the
// previous days' closes before OHLC is derived, then the stored moving
// averages are assigned over the finalized closes.
func Build(samples []model.PriceSum, logger *slog.Logger) ([]model.TrendRow, BuildStats) {
	if logger == nil {
		logger = slog.Default()
	}

	buckets := BucketByDay(samples)
	stats := BuildStats{Days: len(buckets)}
	rows := make([]model.TrendRow, 0, len(buckets))
	closes := make([]float64, 0, len(buckets))

	for _, b := range buckets {
		// closes holds only already-finalized days here, so the
		// cleaning context never includes the day being built.
		ma5 := trailingAverage(closes, 5)
		ma10 := trailingAverage(closes, 10)

		cleaned, cs := cleaner.Clean(b.Samples, ma5, ma10)
		stats.Replaced += cs.Replaced
		stats.Smoothed += cs.Smoothed
		if cs.GuardTripped {
			stats.GuardTrips++
			logger.Warn("cleaning round cap reached, using best effort",
				"day", b.Day.Format(time.DateOnly),
				"samples", len(b.Samples),
			)
		}

		if len(cleaned) == 0 {
			stats.SkippedDays++
			logger.Warn("no cleaned samples for day, skipping",
				"day", b.Day.Format(time.DateOnly),
			)
			continue
		}

		row := model.TrendRow{
			Day:    b.Day,
			Open:   cleaned[0],
			Close:  cleaned[len(cleaned)-1],
			High:   cleaned[0],
			Low:    cleaned[0],
			Volume: len(cleaned),
		}
		for _, v := range cleaned {
			if v > row.High {
				row.High = v
			}
			if v < row.Low {
				row.Low = v
			}
		}

		rows = append(rows, row)
		closes = append(closes, row.Close)
	}

	AssignMovingAverages(rows)
	return rows, stats
}

// dayOf truncates a unix-seconds timestamp to its UTC midnight.
func dayOf(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
