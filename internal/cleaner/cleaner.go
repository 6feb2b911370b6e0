package cleaner

import (
	"math"
	"sort"
)

// maxRounds caps the repeated cleaning of a still-volatile sequence.
const maxRounds = 3

// Bound multipliers.
const (
	iqrFactor       = 1.5 // Tukey fences
	stdFactor       = 2.0 // two-sigma corridor
	medianLowRatio  = 0.4 // floor relative to the median
	medianHighRatio = 2.0
	maLowRatio      = 0.3 // corridor around the MA5/MA10 average
	maHighRatio     = 3.0
	jumpThreshold   = 0.5 // max tolerated relative change between neighbors
)

// Stats reports what a Clean call did to the sequence.
type Stats struct {
	Replaced     int  // values pulled back inside the bounds, all rounds
	Smoothed     int  // adjacent jumps damped, all rounds
	Rounds       int  // cleaning rounds executed (0 for empty input)
	GuardTripped bool // round cap reached while the sequence was still volatile
}

// Clean returns a cleaned copy of prices, the same length as the input.
// ma5 and ma10 are the trailing daily close averages providing outer
// context; both must be non-nil for the MA corridor to apply. Empty
// input is returned unchanged. Clean never fails: when the round cap is
// reached the best-effort result is returned and Stats.GuardTripped is
// set so the caller can log it.
func Clean(prices []float64, ma5, ma10 *float64) ([]float64, Stats) {
	var stats Stats
	if len(prices) == 0 {
		return prices, stats
	}

	out := append([]float64(nil), prices...)
	for round := 0; round < maxRounds; round++ {
		stats.Rounds++
		changed := cleanRound(out, ma5, ma10, &stats)
		if !changed || spread(out) <= 2 {
			return out, stats
		}
	}

	stats.GuardTripped = true
	return out, stats
}

// cleanRound applies one bound-replacement pass and one jump-smoothing
// pass to out, in place. It reports whether any value changed.
func cleanRound(out []float64, ma5, ma10 *float64, stats *Stats) bool {
	lower, upper, median := bounds(out, ma5, ma10)
	changed := false

	// Pass 1: pull values outside the bounds back to a conservative
	// level near the median.
	for i, v := range out {
		switch {
		case v > upper:
			out[i] = math.Min(upper, median*1.5)
			stats.Replaced++
			changed = true
		case v < lower:
			out[i] = math.Max(lower, median*0.5)
			stats.Replaced++
			changed = true
		}
	}

	// Pass 2: damp adjacent jumps, left to right against the already
	// finalized predecessor. A zero predecessor makes the relative
	// jump undefined; the value is kept as-is in that case.
	for i := 1; i < len(out); i++ {
		prev := out[i-1]
		if prev == 0 {
			continue
		}
		if math.Abs(out[i]-prev)/prev > jumpThreshold {
			out[i] = (prev + out[i]) / 2
			stats.Smoothed++
			changed = true
		}
	}

	return changed
}

// bounds derives the tightest [lower, upper] interval from the order
// statistics of prices, plus the median used for replacement values.
func bounds(prices []float64, ma5, ma10 *float64) (lower, upper, median float64) {
	sorted := append([]float64(nil), prices...)
	sort.Float64s(sorted)
	n := len(sorted)

	q1 := sorted[n/4]
	q3 := sorted[n*3/4]
	iqr := q3 - q1
	median = sorted[n/2]

	mean := 0.0
	for _, v := range sorted {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range sorted {
		variance += (v - mean) * (v - mean)
	}
	std := math.Sqrt(variance / float64(n))

	lower = math.Max(q1-iqrFactor*iqr, mean-stdFactor*std)
	lower = math.Max(lower, medianLowRatio*median)
	upper = math.Min(q3+iqrFactor*iqr, mean+stdFactor*std)
	upper = math.Min(upper, medianHighRatio*median)

	if ma5 != nil && ma10 != nil {
		maAvg := (*ma5 + *ma10) / 2
		lower = math.Max(lower, maLowRatio*maAvg)
		upper = math.Min(upper, maHighRatio*maAvg)
	}

	lower = math.Max(lower, 0)
	return lower, upper, median
}

// spread is the max/min ratio of the sequence. A zero minimum counts as
// unbounded spread so the volatility check still triggers.
func spread(prices []float64) float64 {
	mn, mx := prices[0], prices[0]
	for _, v := range prices[1:] {
		if v < mn {
			mn = v
		}
		if v > mx {
			mx = v
		}
	}
	if mn == 0 {
		if mx == 0 {
			return 1
		}
		return math.Inf(1)
	}
	return mx / mn
}
