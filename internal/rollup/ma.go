package rollup

import "github.com/lhzhang/itemmarket-data/internal/model"

// AssignMovingAverages fills MA5 and MA10 on each row from the
// finalized closes, in one left-to-right pass. MA5 at index i averages
// closes[i-4..i] and is nil before index 4; MA10 averages
// closes[i-9..i] and is nil before index 9.
func AssignMovingAverages(rows []model.TrendRow) {
	closes := make([]float64, len(rows))
	for i, r := range rows {
		closes[i] = r.Close
	}
	for i := range rows {
		rows[i].MA5 = trailingAverage(closes[:i+1], 5)
		rows[i].MA10 = trailingAverage(closes[:i+1], 10)
	}
}

// trailingAverage averages the last period values of closes, or nil
// when fewer exist.
func trailingAverage(closes []float64, period int) *float64 {
	if len(closes) < period {
		return nil
	}
	sum := 0.0
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	avg := sum / float64(period)
	return &avg
}
