package ranker

import (
	"sort"

	"github.com/lhzhang/itemmarket-data/internal/model"
)

// Snapshots summarizes the in-window samples of every item.
type Snapshots struct {
	Latest   map[int64]PricePoint // newest in-window sample per item
	Earliest map[int64]PricePoint // oldest in-window sample per item
	Single   []int64              // items with exactly one in-window sample, ascending
}

// WindowSnapshots assembles per-item latest and earliest snapshots from
// timestamp-ordered observations. Samples before windowStart are
// ignored; items without any in-window sample simply do not appear.
func WindowSnapshots(obs []model.PriceObservation, windowStart int64) Snapshots {
	snap := Snapshots{
		Latest:   make(map[int64]PricePoint),
		Earliest: make(map[int64]PricePoint),
	}
	counts := make(map[int64]int)

	for _, o := range obs {
		if o.Timestamp < windowStart {
			continue
		}
		p := PricePoint{Price: o.Price, Timestamp: o.Timestamp}
		if _, seen := snap.Earliest[o.ItemID]; !seen {
			snap.Earliest[o.ItemID] = p
		}
		snap.Latest[o.ItemID] = p
		counts[o.ItemID]++
	}

	for id, n := range counts {
		if n == 1 {
			snap.Single = append(snap.Single, id)
		}
	}
	sort.Slice(snap.Single, func(i, j int) bool { return snap.Single[i] < snap.Single[j] })
	return snap
}

// Reference builds the reference snapshot for ranking. It starts from
// the earliest in-window samples; items with exactly one in-window
// sample are re-referenced to their prior point (the newest sample
// strictly before the window), and dropped entirely when no prior point
// exists, so a lone sample is never compared against itself.
func (s Snapshots) Reference(prior map[int64]PricePoint) map[int64]PricePoint {
	ref := make(map[int64]PricePoint, len(s.Earliest))
	for id, p := range s.Earliest {
		ref[id] = p
	}
	for _, id := range s.Single {
		if p, ok := prior[id]; ok {
			ref[id] = p
		} else {
			delete(ref, id)
		}
	}
	return ref
}
