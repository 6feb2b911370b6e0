package ranker

import (
	"sort"

	"github.com/lhzhang/itemmarket-data/internal/model"
)

// PricePoint is one (price, timestamp) sample of an item.
type PricePoint struct {
	Price     float64
	Timestamp int64 // Unix seconds
}

// Rank computes the change percentage of every item present in both
// snapshots and returns the list sorted by change descending, ties
// broken by item ID ascending. Items with a missing or non-positive
// latest or reference price are excluded.
func Rank(latest, reference map[int64]PricePoint) []model.RankedItem {
	out := make([]model.RankedItem, 0, len(latest))
	for id, cur := range latest {
		ref, ok := reference[id]
		if !ok || cur.Price <= 0 || ref.Price <= 0 {
			continue
		}
		out = append(out, model.RankedItem{
			ItemID:             id,
			CurrentPrice:       cur.Price,
			ReferencePrice:     ref.Price,
			ChangePercentage:   (cur.Price - ref.Price) / ref.Price * 100,
			ReferenceTimestamp: ref.Timestamp,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ChangePercentage != out[j].ChangePercentage {
			return out[i].ChangePercentage > out[j].ChangePercentage
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}

// Top returns the first n entries of a ranked list: the biggest
// gainers. It is a view of the same ranking, not a recomputation.
func Top(ranked []model.RankedItem, n int) []model.RankedItem {
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// Bottom returns the last n entries of a ranked list in reverse order:
// the biggest losers first.
func Bottom(ranked []model.RankedItem, n int) []model.RankedItem {
	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]model.RankedItem, n)
	for i := 0; i < n; i++ {
		out[i] = ranked[len(ranked)-1-i]
	}
	return out
}
