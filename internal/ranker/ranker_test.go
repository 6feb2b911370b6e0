package ranker

import (
	"testing"

	"github.com/lhzhang/itemmarket-data/internal/model"
)

func TestRank_OrderAndChange(t *testing.T) {
	latest := map[int64]PricePoint{
		1: {Price: 110, Timestamp: 1000},
		2: {Price: 90, Timestamp: 1000},
		3: {Price: 300, Timestamp: 1000},
	}
	reference := map[int64]PricePoint{
		1: {Price: 100, Timestamp: 500},
		2: {Price: 100, Timestamp: 500},
		3: {Price: 100, Timestamp: 500},
	}

	ranked := Rank(latest, reference)

	if len(ranked) != 3 {
		t.Fatalf("got %d items, want 3", len(ranked))
	}
	wantOrder := []int64{3, 1, 2}
	wantChange := []float64{200, 10, -10}
	for i, r := range ranked {
		if r.ItemID != wantOrder[i] {
			t.Errorf("rank %d = item %d, want %d", i, r.ItemID, wantOrder[i])
		}
		if r.ChangePercentage != wantChange[i] {
			t.Errorf("item %d change = %v, want %v", r.ItemID, r.ChangePercentage, wantChange[i])
		}
	}
	if ranked[1].ReferenceTimestamp != 500 {
		t.Errorf("ReferenceTimestamp = %d, want 500", ranked[1].ReferenceTimestamp)
	}
}

func TestRank_ExcludesInvalidItems(t *testing.T) {
	latest := map[int64]PricePoint{
		1: {Price: 110},
		2: {Price: 0},   // zero latest
		3: {Price: 120}, // missing reference
		4: {Price: 130},
	}
	reference := map[int64]PricePoint{
		1: {Price: 100},
		2: {Price: 100},
		4: {Price: 0}, // zero reference
	}

	ranked := Rank(latest, reference)

	if len(ranked) != 1 {
		t.Fatalf("got %d items, want 1: %v", len(ranked), ranked)
	}
	if ranked[0].ItemID != 1 {
		t.Errorf("kept item %d, want 1", ranked[0].ItemID)
	}
}

func TestRank_TieBreakByItemID(t *testing.T) {
	latest := map[int64]PricePoint{
		9: {Price: 110},
		2: {Price: 220},
		5: {Price: 550},
	}
	reference := map[int64]PricePoint{
		9: {Price: 100},
		2: {Price: 200},
		5: {Price: 500},
	}

	// All +10%: order must be item ID ascending, every run.
	for run := 0; run < 20; run++ {
		ranked := Rank(latest, reference)
		want := []int64{2, 5, 9}
		for i, r := range ranked {
			if r.ItemID != want[i] {
				t.Fatalf("run %d: rank %d = item %d, want %d", run, i, r.ItemID, want[i])
			}
		}
	}
}

func TestTopBottom(t *testing.T) {
	ranked := []model.RankedItem{
		{ItemID: 1, ChangePercentage: 50},
		{ItemID: 2, ChangePercentage: 10},
		{ItemID: 3, ChangePercentage: -5},
		{ItemID: 4, ChangePercentage: -40},
	}

	top := Top(ranked, 2)
	if len(top) != 2 || top[0].ItemID != 1 || top[1].ItemID != 2 {
		t.Errorf("Top(2) = %v", top)
	}

	bottom := Bottom(ranked, 2)
	if len(bottom) != 2 || bottom[0].ItemID != 4 || bottom[1].ItemID != 3 {
		t.Errorf("Bottom(2) = %v", bottom)
	}

	if got := Top(ranked, 10); len(got) != 4 {
		t.Errorf("Top(10) returned %d items, want 4", len(got))
	}
}

func TestWindowSnapshots(t *testing.T) {
	obs := []model.PriceObservation{
		{Timestamp: 50, ItemID: 1, Price: 95, Type: model.PriceTypeAsk},  // before window
		{Timestamp: 100, ItemID: 1, Price: 100, Type: model.PriceTypeAsk},
		{Timestamp: 150, ItemID: 2, Price: 50, Type: model.PriceTypeAsk},
		{Timestamp: 200, ItemID: 1, Price: 110, Type: model.PriceTypeAsk},
	}

	snap := WindowSnapshots(obs, 100)

	if got := snap.Earliest[1]; got.Price != 100 || got.Timestamp != 100 {
		t.Errorf("Earliest[1] = %+v, want {100 100}", got)
	}
	if got := snap.Latest[1]; got.Price != 110 || got.Timestamp != 200 {
		t.Errorf("Latest[1] = %+v, want {110 200}", got)
	}
	if got := snap.Latest[2]; got.Price != 50 {
		t.Errorf("Latest[2] = %+v, want price 50", got)
	}
	if len(snap.Single) != 1 || snap.Single[0] != 2 {
		t.Errorf("Single = %v, want [2]", snap.Single)
	}
}

func TestReference_SparseFallback(t *testing.T) {
	// Item 7 has one sample at t=now-1h inside the 24h window and a
	// prior sample at t=now-30h. The reference must resolve to the
	// prior sample, not the in-window one.
	now := int64(1_700_000_000)
	windowStart := now - 24*3600

	obs := []model.PriceObservation{
		{Timestamp: now - 30*3600, ItemID: 7, Price: 80, Type: model.PriceTypeAsk},
		{Timestamp: now - 3600, ItemID: 7, Price: 100, Type: model.PriceTypeAsk},
	}

	snap := WindowSnapshots(obs, windowStart)
	if len(snap.Single) != 1 || snap.Single[0] != 7 {
		t.Fatalf("Single = %v, want [7]", snap.Single)
	}

	prior := map[int64]PricePoint{
		7: {Price: 80, Timestamp: now - 30*3600},
	}
	ref := snap.Reference(prior)

	got, ok := ref[7]
	if !ok {
		t.Fatal("item 7 missing from reference")
	}
	if got.Price != 80 || got.Timestamp != now-30*3600 {
		t.Errorf("reference = %+v, want the t=now-30h sample", got)
	}

	ranked := Rank(snap.Latest, ref)
	if len(ranked) != 1 {
		t.Fatalf("got %d ranked items, want 1", len(ranked))
	}
	if ranked[0].ChangePercentage != 25 {
		t.Errorf("change = %v, want 25", ranked[0].ChangePercentage)
	}
}

func TestReference_SingleSampleWithoutPriorIsDropped(t *testing.T) {
	obs := []model.PriceObservation{
		{Timestamp: 1000, ItemID: 3, Price: 42, Type: model.PriceTypeAsk},
	}

	snap := WindowSnapshots(obs, 500)
	ref := snap.Reference(nil)

	if _, ok := ref[3]; ok {
		t.Error("item with a lone sample and no prior history must be excluded")
	}
	if ranked := Rank(snap.Latest, ref); len(ranked) != 0 {
		t.Errorf("ranked = %v, want empty", ranked)
	}
}

func TestWindowSnapshots_MultiSampleItemKeepsInWindowReference(t *testing.T) {
	obs := []model.PriceObservation{
		{Timestamp: 50, ItemID: 1, Price: 10, Type: model.PriceTypeAsk},
		{Timestamp: 100, ItemID: 1, Price: 20, Type: model.PriceTypeAsk},
		{Timestamp: 200, ItemID: 1, Price: 30, Type: model.PriceTypeAsk},
	}

	snap := WindowSnapshots(obs, 100)
	ref := snap.Reference(map[int64]PricePoint{1: {Price: 10, Timestamp: 50}})

	// Two in-window samples: the fallback must not apply.
	if got := ref[1]; got.Price != 20 {
		t.Errorf("reference = %+v, want the earliest in-window sample (price 20)", got)
	}
}
