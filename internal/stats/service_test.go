package stats

import (
	"context"
	"testing"
	"time"

	"github.com/lhzhang/itemmarket-data/internal/model"
	"github.com/lhzhang/itemmarket-data/internal/ranker"
)

// fakeSource serves canned observations and prior samples.
type fakeSource struct {
	obs   []model.PriceObservation
	prior map[int64]ranker.PricePoint
	items []model.Item

	priorCalls [][]int64
}

func (f *fakeSource) ObservationsInRange(_ context.Context, itemID *int64, typ model.PriceType, from, to int64) ([]model.PriceObservation, error) {
	var out []model.PriceObservation
	for _, o := range f.obs {
		if o.Type != typ || o.Timestamp < from || o.Timestamp > to {
			continue
		}
		if itemID != nil && o.ItemID != *itemID {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeSource) LatestBefore(_ context.Context, typ model.PriceType, before int64, itemIDs []int64) (map[int64]ranker.PricePoint, error) {
	f.priorCalls = append(f.priorCalls, itemIDs)
	out := make(map[int64]ranker.PricePoint)
	for _, id := range itemIDs {
		if p, ok := f.prior[id]; ok && p.Timestamp < before {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeSource) Items(context.Context) ([]model.Item, error) {
	return f.items, nil
}

func newTestService(src *fakeSource, now time.Time) *Service {
	s := New(src, 7, nil)
	s.now = func() time.Time { return now }
	return s
}

func TestMovers24h_SparseFallback(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	src := &fakeSource{
		obs: []model.PriceObservation{
			// Item 7: one sample inside the window (now-1h), one prior (now-30h).
			{Timestamp: now.Add(-30 * time.Hour).Unix(), ItemID: 7, Price: 80, Type: model.PriceTypeAsk},
			{Timestamp: now.Add(-1 * time.Hour).Unix(), ItemID: 7, Price: 100, Type: model.PriceTypeAsk},
			// Item 8: two in-window samples, no fallback needed.
			{Timestamp: now.Add(-20 * time.Hour).Unix(), ItemID: 8, Price: 200, Type: model.PriceTypeAsk},
			{Timestamp: now.Add(-2 * time.Hour).Unix(), ItemID: 8, Price: 210, Type: model.PriceTypeAsk},
		},
		prior: map[int64]ranker.PricePoint{
			7: {Price: 80, Timestamp: now.Add(-30 * time.Hour).Unix()},
		},
	}
	svc := newTestService(src, now)

	ranked, err := svc.Movers24h(context.Background())
	if err != nil {
		t.Fatalf("Movers24h failed: %v", err)
	}

	if len(ranked) != 2 {
		t.Fatalf("got %d items, want 2: %v", len(ranked), ranked)
	}
	// Item 7: +25% from the prior sample; item 8: +5% in-window.
	if ranked[0].ItemID != 7 || ranked[0].ChangePercentage != 25 {
		t.Errorf("rank 0 = %+v, want item 7 at +25%%", ranked[0])
	}
	if ranked[0].ReferenceTimestamp != now.Add(-30*time.Hour).Unix() {
		t.Errorf("item 7 reference timestamp = %d, want the t=now-30h sample", ranked[0].ReferenceTimestamp)
	}
	if ranked[1].ItemID != 8 || ranked[1].ChangePercentage != 5 {
		t.Errorf("rank 1 = %+v, want item 8 at +5%%", ranked[1])
	}

	// The fallback query must only ask about the single-sample item.
	if len(src.priorCalls) != 1 || len(src.priorCalls[0]) != 1 || src.priorCalls[0][0] != 7 {
		t.Errorf("priorCalls = %v, want one call for item 7", src.priorCalls)
	}
}

func TestMovers24h_SingleSampleWithoutPriorExcluded(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	src := &fakeSource{
		obs: []model.PriceObservation{
			{Timestamp: now.Add(-1 * time.Hour).Unix(), ItemID: 3, Price: 42, Type: model.PriceTypeAsk},
		},
	}
	svc := newTestService(src, now)

	ranked, err := svc.Movers24h(context.Background())
	if err != nil {
		t.Fatalf("Movers24h failed: %v", err)
	}
	if len(ranked) != 0 {
		t.Errorf("ranked = %v, want empty: no prior history exists", ranked)
	}
}

func TestMovers7d_NoFallback(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	src := &fakeSource{
		obs: []model.PriceObservation{
			// One sample inside the 7d window; prior history exists but
			// must not be consulted.
			{Timestamp: now.Add(-10 * 24 * time.Hour).Unix(), ItemID: 5, Price: 50, Type: model.PriceTypeAsk},
			{Timestamp: now.Add(-24 * time.Hour).Unix(), ItemID: 5, Price: 100, Type: model.PriceTypeAsk},
		},
		prior: map[int64]ranker.PricePoint{
			5: {Price: 50, Timestamp: now.Add(-10 * 24 * time.Hour).Unix()},
		},
	}
	svc := newTestService(src, now)

	ranked, err := svc.Movers7d(context.Background())
	if err != nil {
		t.Fatalf("Movers7d failed: %v", err)
	}

	if len(src.priorCalls) != 0 {
		t.Errorf("LatestBefore called %d times, want 0 for the 7d window", len(src.priorCalls))
	}
	if len(ranked) != 1 {
		t.Fatalf("got %d items, want 1", len(ranked))
	}
	if ranked[0].ChangePercentage != 0 {
		t.Errorf("change = %v, want 0 (lone in-window sample compares to itself)", ranked[0].ChangePercentage)
	}
}

func TestItemHistory_CleansSpikes(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	base := now.Add(-48 * time.Hour)

	obs := make([]model.PriceObservation, 0, 6)
	for i, p := range []float64{100, 100, 100, 500, 100, 100} {
		obs = append(obs, model.PriceObservation{
			Timestamp: base.Add(time.Duration(i) * time.Hour).Unix(),
			ItemID:    9,
			Price:     p,
			Type:      model.PriceTypeAsk,
		})
	}
	src := &fakeSource{obs: obs}
	svc := newTestService(src, now)

	h, err := svc.ItemHistory(context.Background(), 9)
	if err != nil {
		t.Fatalf("ItemHistory failed: %v", err)
	}

	if len(h.Ask) != 6 {
		t.Fatalf("got %d ask points, want 6", len(h.Ask))
	}
	if h.Ask[3].Price >= 500 {
		t.Errorf("spike survived cleaning: %v", h.Ask[3].Price)
	}
	// Timestamps untouched.
	for i, o := range h.Ask {
		if o.Timestamp != obs[i].Timestamp {
			t.Errorf("point %d timestamp = %d, want %d", i, o.Timestamp, obs[i].Timestamp)
		}
	}
	if len(h.Bid) != 0 {
		t.Errorf("got %d bid points, want 0", len(h.Bid))
	}
}

func TestItems(t *testing.T) {
	src := &fakeSource{
		items: []model.Item{
			{ID: 1, Name: "AK-47 Redline", CurrentPrice: 120.5, PriceUpdatedAt: 1700000000},
			{ID: 2, Name: "AWP Asiimov"},
		},
	}
	svc := newTestService(src, time.Now())

	items, err := svc.Items(context.Background())
	if err != nil {
		t.Fatalf("Items failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].CurrentPrice != 120.5 {
		t.Errorf("items[0].CurrentPrice = %v, want 120.5", items[0].CurrentPrice)
	}
}
