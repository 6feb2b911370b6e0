package store

import (
	"testing"
	"time"

	"github.com/lhzhang/itemmarket-data/internal/model"
)

func TestTrendRowArgs(t *testing.T) {
	ma5 := 105.5
	r := model.TrendRow{
		Day:    time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Open:   100,
		Close:  110,
		High:   112,
		Low:    99,
		MA5:    &ma5,
		MA10:   nil,
		Volume: 288,
	}

	args := trendRowArgs(r)

	if len(args) != 8 {
		t.Fatalf("got %d args, want 8", len(args))
	}
	if day, ok := args[0].(time.Time); !ok || !day.Equal(r.Day) {
		t.Errorf("args[0] = %v, want %v", args[0], r.Day)
	}
	if args[1] != 100.0 || args[2] != 110.0 || args[3] != 112.0 || args[4] != 99.0 {
		t.Errorf("OHLC args = %v %v %v %v", args[1], args[2], args[3], args[4])
	}
	if got, ok := args[5].(*float64); !ok || got == nil || *got != 105.5 {
		t.Errorf("args[5] = %v, want *105.5", args[5])
	}
	// Nil MA10 must pass through as a typed nil so it binds as SQL NULL.
	if got, ok := args[6].(*float64); !ok || got != nil {
		t.Errorf("args[6] = %v, want nil *float64", args[6])
	}
	if args[7] != 288 {
		t.Errorf("args[7] = %v, want 288", args[7])
	}
}
