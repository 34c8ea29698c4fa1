package backtest

import (
	"errors"
	"math"
	"testing"

	"github.com/judas-33/momentum/internal/model"
)

func TestRunEndToEnd(t *testing.T) {
	// Daily closes trend up through the weekly SMA; the weekly series is
	// sparse and forward-filled onto the daily index.
	daily := make([]model.OHLCV, 20)
	for i := range daily {
		daily[i] = model.OHLCV{Time: day(i), Close: 90 + float64(i)}
	}
	weekly := []model.IndicatorPoint{
		{Time: day(0), SMA: math.NaN(), RSI: math.NaN()}, // warmup
		{Time: day(7), SMA: 95, RSI: 70},
		{Time: day(14), SMA: 100, RSI: 72},
	}

	res, err := Run("TEST", daily, weekly, Params{InitialCapital: 100000, RSIThreshold: 60})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First buy bar: day 7 (close 97 > SMA 95, RSI 70 > 60). Entry 97,
	// target 101.85, first crossed on day 12 (close 102).
	if res.TotalTrades < 1 {
		t.Fatal("expected at least one trade")
	}
	first := res.Trades[0]
	if !first.EntryTime.Equal(day(7)) || first.EntryPrice != 97 {
		t.Errorf("first entry: got %v @ %.2f, want %v @ 97", first.EntryTime, first.EntryPrice, day(7))
	}
	if !first.ExitTime.Equal(day(12)) || first.Reason != model.ExitTarget {
		t.Errorf("first exit: got %v [%s], want %v [%s]",
			first.ExitTime, first.Reason, day(12), model.ExitTarget)
	}
	if len(res.Capital) != res.TotalTrades+1 {
		t.Errorf("trajectory length %d != trades+1 (%d)", len(res.Capital), res.TotalTrades+1)
	}
	if res.SuccessRatio < 0 || res.SuccessRatio > 1 {
		t.Errorf("success ratio out of bounds: %v", res.SuccessRatio)
	}
}

func TestRunEndToEnd_NoData(t *testing.T) {
	_, err := Run("TEST", nil, nil, Params{InitialCapital: 100000, RSIThreshold: 60})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}
