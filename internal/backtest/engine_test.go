package backtest

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/judas-33/momentum/internal/model"
)

func day(i int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
}

func bar(i int, close, sma, rsi float64) model.AlignedBar {
	b := model.AlignedBar{Time: day(i), Close: close, SMA: sma, RSI: rsi}
	b.Buy = close > sma && rsi > 60
	b.Sell = close < sma
	return b
}

func noSignalBar(i int, close float64) model.AlignedBar {
	return model.AlignedBar{Time: day(i), Close: close, SMA: math.NaN(), RSI: math.NaN()}
}

func TestRun_EntryAndTargetExit(t *testing.T) {
	bars := []model.AlignedBar{
		noSignalBar(0, 99),
		noSignalBar(1, 99),
		noSignalBar(2, 99),
		bar(3, 100, 95, 65), // entry: stop 98, target 105
		bar(4, 101, 95, 65),
		bar(5, 106, 95, 65), // close >= target
		noSignalBar(6, 106),
		noSignalBar(7, 106),
		noSignalBar(8, 106),
		noSignalBar(9, 106),
	}
	eng := NewEngine(Params{InitialCapital: 100000})
	ledger, capital, err := eng.Run(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Total() != 1 {
		t.Fatalf("expected 1 trade, got %d", ledger.Total())
	}
	tr := ledger.Trades()[0]
	if !tr.EntryTime.Equal(day(3)) || tr.EntryPrice != 100 {
		t.Errorf("entry: got %v @ %.2f, want %v @ 100", tr.EntryTime, tr.EntryPrice, day(3))
	}
	if !tr.ExitTime.Equal(day(5)) || tr.ExitPrice != 106 {
		t.Errorf("exit: got %v @ %.2f, want %v @ 106", tr.ExitTime, tr.ExitPrice, day(5))
	}
	if tr.Reason != model.ExitTarget {
		t.Errorf("reason: got %s, want %s", tr.Reason, model.ExitTarget)
	}
	if math.Abs(tr.PnlPct-0.06) > 1e-12 {
		t.Errorf("pnl: got %v, want 0.06", tr.PnlPct)
	}
	if len(capital) != 2 {
		t.Fatalf("trajectory: got %d points, want 2", len(capital))
	}
	if math.Abs(capital[1]-106000) > 1e-6 {
		t.Errorf("final capital: got %v, want 106000", capital[1])
	}
}

func TestRun_WholeUnitSizing(t *testing.T) {
	bars := []model.AlignedBar{
		bar(0, 100, 95, 65),
		bar(1, 103, 95, 65),
		bar(2, 106, 95, 65),
	}
	eng := NewEngine(Params{InitialCapital: 1000})
	ledger, _, err := eng.Run(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := ledger.Trades()[0]
	if tr.Quantity != 10 {
		t.Errorf("quantity: got %v, want 10", tr.Quantity)
	}
	if tr.CapitalUsed != 1000 {
		t.Errorf("capital used: got %v, want 1000", tr.CapitalUsed)
	}
	if math.Abs(tr.ProfitLoss-60) > 1e-9 {
		t.Errorf("profit/loss amount: got %v, want 60", tr.ProfitLoss)
	}
}

func TestRun_EndOfDataFlush(t *testing.T) {
	// Wide target so the rally never triggers an exit before data runs out.
	bars := make([]model.AlignedBar, 10)
	for i := range bars {
		close := 100 + float64(i)*20.0/9 // 100 -> 120
		bars[i] = bar(i, close, 90, 65)
	}
	eng := NewEngine(Params{InitialCapital: 100000, TargetPct: 0.5})
	ledger, capital, err := eng.Run(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Total() != 1 {
		t.Fatalf("expected 1 flushed trade, got %d", ledger.Total())
	}
	tr := ledger.Trades()[0]
	if tr.Reason != model.ExitEndOfData {
		t.Errorf("reason: got %s, want %s", tr.Reason, model.ExitEndOfData)
	}
	if !tr.ExitTime.Equal(day(9)) {
		t.Errorf("flush exit date: got %v, want %v", tr.ExitTime, day(9))
	}
	if math.Abs(tr.PnlPct-0.20) > 1e-9 {
		t.Errorf("flush pnl: got %v, want 0.20", tr.PnlPct)
	}
	if math.Abs(capital[len(capital)-1]-120000) > 1e-6 {
		t.Errorf("final capital: got %v, want 120000", capital[len(capital)-1])
	}
}

func TestRun_StopLossExit(t *testing.T) {
	bars := []model.AlignedBar{
		bar(0, 100, 90, 65), // entry, stop 98
		bar(1, 97, 90, 65),  // close <= stop, still above SMA
	}
	eng := NewEngine(Params{InitialCapital: 100000})
	ledger, _, err := eng.Run(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr := ledger.Trades()[0]
	if tr.Reason != model.ExitStopLoss {
		t.Errorf("reason: got %s, want %s", tr.Reason, model.ExitStopLoss)
	}
	if tr.ExitPrice != 97 {
		t.Errorf("exit price: got %v, want 97", tr.ExitPrice)
	}
}

func TestRun_SellSignalTakesPriority(t *testing.T) {
	// Close below both the SMA and the stop: the sell signal is the
	// recorded trigger, and the bar still produces exactly one exit.
	bars := []model.AlignedBar{
		bar(0, 100, 90, 65),
		bar(1, 85, 90, 65), // sell signal and stop breach on the same bar
	}
	eng := NewEngine(Params{InitialCapital: 100000})
	ledger, capital, err := eng.Run(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Total() != 1 {
		t.Fatalf("expected exactly 1 exit, got %d", ledger.Total())
	}
	if got := ledger.Trades()[0].Reason; got != model.ExitSellSignal {
		t.Errorf("reason: got %s, want %s", got, model.ExitSellSignal)
	}
	if len(capital) != 2 {
		t.Errorf("trajectory: got %d points, want 2", len(capital))
	}
}

func TestRun_MaxHoldingExit(t *testing.T) {
	// Flat drift between stop and target; nothing else ever triggers.
	bars := make([]model.AlignedBar, 35)
	for i := range bars {
		bars[i] = bar(i, 100, 90, 55) // RSI below threshold: no re-entry
	}
	bars[0] = bar(0, 100, 90, 65) // entry bar
	eng := NewEngine(Params{InitialCapital: 100000})
	ledger, _, err := eng.Run(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Total() != 1 {
		t.Fatalf("expected 1 trade, got %d", ledger.Total())
	}
	tr := ledger.Trades()[0]
	if tr.Reason != model.ExitMaxHolding {
		t.Errorf("reason: got %s, want %s", tr.Reason, model.ExitMaxHolding)
	}
	if !tr.ExitTime.Equal(day(28)) {
		t.Errorf("exit date: got %v, want %v (28 days after entry)", tr.ExitTime, day(28))
	}
	if tr.HoldingDays != 28 {
		t.Errorf("holding days: got %d, want 28", tr.HoldingDays)
	}
}

func TestRatchet_OnlyTightens(t *testing.T) {
	pos := &position{entryPrice: 100, stopLoss: 98}
	pos.ratchet(95.06) // a lower stop must be ignored
	if pos.stopLoss != 98 {
		t.Errorf("stop loosened: got %v, want 98", pos.stopLoss)
	}
	pos.ratchet(99.5)
	if pos.stopLoss != 99.5 {
		t.Errorf("stop not tightened: got %v, want 99.5", pos.stopLoss)
	}
	pos.ratchet(99.5)
	if pos.stopLoss != 99.5 {
		t.Errorf("equal stop must be a no-op: got %v", pos.stopLoss)
	}
}

func TestStep_StopMonotoneAcrossBars(t *testing.T) {
	eng := NewEngine(Params{InitialCapital: 100000})
	st := &runState{capital: eng.params.InitialCapital, ledger: &Ledger{}, trajectory: []float64{eng.params.InitialCapital}}
	eng.open(st, bar(0, 100, 90, 65)) // stop 98

	prev := st.pos.stopLoss
	for i := 1; i <= 12 && st.pos != nil; i++ {
		// Drift down toward the stop without crossing it.
		eng.step(st, bar(i, 100-float64(i)*0.15, 90, 55))
		if st.pos == nil {
			t.Fatalf("position closed unexpectedly on bar %d", i)
		}
		if st.pos.stopLoss < prev {
			t.Fatalf("bar %d: stop decreased from %v to %v", i, prev, st.pos.stopLoss)
		}
		prev = st.pos.stopLoss
	}
}

func TestRun_NoData(t *testing.T) {
	eng := NewEngine(Params{InitialCapital: 100000})
	if _, _, err := eng.Run(nil); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestRun_EntryBarNeverExits(t *testing.T) {
	// A single buy bar: the only possible exit is the end-of-data flush,
	// never a same-bar signal/stop/target close.
	bars := []model.AlignedBar{bar(0, 100, 90, 65)}
	eng := NewEngine(Params{InitialCapital: 100000})
	ledger, _, err := eng.Run(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.Total() != 1 {
		t.Fatalf("expected 1 trade, got %d", ledger.Total())
	}
	if got := ledger.Trades()[0].Reason; got != model.ExitEndOfData {
		t.Errorf("reason: got %s, want %s", got, model.ExitEndOfData)
	}
}

func TestRun_TrajectoryLengthInvariant(t *testing.T) {
	bars := make([]model.AlignedBar, 120)
	for i := range bars {
		// oscillate so several entries and exits occur
		close := 100 + 10*math.Sin(float64(i)/5)
		bars[i] = bar(i, close, 100, 65)
	}
	eng := NewEngine(Params{InitialCapital: 100000})
	ledger, capital, err := eng.Run(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(capital) != ledger.Total()+1 {
		t.Errorf("trajectory length %d != trades+1 (%d)", len(capital), ledger.Total()+1)
	}
	for _, tr := range ledger.Trades() {
		if tr.ExitTime.Before(tr.EntryTime) {
			t.Errorf("trade exits before entry: %+v", tr)
		}
		want := (tr.ExitPrice - tr.EntryPrice) / tr.EntryPrice
		if math.Abs(tr.PnlPct-want) > 1e-12 {
			t.Errorf("stored pnl %v != recomputed %v", tr.PnlPct, want)
		}
	}
}

func TestRun_Deterministic(t *testing.T) {
	bars := make([]model.AlignedBar, 90)
	for i := range bars {
		close := 100 + 8*math.Sin(float64(i)/4)
		bars[i] = bar(i, close, 100, 65)
	}
	eng := NewEngine(Params{InitialCapital: 100000})
	l1, c1, err1 := eng.Run(bars)
	l2, c2, err2 := eng.Run(bars)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if !reflect.DeepEqual(l1.Trades(), l2.Trades()) {
		t.Error("re-run produced a different ledger")
	}
	if !reflect.DeepEqual(c1, c2) {
		t.Error("re-run produced a different capital trajectory")
	}
}
