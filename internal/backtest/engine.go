package backtest

import (
	"errors"
	"math"
	"time"

	"github.com/judas-33/momentum/internal/model"
)

// ErrNoData is returned when the bar series is empty.
var ErrNoData = errors.New("backtest: no bars in range")

// Default simulation parameters.
const (
	DefaultStopLossPct = 0.02
	DefaultTargetPct   = 0.05
	DefaultMaxHolding  = 28 * 24 * time.Hour // 4 weeks
)

// Params configure a single simulation run.
type Params struct {
	InitialCapital float64
	RSIThreshold   float64
	StopLossPct    float64       // fraction below entry (and below close when ratcheting)
	TargetPct      float64       // fraction above entry
	MaxHolding     time.Duration // forced exit after this holding time
}

func (p Params) withDefaults() Params {
	if p.StopLossPct == 0 {
		p.StopLossPct = DefaultStopLossPct
	}
	if p.TargetPct == 0 {
		p.TargetPct = DefaultTargetPct
	}
	if p.MaxHolding == 0 {
		p.MaxHolding = DefaultMaxHolding
	}
	return p
}

// position is the engine's record of the single open trade.
type position struct {
	entryTime   time.Time
	entryPrice  float64
	quantity    float64
	capitalUsed float64
	stopLoss    float64
	target      float64
}

// ratchet moves the stop to newStop only if that tightens it. The stop is
// never lowered while the position stays open, whatever order the exit
// conditions are evaluated in.
func (p *position) ratchet(newStop float64) {
	if newStop > p.stopLoss {
		p.stopLoss = newStop
	}
}

// runState is the mutable scan state of one simulation pass. Each call to
// Engine.Run owns its own instance, so a single Engine is safe to use from
// multiple goroutines.
type runState struct {
	pos        *position
	capital    float64
	ledger     *Ledger
	trajectory []float64
}

// Engine simulates the single-position momentum strategy over an aligned
// bar series, one deterministic chronological pass.
type Engine struct {
	params Params
}

// NewEngine creates an Engine, filling zero parameters with defaults.
func NewEngine(p Params) *Engine {
	return &Engine{params: p.withDefaults()}
}

// Run scans the bars in order and returns the closed-trade ledger and the
// capital trajectory (initial capital plus one point per closed trade).
// A position still open after the last bar is force-closed at the last
// bar's close and date.
func (e *Engine) Run(bars []model.AlignedBar) (*Ledger, []float64, error) {
	if len(bars) == 0 {
		return nil, nil, ErrNoData
	}
	st := &runState{
		capital:    e.params.InitialCapital,
		ledger:     &Ledger{},
		trajectory: []float64{e.params.InitialCapital},
	}
	for _, bar := range bars {
		e.step(st, bar)
	}
	if st.pos != nil {
		last := bars[len(bars)-1]
		e.close(st, last.Time, last.Close, model.ExitEndOfData)
	}
	return st.ledger, st.trajectory, nil
}

// step applies at most one state transition for the bar: entry, or a single
// exit. The entry bar contributes no exit, and once a bar closes the
// position no further exit condition is evaluated on it.
func (e *Engine) step(st *runState, bar model.AlignedBar) {
	if st.pos == nil {
		if bar.Buy {
			e.open(st, bar)
		}
		return
	}

	pos := st.pos
	switch {
	case bar.Sell:
		e.close(st, bar.Time, bar.Close, model.ExitSellSignal)
		return
	case bar.Close <= pos.stopLoss:
		e.close(st, bar.Time, bar.Close, model.ExitStopLoss)
		return
	case bar.Close >= pos.target:
		e.close(st, bar.Time, bar.Close, model.ExitTarget)
		return
	}

	// Ratchet: the stop may only tighten, never loosen.
	if bar.Close < pos.stopLoss {
		pos.ratchet(bar.Close * (1 - e.params.StopLossPct))
	}

	if bar.Time.Sub(pos.entryTime) >= e.params.MaxHolding {
		e.close(st, bar.Time, bar.Close, model.ExitMaxHolding)
	}
}

func (e *Engine) open(st *runState, bar model.AlignedBar) {
	quantity := math.Floor(st.capital / bar.Close)
	st.pos = &position{
		entryTime:   bar.Time,
		entryPrice:  bar.Close,
		quantity:    quantity,
		capitalUsed: quantity * bar.Close,
		stopLoss:    bar.Close * (1 - e.params.StopLossPct),
		target:      bar.Close * (1 + e.params.TargetPct),
	}
}

func (e *Engine) close(st *runState, exitTime time.Time, exitPrice float64, reason model.ExitReason) {
	pos := st.pos
	pnl := (exitPrice - pos.entryPrice) / pos.entryPrice
	st.capital *= 1 + pnl
	st.trajectory = append(st.trajectory, st.capital)
	st.ledger.Append(model.Trade{
		EntryTime:   pos.entryTime,
		EntryPrice:  pos.entryPrice,
		ExitTime:    exitTime,
		ExitPrice:   exitPrice,
		Quantity:    pos.quantity,
		CapitalUsed: pos.capitalUsed,
		PnlPct:      pnl,
		HoldingDays: int(exitTime.Sub(pos.entryTime).Hours() / 24),
		ProfitLoss:  pos.quantity * (exitPrice - pos.entryPrice),
		Reason:      reason,
	})
	st.pos = nil
}
