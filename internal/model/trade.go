package model

import "time"

// ExitReason identifies which rule closed a trade.
type ExitReason string

const (
	ExitSellSignal ExitReason = "SELL_SIGNAL"
	ExitStopLoss   ExitReason = "STOP_LOSS"
	ExitTarget     ExitReason = "TARGET"
	ExitMaxHolding ExitReason = "MAX_HOLDING"
	ExitEndOfData  ExitReason = "END_OF_DATA"
)

// Trade is one closed round trip. Records are immutable once appended to
// the ledger.
type Trade struct {
	EntryTime   time.Time
	EntryPrice  float64
	ExitTime    time.Time
	ExitPrice   float64
	Quantity    float64 // whole units, floor(capital / entry price)
	CapitalUsed float64
	PnlPct      float64 // fractional: (exit - entry) / entry
	HoldingDays int
	ProfitLoss  float64 // Quantity * (exit - entry)
	Reason      ExitReason
}

// Result is the full output of one backtest run.
type Result struct {
	Symbol            string
	TotalTrades       int
	SuccessRatio      float64
	FinalCapital      float64
	StrategyProfitPct float64
	AnnualizedReturn  float64
	TotalSignals      int
	// ProfitFactor is meaningful only when ProfitFactorDefined is true;
	// a run with no losing trades has no defined profit factor.
	ProfitFactor        float64
	ProfitFactorDefined bool
	Trades              []Trade
	Capital             []float64 // initial capital plus one point per closed trade
}
