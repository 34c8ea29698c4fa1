package backtest

import "github.com/judas-33/momentum/internal/model"

// Ledger is the append-only record of closed trades, in exit order.
type Ledger struct {
	trades []model.Trade
}

// Append adds a closed trade to the ledger.
func (l *Ledger) Append(t model.Trade) {
	l.trades = append(l.trades, t)
}

// Trades returns the recorded trades in exit order.
func (l *Ledger) Trades() []model.Trade { return l.trades }

// Total returns the number of closed trades.
func (l *Ledger) Total() int { return len(l.trades) }

// Wins returns the number of trades with positive percentage return.
func (l *Ledger) Wins() int {
	n := 0
	for _, t := range l.trades {
		if t.PnlPct > 0 {
			n++
		}
	}
	return n
}

// GrossWinPct returns the sum of positive percentage returns.
func (l *Ledger) GrossWinPct() float64 {
	sum := 0.0
	for _, t := range l.trades {
		if t.PnlPct > 0 {
			sum += t.PnlPct
		}
	}
	return sum
}

// GrossLossPct returns the sum of losing percentage returns, as a
// positive magnitude.
func (l *Ledger) GrossLossPct() float64 {
	sum := 0.0
	for _, t := range l.trades {
		if t.PnlPct < 0 {
			sum -= t.PnlPct
		}
	}
	return sum
}
