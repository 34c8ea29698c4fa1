package backtest

import (
	"github.com/judas-33/momentum/internal/model"
)

// Run aligns the daily and weekly series, derives the per-bar signals, and
// simulates the strategy in one pass. It is the composition the callers
// use; the individual stages are exported for testing and reuse.
func Run(symbol string, daily []model.OHLCV, weekly []model.IndicatorPoint, p Params) (*model.Result, error) {
	bars := Align(daily, weekly)
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	ApplySignals(bars, p.RSIThreshold)

	ledger, capital, err := NewEngine(p).Run(bars)
	if err != nil {
		return nil, err
	}
	return Summarize(symbol, ledger, capital, p.InitialCapital, len(bars)), nil
}
