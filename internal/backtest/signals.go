package backtest

import "github.com/judas-33/momentum/internal/model"

// ApplySignals fills the per-bar buy/sell flags in place.
// Buy: close above the weekly SMA with weekly RSI above the threshold.
// Sell: close below the weekly SMA.
// NaN indicator values compare false, so warmup bars never signal.
func ApplySignals(bars []model.AlignedBar, rsiThreshold float64) {
	for i := range bars {
		b := &bars[i]
		b.Buy = b.Close > b.SMA && b.RSI > rsiThreshold
		b.Sell = b.Close < b.SMA
	}
}
