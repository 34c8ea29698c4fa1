package backtest

import (
	"math"

	"github.com/judas-33/momentum/internal/model"
)

// Align joins a daily close series with a coarser indicator series onto the
// daily time index. Each daily bar carries the most recent indicator point
// whose date is at or before the bar's date (as-of join, forward fill, no
// interpolation). Daily bars before the first indicator point carry NaN.
// Both inputs must be sorted ascending by date.
func Align(daily []model.OHLCV, weekly []model.IndicatorPoint) []model.AlignedBar {
	out := make([]model.AlignedBar, 0, len(daily))
	j := -1
	for _, bar := range daily {
		for j+1 < len(weekly) && !weekly[j+1].Time.After(bar.Time) {
			j++
		}
		ab := model.AlignedBar{
			Time:  bar.Time,
			Close: bar.Close,
			SMA:   math.NaN(),
			RSI:   math.NaN(),
		}
		if j >= 0 {
			ab.SMA = weekly[j].SMA
			ab.RSI = weekly[j].RSI
		}
		out = append(out, ab)
	}
	return out
}
