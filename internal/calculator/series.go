package calculator

import (
	"fmt"

	"github.com/judas-33/momentum/internal/model"
)

// IndicatorSeries computes the SMA and RSI series on the given weekly bars
// and pairs them point-by-point with the bar dates. Points inside the
// warmup window carry NaN values.
func IndicatorSeries(weeklyBars []model.OHLCV, smaPeriod, rsiPeriod int) ([]model.IndicatorPoint, error) {
	closes := extractCloses(weeklyBars)

	sma, err := SMASeries(closes, smaPeriod)
	if err != nil {
		return nil, fmt.Errorf("sma series: %w", err)
	}
	rsi, err := RSISeries(closes, rsiPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi series: %w", err)
	}

	points := make([]model.IndicatorPoint, len(weeklyBars))
	for i, b := range weeklyBars {
		points[i] = model.IndicatorPoint{Time: b.Time, SMA: sma[i], RSI: rsi[i]}
	}
	return points, nil
}
