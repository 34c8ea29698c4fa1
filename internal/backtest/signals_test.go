package backtest

import (
	"math"
	"testing"

	"github.com/judas-33/momentum/internal/model"
)

func TestApplySignals(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name      string
		close     float64
		sma       float64
		rsi       float64
		threshold float64
		buy       bool
		sell      bool
	}{
		{"above sma, strong rsi", 100, 95, 65, 60, true, false},
		{"above sma, weak rsi", 100, 95, 55, 60, false, false},
		{"rsi at threshold", 100, 95, 60, 60, false, false},
		{"below sma", 90, 95, 65, 60, false, true},
		{"at sma", 95, 95, 65, 60, false, false},
		{"nan sma", 100, nan, 65, 60, false, false},
		{"nan rsi", 100, 95, nan, 60, false, false},
		{"both nan", 100, nan, nan, 60, false, false},
	}
	for _, tt := range tests {
		bars := []model.AlignedBar{{Close: tt.close, SMA: tt.sma, RSI: tt.rsi}}
		ApplySignals(bars, tt.threshold)
		if bars[0].Buy != tt.buy || bars[0].Sell != tt.sell {
			t.Errorf("%s: got buy=%v sell=%v, want buy=%v sell=%v",
				tt.name, bars[0].Buy, bars[0].Sell, tt.buy, tt.sell)
		}
	}
}
