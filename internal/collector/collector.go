package collector

import (
	"fmt"
	"time"

	"github.com/judas-33/momentum/internal/calculator"
	"github.com/judas-33/momentum/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]model.OHLCV // keyed by interval
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(_, interval string, _, _ time.Time) ([]model.OHLCV, error) {
	bars, ok := m.Bars[interval]
	if !ok {
		return nil, fmt.Errorf("mock: no bars for interval %s", interval)
	}
	return bars, nil
}

// Collector fetches the daily price series and the weekly indicator series
// for one backtest request.
type Collector struct {
	Fetcher        Fetcher
	DailyInterval  string
	WeeklyInterval string
	SMAPeriod      int
	RSIPeriod      int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, dailyInterval, weeklyInterval string, smaPeriod, rsiPeriod int) *Collector {
	return &Collector{
		Fetcher:        fetcher,
		DailyInterval:  dailyInterval,
		WeeklyInterval: weeklyInterval,
		SMAPeriod:      smaPeriod,
		RSIPeriod:      rsiPeriod,
	}
}

// Collect fetches both series and computes the weekly indicators.
func (c *Collector) Collect(symbol string, start, end time.Time) ([]model.OHLCV, []model.IndicatorPoint, error) {
	daily, err := c.Fetcher.FetchBars(symbol, c.DailyInterval, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	weekly, err := c.Fetcher.FetchBars(symbol, c.WeeklyInterval, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch weekly bars: %w", err)
	}
	indicators, err := calculator.IndicatorSeries(weekly, c.SMAPeriod, c.RSIPeriod)
	if err != nil {
		return nil, nil, fmt.Errorf("compute indicators: %w", err)
	}
	return daily, indicators, nil
}
