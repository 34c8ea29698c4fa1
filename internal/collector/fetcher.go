package collector

import (
	"time"

	"github.com/judas-33/momentum/internal/model"
)

// Fetcher defines the interface for fetching historical market data.
// Interval uses the provider notation "1d" / "1wk".
type Fetcher interface {
	FetchBars(symbol, interval string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}
