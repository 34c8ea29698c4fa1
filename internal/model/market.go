package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// IndicatorPoint carries the indicator values computed on one weekly bar.
// SMA and RSI are NaN while the underlying calculation is still warming up.
type IndicatorPoint struct {
	Time time.Time
	SMA  float64
	RSI  float64
}

// AlignedBar is one daily price observation joined with the most recent
// weekly indicator values at or before its date. SMA and RSI are NaN for
// dates preceding the first weekly indicator point.
type AlignedBar struct {
	Time  time.Time
	Close float64
	SMA   float64
	RSI   float64
	Buy   bool
	Sell  bool
}
