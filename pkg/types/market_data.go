package types

import "time"

// OHLCV is a single closed candle for one instrument and timeframe.
// Candles are immutable once received and ordered by Timestamp.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Valid reports whether the candle carries usable price data.
// A non-positive close is a data-quality fault from the feed.
func (c OHLCV) Valid() bool {
	return c.Close > 0
}
