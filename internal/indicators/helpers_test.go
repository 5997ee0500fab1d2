package indicators

import (
	"time"

	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// generateFlatCandles returns n candles all closing at price with a
// fixed high-low range around it.
func generateFlatCandles(n int, price, halfRange float64) []types.OHLCV {
	candles := make([]types.OHLCV, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		candles[i] = types.OHLCV{
			Open:      price,
			High:      price + halfRange,
			Low:       price - halfRange,
			Close:     price,
			Volume:    1000,
			Timestamp: start.Add(time.Duration(i) * time.Minute),
		}
	}
	return candles
}

// generateTrendCandles returns n candles whose closes move by step
// per candle starting at start.
func generateTrendCandles(n int, start, step float64) []types.OHLCV {
	candles := make([]types.OHLCV, n)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		close := start + float64(i)*step
		candles[i] = types.OHLCV{
			Open:      close - step/2,
			High:      close + 1,
			Low:       close - 1,
			Close:     close,
			Volume:    1000,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
	}
	return candles
}
