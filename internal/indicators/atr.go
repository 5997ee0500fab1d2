package indicators

import (
	"math"

	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// ATR maintains a Wilder-smoothed Average True Range. The first
// average is seeded with the simple mean of the first period true
// ranges; the very first candle uses high-low since no previous
// close exists yet.
type ATR struct {
	period    int
	prevClose float64
	haveClose bool
	seedSum   float64
	seedCount int
	value     float64
	ready     bool
}

// NewATR creates a new ATR calculator
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

// Update pushes the next candle and returns the current ATR.
// ok is false until period candles have been seen.
func (a *ATR) Update(candle types.OHLCV) (float64, bool) {
	tr := a.trueRange(candle)
	a.prevClose = candle.Close
	a.haveClose = true

	if !a.ready {
		a.seedSum += tr
		a.seedCount++
		if a.seedCount < a.period {
			return 0, false
		}
		a.value = a.seedSum / float64(a.period)
		a.ready = true
		return a.value, true
	}

	// Wilder smoothing: atr = (prev*(n-1) + tr) / n
	a.value = (a.value*float64(a.period-1) + tr) / float64(a.period)
	return a.value, true
}

// Value returns the last computed ATR value.
func (a *ATR) Value() (float64, bool) {
	return a.value, a.ready
}

// Period returns the smoothing length.
func (a *ATR) Period() int {
	return a.period
}

// Reset clears the internal state for a fresh data series.
func (a *ATR) Reset() {
	a.prevClose = 0
	a.haveClose = false
	a.seedSum = 0
	a.seedCount = 0
	a.value = 0
	a.ready = false
}

func (a *ATR) trueRange(c types.OHLCV) float64 {
	hl := c.High - c.Low
	if !a.haveClose {
		return hl
	}
	hc := math.Abs(c.High - a.prevClose)
	lc := math.Abs(c.Low - a.prevClose)
	return math.Max(hl, math.Max(hc, lc))
}
