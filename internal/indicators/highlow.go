package indicators

// HighLowWindow tracks the highest high and lowest low over a fixed
// number of candles, Donchian style. Extremes are undefined until the
// window has been filled once.
type HighLowWindow struct {
	period int
	highs  []float64
	lows   []float64
	head   int
	count  int
}

// NewHighLowWindow creates a new rolling high/low tracker
func NewHighLowWindow(period int) *HighLowWindow {
	return &HighLowWindow{
		period: period,
		highs:  make([]float64, period),
		lows:   make([]float64, period),
	}
}

// Append pushes the next candle's high and low into the window.
func (w *HighLowWindow) Append(high, low float64) {
	w.highs[w.head] = high
	w.lows[w.head] = low
	w.head = (w.head + 1) % w.period
	if w.count < w.period {
		w.count++
	}
}

// Extremes returns the highest high and lowest low currently in the
// window. ok is false while the window is still warming up.
func (w *HighLowWindow) Extremes() (high, low float64, ok bool) {
	if w.count < w.period {
		return 0, 0, false
	}
	high = w.highs[0]
	low = w.lows[0]
	for i := 1; i < w.count; i++ {
		if w.highs[i] > high {
			high = w.highs[i]
		}
		if w.lows[i] < low {
			low = w.lows[i]
		}
	}
	return high, low, true
}

// Period returns the window length.
func (w *HighLowWindow) Period() int {
	return w.period
}

// Reset clears the internal state for a fresh data series.
func (w *HighLowWindow) Reset() {
	w.head = 0
	w.count = 0
}
