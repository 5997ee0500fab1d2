package indicators

// EMA maintains an exponential moving average with the standard
// alpha = 2/(period+1) smoothing. The first value is seeded with the
// simple average of the first period inputs, so the output stays
// undefined for period-1 updates.
type EMA struct {
	period    int
	alpha     float64
	seedSum   float64
	seedCount int
	value     float64
	ready     bool
}

// NewEMA creates a new EMA calculator
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

// Update pushes the next value and returns the smoothed result.
// ok is false until the seed window has been filled.
func (e *EMA) Update(value float64) (float64, bool) {
	if !e.ready {
		e.seedSum += value
		e.seedCount++
		if e.seedCount < e.period {
			return 0, false
		}
		e.value = e.seedSum / float64(e.period)
		e.ready = true
		return e.value, true
	}

	e.value = (value * e.alpha) + (e.value * (1 - e.alpha))
	return e.value, true
}

// Value returns the last computed EMA value.
func (e *EMA) Value() (float64, bool) {
	return e.value, e.ready
}

// Period returns the smoothing length.
func (e *EMA) Period() int {
	return e.period
}

// Reset clears the internal state for a fresh data series.
func (e *EMA) Reset() {
	e.seedSum = 0
	e.seedCount = 0
	e.value = 0
	e.ready = false
}
