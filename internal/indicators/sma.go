package indicators

// SMA maintains a rolling simple moving average over a fixed window.
// Values are undefined until the window has been filled once.
type SMA struct {
	period int
	buffer []float64
	head   int
	count  int
	sum    float64
}

// NewSMA creates a new SMA calculator
func NewSMA(period int) *SMA {
	return &SMA{
		period: period,
		buffer: make([]float64, period),
	}
}

// Update pushes the next value and returns the current average.
// ok is false while fewer than period values have been seen.
func (s *SMA) Update(value float64) (float64, bool) {
	if s.count == s.period {
		s.sum -= s.buffer[s.head]
	} else {
		s.count++
	}
	s.buffer[s.head] = value
	s.sum += value
	s.head = (s.head + 1) % s.period

	if s.count < s.period {
		return 0, false
	}
	return s.sum / float64(s.period), true
}

// Value returns the last computed average without consuming new data.
func (s *SMA) Value() (float64, bool) {
	if s.count < s.period {
		return 0, false
	}
	return s.sum / float64(s.period), true
}

// Period returns the window length.
func (s *SMA) Period() int {
	return s.period
}

// Reset clears the internal state for a fresh data series.
func (s *SMA) Reset() {
	s.head = 0
	s.count = 0
	s.sum = 0
}
