package strategy

import (
	"math"
	"time"

	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// stubFrame is a hand-built indicator frame for tests. NaN marks an
// undefined value, matching the warm-up semantics of the real
// pipeline.
type stubFrame struct {
	closes []float64
	ma     []float64
	ema    []float64
	atrPct []float64
}

func (f *stubFrame) Len() int             { return len(f.closes) }
func (f *stubFrame) Close(i int) float64  { return f.closes[i] }
func (f *stubFrame) MA(i int) (float64, bool) {
	return f.ma[i], !math.IsNaN(f.ma[i])
}
func (f *stubFrame) EMA(i int) (float64, bool) {
	return f.ema[i], !math.IsNaN(f.ema[i])
}
func (f *stubFrame) ATRPct(i int) (float64, bool) {
	return f.atrPct[i], !math.IsNaN(f.atrPct[i])
}

// truncated returns a view of the frame's first n entries, emulating
// the state of a live pipeline at candle index n-1.
func (f *stubFrame) truncated(n int) *stubFrame {
	return &stubFrame{
		closes: f.closes[:n],
		ma:     f.ma[:n],
		ema:    f.ema[:n],
		atrPct: f.atrPct[:n],
	}
}

// newUndefinedFrame builds a frame of length n with all values
// undefined and closes at price.
func newUndefinedFrame(n int, price float64) *stubFrame {
	f := &stubFrame{
		closes: make([]float64, n),
		ma:     make([]float64, n),
		ema:    make([]float64, n),
		atrPct: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		f.closes[i] = price
		f.ma[i] = math.NaN()
		f.ema[i] = math.NaN()
		f.atrPct[i] = math.NaN()
	}
	return f
}

// crossFixture builds the reference scenario: warm-up to index 47,
// EMA above MA through index 49, then EMA crossing under MA at index
// 50 with atrPct 0.8 and a 0.6% separation on a close of 100.
func crossFixture() *stubFrame {
	f := newUndefinedFrame(52, 100)
	for i := 48; i < 52; i++ {
		f.atrPct[i] = 0.8
	}
	f.ma[48], f.ema[48] = 100.0, 100.5
	f.ma[49], f.ema[49] = 100.0, 100.5
	f.ma[50], f.ema[50] = 100.3, 99.7
	f.ma[51], f.ema[51] = 100.3, 99.7
	return f
}

func candleAt(close float64, i int) types.OHLCV {
	return types.OHLCV{
		Open:      close,
		High:      close + 0.5,
		Low:       close - 0.5,
		Close:     close,
		Volume:    1000,
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
	}
}

func testSignalParams() SignalParams {
	return SignalParams{
		MinATRPct:             0.5,
		MinSepPct:             0.3,
		NeutralMinATRPct:      0.5,
		NeutralBreakoutWindow: 5,
	}
}
