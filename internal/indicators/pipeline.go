package indicators

import (
	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// PipelineParams holds the warm-up lengths for one timeframe.
type PipelineParams struct {
	MALength  int // SMA window over closes
	EMALength int // EMA smoothing length applied to the SMA series
	ATRLength int // ATR smoothing length
}

// point is one index of the aligned indicator series. The ok flags
// distinguish "not yet defined" from a real zero.
type point struct {
	close  float64
	ma     float64
	ema    float64
	atr    float64
	atrPct float64
	maOK   bool
	emaOK  bool
	atrOK  bool
}

// Pipeline computes the aligned indicator series for one instrument
// and one timeframe: SMA of close, EMA of that SMA, and ATR as a
// percentage of close. It is append-only — a new candle extends the
// series and never mutates prior values — and purely deterministic:
// the same candles always produce the same series.
//
// The MA is defined from index MALength-1, the EMA from index
// MALength+EMALength-2 (it is seeded once the MA series exists), and
// the ATR% from index ATRLength-1.
type Pipeline struct {
	params PipelineParams
	sma    *SMA
	ema    *EMA
	atr    *ATR
	points []point
}

// NewPipeline creates a pipeline for the given warm-up lengths.
func NewPipeline(params PipelineParams) *Pipeline {
	return &Pipeline{
		params: params,
		sma:    NewSMA(params.MALength),
		ema:    NewEMA(params.EMALength),
		atr:    NewATR(params.ATRLength),
	}
}

// Append extends the series with the next closed candle.
func (p *Pipeline) Append(candle types.OHLCV) {
	pt := point{close: candle.Close}

	if ma, ok := p.sma.Update(candle.Close); ok {
		pt.ma, pt.maOK = ma, true
		if ema, ok := p.ema.Update(ma); ok {
			pt.ema, pt.emaOK = ema, true
		}
	}

	if atr, ok := p.atr.Update(candle); ok && candle.Close > 0 {
		pt.atr = atr
		pt.atrPct = atr / candle.Close * 100
		pt.atrOK = true
	}

	p.points = append(p.points, pt)
}

// Len returns the number of candles appended so far.
func (p *Pipeline) Len() int {
	return len(p.points)
}

// Close returns the close price at index i.
func (p *Pipeline) Close(i int) float64 {
	return p.points[i].close
}

// MA returns the SMA value at index i; ok is false inside warm-up.
func (p *Pipeline) MA(i int) (float64, bool) {
	pt := p.points[i]
	return pt.ma, pt.maOK
}

// EMA returns the EMA-of-SMA value at index i; ok is false inside warm-up.
func (p *Pipeline) EMA(i int) (float64, bool) {
	pt := p.points[i]
	return pt.ema, pt.emaOK
}

// ATRPct returns ATR/close*100 at index i; ok is false inside warm-up.
func (p *Pipeline) ATRPct(i int) (float64, bool) {
	pt := p.points[i]
	return pt.atrPct, pt.atrOK
}

// LastATR returns the absolute ATR value of the latest candle.
func (p *Pipeline) LastATR() (float64, bool) {
	if len(p.points) == 0 {
		return 0, false
	}
	pt := p.points[len(p.points)-1]
	return pt.atr, pt.atrOK
}

// LastATRPct returns the ATR% of the latest candle.
func (p *Pipeline) LastATRPct() (float64, bool) {
	if len(p.points) == 0 {
		return 0, false
	}
	pt := p.points[len(p.points)-1]
	return pt.atrPct, pt.atrOK
}
