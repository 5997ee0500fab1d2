package strategy

import (
	"math"

	"github.com/xsignal-labs/xma-bot/internal/indicators"
	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// SignalParams holds the filter thresholds for the crossover signal
// generator. Percent values are expressed like ATR%: 0.5 means 0.5%.
type SignalParams struct {
	MinATRPct             float64 // minimum ATR% for a crossover entry
	MinSepPct             float64 // minimum |MA-EMA|/close*100 for a crossover entry
	NeutralMinATRPct      float64 // minimum ATR% for a breakout entry in neutral regime
	NeutralBreakoutWindow int     // lookback candles for the breakout extremes
}

// SignalGenerator detects crossover and breakout events on the base
// timeframe and gates them through the regime state.
//
// A bearish cross (EMA crossing under MA) is a Long candidate, a
// bullish cross a Short candidate; both must clear the volatility and
// separation filters. In a Bullish regime only Long candidates fire,
// in Bearish only Short. In Neutral, crossover candidates are
// suppressed and a breakout path runs instead: close beyond the
// highest high / lowest low of the preceding window candles, current
// candle excluded. Exits fire on the opposite cross unconditionally —
// no filters, no regime gate — and take precedence over entries, so a
// reversal is realized as exit-then-reconsider-next-cycle.
type SignalGenerator struct {
	params SignalParams
	window *indicators.HighLowWindow
}

// NewSignalGenerator creates a crossover/breakout signal generator.
func NewSignalGenerator(params SignalParams) *SignalGenerator {
	return &SignalGenerator{
		params: params,
		window: indicators.NewHighLowWindow(params.NeutralBreakoutWindow),
	}
}

// Name returns the generator name.
func (g *SignalGenerator) Name() string {
	return "xma-crossover"
}

// Evaluate produces at most one Decision for the candle at the end of
// the frame. The candle must already be appended to the frame.
func (g *SignalGenerator) Evaluate(candle types.OHLCV, frame Frame, regime Regime, position PositionState) Decision {
	// The breakout window must only ever contain candles preceding the
	// one under evaluation.
	defer g.window.Append(candle.High, candle.Low)

	i := frame.Len() - 1
	if i < 1 {
		return DecisionNone
	}

	ma, maOK := frame.MA(i)
	ema, emaOK := frame.EMA(i)
	prevMA, prevMAOK := frame.MA(i - 1)
	prevEMA, prevEMAOK := frame.EMA(i - 1)
	crossDefined := maOK && emaOK && prevMAOK && prevEMAOK

	bearishCross := crossDefined && prevEMA >= prevMA && ema < ma
	bullishCross := crossDefined && prevEMA <= prevMA && ema > ma

	// Exits first, and unconditionally: a position must be closable
	// even if the regime has flipped or the filters no longer hold.
	switch position {
	case PositionLong:
		if bullishCross {
			return DecisionExitLong
		}
		return DecisionNone
	case PositionShort:
		if bearishCross {
			return DecisionExitShort
		}
		return DecisionNone
	}

	close := frame.Close(i)
	if close <= 0 {
		return DecisionNone
	}

	switch regime {
	case RegimeBullish:
		if bearishCross && g.filtersPass(frame, i, ma, ema, close) {
			return DecisionEnterLong
		}
	case RegimeBearish:
		if bullishCross && g.filtersPass(frame, i, ma, ema, close) {
			return DecisionEnterShort
		}
	case RegimeNeutral:
		return g.evaluateBreakout(candle, frame, i)
	}
	// RegimeUnknown: higher timeframe still warming up, no entries.
	return DecisionNone
}

// filtersPass applies the volatility and separation filters to a
// crossover candidate.
func (g *SignalGenerator) filtersPass(frame Frame, i int, ma, ema, close float64) bool {
	atrPct, ok := frame.ATRPct(i)
	if !ok || atrPct < g.params.MinATRPct {
		return false
	}
	sep := math.Abs(ma-ema) / close * 100
	return sep >= g.params.MinSepPct
}

// evaluateBreakout runs the neutral-regime breakout path: entry when
// the close escapes the recent high/low range on sufficient
// volatility.
func (g *SignalGenerator) evaluateBreakout(candle types.OHLCV, frame Frame, i int) Decision {
	atrPct, ok := frame.ATRPct(i)
	if !ok || atrPct < g.params.NeutralMinATRPct {
		return DecisionNone
	}
	high, low, ok := g.window.Extremes()
	if !ok {
		return DecisionNone
	}
	switch {
	case candle.Close > high:
		return DecisionEnterLong
	case candle.Close < low:
		return DecisionEnterShort
	}
	return DecisionNone
}
