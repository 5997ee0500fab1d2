package strategy

import (
	"math"

	"github.com/xsignal-labs/xma-bot/internal/indicators"
	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// UTBotParams holds the trailing-line configuration.
type UTBotParams struct {
	KeyValue  float64 // ATR multiple for the trailing offset
	ATRPeriod int
}

// DefaultUTBotParams returns the reference TradingView inputs.
func DefaultUTBotParams() UTBotParams {
	return UTBotParams{
		KeyValue:  1.0,
		ATRPeriod: 10,
	}
}

// UTBot is the ATR trailing-line flip signal: a line trails the close
// at KeyValue*ATR distance, stepping only in the favorable direction
// while price stays on one side and flipping to the other side when
// price crosses it. A cross of the close above the line while the bar
// closes above it is a long signal, the mirror a short signal. Long
// signals close shorts and short signals close longs, so the same
// events drive entries and exits.
//
// Unlike the crossover generator UT Bot is not regime-gated.
type UTBot struct {
	params UTBotParams
	atr    *indicators.ATR

	line      float64
	prevLine  float64
	prevClose float64
	primed    bool
}

// NewUTBot creates a UT Bot signal source.
func NewUTBot(params UTBotParams) *UTBot {
	return &UTBot{
		params: params,
		atr:    indicators.NewATR(params.ATRPeriod),
	}
}

// Name returns the generator name.
func (u *UTBot) Name() string {
	return "ut-bot"
}

// Evaluate advances the trailing line with the closed candle and
// produces at most one Decision. The frame and regime arguments are
// unused; UT Bot carries its own volatility state.
func (u *UTBot) Evaluate(candle types.OHLCV, _ Frame, _ Regime, position PositionState) Decision {
	atr, ok := u.atr.Update(candle)
	if !ok {
		// ATR still warming up: no line yet, no signal.
		u.prevClose = candle.Close
		return DecisionNone
	}

	src := candle.Close
	offset := u.params.KeyValue * atr

	if !u.primed {
		u.line = src + offset
		u.prevLine = u.line
		u.prevClose = src
		u.primed = true
		return DecisionNone
	}

	prevLine := u.line
	switch {
	case src > prevLine && u.prevClose > prevLine:
		u.line = math.Max(prevLine, src-offset)
	case src < prevLine && u.prevClose < prevLine:
		u.line = math.Min(prevLine, src+offset)
	case src > prevLine:
		u.line = src - offset
	default:
		u.line = src + offset
	}

	crossedAbove := src > u.line && u.prevClose <= prevLine
	crossedBelow := src < u.line && u.prevClose >= prevLine

	u.prevLine = prevLine
	u.prevClose = src

	buy := src > u.line && crossedAbove
	sell := src < u.line && crossedBelow

	// Exit precedence: the flip closes an open position before any
	// fresh entry is considered on a later cycle.
	switch position {
	case PositionLong:
		if sell {
			return DecisionExitLong
		}
		return DecisionNone
	case PositionShort:
		if buy {
			return DecisionExitShort
		}
		return DecisionNone
	}

	switch {
	case buy:
		return DecisionEnterLong
	case sell:
		return DecisionEnterShort
	}
	return DecisionNone
}

// Line returns the current trailing line value; ok is false until the
// line is primed.
func (u *UTBot) Line() (float64, bool) {
	return u.line, u.primed
}
