package strategy

import (
	"github.com/xsignal-labs/xma-bot/pkg/types"
)

// Direction is the side of an open position.
type Direction int

const (
	Long Direction = iota
	Short
)

func (d Direction) String() string {
	switch d {
	case Long:
		return "LONG"
	case Short:
		return "SHORT"
	default:
		return "UNKNOWN"
	}
}

// Decision is the outcome of one evaluation cycle. It is produced
// fresh every base-timeframe candle close and never queued: a
// condition that stops holding simply stops producing a decision on
// the next cycle.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionEnterLong
	DecisionEnterShort
	DecisionExitLong
	DecisionExitShort
)

func (d Decision) String() string {
	switch d {
	case DecisionNone:
		return "NONE"
	case DecisionEnterLong:
		return "ENTER_LONG"
	case DecisionEnterShort:
		return "ENTER_SHORT"
	case DecisionExitLong:
		return "EXIT_LONG"
	case DecisionExitShort:
		return "EXIT_SHORT"
	default:
		return "UNKNOWN"
	}
}

// IsEntry reports whether the decision opens a position.
func (d Decision) IsEntry() bool {
	return d == DecisionEnterLong || d == DecisionEnterShort
}

// IsExit reports whether the decision closes a position.
func (d Decision) IsExit() bool {
	return d == DecisionExitLong || d == DecisionExitShort
}

// PositionState tells a signal generator whether the host currently
// holds a position in the instrument, and on which side.
type PositionState int

const (
	PositionFlat PositionState = iota
	PositionLong
	PositionShort
)

func (p PositionState) String() string {
	switch p {
	case PositionFlat:
		return "FLAT"
	case PositionLong:
		return "LONG"
	case PositionShort:
		return "SHORT"
	default:
		return "UNKNOWN"
	}
}

// Frame is the read side of an indicator pipeline: three aligned
// series sharing the candle series' indexing. Values are undefined
// (ok=false) inside their warm-up, never zero.
type Frame interface {
	Len() int
	Close(i int) float64
	MA(i int) (float64, bool)
	EMA(i int) (float64, bool)
	ATRPct(i int) (float64, bool)
}

// SignalSource produces at most one Decision per closed base candle.
// Implementations must treat undefined indicator inputs as "no
// decision" and must give exit decisions precedence over entries.
type SignalSource interface {
	Evaluate(candle types.OHLCV, frame Frame, regime Regime, position PositionState) Decision
	Name() string
}
