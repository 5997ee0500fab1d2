package strategy

import "math"

// StopParams holds the stop-loss ratchet configuration.
type StopParams struct {
	InitialATRMultiple float64 // initial stop distance in entry-ATR units
	LockInATRMultiple  float64 // trailing distance once the lock-in trigger is hit
	LockInTrigger      float64 // favorable excursion (ATR units) that starts locking gains
	BreakEvenTrigger   float64 // favorable excursion (ATR units) that floors the stop at entry
	FallbackStop       float64 // fraction of entry used when ATR is undefined at entry
	MaxStopLossPct     float64 // hard cap on the loss implied by the stop, percent of entry
}

// DefaultStopParams mirrors the strategy's reference values: 2x ATR
// initial distance, lock-in above 2 ATR of profit, break-even above 3,
// 2% fallback and a 10% worst-case cap.
func DefaultStopParams() StopParams {
	return StopParams{
		InitialATRMultiple: 2.0,
		LockInATRMultiple:  1.0,
		LockInTrigger:      2.0,
		BreakEvenTrigger:   3.0,
		FallbackStop:       0.02,
		MaxStopLossPct:     10.0,
	}
}

// TradeContext is the per-position state owned by exactly one open
// position: created on entry, mutated only by the StopLossEngine,
// destroyed on exit.
type TradeContext struct {
	Direction    Direction
	EntryPrice   float64
	EntryATR     float64 // 0 when ATR was undefined at entry
	CurrentStop  float64
	FavorableATR float64 // best favorable excursion seen, in entry-ATR units
}

// StopLossEngine maintains a monotonically improving protective stop
// per open position. The stop only ever tightens: for a Long position
// CurrentStop is non-decreasing over time, for a Short non-increasing,
// and the loss it implies never exceeds MaxStopLossPct of entry.
type StopLossEngine struct {
	params StopParams
}

// NewStopLossEngine creates a stop engine with the given parameters.
func NewStopLossEngine(params StopParams) *StopLossEngine {
	return &StopLossEngine{params: params}
}

// Open creates the TradeContext for a freshly opened position and
// places the initial stop: entry -/+ InitialATRMultiple*ATR when ATR
// is available, else the flat fallback fraction of entry.
func (e *StopLossEngine) Open(dir Direction, entryPrice, entryATR float64) *TradeContext {
	tc := &TradeContext{
		Direction:  dir,
		EntryPrice: entryPrice,
	}
	if entryATR > 0 {
		tc.EntryATR = entryATR
		tc.CurrentStop = applyDistance(dir, entryPrice, e.params.InitialATRMultiple*entryATR)
	} else {
		tc.CurrentStop = applyDistance(dir, entryPrice, e.params.FallbackStop*entryPrice)
	}
	tc.CurrentStop = e.clampToCap(dir, entryPrice, tc.CurrentStop)
	return tc
}

// Update advances the ratchet for one evaluation cycle and returns the
// (possibly tightened) stop price. currentATR is the latest
// ATR-derived distance; when it is unavailable (<= 0) the last known
// stop is held unchanged rather than recomputed from an undefined
// value. The stop is never widened.
func (e *StopLossEngine) Update(tc *TradeContext, currentPrice, currentATR float64) float64 {
	if currentATR <= 0 || tc.EntryATR <= 0 || currentPrice <= 0 {
		return tc.CurrentStop
	}

	excursion := (currentPrice - tc.EntryPrice) / tc.EntryATR
	if tc.Direction == Short {
		excursion = -excursion
	}
	if excursion > tc.FavorableATR {
		tc.FavorableATR = excursion
	}

	candidate := tc.CurrentStop
	if excursion > e.params.LockInTrigger {
		candidate = tighter(tc.Direction, candidate,
			applyDistance(tc.Direction, currentPrice, e.params.LockInATRMultiple*tc.EntryATR))
	}
	if excursion > e.params.BreakEvenTrigger {
		candidate = tighter(tc.Direction, candidate, tc.EntryPrice)
	}

	tc.CurrentStop = tighter(tc.Direction, tc.CurrentStop, e.clampToCap(tc.Direction, tc.EntryPrice, candidate))
	return tc.CurrentStop
}

// clampToCap bounds the loss implied by a stop to MaxStopLossPct of
// the entry price.
func (e *StopLossEngine) clampToCap(dir Direction, entryPrice, stop float64) float64 {
	cap := entryPrice * e.params.MaxStopLossPct / 100
	if dir == Long {
		return math.Max(stop, entryPrice-cap)
	}
	return math.Min(stop, entryPrice+cap)
}

// applyDistance offsets a price against the position direction.
func applyDistance(dir Direction, price, distance float64) float64 {
	if dir == Long {
		return price - distance
	}
	return price + distance
}

// tighter picks whichever stop reduces risk for the direction.
func tighter(dir Direction, a, b float64) float64 {
	if dir == Long {
		return math.Max(a, b)
	}
	return math.Min(a, b)
}
