package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runUntil replays the fixture through a fresh generator up to and
// including index last, returning the decision at each index.
func runUntil(t *testing.T, f *stubFrame, regime Regime, pos PositionState, last int) []Decision {
	t.Helper()
	g := NewSignalGenerator(testSignalParams())
	decisions := make([]Decision, 0, last+1)
	for i := 0; i <= last; i++ {
		d := g.Evaluate(candleAt(f.closes[i], i), f.truncated(i+1), regime, pos)
		decisions = append(decisions, d)
	}
	return decisions
}

func TestSignalGenerator_BearishCrossInBullishRegime(t *testing.T) {
	f := crossFixture()
	decisions := runUntil(t, f, RegimeBullish, PositionFlat, 50)

	assert.Equal(t, DecisionEnterLong, decisions[50],
		"a filtered bearish cross in a bullish regime must enter long")
	assert.Equal(t, DecisionNone, decisions[48])
	assert.Equal(t, DecisionNone, decisions[49])
}

func TestSignalGenerator_SameCrossInBearishRegime(t *testing.T) {
	f := crossFixture()
	decisions := runUntil(t, f, RegimeBearish, PositionFlat, 50)

	assert.Equal(t, DecisionNone, decisions[50],
		"a long candidate must never fire in a bearish regime")
}

func TestSignalGenerator_BullishCrossEntersShort(t *testing.T) {
	f := crossFixture()
	// Mirror the fixture: swap MA and EMA so the EMA crosses above.
	for i := 48; i < 52; i++ {
		f.ma[i], f.ema[i] = f.ema[i], f.ma[i]
	}
	decisions := runUntil(t, f, RegimeBearish, PositionFlat, 50)

	assert.Equal(t, DecisionEnterShort, decisions[50])
}

func TestSignalGenerator_VolatilityFilterBlocksEntry(t *testing.T) {
	f := crossFixture()
	f.atrPct[50] = 0.4 // below min_atr_pct=0.5

	decisions := runUntil(t, f, RegimeBullish, PositionFlat, 50)
	assert.Equal(t, DecisionNone, decisions[50])
}

func TestSignalGenerator_SeparationFilterBlocksEntry(t *testing.T) {
	f := crossFixture()
	// Narrow the post-cross separation to 0.2% (below min_sep_pct=0.3).
	f.ma[50], f.ema[50] = 100.1, 99.9

	decisions := runUntil(t, f, RegimeBullish, PositionFlat, 50)
	assert.Equal(t, DecisionNone, decisions[50])
}

func TestSignalGenerator_UndefinedInputsProduceNoDecision(t *testing.T) {
	f := newUndefinedFrame(30, 100)
	decisions := runUntil(t, f, RegimeBullish, PositionFlat, 29)

	for i, d := range decisions {
		assert.Equal(t, DecisionNone, d, "undefined inputs must never decide (index %d)", i)
	}
}

func TestSignalGenerator_UnknownRegimeBlocksAllEntries(t *testing.T) {
	f := crossFixture()
	decisions := runUntil(t, f, RegimeUnknown, PositionFlat, 50)

	assert.Equal(t, DecisionNone, decisions[50],
		"an instrument without a defined regime is ineligible for entries")
}

func TestSignalGenerator_NeutralSuppressesCrossover(t *testing.T) {
	f := crossFixture()
	decisions := runUntil(t, f, RegimeNeutral, PositionFlat, 50)

	assert.Equal(t, DecisionNone, decisions[50],
		"crossover candidates must not fire in a neutral regime")
}

func TestSignalGenerator_NeutralBreakoutLong(t *testing.T) {
	n := 12
	f := newUndefinedFrame(n, 100)
	for i := 0; i < n; i++ {
		f.atrPct[i] = 0.8
	}

	g := NewSignalGenerator(testSignalParams())
	var decisions []Decision
	for i := 0; i < n; i++ {
		close := 100.0
		if i == n-1 {
			close = 102.0 // above every preceding high (100.5)
		}
		d := g.Evaluate(candleAt(close, i), f.truncated(i+1), RegimeNeutral, PositionFlat)
		decisions = append(decisions, d)
	}

	require.Equal(t, DecisionEnterLong, decisions[n-1])
	for i := 0; i < n-1; i++ {
		assert.Equal(t, DecisionNone, decisions[i])
	}
}

func TestSignalGenerator_NeutralBreakoutShort(t *testing.T) {
	n := 12
	f := newUndefinedFrame(n, 100)
	for i := 0; i < n; i++ {
		f.atrPct[i] = 0.8
	}

	g := NewSignalGenerator(testSignalParams())
	var last Decision
	for i := 0; i < n; i++ {
		close := 100.0
		if i == n-1 {
			close = 98.0 // below every preceding low (99.5)
		}
		last = g.Evaluate(candleAt(close, i), f.truncated(i+1), RegimeNeutral, PositionFlat)
	}

	assert.Equal(t, DecisionEnterShort, last)
}

func TestSignalGenerator_NeutralBreakoutNeedsVolatility(t *testing.T) {
	n := 12
	f := newUndefinedFrame(n, 100)
	for i := 0; i < n; i++ {
		f.atrPct[i] = 0.3 // below neutral_min_atr_pct=0.5
	}

	g := NewSignalGenerator(testSignalParams())
	var last Decision
	for i := 0; i < n; i++ {
		close := 100.0
		if i == n-1 {
			close = 102.0
		}
		last = g.Evaluate(candleAt(close, i), f.truncated(i+1), RegimeNeutral, PositionFlat)
	}

	assert.Equal(t, DecisionNone, last)
}

func TestSignalGenerator_ExitOnOppositeCross(t *testing.T) {
	f := crossFixture()
	// The fixture's bearish cross at 50 is the exit cross for a short.
	decisions := runUntil(t, f, RegimeBullish, PositionShort, 50)
	assert.Equal(t, DecisionExitShort, decisions[50])

	// Mirrored fixture: bullish cross exits a long.
	m := crossFixture()
	for i := 48; i < 52; i++ {
		m.ma[i], m.ema[i] = m.ema[i], m.ma[i]
	}
	decisions = runUntil(t, m, RegimeBullish, PositionLong, 50)
	assert.Equal(t, DecisionExitLong, decisions[50])
}

func TestSignalGenerator_ExitIgnoresFiltersAndRegime(t *testing.T) {
	f := crossFixture()
	f.atrPct[50] = 0.01 // far below any entry filter
	f.ma[50], f.ema[50] = 100.001, 99.999

	for _, regime := range []Regime{RegimeBullish, RegimeBearish, RegimeNeutral, RegimeUnknown} {
		decisions := runUntil(t, f, regime, PositionShort, 50)
		assert.Equal(t, DecisionExitShort, decisions[50],
			"exit must fire regardless of filters in regime %s", regime)
	}
}

func TestSignalGenerator_ExitTakesPrecedenceOverEntry(t *testing.T) {
	// With a short open, the bearish cross is simultaneously the exit
	// cross and a long candidate: one cycle must produce only the exit.
	f := crossFixture()
	decisions := runUntil(t, f, RegimeBullish, PositionShort, 50)

	assert.Equal(t, DecisionExitShort, decisions[50])
}

func TestSignalGenerator_NoEntryWhilePositionOpen(t *testing.T) {
	f := crossFixture()
	decisions := runUntil(t, f, RegimeBullish, PositionLong, 50)

	assert.Equal(t, DecisionNone, decisions[50],
		"a long candidate must not re-enter while a long is already open")
}

func TestSignalGenerator_DegeneratePriceProducesNoEntry(t *testing.T) {
	f := crossFixture()
	f.closes[50] = 0

	g := NewSignalGenerator(testSignalParams())
	var last Decision
	for i := 0; i <= 50; i++ {
		last = g.Evaluate(candleAt(math.Max(f.closes[i], 0.0001), i), f.truncated(i+1), RegimeBullish, PositionFlat)
	}
	assert.Equal(t, DecisionNone, last)
}
