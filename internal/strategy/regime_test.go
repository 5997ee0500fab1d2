package strategy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// regimeFrame builds a one-candle frame with the given higher-timeframe
// values. NaN marks an undefined value.
func regimeFrame(close, ma, ema float64) *stubFrame {
	return &stubFrame{
		closes: []float64{close},
		ma:     []float64{ma},
		ema:    []float64{ema},
		atrPct: []float64{math.NaN()},
	}
}

func TestRegimeClassifier_StartsUnknown(t *testing.T) {
	rc := NewRegimeClassifier(0.05)
	assert.Equal(t, RegimeUnknown, rc.Current())
}

func TestRegimeClassifier_UndefinedFrameStaysUnknown(t *testing.T) {
	rc := NewRegimeClassifier(0.05)

	got := rc.Update(newUndefinedFrame(5, 100))
	assert.Equal(t, RegimeUnknown, got)
	assert.Equal(t, RegimeUnknown, rc.Current())
}

func TestRegimeClassifier_Bullish(t *testing.T) {
	rc := NewRegimeClassifier(0.05)

	// MA above EMA by 1% of close: clearly outside the neutral band.
	got := rc.Update(regimeFrame(100, 101, 100))
	assert.Equal(t, RegimeBullish, got)
}

func TestRegimeClassifier_Bearish(t *testing.T) {
	rc := NewRegimeClassifier(0.05)

	got := rc.Update(regimeFrame(100, 100, 101))
	assert.Equal(t, RegimeBearish, got)
}

func TestRegimeClassifier_NeutralInsideBand(t *testing.T) {
	rc := NewRegimeClassifier(0.05)

	// 0.02% spread, inside the 0.05% band.
	got := rc.Update(regimeFrame(100, 100.02, 100))
	assert.Equal(t, RegimeNeutral, got)
}

func TestRegimeClassifier_BandBoundaryIsNeutral(t *testing.T) {
	rc := NewRegimeClassifier(0.05)

	// Spread exactly at the band edge stays neutral; the regime only
	// turns directional strictly beyond it.
	got := rc.Update(regimeFrame(100, 100.05, 100))
	assert.Equal(t, RegimeNeutral, got)
}

func TestRegimeClassifier_LatchesBetweenUpdates(t *testing.T) {
	rc := NewRegimeClassifier(0.05)

	rc.Update(regimeFrame(100, 101, 100))
	assert.Equal(t, RegimeBullish, rc.Current())
	assert.Equal(t, RegimeBullish, rc.Current(), "Current must not mutate state")
}

func TestRegimeClassifier_RevertsToUnknownOnUndefinedValues(t *testing.T) {
	rc := NewRegimeClassifier(0.05)

	rc.Update(regimeFrame(100, 101, 100))
	got := rc.Update(regimeFrame(100, math.NaN(), 100))
	assert.Equal(t, RegimeUnknown, got)
}

func TestRegimeClassifier_EmptyFrameKeepsState(t *testing.T) {
	rc := NewRegimeClassifier(0.05)

	rc.Update(regimeFrame(100, 101, 100))
	got := rc.Update(&stubFrame{})
	assert.Equal(t, RegimeBullish, got)
}

func TestRegimeClassifier_ZeroBandFlipsOnSign(t *testing.T) {
	rc := NewRegimeClassifier(0)

	assert.Equal(t, RegimeBullish, rc.Update(regimeFrame(100, 100.001, 100)))
	assert.Equal(t, RegimeBearish, rc.Update(regimeFrame(100, 99.999, 100)))
	assert.Equal(t, RegimeNeutral, rc.Update(regimeFrame(100, 100, 100)))
}
