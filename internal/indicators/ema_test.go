package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA_SeededWithSimpleAverage(t *testing.T) {
	ema := NewEMA(3)

	_, ok := ema.Update(10)
	assert.False(t, ok)
	_, ok = ema.Update(20)
	assert.False(t, ok)

	value, ok := ema.Update(30)
	require.True(t, ok)
	assert.Equal(t, 20.0, value, "first defined value is the simple average of the seed window")
}

func TestEMA_RecursiveSmoothing(t *testing.T) {
	ema := NewEMA(2) // alpha = 2/3

	ema.Update(10)
	seed, ok := ema.Update(20)
	require.True(t, ok)
	assert.Equal(t, 15.0, seed)

	value, ok := ema.Update(30)
	require.True(t, ok)
	// 30*(2/3) + 15*(1/3)
	assert.InDelta(t, 25.0, value, 1e-9)
}

func TestEMA_ConvergesToConstantInput(t *testing.T) {
	ema := NewEMA(5)

	var value float64
	for i := 0; i < 100; i++ {
		value, _ = ema.Update(42)
	}
	assert.InDelta(t, 42.0, value, 1e-9)
}

func TestEMA_Reset(t *testing.T) {
	ema := NewEMA(2)
	ema.Update(10)
	ema.Update(20)

	ema.Reset()

	_, ok := ema.Value()
	assert.False(t, ok)
	_, ok = ema.Update(5)
	assert.False(t, ok, "reset must restart the seed window")
}
