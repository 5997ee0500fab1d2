package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighLowWindow_WarmUp(t *testing.T) {
	w := NewHighLowWindow(3)

	w.Append(10, 5)
	w.Append(12, 6)
	_, _, ok := w.Extremes()
	assert.False(t, ok)

	w.Append(11, 4)
	high, low, ok := w.Extremes()
	require.True(t, ok)
	assert.Equal(t, 12.0, high)
	assert.Equal(t, 4.0, low)
}

func TestHighLowWindow_SlidesForward(t *testing.T) {
	w := NewHighLowWindow(2)

	w.Append(10, 5)
	w.Append(12, 6)
	w.Append(8, 7)

	// The first candle has slid out of the window.
	high, low, ok := w.Extremes()
	require.True(t, ok)
	assert.Equal(t, 12.0, high)
	assert.Equal(t, 6.0, low)

	w.Append(9, 8)
	high, low, _ = w.Extremes()
	assert.Equal(t, 9.0, high)
	assert.Equal(t, 7.0, low)
}
