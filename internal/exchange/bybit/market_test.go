package bybit

import (
	"testing"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInterval(t *testing.T) {
	cases := map[string]KlineInterval{
		"1m":  Interval1m,
		"5m":  Interval5m,
		"15m": Interval15m,
		"1h":  Interval1h,
		"4h":  Interval4h,
		"1d":  Interval1d,
	}
	for in, want := range cases {
		got, err := ParseInterval(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseInterval("7m")
	assert.Error(t, err)
}

func TestParseKlineResponse(t *testing.T) {
	resp := &bybit_api.ServerResponse{
		RetCode: 0,
		Result: map[string]interface{}{
			"symbol":   "BTCUSDT",
			"category": "linear",
			// Bybit returns newest first.
			"list": [][]string{
				{"1704068100000", "42300", "42800", "42200", "42700", "1320.0", "0"},
				{"1704067200000", "42000", "42500", "41800", "42300", "1500.5", "0"},
			},
		},
	}

	candles, err := parseKlineResponse(resp)
	require.NoError(t, err)
	require.Len(t, candles, 2)

	// Oldest first after parsing.
	assert.True(t, candles[0].Timestamp.Before(candles[1].Timestamp))
	assert.Equal(t, 42300.0, candles[0].Close)
	assert.Equal(t, 42700.0, candles[1].Close)
	assert.Equal(t, 42800.0, candles[1].High)
}

func TestParseKlineResponseAPIError(t *testing.T) {
	resp := &bybit_api.ServerResponse{
		RetCode: 10001,
		RetMsg:  "params error",
	}

	_, err := parseKlineResponse(resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "params error")
}

func TestParseKlineResponseSkipsShortRows(t *testing.T) {
	resp := &bybit_api.ServerResponse{
		RetCode: 0,
		Result: map[string]interface{}{
			"list": [][]string{
				{"1704067200000", "42000"},
				{"1704068100000", "42300", "42800", "42200", "42700", "1320.0", "0"},
			},
		},
	}

	candles, err := parseKlineResponse(resp)
	require.NoError(t, err)
	assert.Len(t, candles, 1)
}

func TestClientEnvironments(t *testing.T) {
	demo := NewClient(Config{Demo: true})
	assert.True(t, demo.IsDemo())
	assert.False(t, demo.IsTestnet())

	testnet := NewClient(Config{Testnet: true})
	assert.True(t, testnet.IsTestnet())
}
