package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	decisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xma_bot_decisions_total",
			Help: "Total number of non-neutral decisions emitted by the engine",
		},
		[]string{"symbol", "decision"},
	)

	stopsTightened = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xma_bot_stops_tightened_total",
			Help: "Total number of stop-loss ratchet moves",
		},
		[]string{"symbol"},
	)

	invalidCandles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xma_bot_invalid_candles_total",
			Help: "Total number of candles rejected for bad price data",
		},
		[]string{"symbol"},
	)

	entryLeverage = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "xma_bot_entry_leverage",
			Help: "Leverage granted at the most recent position entry",
		},
		[]string{"symbol"},
	)

	currentPrice = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "xma_bot_current_price",
			Help: "Latest observed close price per symbol",
		},
		[]string{"symbol"},
	)
)

func init() {
	prometheus.MustRegister(decisionsTotal)
	prometheus.MustRegister(stopsTightened)
	prometheus.MustRegister(invalidCandles)
	prometheus.MustRegister(entryLeverage)
	prometheus.MustRegister(currentPrice)
}

// Handler returns the Prometheus metrics endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDecision records a non-neutral engine decision.
func RecordDecision(symbol, decision string) {
	decisionsTotal.WithLabelValues(symbol, decision).Inc()
}

// RecordStopTightened records a stop-loss ratchet move.
func RecordStopTightened(symbol string) {
	stopsTightened.WithLabelValues(symbol).Inc()
}

// RecordInvalidCandle records a rejected candle.
func RecordInvalidCandle(symbol string) {
	invalidCandles.WithLabelValues(symbol).Inc()
}

// RecordEntryLeverage records the leverage granted at entry.
func RecordEntryLeverage(symbol string, leverage float64) {
	entryLeverage.WithLabelValues(symbol).Set(leverage)
}

// RecordPrice records the latest close price.
func RecordPrice(symbol string, price float64) {
	currentPrice.WithLabelValues(symbol).Set(price)
}
