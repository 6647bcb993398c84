package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	barsFetched *prometheus.CounterVec
	ordersTotal *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	lastPrice   *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		barsFetched: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantdesk_bars_fetched_total",
				Help: "Total number of daily bars fetched from the market data source",
			},
			[]string{"symbol"},
		),
		ordersTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantdesk_paper_orders_total",
				Help: "Total number of paper orders by side and outcome",
			},
			[]string{"side", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantdesk_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "quantdesk_last_price",
				Help: "Last resolved market price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "quantdesk_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordBarsFetched records bars returned by the upstream source.
func (r *Recorder) RecordBarsFetched(symbol string, count int) {
	r.barsFetched.WithLabelValues(symbol).Add(float64(count))
}

// RecordOrder records a paper order attempt.
func (r *Recorder) RecordOrder(side, outcome string) {
	r.ordersTotal.WithLabelValues(side, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last resolved price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
