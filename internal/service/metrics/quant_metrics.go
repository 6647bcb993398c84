package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	EndpointLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quantdesk",
			Subsystem: "api",
			Name:      "latency_seconds",
			Help:      "Latency of quant API endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	EndpointErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quantdesk",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Errors by quant API endpoint",
		},
		[]string{"endpoint"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quantdesk",
			Subsystem: "api",
			Name:      "cache_hits_total",
			Help:      "Payload cache hits by endpoint",
		},
		[]string{"endpoint"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(EndpointLatency, EndpointErrors, CacheHits)
	})
}
