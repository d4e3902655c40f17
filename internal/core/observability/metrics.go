// Package observability holds the Prometheus collectors for upstream OGC
// requests.
package observability

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for upstream requests.
const (
	OutcomeOK            = "ok"
	OutcomeStatus        = "status_error"
	OutcomeTransport     = "transport_error"
	OutcomeDecode        = "decode_error"
	OutcomeInvalidParams = "invalid_query"
)

var (
	upstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ogc_upstream_requests_total",
			Help: "Upstream OGC requests by service and outcome.",
		},
		[]string{"service", "outcome"},
	)

	upstreamLatencySeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ogc_upstream_latency_seconds",
			Help:    "Latency of upstream OGC calls in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"service"},
	)

	upstreamResponseBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ogc_upstream_response_bytes",
			Help:    "Size of successful upstream response bodies.",
			Buckets: prometheus.ExponentialBuckets(256, 4, 10), // 256B to ~64MiB
		},
		[]string{"service"},
	)
)

// Register adds the collectors to reg. Registering twice is a no-op.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		return nil
	}
	for _, c := range []prometheus.Collector{upstreamRequestsTotal, upstreamLatencySeconds, upstreamResponseBytes} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func ObserveUpstream(service, outcome string, durationSeconds float64) {
	upstreamRequestsTotal.WithLabelValues(service, outcome).Inc()
	upstreamLatencySeconds.WithLabelValues(service).Observe(durationSeconds)
}

func IncUpstream(service, outcome string) {
	upstreamRequestsTotal.WithLabelValues(service, outcome).Inc()
}

func ObserveResponseBytes(service string, n int) {
	upstreamResponseBytes.WithLabelValues(service).Observe(float64(n))
}
