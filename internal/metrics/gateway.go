// Package metrics exposes Prometheus collectors for upstream calls and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "utxoscan",
		Subsystem: "gateway",
		Name:      "operations_total",
		Help:      "Count of upstream API operations.",
	}, []string{"upstream", "network", "operation", "status"})
	gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "utxoscan",
		Subsystem: "gateway",
		Name:      "operation_duration_seconds",
		Help:      "Duration of upstream API operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"upstream", "network", "operation", "status"})
)

// Gateway tracks metrics for calls to one upstream API.
type Gateway struct {
	upstream string
	network  string
}

// NewGateway constructs a metrics collector for an upstream.
func NewGateway(upstream, network string) *Gateway {
	if upstream == "" {
		upstream = "unknown"
	}
	if network == "" {
		network = "unknown"
	}
	return &Gateway{upstream: upstream, network: network}
}

// Observe records a single upstream call outcome and duration. A nil
// collector records nothing.
func (m *Gateway) Observe(operation string, err error, started time.Time) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}

	gatewayRequestsTotal.WithLabelValues(m.upstream, m.network, operation, status).Inc()
	gatewayRequestDuration.WithLabelValues(m.upstream, m.network, operation, status).Observe(time.Since(started).Seconds())
}
