// Package metrics declares the Prometheus collectors exported by the dashboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "dashboard"

// Variables declared for monitoring.
var (
	// StoreFailures counts store operations that failed and were answered with defaults.
	StoreFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "failures_total",
		Help:      "Counter of store operations that failed and degraded to default results.",
	}, []string{"operation"})

	// StoreConnected is 1 while the reporter holds an open store handle.
	StoreConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "store",
		Name:      "connected",
		Help:      "Whether the reporter currently holds an open store connection.",
	})

	// HTTPRequests counts API requests by method, matched route and status.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Counter of HTTP requests served.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency by matched route.
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Histogram of HTTP request latencies.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(StoreFailures, StoreConnected, HTTPRequests, HTTPDuration)
}
