package metrics_test

import (
	"testing"

	"github.com/jroosing/dnsfilter-dashboard/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorsRegistered(t *testing.T) {
	metrics.StoreFailures.WithLabelValues("stats").Add(0)
	metrics.HTTPRequests.WithLabelValues("GET", "/api/stats", "200").Add(0)
	metrics.HTTPDuration.WithLabelValues("/api/stats").Observe(0)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	for _, want := range []string{
		"dashboard_store_failures_total",
		"dashboard_store_connected",
		"dashboard_http_requests_total",
		"dashboard_http_request_duration_seconds",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestStoreConnectedGauge(t *testing.T) {
	metrics.StoreConnected.Set(1)
	var m dto.Metric
	require.NoError(t, metrics.StoreConnected.Write(&m))
	assert.InDelta(t, 1.0, m.GetGauge().GetValue(), 0)

	metrics.StoreConnected.Set(0)
	require.NoError(t, metrics.StoreConnected.Write(&m))
	assert.InDelta(t, 0.0, m.GetGauge().GetValue(), 0)
}
