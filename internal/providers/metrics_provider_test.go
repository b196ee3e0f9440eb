package providers

import (
	"testing"
	"time"

	"acctrack/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics_WhenDisabled(t *testing.T) {
	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: false},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*noopMetrics)
	assert.True(t, ok, "should return noopMetrics when disabled")

	m.IncRequestsTotal("/test", 200)
	m.ObserveRequestDuration("/test", time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.ObserveStorageDuration("load", time.Millisecond)
	m.SetAccountsTotal(StateNew, 10)
	m.AddSweepTransitions("aged", 1)
	m.IncToggles("applied")
}

func TestMetricsProvider_WhenEnabled(t *testing.T) {
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	defer func() {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()
		prometheus.DefaultGatherer = prometheus.DefaultRegisterer.(prometheus.Gatherer)
	}()

	conf := &structures.Config{
		Metrics: structures.MetricsConfig{Enabled: true},
	}
	m := NewMetricsProvider(conf)
	_, ok := m.(*MetricsProvider)
	assert.True(t, ok, "should return MetricsProvider when enabled")
}

func TestMetricsProvider_Counters(t *testing.T) {
	m := newMetricsProvider(prometheus.NewRegistry())

	m.IncRequestsTotal("/api/accounts", 200)
	m.IncRequestsTotal("/api/accounts", 201)
	m.IncRequestsTotal("/api/accounts", 404)
	m.ObserveRequestDuration("/api/accounts", 5*time.Millisecond)
	m.IncCacheHits()
	m.IncCacheMisses()
	m.IncCacheMisses()
	m.ObserveStorageDuration("load", 100*time.Millisecond)
	m.SetAccountsTotal(StateUsed, 42)
	m.AddSweepTransitions("aged", 3)
	m.AddSweepTransitions("reset", 0)
	m.IncToggles("rejected")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/accounts", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestsTotal.WithLabelValues("/api/accounts", "4xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.cacheHits))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.cacheMisses))
	assert.Equal(t, float64(42), testutil.ToFloat64(m.accountsTotal.WithLabelValues(StateUsed)))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.sweepTransitions.WithLabelValues("aged")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.toggles.WithLabelValues("rejected")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.sweepTransitions))
}

func TestMetricsProvider_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = newMetricsProvider(reg)
	require.Panics(t, func() { newMetricsProvider(reg) })
}

func TestHttpStatusBucket(t *testing.T) {
	tests := []struct {
		code     int
		expected string
	}{
		{100, "1xx"},
		{200, "2xx"},
		{204, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{409, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, httpStatusBucket(tt.code))
	}
}
