package providers

import (
	"time"

	"acctrack/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObserveStorageDuration(op string, duration time.Duration)
	SetAccountsTotal(state string, count int)
	AddSweepTransitions(kind string, count int)
	IncToggles(outcome string)
}

const (
	StateNew    = "new"
	StateUnused = "unused"
	StateUsed   = "used"
)

type MetricsProvider struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	storageDuration  *prometheus.HistogramVec
	accountsTotal    *prometheus.GaugeVec
	sweepTransitions *prometheus.CounterVec
	toggles          *prometheus.CounterVec
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveStorageDuration(op string, duration time.Duration) {
	m.storageDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) SetAccountsTotal(state string, count int) {
	m.accountsTotal.WithLabelValues(state).Set(float64(count))
}

func (m *MetricsProvider) AddSweepTransitions(kind string, count int) {
	if count <= 0 {
		return
	}
	m.sweepTransitions.WithLabelValues(kind).Add(float64(count))
}

func (m *MetricsProvider) IncToggles(outcome string) {
	m.toggles.WithLabelValues(outcome).Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}
	return newMetricsProvider(prometheus.DefaultRegisterer)
}

func newMetricsProvider(reg prometheus.Registerer) *MetricsProvider {
	factory := promauto.With(reg)

	return &MetricsProvider{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "acctrack_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acctrack_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "acctrack_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "acctrack_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		storageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "acctrack_storage_duration_seconds",
			Help:    "Duration of account store operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		accountsTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "acctrack_accounts",
			Help: "Number of accounts by state as of the last sweep",
		}, []string{"state"}),

		sweepTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "acctrack_sweep_transitions_total",
			Help: "Accounts aged or reset by sweeps",
		}, []string{"kind"}),

		toggles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "acctrack_toggles_total",
			Help: "Toggle requests by outcome",
		}, []string{"outcome"}),
	}
}

// noopMetrics is used when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) SetAccountsTotal(_ string, _ int)                 {}
func (n *noopMetrics) AddSweepTransitions(_ string, _ int)              {}
func (n *noopMetrics) IncToggles(_ string)                              {}
