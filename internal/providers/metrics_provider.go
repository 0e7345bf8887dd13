package providers

import (
	"sync"
	"time"

	"dtrplay/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncClassifierCalls(logic, outcome string)
	ObserveClassifierDuration(logic string, duration time.Duration)
	IncSupersededResponses()
	// TrackWorkspaces exports the live workspace count as a gauge.
	TrackWorkspaces(workspaces WorkspaceCounter)
}

// WorkspaceCounter reports the number of live workspaces.
type WorkspaceCounter interface {
	Count() int
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	classifierCalls     *prometheus.CounterVec
	classifierDuration  *prometheus.HistogramVec
	superseded          prometheus.Counter
	trackOnce           sync.Once
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

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncClassifierCalls(logic, outcome string) {
	m.classifierCalls.WithLabelValues(logic, outcome).Inc()
}

func (m *MetricsProvider) ObserveClassifierDuration(logic string, duration time.Duration) {
	m.classifierDuration.WithLabelValues(logic).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSupersededResponses() {
	m.superseded.Inc()
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

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dtr_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dtr_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dtr_cache_hits_total",
			Help: "Total number of classification cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dtr_cache_misses_total",
			Help: "Total number of classification cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dtr_persistence_duration_seconds",
			Help:    "Duration of snapshot persistence in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		classifierCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dtr_classifier_calls_total",
			Help: "Calls to the classification backend by logic and outcome",
		}, []string{"logic", "outcome"}),

		classifierDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dtr_classifier_duration_seconds",
			Help:    "Classification backend latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"logic"}),

		superseded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dtr_superseded_responses_total",
			Help: "Classification responses discarded because a newer dispatch was issued",
		}),
	}

	return m
}

func (m *MetricsProvider) TrackWorkspaces(workspaces WorkspaceCounter) {
	m.trackOnce.Do(func() {
		promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "dtr_workspaces",
			Help: "Current number of live workspaces",
		}, func() float64 {
			return float64(workspaces.Count())
		})
	})
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                    {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)    {}
func (n *noopMetrics) IncCacheHits()                                       {}
func (n *noopMetrics) IncCacheMisses()                                     {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)          {}
func (n *noopMetrics) IncClassifierCalls(_, _ string)                      {}
func (n *noopMetrics) ObserveClassifierDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncSupersededResponses()                             {}
func (n *noopMetrics) TrackWorkspaces(_ WorkspaceCounter)                  {}

// NewNoopMetrics is the provider used when nothing should be recorded.
func NewNoopMetrics() MetricsProviderInterface {
	return &noopMetrics{}
}
