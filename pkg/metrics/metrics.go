package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lingsync"

// Metrics holds every collector the service exports
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	syncRunsTotal      *prometheus.CounterVec
	syncRecordsMerged  *prometheus.CounterVec
	syncRecordsDropped *prometheus.CounterVec
	remoteFetchSeconds *prometheus.HistogramVec
}

var (
	instance *Metrics
	once     sync.Once
)

// NewMetrics returns the process-wide collectors, creating them on first use
func NewMetrics() *Metrics {
	once.Do(func() {
		instance = newMetrics(prometheus.NewRegistry())
	})
	return instance
}

func newMetrics(reg *prometheus.Registry) *Metrics {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpResponseSize: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_response_size_bytes",
			Help:      "HTTP response size",
			Buckets:   prometheus.ExponentialBuckets(128, 4, 8),
		}, []string{"method", "route"}),
		syncRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_runs_total",
			Help:      "Reconciliation runs by entity kind and outcome",
		}, []string{"kind", "outcome"}),
		syncRecordsMerged: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_records_merged_total",
			Help:      "Records upserted into local storage",
		}, []string{"kind"}),
		syncRecordsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_records_dropped_total",
			Help:      "Remote records dropped for missing identity",
		}, []string{"kind"}),
		remoteFetchSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_fetch_duration_seconds",
			Help:      "Latency of provider fetches",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"kind", "outcome"}),
	}
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration, respSize int) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	if respSize > 0 {
		m.httpResponseSize.WithLabelValues(method, route).Observe(float64(respSize))
	}
}

// RecordSync counts one reconciliation run. outcome is "success", "error" or "skipped".
func (m *Metrics) RecordSync(kind, outcome string) {
	m.syncRunsTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) RecordMerged(kind string, n int) {
	if n > 0 {
		m.syncRecordsMerged.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *Metrics) RecordDropped(kind string, n int) {
	if n > 0 {
		m.syncRecordsDropped.WithLabelValues(kind).Add(float64(n))
	}
}

func (m *Metrics) ObserveRemoteFetch(kind string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.remoteFetchSeconds.WithLabelValues(kind, outcome).Observe(duration.Seconds())
}

// MonitorMiddleware records request count, latency and response size per route
func MonitorMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start), c.Writer.Size())
	}
}
