package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/acompanamiento-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer,
// the cache and the match pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	matchRuns        *prometheus.CounterVec
	matchDuration    *prometheus.HistogramVec
	matchProcessed   *prometheus.CounterVec
	matchTransitions *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	matchRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "match_runs_total",
		Help: "Total completed match runs",
	}, []string{"periodo"})

	matchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "match_run_duration_seconds",
		Help:    "Duration of a full match run",
		Buckets: prometheus.DefBuckets,
	}, []string{"periodo"})

	matchProcessed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "match_teachers_processed_total",
		Help: "Teachers processed by match runs, by outcome",
	}, []string{"resultado"})

	matchTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "match_transitions_total",
		Help: "Assignment transitions produced by match runs",
	}, []string{"tipo"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses,
		matchRuns, matchDuration, matchProcessed, matchTransitions, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		matchRuns:        matchRuns,
		matchDuration:    matchDuration,
		matchProcessed:   matchProcessed,
		matchTransitions: matchTransitions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": httpStatusLabel(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// RecordCacheOperation counts cache lookups.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveMatchRun records the outcome of one completed match run.
func (m *MetricsService) ObserveMatchRun(periodo string, result models.MatchResult, kinds map[models.TransitionKind]int, duration time.Duration) {
	if m == nil {
		return
	}
	m.matchRuns.WithLabelValues(periodo).Inc()
	m.matchDuration.WithLabelValues(periodo).Observe(duration.Seconds())
	m.matchProcessed.WithLabelValues("match").Add(float64(result.Matches))
	m.matchProcessed.WithLabelValues("sin_match").Add(float64(result.SinMatch))
	for kind, count := range kinds {
		if count > 0 {
			m.matchTransitions.WithLabelValues(string(kind)).Add(float64(count))
		}
	}
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
