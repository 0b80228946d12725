package observability

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// HTTPRequestsTotal counts HTTP requests by route, method, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	// HTTPRequestDuration observes HTTP request latency per route.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"route", "method"},
	)

	// AIRequestsTotal counts calls to the embedding/generation backends.
	AIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_requests_total",
			Help: "Total number of AI requests by operation",
		},
		[]string{"operation"},
	)
	// AIRequestDuration observes embedding/generation latency.
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_request_duration_seconds",
			Help:    "AI request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"operation"},
	)

	// PostingsDroppedTotal counts postings dropped per normalization stage.
	PostingsDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "postings_dropped_total",
			Help: "Postings dropped by the normalizer, by filter stage",
		},
		[]string{"stage"},
	)
	// PostingsRankedTotal counts postings that survived normalization and
	// were scored.
	PostingsRankedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "postings_ranked_total",
			Help: "Postings scored and returned to callers",
		},
	)
	// ProfileExtractionsTotal counts resume profile extraction cycles by
	// outcome (ok, parse_error, service_error).
	ProfileExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_extractions_total",
			Help: "Resume profile extraction attempts by outcome",
		},
		[]string{"outcome"},
	)
)

var initMetricsOnce sync.Once

// InitMetrics registers all Prometheus metrics once per process.
func InitMetrics() {
	initMetricsOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDuration,
			AIRequestsTotal,
			AIRequestDuration,
			PostingsDroppedTotal,
			PostingsRankedTotal,
			ProfileExtractionsTotal,
		)
	})
}

// HTTPMetricsMiddleware records request counts and durations per route.
func HTTPMetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
