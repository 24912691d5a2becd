package telemetry

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"pairlog/pkg/logger"
)

// Request-level telemetry for local usage: Prometheus timings per route
// plus a lightweight log line for slow requests.

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pairlog_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "route", "status"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pairlog_http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})
)

var slowThreshold = 200 * time.Millisecond

// SetSlowThreshold sets the duration above which a request gets a warn log.
func SetSlowThreshold(d time.Duration) {
	if d > 0 {
		slowThreshold = d
	}
}

// Middleware records per-request duration against the route template, so
// /v1/pairs/{pairID} stays a single series regardless of ID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		inFlight.Inc()
		srw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(srw, r)
		inFlight.Dec()

		dur := time.Since(start)
		requestDuration.WithLabelValues(r.Method, routeTemplate(r), statusClass(srw.status)).Observe(dur.Seconds())
		if dur > slowThreshold {
			logger.Warn("slow_request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", srw.status,
				"duration_ms", dur.Milliseconds())
		}
	})
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}

// statusRecorder captures the response status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
