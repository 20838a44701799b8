// Package metrics provides Prometheus metrics for the Drive lister.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivelister_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "drivelister_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Drive API metrics
	driveRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivelister_drive_requests_total",
			Help: "Total Drive files.list requests by response status",
		},
		[]string{"status"},
	)

	driveRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "drivelister_drive_request_duration_seconds",
			Help:    "Drive files.list request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Listing metrics
	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "drivelister_loads_total",
			Help: "Total listing loads by result",
		},
		[]string{"result"},
	)

	subfolderFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "drivelister_subfolder_failures_total",
			Help: "Subfolder fetches that failed and were rendered empty",
		},
	)

	treeEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "drivelister_tree_entries",
			Help: "Number of entries in the most recent listing",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDriveRequest records one Drive listing call. A status of 0 means the
// transport failed before a response arrived.
func RecordDriveRequest(status int, duration time.Duration) {
	label := "transport_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	driveRequestsTotal.WithLabelValues(label).Inc()
	driveRequestDuration.Observe(duration.Seconds())
}

// RecordLoad records the outcome of a listing load.
func RecordLoad(result string) {
	loadsTotal.WithLabelValues(result).Inc()
}

// RecordSubfolderFailure records a subfolder that could not be listed.
func RecordSubfolderFailure() {
	subfolderFailuresTotal.Inc()
}

// SetTreeEntries sets the size of the most recent listing.
func SetTreeEntries(count int) {
	treeEntries.Set(float64(count))
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns HTTP middleware that records request metrics.
// Routes are labelled by chi route pattern to keep label cardinality bounded.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
