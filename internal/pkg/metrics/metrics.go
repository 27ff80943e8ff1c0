// Package metrics provides Prometheus metrics for the booking calendar
// service. Metrics live on a custom registry so the /metrics endpoint stays
// free of default Go collector noise.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var registry = prometheus.NewRegistry()

var (
	httpRequests = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roomly",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "status"},
	)

	httpRequestDuration = promauto.With(registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roomly",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	bookingsCreated = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "roomly",
		Subsystem: "bookings",
		Name:      "created_total",
		Help:      "Total number of bookings created",
	})

	bookingConflicts = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "roomly",
		Subsystem: "bookings",
		Name:      "conflicts_rejected_total",
		Help:      "Total number of booking mutations rejected for conflicting with an existing booking",
	})

	occurrenceCacheHits = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "roomly",
		Subsystem: "occurrence_cache",
		Name:      "hits_total",
		Help:      "Total number of occurrence windows served from cache",
	})

	occurrenceCacheMisses = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Namespace: "roomly",
		Subsystem: "occurrence_cache",
		Name:      "misses_total",
		Help:      "Total number of occurrence windows expanded from storage",
	})
)

func RecordBookingCreated() {
	bookingsCreated.Inc()
}

func RecordBookingConflict() {
	bookingConflicts.Inc()
}

func RecordCacheHit() {
	occurrenceCacheHits.Inc()
}

func RecordCacheMiss() {
	occurrenceCacheMisses.Inc()
}

// Handler serves the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}

		httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).Inc()
		httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
