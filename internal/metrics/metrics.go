// Package metrics registers the Prometheus collectors of the site service.
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

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "Size of HTTP responses",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "route"},
	)

	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Current number of active HTTP requests",
		},
	)

	// Content
	ColorExtractionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "color_extractions_total",
			Help: "Cover color extractions by outcome",
		},
		[]string{"outcome"}, // updated, skipped, failed
	)

	ColorExtractionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "color_extraction_duration_seconds",
			Help:    "Duration of a single post's color extraction",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
	)

	PostViewsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "post_views_total",
			Help: "Total number of recorded post views",
		},
	)

	PostReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "post_reactions_total",
			Help: "Total number of recorded reactions by kind index",
		},
		[]string{"index"},
	)

	SearchIndexDocuments = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_index_documents",
			Help: "Number of posts in the search index",
		},
	)
)

// Middleware records request count, duration and size per route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ActiveRequests.Inc()
		defer ActiveRequests.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := routePattern(r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		HTTPResponseSize.WithLabelValues(r.Method, route).Observe(float64(ww.BytesWritten()))
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// TrackColorExtraction records one post's extraction outcome.
func TrackColorExtraction(outcome string, d time.Duration) {
	ColorExtractionsTotal.WithLabelValues(outcome).Inc()
	ColorExtractionDuration.Observe(d.Seconds())
}

// TrackView increments the view counter.
func TrackView() {
	PostViewsTotal.Inc()
}

// TrackReaction increments the reaction counter for kind index.
func TrackReaction(index int) {
	PostReactionsTotal.WithLabelValues(strconv.Itoa(index)).Inc()
}

// SetIndexedDocuments reports the search index size.
func SetIndexedDocuments(n uint64) {
	SearchIndexDocuments.Set(float64(n))
}
