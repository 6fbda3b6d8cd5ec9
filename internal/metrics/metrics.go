package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestSize       *prometheus.HistogramVec
	HTTPResponseSize      *prometheus.HistogramVec
	HTTPActiveConnections *prometheus.GaugeVec

	// Rate limiting metrics
	RateLimitExceededTotal *prometheus.CounterVec

	// Post metrics
	PostsUploadedTotal     *prometheus.CounterVec
	UploadFailuresTotal    *prometheus.CounterVec
	UploadSize             *prometheus.HistogramVec
	PostsDeletedTotal      prometheus.Counter
	MediaDeleteErrorsTotal prometheus.Counter
	FeedGenerationTime     *prometheus.HistogramVec
	FeedSize               prometheus.Histogram

	// Auth metrics
	AuthEventsTotal *prometheus.CounterVec

	// Error metrics
	ErrorsTotal *prometheus.CounterVec
}

var (
	instance *Metrics
	once     sync.Once
)

// Initialize creates and registers all Prometheus metrics
func Initialize() *Metrics {
	once.Do(func() {
		instance = &Metrics{
			// HTTP metrics
			HTTPRequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "http_requests_total",
					Help: "Total number of HTTP requests",
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_duration_seconds",
					Help:    "HTTP request latency in seconds",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
				},
				[]string{"method", "path", "status"},
			),
			HTTPRequestSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_request_size_bytes",
					Help:    "HTTP request body size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 8),
				},
				[]string{"method", "path"},
			),
			HTTPResponseSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "http_response_size_bytes",
					Help:    "HTTP response size in bytes",
					Buckets: prometheus.ExponentialBuckets(100, 10, 7),
				},
				[]string{"method", "path", "status"},
			),
			HTTPActiveConnections: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "http_active_connections",
					Help: "Number of currently active HTTP connections",
				},
				[]string{"method", "path"},
			),

			// Rate limiting metrics
			RateLimitExceededTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "rate_limit_exceeded_total",
					Help: "Total number of rate limit violations",
				},
				[]string{"endpoint", "method"},
			),

			// Post metrics
			PostsUploadedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "posts_uploaded_total",
					Help: "Total number of posts created from uploads",
				},
				[]string{"file_type"},
			),
			UploadFailuresTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "upload_failures_total",
					Help: "Total number of failed uploads by stage",
				},
				[]string{"stage"},
			),
			UploadSize: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "upload_size_bytes",
					Help:    "Size of accepted uploads in bytes",
					Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
				},
				[]string{"file_type"},
			),
			PostsDeletedTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "posts_deleted_total",
					Help: "Total number of posts deleted by their owners",
				},
			),
			MediaDeleteErrorsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Name: "media_delete_errors_total",
					Help: "Remote media deletions that failed after a post was removed",
				},
			),
			FeedGenerationTime: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "feed_generation_duration_seconds",
					Help:    "Time taken to build a feed",
					Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
				},
				[]string{"feed_type"},
			),
			FeedSize: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Name:    "feed_size_posts",
					Help:    "Number of posts returned per feed request",
					Buckets: prometheus.ExponentialBuckets(1, 4, 8),
				},
			),

			// Auth metrics
			AuthEventsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "auth_events_total",
					Help: "Authentication events by type and outcome",
				},
				[]string{"event", "result"},
			),

			// Error metrics
			ErrorsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "errors_total",
					Help: "Total number of API errors by code",
				},
				[]string{"code", "endpoint"},
			),
		}
	})
	return instance
}

// Get returns the metrics instance, initializing it on first use
func Get() *Metrics {
	return Initialize()
}
