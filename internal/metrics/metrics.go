// Package metrics exposes Prometheus collectors for the tag-check service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	checksTotal                *prometheus.CounterVec
	detectionsTotal            *prometheus.CounterVec
	scansRecordedTotal         *prometheus.CounterVec
	rateLimitedTotal           prometheus.Counter
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		checksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tagcheck_checks_total",
				Help: "Total number of tag checks, labeled by outcome (known, fetched, failed, invalid).",
			},
			[]string{"outcome"},
		)

		detectionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tagcheck_detections_total",
				Help: "Total number of positive vendor detections, labeled by vendor.",
			},
			[]string{"vendor"},
		)

		scansRecordedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tagcheck_scans_recorded_total",
				Help: "Total number of scan history writes, labeled by result.",
			},
			[]string{"result"},
		)

		rateLimitedTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "tagcheck_rate_limited_total",
				Help: "Total number of tag check requests rejected by the per-client rate limiter.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveScanRecorded counts a scan history write.
func ObserveScanRecorded(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	scansRecordedTotal.WithLabelValues(result).Inc()
}

// ObserveRateLimited counts a request rejected by the rate limiter.
func ObserveRateLimited() {
	rateLimitedTotal.Inc()
}

// Recorder adapts the package collectors to detector.Recorder.
type Recorder struct{}

// NewRecorder initializes the collectors and returns a Recorder.
func NewRecorder() Recorder {
	Init()
	return Recorder{}
}

// ObserveCheck counts a finished check by outcome.
func (Recorder) ObserveCheck(outcome string) {
	checksTotal.WithLabelValues(outcome).Inc()
}

// ObserveDetection counts a positive detection for vendor.
func (Recorder) ObserveDetection(vendor string) {
	detectionsTotal.WithLabelValues(vendor).Inc()
}
