// Package metrics provides Prometheus metrics for the picarena rating service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Rating activity
	ratingsSubmitted   *prometheus.CounterVec
	duplicateRounds    prometheus.Counter
	pairsServed        prometheus.Counter
	insufficientImages prometheus.Counter
	resets             *prometheus.CounterVec

	// Catalogue
	eligibleImages prometheus.Gauge
	ratedImages    prometheus.Gauge
	ratedPairs     prometheus.Gauge

	// Document stores
	storeLatency *prometheus.HistogramVec
	storeErrors  *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the package-level recorders

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out

func init() { //nolint:gochecknoinits // register collectors once per process
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "picarena",
		subsystem:        "arena",
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one block per collector
	auto := promauto.With(m.registry)

	m.ratingsSubmitted = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ratings_total",
		Help:      "Committed comparisons by outcome",
	}, []string{"outcome"})

	m.duplicateRounds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "duplicate_rounds_total",
		Help:      "Submissions ignored because their round was already committed",
	})

	m.pairsServed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pairs_served_total",
		Help:      "Random pairs handed out for comparison",
	})

	m.insufficientImages = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "insufficient_images_total",
		Help:      "Pair requests that failed because fewer than two images were eligible",
	})

	m.resets = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resets_total",
		Help:      "Reset attempts by result",
	}, []string{"result"})

	m.eligibleImages = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "eligible_images",
		Help:      "Eligible images found in the image directory at the last scan",
	})

	m.ratedImages = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rated_images",
		Help:      "Images that appeared in at least one committed comparison",
	})

	m.ratedPairs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rated_pairs",
		Help:      "Distinct unordered pairs rated at least once",
	})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Latency of document store reads and writes",
		Buckets:   m.histogramBuckets,
	}, []string{"store", "op"})

	m.storeErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Failed document store reads and writes",
	}, []string{"store", "op"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "HTTP responses with status >= 400 by endpoint and error type",
	}, []string{"endpoint", "method", "error_type"})
}

// RecordRating counts one committed comparison.
func RecordRating(outcome string) {
	globalManager.ratingsSubmitted.WithLabelValues(outcome).Inc()
}

// RecordDuplicateRound counts an ignored resubmission.
func RecordDuplicateRound() {
	globalManager.duplicateRounds.Inc()
}

// RecordPairServed counts a pair handed to a client.
func RecordPairServed() {
	globalManager.pairsServed.Inc()
}

// RecordInsufficientImages counts a failed pair request.
func RecordInsufficientImages() {
	globalManager.insufficientImages.Inc()
}

// RecordReset counts a reset attempt; result is "accepted" or "rejected".
func RecordReset(result string) {
	globalManager.resets.WithLabelValues(result).Inc()
}

// UpdateEligibleImages sets the eligible image gauge.
func UpdateEligibleImages(count int) {
	globalManager.eligibleImages.Set(float64(count))
}

// UpdateLedger sets the rated images and rated pairs gauges.
func UpdateLedger(ratedImages, ratedPairs int) {
	globalManager.ratedImages.Set(float64(ratedImages))
	globalManager.ratedPairs.Set(float64(ratedPairs))
}

// RecordStoreLatency records a document store operation latency.
func RecordStoreLatency(store, op string, latencyMs float64) {
	globalManager.storeLatency.WithLabelValues(store, op).Observe(latencyMs)
}

// RecordStoreError counts a failed document store operation.
func RecordStoreError(store, op string) {
	globalManager.storeErrors.WithLabelValues(store, op).Inc()
}

// RecordHTTPRequest counts an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records an HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint counts an HTTP error response.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the registry holding the service collectors.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
