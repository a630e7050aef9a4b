package metrics

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetrics contains Prometheus metrics for the HTTP API surface.
type APIMetrics struct {
	RequestTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	UploadBytes     prometheus.Histogram
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter

	registry *prometheus.Registry
}

// NewAPIMetrics creates a new instance of APIMetrics registered on the
// given registry.
func NewAPIMetrics(registry *prometheus.Registry) (*APIMetrics, error) {
	m := &APIMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register API metrics: %w", err)
	}
	return m, nil
}

func (m *APIMetrics) initMetrics() {
	m.RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songdetector_api_requests_total",
			Help: "Total number of API requests partitioned by route and status code.",
		},
		[]string{"route", "status"},
	)
	m.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songdetector_api_request_duration_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"route"},
	)
	m.UploadBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "songdetector_api_upload_bytes",
			Help:    "Size distribution of uploaded audio files.",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
		},
	)
	m.CacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "songdetector_api_cache_hits_total",
			Help: "Analyses served from the result cache.",
		},
	)
	m.CacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "songdetector_api_cache_misses_total",
			Help: "Analyses that required a full pipeline run.",
		},
	)
}

// RecordRequest records one completed API request.
func (m *APIMetrics) RecordRequest(route string, status int, durationSeconds float64) {
	m.RequestTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordUpload records the size of an uploaded file.
func (m *APIMetrics) RecordUpload(sizeBytes int64) {
	m.UploadBytes.Observe(float64(sizeBytes))
}

// RecordCacheLookup records a result-cache hit or miss.
func (m *APIMetrics) RecordCacheLookup(hit bool) {
	if hit {
		m.CacheHits.Inc()
	} else {
		m.CacheMisses.Inc()
	}
}

// Describe implements the prometheus.Collector interface.
func (m *APIMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.RequestTotal.Describe(ch)
	m.RequestDuration.Describe(ch)
	ch <- m.UploadBytes.Desc()
	ch <- m.CacheHits.Desc()
	ch <- m.CacheMisses.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *APIMetrics) Collect(ch chan<- prometheus.Metric) {
	m.RequestTotal.Collect(ch)
	m.RequestDuration.Collect(ch)
	ch <- m.UploadBytes
	ch <- m.CacheHits
	ch <- m.CacheMisses
}
