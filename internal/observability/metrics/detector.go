// Package metrics provides custom Prometheus metrics for the detector
// application.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// DetectorMetrics contains all Prometheus metrics related to classification
// operations.
type DetectorMetrics struct {
	ClassificationTotal    *prometheus.CounterVec
	ClassificationDuration *prometheus.HistogramVec
	ClassificationErrors   *prometheus.CounterVec
	DecodeDuration         *prometheus.HistogramVec
	ModelLoadedGauge       prometheus.Gauge

	registry *prometheus.Registry
}

// NewDetectorMetrics creates a new instance of DetectorMetrics registered
// on the given registry.
func NewDetectorMetrics(registry *prometheus.Registry) (*DetectorMetrics, error) {
	m := &DetectorMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, fmt.Errorf("failed to register detector metrics: %w", err)
	}
	return m, nil
}

func (m *DetectorMetrics) initMetrics() {
	m.ClassificationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songdetector_classifications_total",
			Help: "Total number of classifications partitioned by mode and verdict.",
		},
		[]string{"mode", "verdict"},
	)
	m.ClassificationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songdetector_classification_duration_seconds",
			Help:    "Time taken to classify one audio file.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"mode"},
	)
	m.ClassificationErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "songdetector_classification_errors_total",
			Help: "Total number of failed classifications partitioned by error category.",
		},
		[]string{"category"},
	)
	m.DecodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "songdetector_decode_duration_seconds",
			Help:    "Time taken to decode and resample one audio file.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"format"},
	)
	m.ModelLoadedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "songdetector_model_loaded",
			Help: "Whether a trained model is loaded (1) or heuristic mode is active (0).",
		},
	)
}

// RecordClassification records the outcome and duration of one
// classification.
func (m *DetectorMetrics) RecordClassification(mode string, isAI bool, durationSeconds float64) {
	verdict := "human"
	if isAI {
		verdict = "ai"
	}
	m.ClassificationTotal.WithLabelValues(mode, verdict).Inc()
	m.ClassificationDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordClassificationError records a failed classification.
func (m *DetectorMetrics) RecordClassificationError(category string) {
	m.ClassificationErrors.WithLabelValues(category).Inc()
}

// RecordDecode records the duration of an audio decode.
func (m *DetectorMetrics) RecordDecode(format string, durationSeconds float64) {
	m.DecodeDuration.WithLabelValues(format).Observe(durationSeconds)
}

// SetModelLoaded reflects the classifier facade's mode.
func (m *DetectorMetrics) SetModelLoaded(loaded bool) {
	if loaded {
		m.ModelLoadedGauge.Set(1)
	} else {
		m.ModelLoadedGauge.Set(0)
	}
}

// Describe implements the prometheus.Collector interface.
func (m *DetectorMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.ClassificationTotal.Describe(ch)
	m.ClassificationDuration.Describe(ch)
	m.ClassificationErrors.Describe(ch)
	m.DecodeDuration.Describe(ch)
	ch <- m.ModelLoadedGauge.Desc()
}

// Collect implements the prometheus.Collector interface.
func (m *DetectorMetrics) Collect(ch chan<- prometheus.Metric) {
	m.ClassificationTotal.Collect(ch)
	m.ClassificationDuration.Collect(ch)
	m.ClassificationErrors.Collect(ch)
	m.DecodeDuration.Collect(ch)
	ch <- m.ModelLoadedGauge
}
