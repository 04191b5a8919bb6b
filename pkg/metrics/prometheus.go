// Package metrics provides Prometheus metrics for the sharpness scoring service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for scoring requests.
const (
	OutcomeSuccess    = "success"
	OutcomeNotFound   = "not_found"
	OutcomeInvalid    = "invalid"
	OutcomeFailed     = "failed"
	defaultNamespace  = "sharpscore"
	defaultSubsystem  = "api"
	trainingSubsystem = "training"
)

// Manager owns every Prometheus collector the service exposes.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Scoring pipeline
	scoreRequests     *prometheus.CounterVec
	predictionLatency prometheus.Histogram
	recordsScored     prometheus.Histogram
	userScore         prometheus.Histogram

	// Collaborators
	explainLatency  prometheus.Histogram
	explainFailures prometheus.Counter
	storeLatency    *prometheus.HistogramVec
	storeFailures   *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Offline jobs
	trainingRows     prometheus.Gauge
	trainingDuration prometheus.Gauge
	trainingMSE      prometheus.Gauge
	trainingR2       prometheus.Gauge
	rowsGenerated    prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	customRegistry.MustRegister(collectors.NewGoCollector())
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		subsystem:        defaultSubsystem,
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // flat collector declarations
	auto := promauto.With(m.registry)

	m.scoreRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_requests_total",
		Help:      "Limit-increase scoring requests by outcome",
	}, []string{"outcome"})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_latency_milliseconds",
		Help:      "Time spent normalizing, encoding and predicting a user's records",
		Buckets:   m.histogramBuckets,
	})

	m.recordsScored = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_per_score",
		Help:      "Number of fingerprint records aggregated into one user score",
		Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
	})

	m.userScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "user_score",
		Help:      "Distribution of aggregated user sharpness scores (0 sharp, 100 casual)",
		Buckets:   prometheus.LinearBuckets(0, 10, 11),
	})

	m.explainLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "explanation_latency_milliseconds",
		Help:      "Latency of the explanation text collaborator",
		Buckets:   m.histogramBuckets,
	})

	m.explainFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "explanation_failures_total",
		Help:      "Failed calls to the explanation text collaborator",
	})

	m.storeLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_latency_milliseconds",
		Help:      "Record store operation latency by driver and operation",
		Buckets:   m.histogramBuckets,
	}, []string{"driver", "operation"})

	m.storeFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_failures_total",
		Help:      "Record store failures by driver and operation",
	}, []string{"driver", "operation"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.trainingRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: trainingSubsystem,
		Name:      "rows",
		Help:      "Rows used by the last training run",
	})

	m.trainingDuration = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: trainingSubsystem,
		Name:      "duration_seconds",
		Help:      "Wall time of the last model fit",
	})

	m.trainingMSE = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: trainingSubsystem,
		Name:      "test_mse",
		Help:      "Mean squared error on the held-out set of the last training run",
	})

	m.trainingR2 = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: trainingSubsystem,
		Name:      "test_r2",
		Help:      "R squared on the held-out set of the last training run",
	})

	m.rowsGenerated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: trainingSubsystem,
		Name:      "rows_generated_total",
		Help:      "Synthetic dataset rows generated",
	})
}

// RecordScoreRequest counts a scoring request by outcome.
func (m *Manager) RecordScoreRequest(outcome string) {
	if m.enabled {
		m.scoreRequests.WithLabelValues(outcome).Inc()
	}
}

// RecordPrediction records the pipeline latency, record count and resulting score.
func (m *Manager) RecordPrediction(latencyMs float64, records int, score int) {
	if !m.enabled {
		return
	}
	m.predictionLatency.Observe(latencyMs)
	m.recordsScored.Observe(float64(records))
	m.userScore.Observe(float64(score))
}

// RecordExplanation records a collaborator call; failed calls are counted separately.
func (m *Manager) RecordExplanation(latencyMs float64, failed bool) {
	if !m.enabled {
		return
	}
	m.explainLatency.Observe(latencyMs)
	if failed {
		m.explainFailures.Inc()
	}
}

// RecordStoreOperation records a store call for driver/operation.
func (m *Manager) RecordStoreOperation(driver, operation string, latencyMs float64, failed bool) {
	if !m.enabled {
		return
	}
	m.storeLatency.WithLabelValues(driver, operation).Observe(latencyMs)
	if failed {
		m.storeFailures.WithLabelValues(driver, operation).Inc()
	}
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordTraining stores the summary of a completed training run.
func (m *Manager) RecordTraining(rows int, durationSeconds, mse, r2 float64) {
	if !m.enabled {
		return
	}
	m.trainingRows.Set(float64(rows))
	m.trainingDuration.Set(durationSeconds)
	m.trainingMSE.Set(mse)
	m.trainingR2.Set(r2)
}

// AddRowsGenerated counts synthetic rows produced by the dataset builder.
func (m *Manager) AddRowsGenerated(n int) {
	if m.enabled && n > 0 {
		m.rowsGenerated.Add(float64(n))
	}
}

// Package-level helpers on the global manager.

// RecordScoreRequest counts a scoring request by outcome.
func RecordScoreRequest(outcome string) { globalManager.RecordScoreRequest(outcome) }

// RecordPrediction records the pipeline latency, record count and resulting score.
func RecordPrediction(latencyMs float64, records int, score int) {
	globalManager.RecordPrediction(latencyMs, records, score)
}

// RecordExplanation records a collaborator call.
func RecordExplanation(latencyMs float64, failed bool) {
	globalManager.RecordExplanation(latencyMs, failed)
}

// RecordStoreOperation records a store call.
func RecordStoreOperation(driver, operation string, latencyMs float64, failed bool) {
	globalManager.RecordStoreOperation(driver, operation, latencyMs, failed)
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordTraining stores the summary of a completed training run.
func RecordTraining(rows int, durationSeconds, mse, r2 float64) {
	globalManager.RecordTraining(rows, durationSeconds, mse, r2)
}

// AddRowsGenerated counts synthetic rows produced by the dataset builder.
func AddRowsGenerated(n int) { globalManager.AddRowsGenerated(n) }

// GetRegistry returns the registry that backs the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
