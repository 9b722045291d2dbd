// Package metrics provides Prometheus metrics for the sitebench toolkit.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the toolkit.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Results store metrics
	recordsAppended  prometheus.Counter
	recordsDuplicate prometheus.Counter
	recordsRejected  prometheus.Counter
	storeSize        prometheus.Gauge

	// Evaluation metrics
	evaluationsTotal  prometheus.Counter
	evaluationErrors  prometheus.Counter
	evaluationLatency prometheus.Histogram

	// View builder metrics
	viewRows *prometheus.CounterVec

	// Chart adapter metrics
	chartArtifacts *prometheus.CounterVec

	// Run queue metrics
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge

	// Worker metrics
	workerActive prometheus.Gauge
	workerErrors prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sitebench",
		subsystem:        "experiment",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.recordsAppended = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_appended_total",
		Help:      "Total number of evaluation records appended to the store",
	})

	m.recordsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_duplicate_total",
		Help:      "Total number of records rejected as duplicates of an existing run key",
	})

	m.recordsRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_rejected_total",
		Help:      "Total number of records rejected for out-of-range metric values",
	})

	m.storeSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_records",
		Help:      "Current number of records held by the results store",
	})

	m.evaluationsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluations_total",
		Help:      "Total number of model evaluations performed",
	})

	m.evaluationErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_errors_total",
		Help:      "Total number of failed model evaluations",
	})

	m.evaluationLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_latency_milliseconds",
		Help:      "Histogram of model evaluation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.viewRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "view_rows_total",
		Help:      "Total number of long-form rows produced, labeled by view kind",
	}, []string{"view"})

	m.chartArtifacts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "chart_artifacts_total",
		Help:      "Total number of chart payload artifacts written, labeled by kind",
	}, []string{"kind"})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_queue_size",
		Help:      "Current number of queued run requests",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_queue_capacity",
		Help:      "Configured capacity of the run queue",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_queue_utilization",
		Help:      "Run queue utilization ratio (0-1)",
	})

	m.workerActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "workers_active",
		Help:      "Current number of active evaluation workers",
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of worker processing errors",
	})
}

// Registry returns the custom registry holding all toolkit metrics.
func Registry() *prometheus.Registry {
	return customRegistry
}

// Package-level helpers operating on the global manager.

// RecordAppend increments the appended-records counter.
func RecordAppend() {
	if globalManager.enabled {
		globalManager.recordsAppended.Inc()
	}
}

// RecordDuplicate increments the duplicate-records counter.
func RecordDuplicate() {
	if globalManager.enabled {
		globalManager.recordsDuplicate.Inc()
	}
}

// RecordRejected increments the rejected-records counter.
func RecordRejected() {
	if globalManager.enabled {
		globalManager.recordsRejected.Inc()
	}
}

// UpdateStoreSize sets the current store size gauge.
func UpdateStoreSize(n int) {
	if globalManager.enabled {
		globalManager.storeSize.Set(float64(n))
	}
}

// RecordEvaluation increments the evaluations counter.
func RecordEvaluation() {
	if globalManager.enabled {
		globalManager.evaluationsTotal.Inc()
	}
}

// RecordEvaluationError increments the evaluation error counter.
func RecordEvaluationError() {
	if globalManager.enabled {
		globalManager.evaluationErrors.Inc()
	}
}

// ObserveEvaluationLatency records an evaluation latency sample in milliseconds.
func ObserveEvaluationLatency(ms float64) {
	if globalManager.enabled {
		globalManager.evaluationLatency.Observe(ms)
	}
}

// AddViewRows adds produced long-form rows for a view kind.
func AddViewRows(view string, n int) {
	if globalManager.enabled {
		globalManager.viewRows.WithLabelValues(view).Add(float64(n))
	}
}

// RecordChartArtifact increments the artifact counter for a chart kind.
func RecordChartArtifact(kind string) {
	if globalManager.enabled {
		globalManager.chartArtifacts.WithLabelValues(kind).Inc()
	}
}

// UpdateQueueSize sets the run queue size gauge.
func UpdateQueueSize(n int) {
	if globalManager.enabled {
		globalManager.queueSize.Set(float64(n))
	}
}

// UpdateQueueCapacity sets the run queue capacity gauge.
func UpdateQueueCapacity(n int) {
	if globalManager.enabled {
		globalManager.queueCapacity.Set(float64(n))
	}
}

// UpdateQueueUtilization sets the run queue utilization gauge.
func UpdateQueueUtilization(ratio float64) {
	if globalManager.enabled {
		globalManager.queueUtilization.Set(ratio)
	}
}

// UpdateWorkerActive sets the active worker gauge.
func UpdateWorkerActive(n int) {
	if globalManager.enabled {
		globalManager.workerActive.Set(float64(n))
	}
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	if globalManager.enabled {
		globalManager.workerErrors.Inc()
	}
}
