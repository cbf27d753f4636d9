// Package metrics provides Prometheus metrics for the model routing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the routing service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Feedback pipeline
	feedbackProcessed *prometheus.CounterVec
	feedbackRejected  *prometheus.CounterVec
	ledgerAppendLatency prometheus.Histogram
	ledgerAppendErrors  prometheus.Counter
	scoreApplyLatency   prometheus.Histogram

	// Ranking
	rankingUpdateLatency prometheus.Histogram
	rankingQueryLatency  prometheus.Histogram
	rankedModels         *prometheus.GaugeVec
	registeredModels     prometheus.Gauge

	// Routing
	modelsSuspended   *prometheus.CounterVec
	modelsReactivated *prometheus.CounterVec
	noAvailableModel  *prometheus.CounterVec
	candidatesServed  *prometheus.CounterVec

	// Outcome report queue and workers
	queueCapacity           prometheus.Gauge
	queueSize               prometheus.Gauge
	queueEnqueues           prometheus.Counter
	queueDequeues           prometheus.Counter
	queueEnqueueErrors      *prometheus.CounterVec
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter
	outcomesProcessed       *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "llmrouting",
		subsystem:        "ranking",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // registration of every metric in one place
	auto := promauto.With(m.registry)

	m.feedbackProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_processed_total",
		Help:      "Total number of feedback events applied, by kind",
	}, []string{"kind"})

	m.feedbackRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "feedback_rejected_total",
		Help:      "Total number of feedback events rejected, by reason",
	}, []string{"reason"})

	m.ledgerAppendLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_append_latency_milliseconds",
		Help:      "Histogram of feedback ledger append latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.ledgerAppendErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ledger_append_errors_total",
		Help:      "Total number of failed ledger appends",
	})

	m.scoreApplyLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "score_apply_latency_milliseconds",
		Help:      "Histogram of score delta application latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rankingUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "update_latency_milliseconds",
		Help:      "Histogram of tier index re-insertion latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rankingQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "query_latency_milliseconds",
		Help:      "Histogram of tier index read latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rankedModels = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ranked_models",
		Help:      "Number of models ranked per tier",
	}, []string{"tier"})

	m.registeredModels = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "registered_models",
		Help:      "Number of models registered in the score store",
	})

	m.modelsSuspended = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "routing",
		Name:      "models_suspended_total",
		Help:      "Total number of suspensions after consecutive failures, by tier",
	}, []string{"tier"})

	m.modelsReactivated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "routing",
		Name:      "models_reactivated_total",
		Help:      "Total number of suspensions lifted after cooldown, by tier",
	}, []string{"tier"})

	m.noAvailableModel = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "routing",
		Name:      "no_available_model_total",
		Help:      "Times a tier had no active, non-suspended candidate",
	}, []string{"tier"})

	m.candidatesServed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "routing",
		Name:      "candidates_served_total",
		Help:      "Total number of candidate list reads, by tier",
	}, []string{"tier"})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "capacity",
		Help:      "Configured capacity of the outcome report queue",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "size",
		Help:      "Current number of queued outcome reports",
	})

	m.queueEnqueues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "enqueues_total",
		Help:      "Total number of outcome reports enqueued",
	})

	m.queueDequeues = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "dequeues_total",
		Help:      "Total number of outcome reports dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "queue",
		Name:      "enqueue_errors_total",
		Help:      "Total number of rejected enqueues, by reason",
	}, []string{"reason"})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "count",
		Help:      "Number of outcome report workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "processing_latency_milliseconds",
		Help:      "Histogram of outcome report processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "errors_total",
		Help:      "Total number of failed outcome report applications",
	})

	m.outcomesProcessed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "worker",
		Name:      "outcomes_processed_total",
		Help:      "Total number of outcome reports applied, by outcome",
	}, []string{"outcome"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "Histogram of HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Histogram of average GC pause time in milliseconds",
		Buckets:   m.histogramBuckets,
	})
}

// GetRegistry returns the custom registry used for scraping.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Feedback pipeline helpers.

func RecordFeedbackProcessed(kind string) { globalManager.feedbackProcessed.WithLabelValues(kind).Inc() }
func RecordFeedbackRejected(reason string) {
	globalManager.feedbackRejected.WithLabelValues(reason).Inc()
}
func RecordLedgerAppendLatency(ms float64) { globalManager.ledgerAppendLatency.Observe(ms) }
func RecordLedgerAppendError()             { globalManager.ledgerAppendErrors.Inc() }
func RecordScoreApplyLatency(ms float64)   { globalManager.scoreApplyLatency.Observe(ms) }

// Ranking helpers.

func RecordRankingUpdateLatency(ms float64) { globalManager.rankingUpdateLatency.Observe(ms) }
func RecordRankingQueryLatency(ms float64)  { globalManager.rankingQueryLatency.Observe(ms) }
func UpdateRankedModels(tier string, n int) {
	globalManager.rankedModels.WithLabelValues(tier).Set(float64(n))
}
func UpdateRegisteredModels(n int) { globalManager.registeredModels.Set(float64(n)) }

// Routing helpers.

func RecordModelSuspended(tier string) { globalManager.modelsSuspended.WithLabelValues(tier).Inc() }
func RecordModelReactivated(tier string) {
	globalManager.modelsReactivated.WithLabelValues(tier).Inc()
}
func RecordNoAvailableModel(tier string) {
	globalManager.noAvailableModel.WithLabelValues(tier).Inc()
}
func RecordCandidatesServed(tier string) {
	globalManager.candidatesServed.WithLabelValues(tier).Inc()
}

// Queue and worker helpers.

func UpdateQueueCapacity(n int) { globalManager.queueCapacity.Set(float64(n)) }
func UpdateQueueSize(n int)     { globalManager.queueSize.Set(float64(n)) }
func RecordQueueEnqueue()       { globalManager.queueEnqueues.Inc() }
func RecordQueueDequeue()       { globalManager.queueDequeues.Inc() }
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}
func UpdateWorkerCount(n int)                 { globalManager.workerCount.Set(float64(n)) }
func RecordWorkerProcessingLatency(ms float64) { globalManager.workerProcessingLatency.Observe(ms) }
func RecordWorkerError()                      { globalManager.workerErrors.Inc() }
func RecordOutcomeProcessed(outcome string) {
	globalManager.outcomesProcessed.WithLabelValues(outcome).Inc()
}

// HTTP helpers.

func RecordHTTPRequest(endpoint, method, status string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, status).Inc()
}

func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
}

// System helpers.

func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }
func UpdateSystemGoroutineCount(n int)     { globalManager.systemGoroutineCount.Set(float64(n)) }
func RecordSystemGCPauseTime(ms float64)   { globalManager.systemGCPauseTime.Observe(ms) }
