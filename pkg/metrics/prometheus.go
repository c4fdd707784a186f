// Package metrics exposes Prometheus metrics for the grading service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every metric of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// evaluations
	evaluations         *prometheus.CounterVec
	evaluationLatency   *prometheus.HistogramVec
	measurementsDup     prometheus.Counter
	measurementsDropped prometheus.Counter

	// queue and workers
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	workerCount        prometheus.Gauge
	workerLatency      prometheus.Histogram
	workerErrors       prometheus.Counter

	// storage
	storedResults  prometheus.Gauge
	evictedResults prometheus.Counter
	catalogEntries *prometheus.GaugeVec

	// http
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry served on /metrics

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // backs the package-level recorders

// NewManager builds and registers all metrics.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "sportgrade",
		subsystem:        "grading",
		histogramBuckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.init()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) init() {
	auto := promauto.With(m.registry)

	m.evaluations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluations_total",
		Help:        "Evaluations by measurement kind and outcome (ok, config_error, input_error, error)",
		ConstLabels: m.constLabels,
	}, []string{"kind", "outcome"})
	m.evaluationLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "evaluation_latency_milliseconds",
		Help:        "Evaluation latency in milliseconds by measurement kind",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"kind"})
	m.measurementsDup = m.counter("measurements_duplicate_total", "Measurements rejected as duplicates")
	m.measurementsDropped = m.counter("measurements_dropped_total", "Measurements dropped because the queue was full or closed")

	m.queueSize = m.gauge("queue_size", "Measurements waiting in the queue")
	m.queueCapacity = m.gauge("queue_capacity", "Queue capacity")
	m.queueEnqueued = m.counter("queue_enqueued_total", "Measurements enqueued")
	m.queueDequeued = m.counter("queue_dequeued_total", "Measurements dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Failed enqueue attempts")
	m.workerCount = m.gauge("worker_count", "Running workers")
	m.workerLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "worker_processing_latency_milliseconds",
		Help:        "Time a worker spends on one measurement in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.workerErrors = m.counter("worker_errors_total", "Measurements a worker failed to evaluate")

	m.storedResults = m.gauge("stored_results", "Result records held in memory")
	m.evictedResults = m.counter("results_evicted_total", "Result records evicted at capacity")
	m.catalogEntries = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "catalog_entries",
		Help:        "Loaded catalog entries by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordEvaluation counts one evaluation and observes its latency.
func (m *Manager) RecordEvaluation(kind, outcome string, latencyMs float64) {
	m.evaluations.WithLabelValues(kind, outcome).Inc()
	m.evaluationLatency.WithLabelValues(kind).Observe(latencyMs)
}

func (m *Manager) RecordMeasurementDuplicate() { m.measurementsDup.Inc() }
func (m *Manager) RecordMeasurementDropped()   { m.measurementsDropped.Inc() }

func (m *Manager) UpdateQueueSize(n int)     { m.queueSize.Set(float64(n)) }
func (m *Manager) UpdateQueueCapacity(n int) { m.queueCapacity.Set(float64(n)) }
func (m *Manager) RecordQueueEnqueue()       { m.queueEnqueued.Inc() }
func (m *Manager) RecordQueueDequeue()       { m.queueDequeued.Inc() }
func (m *Manager) RecordQueueEnqueueError()  { m.queueEnqueueErrors.Inc() }

func (m *Manager) UpdateWorkerCount(n int) { m.workerCount.Set(float64(n)) }
func (m *Manager) RecordWorkerProcessingLatency(ms float64) {
	m.workerLatency.Observe(ms)
}
func (m *Manager) RecordWorkerError() { m.workerErrors.Inc() }

func (m *Manager) UpdateStoredResults(n int) { m.storedResults.Set(float64(n)) }
func (m *Manager) RecordResultEvicted()      { m.evictedResults.Inc() }
func (m *Manager) UpdateCatalogEntries(kind string, n int) {
	m.catalogEntries.WithLabelValues(kind).Set(float64(n))
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// Package-level recorders on the global manager.

func RecordEvaluation(kind, outcome string, latencyMs float64) {
	globalManager.RecordEvaluation(kind, outcome, latencyMs)
}
func RecordMeasurementDuplicate()              { globalManager.RecordMeasurementDuplicate() }
func RecordMeasurementDropped()                { globalManager.RecordMeasurementDropped() }
func UpdateQueueSize(n int)                    { globalManager.UpdateQueueSize(n) }
func UpdateQueueCapacity(n int)                { globalManager.UpdateQueueCapacity(n) }
func RecordQueueEnqueue()                      { globalManager.RecordQueueEnqueue() }
func RecordQueueDequeue()                      { globalManager.RecordQueueDequeue() }
func RecordQueueEnqueueError()                 { globalManager.RecordQueueEnqueueError() }
func UpdateWorkerCount(n int)                  { globalManager.UpdateWorkerCount(n) }
func RecordWorkerProcessingLatency(ms float64) { globalManager.RecordWorkerProcessingLatency(ms) }
func RecordWorkerError()                       { globalManager.RecordWorkerError() }
func UpdateStoredResults(n int)                { globalManager.UpdateStoredResults(n) }
func RecordResultEvicted()                     { globalManager.RecordResultEvicted() }
func UpdateCatalogEntries(kind string, n int)  { globalManager.UpdateCatalogEntries(kind, n) }
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// GetRegistry returns the registry the global manager registers on.
func GetRegistry() *prometheus.Registry { return customRegistry }

// Handler serves the global registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

var runtimeOnce sync.Once //nolint:gochecknoglobals // guards RegisterRuntimeCollectors

// RegisterRuntimeCollectors adds the Go runtime and process collectors to the
// global registry. Calling it again is a no-op.
func RegisterRuntimeCollectors() {
	runtimeOnce.Do(func() {
		customRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}
