// Package metrics provides Prometheus metrics for the cvrole service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the cvrole service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Classification outcomes
	classifications     *prometheus.CounterVec
	classificationError *prometheus.CounterVec
	noFeatureDocuments  prometheus.Counter
	confidence          prometheus.Histogram
	skillMatchPercent   prometheus.Histogram
	extractedChars      prometheus.Histogram
	documentsByType     *prometheus.CounterVec

	// Pipeline stage latency
	stageLatency *prometheus.HistogramVec

	// Model artifact
	modelLoads        *prometheus.CounterVec
	modelLoadDuration prometheus.Histogram
	modelLoaded       prometheus.Gauge
	modelClasses      prometheus.Gauge
	modelFeatures     prometheus.Gauge

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	uploadBytes         prometheus.Histogram

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
		namespace:        "cvrole",
		subsystem:        "classifier",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.classifications = auto.NewCounterVec(
		m.counterOpts("classifications_total", "Total number of documents classified, by predicted label"),
		[]string{"label"},
	)
	m.classificationError = auto.NewCounterVec(
		m.counterOpts("classification_errors_total", "Total number of failed requests, by error kind"),
		[]string{"kind"},
	)
	m.noFeatureDocuments = auto.NewCounter(
		m.counterOpts("no_feature_documents_total", "Documents that contained no known vocabulary term"),
	)
	m.confidence = auto.NewHistogram(m.histogramOpts(
		"confidence_percent", "Distribution of reported confidence percentages",
		[]float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 99, 100},
	))
	m.skillMatchPercent = auto.NewHistogram(m.histogramOpts(
		"skill_match_percent", "Distribution of skill match percentages",
		[]float64{0, 5, 10, 20, 30, 40, 50, 75, 100},
	))
	m.extractedChars = auto.NewHistogram(m.histogramOpts(
		"extracted_characters", "Number of characters extracted per document",
		prometheus.ExponentialBuckets(64, 4, 8),
	))
	m.documentsByType = auto.NewCounterVec(
		m.counterOpts("documents_total", "Total number of documents received, by resolved type"),
		[]string{"type"},
	)

	m.stageLatency = auto.NewHistogramVec(
		m.histogramOpts("stage_latency_milliseconds", "Pipeline stage latency in milliseconds", m.histogramBuckets),
		[]string{"stage"},
	)

	m.modelLoads = auto.NewCounterVec(
		m.counterOpts("model_loads_total", "Model artifact load attempts, by result"),
		[]string{"result"},
	)
	m.modelLoadDuration = auto.NewHistogram(m.histogramOpts(
		"model_load_duration_milliseconds", "Model artifact load duration in milliseconds", m.histogramBuckets,
	))
	m.modelLoaded = auto.NewGauge(m.gaugeOpts("model_loaded", "1 when a model artifact is loaded"))
	m.modelClasses = auto.NewGauge(m.gaugeOpts("model_classes", "Number of labels of the loaded model"))
	m.modelFeatures = auto.NewGauge(m.gaugeOpts("model_features", "Feature width of the loaded model"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.uploadBytes = auto.NewHistogram(m.histogramOpts(
		"upload_bytes", "Size of uploaded documents in bytes",
		prometheus.ExponentialBuckets(1024, 4, 8),
	))

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// RecordClassification counts a successful classification and its scores.
func RecordClassification(label string, confidence float64) {
	globalManager.classifications.WithLabelValues(label).Inc()
	globalManager.confidence.Observe(confidence)
}

// RecordNoFeatures counts a document without a single known term.
func RecordNoFeatures() {
	globalManager.noFeatureDocuments.Inc()
}

// RecordClassificationError counts a failed request by error kind.
func RecordClassificationError(kind string) {
	globalManager.classificationError.WithLabelValues(kind).Inc()
}

// RecordSkillMatch records the skill match percentage of a document.
func RecordSkillMatch(percentage float64) {
	globalManager.skillMatchPercent.Observe(percentage)
}

// RecordDocument counts a received document and its extracted length.
func RecordDocument(docType string, chars int) {
	globalManager.documentsByType.WithLabelValues(docType).Inc()
	globalManager.extractedChars.Observe(float64(chars))
}

// RecordStageLatency records the latency of one pipeline stage.
func RecordStageLatency(stage string, latencyMs float64) {
	globalManager.stageLatency.WithLabelValues(stage).Observe(latencyMs)
}

// RecordModelLoad records a model load attempt. classes and features are
// only used on success.
func RecordModelLoad(ok bool, latencyMs float64, classes, features int) {
	globalManager.modelLoadDuration.Observe(latencyMs)
	if !ok {
		globalManager.modelLoads.WithLabelValues("error").Inc()
		return
	}
	globalManager.modelLoads.WithLabelValues("success").Inc()
	globalManager.modelLoaded.Set(1)
	globalManager.modelClasses.Set(float64(classes))
	globalManager.modelFeatures.Set(float64(features))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordUploadSize records the size of an uploaded document.
func RecordUploadSize(bytes int64) {
	globalManager.uploadBytes.Observe(float64(bytes))
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
