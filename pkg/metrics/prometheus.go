// Package metrics provides Prometheus metrics for the hireflow
// scoring service.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Default metrics configuration constants.
const (
	defaultNamespace = "hireflow"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Scoring pipeline
	assessmentsScored prometheus.Counter
	scoringErrors     prometheus.Counter
	scoringLatency    prometheus.Histogram
	stageTransitions  *prometheus.CounterVec

	// Cache and rate limiter
	cacheHits          prometheus.Counter
	cacheMisses        prometheus.Counter
	cacheErrors        prometheus.Counter
	rateLimitRejected  prometheus.Counter

	// Webhook ingestion
	webhookEvents       *prometheus.CounterVec
	webhookUnauthorized prometheus.Counter
	emailEvents         *prometheus.CounterVec

	// Notification dispatch
	notificationsSent   *prometheus.CounterVec
	notificationErrors  prometheus.Counter

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// Runtime health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var (
	globalManager *Manager //nolint:gochecknoglobals // intentional singleton metrics manager
	initOnce      sync.Once
)

// Init builds and registers the global manager. Safe to call more
// than once; only the first call takes effect.
func Init(opts ...Option) {
	initOnce.Do(func() {
		globalManager = newManager(opts...)
	})
}

func get() *Manager {
	if globalManager == nil {
		Init()
	}
	return globalManager
}

// GetRegistry exposes the manager's registry for the /healthz
// prometheus handler.
func GetRegistry() *prometheus.Registry {
	return get().registry
}

func newManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        defaultNamespace,
		enabled:          true,
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}
	gaugeOpts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help}
	}
	histoOpts := func(name, help string) prometheus.HistogramOpts {
		return prometheus.HistogramOpts{
			Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
			Buckets: m.histogramBuckets,
		}
	}

	m.assessmentsScored = prometheus.NewCounter(factory("assessments_scored_total", "Assessments successfully scored"))
	m.scoringErrors = prometheus.NewCounter(factory("scoring_errors_total", "Scoring backend failures"))
	m.scoringLatency = prometheus.NewHistogram(histoOpts("scoring_latency_ms", "Scoring call latency in milliseconds"))
	m.stageTransitions = prometheus.NewCounterVec(factory("stage_transitions_total", "Pipeline stage transitions by target stage"), []string{"stage"})

	m.cacheHits = prometheus.NewCounter(factory("cache_hits_total", "Cache hits"))
	m.cacheMisses = prometheus.NewCounter(factory("cache_misses_total", "Cache misses"))
	m.cacheErrors = prometheus.NewCounter(factory("cache_errors_total", "Swallowed cache backend errors"))
	m.rateLimitRejected = prometheus.NewCounter(factory("rate_limit_rejected_total", "Requests over the rate limit"))

	m.webhookEvents = prometheus.NewCounterVec(factory("webhook_events_total", "Internal webhook events by name"), []string{"event"})
	m.webhookUnauthorized = prometheus.NewCounter(factory("webhook_unauthorized_total", "Rejected webhook deliveries"))
	m.emailEvents = prometheus.NewCounterVec(factory("email_events_total", "Email provider delivery events by type"), []string{"type"})

	m.notificationsSent = prometheus.NewCounterVec(factory("notifications_dispatched_total", "Notification triggers dispatched by kind"), []string{"kind"})
	m.notificationErrors = prometheus.NewCounter(factory("notification_errors_total", "Failed notification dispatches"))

	m.httpRequests = prometheus.NewCounterVec(factory("http_requests_total", "HTTP requests by endpoint, method and status"), []string{"endpoint", "method", "status"})
	m.httpRequestDuration = prometheus.NewHistogramVec(histoOpts("http_request_duration_ms", "HTTP request duration in milliseconds"), []string{"endpoint", "method", "status"})

	m.errorsByComponent = prometheus.NewCounterVec(factory("errors_total", "Errors by component and reason"), []string{"component", "reason"})

	m.systemMemoryUsage = prometheus.NewGauge(gaugeOpts("system_memory_bytes", "Allocated heap bytes"))
	m.systemGoroutineCount = prometheus.NewGauge(gaugeOpts("system_goroutines", "Live goroutines"))
	m.systemGCPauseTime = prometheus.NewHistogram(histoOpts("system_gc_pause_ms", "Average GC pause in milliseconds"))

	m.registry.MustRegister(
		m.assessmentsScored, m.scoringErrors, m.scoringLatency, m.stageTransitions,
		m.cacheHits, m.cacheMisses, m.cacheErrors, m.rateLimitRejected,
		m.webhookEvents, m.webhookUnauthorized, m.emailEvents,
		m.notificationsSent, m.notificationErrors,
		m.httpRequests, m.httpRequestDuration,
		m.errorsByComponent,
		m.systemMemoryUsage, m.systemGoroutineCount, m.systemGCPauseTime,
	)
	return m
}

// RecordAssessmentScored increments the scored-assessments counter.
func RecordAssessmentScored() {
	if m := get(); m.enabled {
		m.assessmentsScored.Inc()
	}
}

// RecordScoringError counts a scoring backend failure.
func RecordScoringError() {
	if m := get(); m.enabled {
		m.scoringErrors.Inc()
	}
}

// RecordScoringLatency observes one scoring call duration.
func RecordScoringLatency(ms float64) {
	if m := get(); m.enabled {
		m.scoringLatency.Observe(ms)
	}
}

// RecordStageTransition counts a pipeline transition into stage.
func RecordStageTransition(stage string) {
	if m := get(); m.enabled {
		m.stageTransitions.WithLabelValues(stage).Inc()
	}
}

// RecordCacheHit counts a cache hit.
func RecordCacheHit() {
	if m := get(); m.enabled {
		m.cacheHits.Inc()
	}
}

// RecordCacheMiss counts a cache miss.
func RecordCacheMiss() {
	if m := get(); m.enabled {
		m.cacheMisses.Inc()
	}
}

// RecordCacheError counts a swallowed cache backend error.
func RecordCacheError() {
	if m := get(); m.enabled {
		m.cacheErrors.Inc()
	}
}

// RecordRateLimitRejected counts a request over the limit.
func RecordRateLimitRejected() {
	if m := get(); m.enabled {
		m.rateLimitRejected.Inc()
	}
}

// RecordWebhookEvent counts an internal webhook event by name.
func RecordWebhookEvent(event string) {
	if m := get(); m.enabled {
		m.webhookEvents.WithLabelValues(event).Inc()
	}
}

// RecordWebhookUnauthorized counts a rejected webhook delivery.
func RecordWebhookUnauthorized() {
	if m := get(); m.enabled {
		m.webhookUnauthorized.Inc()
	}
}

// RecordEmailEvent counts an email delivery event by type.
func RecordEmailEvent(eventType string) {
	if m := get(); m.enabled {
		m.emailEvents.WithLabelValues(eventType).Inc()
	}
}

// RecordNotificationDispatched counts a dispatched trigger by kind.
func RecordNotificationDispatched(kind string) {
	if m := get(); m.enabled {
		m.notificationsSent.WithLabelValues(kind).Inc()
	}
}

// RecordNotificationError counts a failed dispatch.
func RecordNotificationError() {
	if m := get(); m.enabled {
		m.notificationErrors.Inc()
	}
}

// RecordHTTPRequest counts one request.
func RecordHTTPRequest(endpoint, method, status string) {
	if m := get(); m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, status).Inc()
	}
}

// RecordHTTPRequestDuration observes one request duration.
func RecordHTTPRequestDuration(endpoint, method, status string, ms float64) {
	if m := get(); m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, status).Observe(ms)
	}
}

// RecordErrorByComponent counts an error by component and reason.
func RecordErrorByComponent(component, reason string) {
	if m := get(); m.enabled {
		m.errorsByComponent.WithLabelValues(component, reason).Inc()
	}
}

// UpdateSystemMemoryUsage sets the allocated heap gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if m := get(); m.enabled {
		m.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if m := get(); m.enabled {
		m.systemGoroutineCount.Set(float64(count))
	}
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(ms float64) {
	if m := get(); m.enabled {
		m.systemGCPauseTime.Observe(ms)
	}
}
