// Package metrics provides Prometheus metrics for the janus counter client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Broadcast outcomes used as label values.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeInvalid  = "invalid"
)

// Intent results used as label values.
const (
	IntentSent    = "sent"
	IntentIllegal = "illegal"
	IntentFailed  = "failed"
	IntentInert   = "inert"
)

// Manager manages all Prometheus metrics for the client.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Reconciliation
	broadcasts       *prometheus.CounterVec
	joins            *prometheus.CounterVec
	reconcileLatency prometheus.Histogram
	counterValue     prometheus.Gauge
	counterInvalid   prometheus.Gauge

	// History view
	historyRows      prometheus.Gauge
	historyEvictions prometheus.Counter
	alertsPlayed     prometheus.Counter

	// Intents and notices
	intents *prometheus.CounterVec
	notices *prometheus.CounterVec

	// Transport
	framesReceived *prometheus.CounterVec
	framesSent     *prometheus.CounterVec
	transportState prometheus.Gauge

	// Inbound queue
	queueCapacity          prometheus.Gauge
	queueSize              prometheus.Gauge
	queueUtilization       prometheus.Gauge
	queueProcessingLatency prometheus.Histogram

	// Local control API
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
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
		namespace:        "janus",
		subsystem:        "client",
		histogramBuckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.broadcasts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "broadcasts_total",
		Help:        "Inbound update broadcasts by reconciliation outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.joins = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "joins_total",
		Help:        "Join acknowledgments by outcome",
		ConstLabels: m.constLabels,
	}, []string{"outcome"})

	m.reconcileLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reconcile_latency_milliseconds",
		Help:        "Time spent reconciling one inbound event",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.counterValue = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "counter_value",
		Help:        "Last authoritative counter value mirrored by the client",
		ConstLabels: m.constLabels,
	})

	m.counterInvalid = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "counter_invalid",
		Help:        "1 when the mirrored counter is outside the valid range",
		ConstLabels: m.constLabels,
	})

	m.historyRows = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_rows",
		Help:        "Rows currently held by the history view",
		ConstLabels: m.constLabels,
	})

	m.historyEvictions = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "history_evictions_total",
		Help:        "Rows evicted from the tail of the history view",
		ConstLabels: m.constLabels,
	})

	m.alertsPlayed = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "alerts_total",
		Help:        "Own-record alerts played",
		ConstLabels: m.constLabels,
	})

	m.intents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "intents_total",
		Help:        "Local +1/-1 intents by result",
		ConstLabels: m.constLabels,
	}, []string{"result"})

	m.notices = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "notices_total",
		Help:        "User-visible notices by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})

	m.framesReceived = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "frames_received_total",
		Help:        "Websocket frames received by event name",
		ConstLabels: m.constLabels,
	}, []string{"event"})

	m.framesSent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "frames_sent_total",
		Help:        "Websocket frames sent by event name",
		ConstLabels: m.constLabels,
	}, []string{"event"})

	m.transportState = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "transport_connected",
		Help:        "1 while the websocket channel is open",
		ConstLabels: m.constLabels,
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queue_capacity",
		Help:        "Capacity of the inbound event queue",
		ConstLabels: m.constLabels,
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queue_size",
		Help:        "Inbound events waiting for the reconciler",
		ConstLabels: m.constLabels,
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queue_utilization",
		Help:        "Inbound queue size over capacity",
		ConstLabels: m.constLabels,
	})

	m.queueProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queue_enqueue_latency_milliseconds",
		Help:        "Time the read pump waited to hand an event to the queue",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Control API requests by endpoint and method",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "Control API request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
}

// Reconciliation Functions.

// RecordBroadcast counts one inbound broadcast by outcome.
func RecordBroadcast(outcome string) {
	globalManager.broadcasts.WithLabelValues(outcome).Inc()
}

// RecordJoin counts one join acknowledgment by outcome.
func RecordJoin(outcome string) {
	globalManager.joins.WithLabelValues(outcome).Inc()
}

// RecordReconcileLatency records reconciliation latency.
func RecordReconcileLatency(latencyMs float64) {
	globalManager.reconcileLatency.Observe(latencyMs)
}

// UpdateCounter mirrors the counter value and its validity.
func UpdateCounter(value int64, invalid bool) {
	globalManager.counterValue.Set(float64(value))
	if invalid {
		globalManager.counterInvalid.Set(1)
	} else {
		globalManager.counterInvalid.Set(0)
	}
}

// History Functions.

// UpdateHistoryRows sets the number of rows in the history view.
func UpdateHistoryRows(rows int) {
	globalManager.historyRows.Set(float64(rows))
}

// RecordHistoryEviction counts one evicted row.
func RecordHistoryEviction() {
	globalManager.historyEvictions.Inc()
}

// RecordAlert counts one played alert.
func RecordAlert() {
	globalManager.alertsPlayed.Inc()
}

// RecordIntent counts one intent by result.
func RecordIntent(result string) {
	globalManager.intents.WithLabelValues(result).Inc()
}

// RecordNotice counts one surfaced notice.
func RecordNotice(kind string) {
	globalManager.notices.WithLabelValues(kind).Inc()
}

// Transport Functions.

// RecordFrameReceived counts one inbound frame.
func RecordFrameReceived(event string) {
	globalManager.framesReceived.WithLabelValues(event).Inc()
}

// RecordFrameSent counts one outbound frame.
func RecordFrameSent(event string) {
	globalManager.framesSent.WithLabelValues(event).Inc()
}

// UpdateTransportConnected flags whether the channel is open.
func UpdateTransportConnected(connected bool) {
	if connected {
		globalManager.transportState.Set(1)
		return
	}
	globalManager.transportState.Set(0)
}

// Queue Functions.

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueProcessingLatency records enqueue latency.
func RecordQueueProcessingLatency(latencyMs float64) {
	globalManager.queueProcessingLatency.Observe(latencyMs)
}

// HTTP Functions.

// RecordHTTPRequest increments the request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
