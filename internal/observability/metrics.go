package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	apiRequestsTotal      *prometheus.CounterVec
	apiLatencySeconds     *prometheus.HistogramVec
	apiErrorsTotal        *prometheus.CounterVec
	chatConnectionsActive prometheus.Gauge
	chatMessagesTotal     *prometheus.CounterVec
	feedDeliveriesTotal   prometheus.Counter
	feedEventsDropped     *prometheus.CounterVec
	feedReloadsTotal      prometheus.Counter
	uploadRequestsTotal   *prometheus.CounterVec
	uploadRejectedTotal   *prometheus.CounterVec
	uploadLatencySeconds  prometheus.Histogram
	notificationsTotal    *prometheus.CounterVec
	sseClientsActive      prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindlift_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mindlift_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindlift_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		chatConnectionsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mindlift_chat_connections_active",
			Help: "Number of currently open chat websocket connections.",
		})

		chatMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindlift_chat_messages_total",
			Help: "Total chat writes processed, by kind (message or reaction).",
		}, []string{"kind"})

		feedDeliveriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mindlift_feed_deliveries_total",
			Help: "Total feed snapshots delivered to subscribers.",
		})

		feedEventsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindlift_feed_events_dropped_total",
			Help: "Feed events skipped during delta application, by reason.",
		}, []string{"reason"})

		feedReloadsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mindlift_feed_reloads_total",
			Help: "Full history rebuilds performed after dropped feed events.",
		})

		uploadRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindlift_upload_requests_total",
			Help: "Total accepted uploads, by detected type.",
		}, []string{"type"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindlift_upload_rejected_total",
			Help: "Total rejected uploads, by reason.",
		}, []string{"reason"})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mindlift_upload_latency_seconds",
			Help:    "Latency distribution for upload handling.",
			Buckets: prometheus.DefBuckets,
		})

		notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mindlift_notifications_published_total",
			Help: "Total notifications published, by type.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mindlift_sse_clients_active",
			Help: "Number of currently connected notification stream clients.",
		})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			chatConnectionsActive,
			chatMessagesTotal,
			feedDeliveriesTotal,
			feedEventsDropped,
			feedReloadsTotal,
			uploadRequestsTotal,
			uploadRejectedTotal,
			uploadLatencySeconds,
			notificationsTotal,
			sseClientsActive,
		)
	})
}

// APIRequests exposes the counter for API requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for API requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for API error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// ChatConnections exposes the gauge of open chat connections.
func ChatConnections() prometheus.Gauge {
	RegisterMetrics()
	return chatConnectionsActive
}

// ChatMessages exposes the counter for processed chat writes.
func ChatMessages() *prometheus.CounterVec {
	RegisterMetrics()
	return chatMessagesTotal
}

// FeedDeliveries exposes the counter of delivered feed snapshots.
func FeedDeliveries() prometheus.Counter {
	RegisterMetrics()
	return feedDeliveriesTotal
}

// FeedEventsDropped exposes the counter of skipped feed events.
func FeedEventsDropped() *prometheus.CounterVec {
	RegisterMetrics()
	return feedEventsDropped
}

// FeedReloads exposes the counter of full feed view rebuilds.
func FeedReloads() prometheus.Counter {
	RegisterMetrics()
	return feedReloadsTotal
}

// UploadRequests exposes the counter for accepted uploads.
func UploadRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRequestsTotal
}

// UploadRejected exposes the counter for rejected uploads.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// UploadLatency exposes the upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}

// NotificationsPublished exposes the counter of published notifications.
func NotificationsPublished() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsTotal
}

// SSEClients exposes the gauge of connected notification stream clients.
func SSEClients() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
