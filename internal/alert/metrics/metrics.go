// Package metrics holds Prometheus collectors for alert processing.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for processed SOS requests.
const (
	OutcomeCreated         = "created"
	OutcomeRejected        = "rejected"
	OutcomeSubjectNotFound = "subject_not_found"
	OutcomeRateLimited     = "rate_limited"
	OutcomeError           = "error"
)

// Metrics holds Prometheus collectors for the alert domain.
type Metrics struct {
	AlertsProcessed      *prometheus.CounterVec
	AlertsResolved       prometheus.Counter
	ActiveAlerts         prometheus.Gauge
	NotificationAttempts *prometheus.CounterVec
	ProcessingLatency    prometheus.Histogram
	ShareLinksIssued     prometheus.Counter
}

// New registers and returns alert metrics collectors.
func New() *Metrics {
	return &Metrics{
		AlertsProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_alerts_processed_total",
			Help: "Total number of SOS requests processed, labeled by outcome",
		}, []string{"outcome"}),
		AlertsResolved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_alerts_resolved_total",
			Help: "Total number of alerts marked resolved",
		}),
		ActiveAlerts: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "lifeline_active_alerts",
			Help: "Current number of unresolved alerts",
		}),
		NotificationAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "lifeline_notification_attempts_total",
			Help: "Total notification attempts, labeled by channel and delivery result",
		}, []string{"channel", "delivered"}),
		ProcessingLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "lifeline_alert_processing_latency_seconds",
			Help:    "Latency of SOS alert processing in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ShareLinksIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "lifeline_share_links_issued_total",
			Help: "Total number of alert share links issued",
		}),
	}
}

func (m *Metrics) IncrementAlertsProcessed(outcome string) {
	m.AlertsProcessed.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementAlertsResolved() {
	m.AlertsResolved.Inc()
}

func (m *Metrics) IncrementActiveAlerts() {
	m.ActiveAlerts.Inc()
}

func (m *Metrics) DecrementActiveAlerts() {
	m.ActiveAlerts.Dec()
}

// IncrementNotificationAttempt records one channel attempt and whether it delivered.
func (m *Metrics) IncrementNotificationAttempt(channel string, delivered bool) {
	m.NotificationAttempts.WithLabelValues(channel, strconv.FormatBool(delivered)).Inc()
}

// ObserveProcessingLatency records end-to-end latency of one SOS request.
func (m *Metrics) ObserveProcessingLatency(durationSeconds float64) {
	m.ProcessingLatency.Observe(durationSeconds)
}

func (m *Metrics) IncrementShareLinksIssued() {
	m.ShareLinksIssued.Inc()
}
