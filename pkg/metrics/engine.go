package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records allocation engine outcomes.
type EngineMetrics struct {
	decisionDuration *prometheus.HistogramVec
	granted          *prometheus.CounterVec
	rejected         *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	outboxPublished  prometheus.Counter
	outboxFailed     prometheus.Counter
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	decisionDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "allocation_decision_duration_seconds",
		Help:    "Duration of allocation decisions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"category"})
	granted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_granted_total",
		Help: "Assignments created, by category.",
	}, []string{"category"})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_rejected_total",
		Help: "Allocation requests rejected, by reason code.",
	}, []string{"code"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_transitions_total",
		Help: "Assignment status transitions, by target status.",
	}, []string{"status"})
	outboxPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events published to Pub/Sub.",
	})
	outboxFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "Outbox publish attempts that failed.",
	})
	reg.MustRegister(decisionDuration, granted, rejected, transitions, outboxPublished, outboxFailed)
	return &EngineMetrics{
		decisionDuration: decisionDuration,
		granted:          granted,
		rejected:         rejected,
		transitions:      transitions,
		outboxPublished:  outboxPublished,
		outboxFailed:     outboxFailed,
	}
}

// ObserveDecision records how long an allocation decision took.
func (m *EngineMetrics) ObserveDecision(category string, duration time.Duration) {
	if m == nil || m.decisionDuration == nil {
		return
	}
	m.decisionDuration.WithLabelValues(normalizeLabel(category)).Observe(duration.Seconds())
}

// IncGranted increments the granted counter for the category.
func (m *EngineMetrics) IncGranted(category string) {
	if m == nil || m.granted == nil {
		return
	}
	m.granted.WithLabelValues(normalizeLabel(category)).Inc()
}

// IncRejected increments the rejected counter for the reason code.
func (m *EngineMetrics) IncRejected(code string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncTransition increments the transition counter for the target status.
func (m *EngineMetrics) IncTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}

// IncOutboxPublished counts a successful outbox publish.
func (m *EngineMetrics) IncOutboxPublished() {
	if m == nil || m.outboxPublished == nil {
		return
	}
	m.outboxPublished.Inc()
}

// IncOutboxFailed counts a failed outbox publish attempt.
func (m *EngineMetrics) IncOutboxFailed() {
	if m == nil || m.outboxFailed == nil {
		return
	}
	m.outboxFailed.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
