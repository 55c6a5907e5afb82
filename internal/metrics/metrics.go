package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for approval cycles. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Requests handled by channel
	Requests *prometheus.CounterVec

	// Completed cycles by result
	Outcomes *prometheus.CounterVec

	// Collaborator call latencies by operation
	CallLatency *prometheus.HistogramVec

	// Collaborator failures by operation
	CallFailures *prometheus.CounterVec
}

// New creates and registers approval metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "approver_requests_total",
			Help: "Authentication requests handled by the orchestrator by channel",
		}, []string{"kind"}),

		Outcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "approver_outcomes_total",
			Help: "Completed approval cycles by result",
		}, []string{"result"}),

		CallLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "approver_call_duration_seconds",
			Help:    "Duration of collaborator calls by operation",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"op"}), // op: "resolve", "approve", "reject", "decrypt", "offline_code"

		CallFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "approver_call_failures_total",
			Help: "Failed collaborator calls by operation",
		}, []string{"op"}),
	}
}

// IncrementRequest records a handled request.
func (m *Metrics) IncrementRequest(kind string) {
	if m != nil {
		m.Requests.WithLabelValues(kind).Inc()
	}
}

// IncrementOutcome records a completed cycle.
func (m *Metrics) IncrementOutcome(result string) {
	if m != nil {
		m.Outcomes.WithLabelValues(result).Inc()
	}
}

// ObserveCall records a collaborator call and whether it failed.
func (m *Metrics) ObserveCall(op string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.CallLatency.WithLabelValues(op).Observe(d.Seconds())
	if err != nil {
		m.CallFailures.WithLabelValues(op).Inc()
	}
}
