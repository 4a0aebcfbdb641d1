package email

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Attempt outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomeClientError  = "client_error"
	OutcomeServerError  = "server_error"
	OutcomeNetworkError = "network_error"
)

// ResultOK labels a successful dispatch.
const ResultOK = "ok"

// Metrics holds Prometheus collectors for email delivery.
type Metrics struct {
	attempts *prometheus.CounterVec
	sends    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil registerer uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer, namespace string) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "email",
				Name:      "attempts_total",
				Help:      "Total number of HTTP attempts made to the email provider",
			},
			[]string{"flow", "outcome"},
		),
		sends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "email",
				Name:      "sends_total",
				Help:      "Total number of email dispatches by result",
			},
			[]string{"flow", "result"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "email",
				Name:      "attempt_duration_seconds",
				Help:      "Email provider attempt latency in seconds",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"flow"},
		),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.sends, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveAttempt records one provider attempt. It satisfies AttemptHook.
func (m *Metrics) ObserveAttempt(r AttemptResult) {
	m.attempts.WithLabelValues(string(r.Flow), outcomeLabel(r)).Inc()
	m.duration.WithLabelValues(string(r.Flow)).Observe(r.Duration.Seconds())
}

// ObserveSend records the final result of a dispatch.
func (m *Metrics) ObserveSend(flow Flow, err error) {
	result := ResultOK
	if err != nil {
		result = string(CodeRequestFailed)
		if se, ok := AsSendError(err); ok {
			result = string(se.Code)
		}
	}
	m.sends.WithLabelValues(string(flow), result).Inc()
}

// outcomeLabel classifies an attempt for the outcome label.
func outcomeLabel(r AttemptResult) string {
	switch {
	case r.Err != nil || r.StatusCode == 0:
		return OutcomeNetworkError
	case r.StatusCode >= 500:
		return OutcomeServerError
	case r.StatusCode >= 400:
		return OutcomeClientError
	default:
		return OutcomeSuccess
	}
}
