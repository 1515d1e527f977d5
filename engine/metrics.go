package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Call outcomes as reported in flipper_calls_total.
const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeError    = "error"
)

// Metrics counts contract calls handled by an Engine.
type Metrics struct {
	calls     *prometheus.CounterVec
	deployed  prometheus.Counter
	durations *prometheus.HistogramVec
}

// NewMetrics registers the engine metrics with reg. A nil reg gets a private
// registry, which keeps parallel tests from colliding on the default one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)
	return &Metrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flipper",
			Name:      "calls_total",
			Help:      "Contract messages handled, by message and outcome",
		}, []string{"message", "outcome"}),
		deployed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "flipper",
			Name:      "deployments_total",
			Help:      "Contract instances deployed",
		}),
		durations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flipper",
			Name:      "call_duration_seconds",
			Help:      "Time spent running a contract message, excluding the wait for the engine lock",
			Buckets:   prometheus.DefBuckets,
		}, []string{"message"}),
	}
}

func (m *Metrics) observe(message, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(message, outcome).Inc()
	m.durations.WithLabelValues(message).Observe(seconds)
}

func (m *Metrics) deploy() {
	if m == nil {
		return
	}
	m.deployed.Inc()
}
