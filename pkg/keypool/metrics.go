package keypool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// acquire result labels
const (
	acquireConsumed = "consumed"
	acquireFallback = "fallback"
	acquireNone     = "none"
)

// Metrics contains Prometheus instrumentation for the pool. All recording
// methods are nil-safe so an uninstrumented pool costs nothing.
type Metrics struct {
	acquires     *prometheus.CounterVec
	outcomes     *prometheus.CounterVec
	breakerOpens *prometheus.CounterVec
	deadCreds    *prometheus.CounterVec
}

// NewMetrics creates pool metrics registered on reg
// (prometheus.DefaultRegisterer when nil).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		acquires: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polaris_keypool_acquires_total",
				Help: "Credential acquisitions by vendor and result (consumed, fallback, none)",
			},
			[]string{"vendor", "result"},
		),

		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polaris_keypool_outcomes_total",
				Help: "Reported call outcomes by vendor and kind",
			},
			[]string{"vendor", "kind"},
		),

		breakerOpens: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polaris_keypool_breaker_opens_total",
				Help: "Circuit breaker open transitions by vendor",
			},
			[]string{"vendor"},
		),

		deadCreds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "polaris_keypool_dead_credentials_total",
				Help: "Credentials permanently retired by auth failures, by vendor",
			},
			[]string{"vendor"},
		),
	}
}

func (m *Metrics) recordAcquire(vendor, result string) {
	if m == nil {
		return
	}
	if vendor == "" {
		vendor = "any"
	}
	m.acquires.WithLabelValues(vendor, result).Inc()
}

func (m *Metrics) recordOutcome(vendor, kind string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(vendor, kind).Inc()
}

func (m *Metrics) recordBreakerOpen(vendor string) {
	if m == nil {
		return
	}
	m.breakerOpens.WithLabelValues(vendor).Inc()
}

func (m *Metrics) recordDead(vendor string) {
	if m == nil {
		return
	}
	m.deadCreds.WithLabelValues(vendor).Inc()
}
