// Package metrics exposes Prometheus collectors for guard decisions.
package metrics

import (
	"github.com/ahmetcoskunkizilkaya/stockroom/internal/guard"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry  *prometheus.Registry
	decisions *prometheus.CounterVec
	signOuts  prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockroom",
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Guard evaluations by outcome.",
		}, []string{"outcome"}),
		signOuts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockroom",
			Subsystem: "guard",
			Name:      "forced_sign_outs_total",
			Help:      "Sessions torn down because their profile could not be resolved.",
		}),
	}
	m.Registry.MustRegister(m.decisions, m.signOuts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return m
}

// Observe records one guard decision. A nil receiver is a no-op.
func (m *Metrics) Observe(d guard.Decision) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(d.Outcome.String()).Inc()
	if d.SignedOut {
		m.signOuts.Inc()
	}
}
