package production

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "chartforms"
	subsystem = "statechart"
)

// Metrics exports transition counts and the number of interpreters in each
// active leaf.
type Metrics struct {
	transitions *prometheus.CounterVec
	active      *prometheus.GaugeVec

	mu     sync.Mutex
	leaves map[string][]string // interpreter -> last leaves
}

// NewMetrics registers the collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transitions_total",
				Help:      "Total number of published states by machine and event",
			},
			[]string{"machine", "event"},
		),
		active: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "active_states",
				Help:      "Number of interpreters whose configuration contains the leaf",
			},
			[]string{"machine", "state"},
		),
		leaves: make(map[string][]string),
	}
}

// Publish implements Publisher. Replayed records only refresh the gauges.
func (m *Metrics) Publish(_ context.Context, r Record) error {
	if !r.Replay {
		m.transitions.WithLabelValues(r.Machine, r.Event).Inc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, leaf := range m.leaves[r.Interpreter] {
		m.active.WithLabelValues(r.Machine, leaf).Dec()
	}
	for _, leaf := range r.Configuration {
		m.active.WithLabelValues(r.Machine, leaf).Inc()
	}
	m.leaves[r.Interpreter] = append([]string(nil), r.Configuration...)
	return nil
}

// Forget removes an interpreter from the active gauges.
func (m *Metrics) Forget(machine, interpreter string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, leaf := range m.leaves[interpreter] {
		m.active.WithLabelValues(machine, leaf).Dec()
	}
	delete(m.leaves, interpreter)
}
