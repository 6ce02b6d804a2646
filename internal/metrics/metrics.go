// Package metrics exposes Prometheus collectors for ledger activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expensesplit"

// Command outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeNoop     = "noop"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Commands    *prometheus.CounterVec
	People      prometheus.Gauge
	Expenses    prometheus.Gauge
	Settlements prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Commands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands dispatched to the controller, by command and outcome.",
		}, []string{"command", "outcome"}),
		People: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "people",
			Help:      "People currently in the registry.",
		}),
		Expenses: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "expenses",
			Help:      "Expenses currently in the ledger.",
		}),
		Settlements: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Transfers in the most recently computed settlement plan.",
		}),
	}
}

// ObserveCommand counts one dispatched command.
func (m *Metrics) ObserveCommand(command, outcome string) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command, outcome).Inc()
}

// SetLedgerSize records the registry and ledger sizes.
func (m *Metrics) SetLedgerSize(people, expenses int) {
	if m == nil {
		return
	}
	m.People.Set(float64(people))
	m.Expenses.Set(float64(expenses))
}

// SetSettlements records the size of the latest settlement plan.
func (m *Metrics) SetSettlements(n int) {
	if m == nil {
		return
	}
	m.Settlements.Set(float64(n))
}
