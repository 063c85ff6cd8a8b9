// Package metrics holds the Prometheus collectors for ledger activity.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "splitsmart"

// Metrics records ledger activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	ExpensesRecorded    *prometheus.CounterVec
	SettlementsRecorded prometheus.Counter
	ValidationFailures  *prometheus.CounterVec
	InvariantViolations prometheus.Counter
	DebtsSuggested      prometheus.Histogram
}

// New registers the ledger collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ExpensesRecorded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expenses_recorded_total",
			Help:      "Expenses applied to a ledger, by split policy.",
		}, []string{"policy"}),
		SettlementsRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_recorded_total",
			Help:      "Settlements applied to a ledger.",
		}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Ledger updates rejected as invalid, by operation.",
		}, []string{"operation"}),
		InvariantViolations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invariant_violations_total",
			Help:      "Ledger updates after which balances did not sum to zero.",
		}),
		DebtsSuggested: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "debts_suggested",
			Help:      "Number of payments suggested per debt simplification.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
	}
}

func (m *Metrics) ExpenseRecorded(policy string) {
	if m == nil {
		return
	}
	m.ExpensesRecorded.WithLabelValues(policy).Inc()
}

func (m *Metrics) SettlementRecorded() {
	if m == nil {
		return
	}
	m.SettlementsRecorded.Inc()
}

func (m *Metrics) ValidationFailed(operation string) {
	if m == nil {
		return
	}
	m.ValidationFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) InvariantViolated() {
	if m == nil {
		return
	}
	m.InvariantViolations.Inc()
}

func (m *Metrics) DebtsComputed(n int) {
	if m == nil {
		return
	}
	m.DebtsSuggested.Observe(float64(n))
}
