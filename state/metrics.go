package state

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors EditorState.Apply reports to. A
// nil *Metrics (the zero value of Config.Metrics) disables collection
// entirely, so this package stays usable as a plain library by callers with
// no Prometheus registry of their own.
type Metrics struct {
	TransactionsApplied prometheus.Counter
	StepsPerTransaction prometheus.Histogram
}

// NewMetrics builds a Metrics and registers its collectors with reg. Pass
// prometheus.DefaultRegisterer to publish through the global registry, or a
// fresh *prometheus.Registry to keep collection private to one caller.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TransactionsApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "doceng_state_transactions_applied_total",
			Help: "Total number of transactions (root and appendTransaction follow-ups) applied to an editor state.",
		}),
		StepsPerTransaction: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "doceng_state_steps_per_transaction",
			Help:    "Number of steps carried by each transaction applied to an editor state.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
	reg.MustRegister(m.TransactionsApplied, m.StepsPerTransaction)
	return m
}

func (m *Metrics) recordApply(steps int) {
	if m == nil {
		return
	}
	m.TransactionsApplied.Inc()
	m.StepsPerTransaction.Observe(float64(steps))
}
