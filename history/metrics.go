package history

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors the history plugin reports to. A
// nil *Metrics (the zero value of Options.Metrics) disables collection, so
// the history plugin stays usable without a Prometheus registry.
type Metrics struct {
	UndoTotal   prometheus.Counter
	RedoTotal   prometheus.Counter
	DoneDepth   prometheus.Gauge
	UndoneDepth prometheus.Gauge
}

// NewMetrics builds a Metrics and registers its collectors with reg. Pass
// prometheus.DefaultRegisterer to publish through the global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UndoTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "doceng_history_undo_total",
			Help: "Total number of undo commands that replayed an event.",
		}),
		RedoTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "doceng_history_redo_total",
			Help: "Total number of redo commands that replayed an event.",
		}),
		DoneDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "doceng_history_done_depth",
			Help: "Current number of undoable events on the done branch.",
		}),
		UndoneDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "doceng_history_undone_depth",
			Help: "Current number of redoable events on the undone branch.",
		}),
	}
	reg.MustRegister(m.UndoTotal, m.RedoTotal, m.DoneDepth, m.UndoneDepth)
	return m
}

func (m *Metrics) recordUndo(doneCount, undoneCount int) {
	if m == nil {
		return
	}
	m.UndoTotal.Inc()
	m.DoneDepth.Set(float64(doneCount))
	m.UndoneDepth.Set(float64(undoneCount))
}

func (m *Metrics) recordRedo(doneCount, undoneCount int) {
	if m == nil {
		return
	}
	m.RedoTotal.Inc()
	m.DoneDepth.Set(float64(doneCount))
	m.UndoneDepth.Set(float64(undoneCount))
}
