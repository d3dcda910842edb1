package state_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/go-doceng/doceng/state"
	"github.com/go-doceng/doceng/test/builder"
)

func TestApplyRecordsMetricsWhenConfigured(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := state.NewMetrics(reg)

	d := doc(p("hello"))
	st, err := state.Create(&state.Config{Doc: d.Node, Metrics: metrics})
	require.NoError(t, err)

	_, err = st.Apply(st.Tr())
	require.NoError(t, err)

	require.InDelta(t, 1, testutil.ToFloat64(metrics.TransactionsApplied), 0)
}

func TestApplyWithNilMetricsIsANoop(t *testing.T) {
	d := doc(p("hello"))
	st, err := state.Create(&state.Config{Doc: d.Node})
	require.NoError(t, err)

	next, err := st.Apply(st.Tr())
	require.NoError(t, err)
	require.NotNil(t, next)
}
