package history_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-doceng/doceng/history"
	"github.com/go-doceng/doceng/selection"
	"github.com/go-doceng/doceng/state"
	"github.com/go-doceng/doceng/test/builder"
)

var (
	doc = builder.Doc
	p   = builder.P
)

func newTestState(t *testing.T, opts history.Options) *state.EditorState {
	t.Helper()
	d := doc(p("hello"))
	st, err := state.Create(&state.Config{
		Doc:     d.Node,
		Plugins: []*state.Plugin{history.History(opts)},
	})
	require.NoError(t, err)
	return st
}

func applyAndDispatch(t *testing.T, st *state.EditorState, tr *state.Transaction) *state.EditorState {
	t.Helper()
	next, err := st.Apply(tr)
	require.NoError(t, err)
	return next
}

func TestUndoRevertsLastGroup(t *testing.T) {
	st := newTestState(t, history.Options{NewGroupDelay: 1})

	tr := st.Tr()
	require.NoError(t, tr.InsertText("!", 6))
	st = applyAndDispatch(t, st, tr)
	assert.Equal(t, "hello!", st.Doc.TextContent())
	assert.Equal(t, 1, history.UndoDepth(st))

	var undone *state.EditorState
	ok := history.Undo(st, func(tr *state.Transaction) {
		next, err := st.Apply(tr)
		require.NoError(t, err)
		undone = next
	})
	require.True(t, ok)
	require.NotNil(t, undone)
	assert.Equal(t, "hello", undone.Doc.TextContent())
	assert.Equal(t, 0, history.UndoDepth(undone))
	assert.Equal(t, 1, history.RedoDepth(undone))
}

func TestRedoReappliesUndoneGroup(t *testing.T) {
	st := newTestState(t, history.Options{NewGroupDelay: 1})

	tr := st.Tr()
	require.NoError(t, tr.InsertText("!", 6))
	st = applyAndDispatch(t, st, tr)

	var undone *state.EditorState
	require.True(t, history.Undo(st, func(tr *state.Transaction) {
		next, err := st.Apply(tr)
		require.NoError(t, err)
		undone = next
	}))

	var redone *state.EditorState
	require.True(t, history.Redo(undone, func(tr *state.Transaction) {
		next, err := undone.Apply(tr)
		require.NoError(t, err)
		redone = next
	}))
	assert.Equal(t, "hello!", redone.Doc.TextContent())
	assert.Equal(t, 1, history.UndoDepth(redone))
	assert.Equal(t, 0, history.RedoDepth(redone))
}

func TestUndoWithNoHistoryReturnsFalse(t *testing.T) {
	st := newTestState(t, history.Options{})
	assert.False(t, history.Undo(st, nil))
	assert.False(t, history.Redo(st, nil))
}

func TestUndoRecordsMetricsWhenConfigured(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := history.NewMetrics(reg)

	st := newTestState(t, history.Options{NewGroupDelay: 1, Metrics: metrics})

	tr := st.Tr()
	require.NoError(t, tr.InsertText("!", 6))
	st = applyAndDispatch(t, st, tr)

	require.True(t, history.Undo(st, func(tr *state.Transaction) {
		_, err := st.Apply(tr)
		require.NoError(t, err)
	}))

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UndoTotal), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.DoneDepth), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.UndoneDepth), 0)
}

func TestTypingBurstCoalescesIntoOneUndoGroup(t *testing.T) {
	d := doc(p("hello"))
	rp, err := d.Node.Resolve(6)
	require.NoError(t, err)
	st, err := state.Create(&state.Config{
		Doc:       d.Node,
		Selection: selection.NewTextSelection(rp, rp),
		Plugins:   []*state.Plugin{history.History(history.Options{NewGroupDelay: 1000})},
	})
	require.NoError(t, err)

	tr1 := st.Tr()
	tr1.SetTime(1000)
	require.NoError(t, tr1.InsertText("a", 6))
	st = applyAndDispatch(t, st, tr1)

	tr2 := st.Tr()
	tr2.SetTime(1100)
	require.NoError(t, tr2.InsertText("b", 7))
	st = applyAndDispatch(t, st, tr2)

	tr3 := st.Tr()
	tr3.SetTime(1200)
	require.NoError(t, tr3.InsertText("c", 8))
	st = applyAndDispatch(t, st, tr3)

	assert.Equal(t, "helloabc", st.Doc.TextContent())
	assert.Equal(t, 1, history.UndoDepth(st))

	var undone *state.EditorState
	require.True(t, history.Undo(st, func(tr *state.Transaction) {
		next, err := st.Apply(tr)
		require.NoError(t, err)
		undone = next
	}))
	assert.Equal(t, "hello", undone.Doc.TextContent())
	assert.Equal(t, 6, undone.Selection.From())
}

func TestCloseHistoryStartsNewGroup(t *testing.T) {
	st := newTestState(t, history.Options{NewGroupDelay: 100000})

	tr1 := st.Tr()
	require.NoError(t, tr1.InsertText("a", 6))
	st = applyAndDispatch(t, st, tr1)

	tr2 := history.CloseHistory(st.Tr())
	require.NoError(t, tr2.InsertText("b", 7))
	st = applyAndDispatch(t, st, tr2)

	assert.Equal(t, 2, history.UndoDepth(st))
}
