package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-doceng/doceng/history"
	"github.com/go-doceng/doceng/state"
	"github.com/go-doceng/doceng/test/builder"
)

var (
	doc = builder.Doc
	p   = builder.P
)

func TestCreateDefaultsToEmptyDocAndStartSelection(t *testing.T) {
	st, err := state.Create(&state.Config{Schema: builder.Schema})
	require.NoError(t, err)
	assert.NotNil(t, st.Doc)
	assert.Equal(t, 0, st.Selection.From()-1)
}

func TestTransactionInsertTextAndApply(t *testing.T) {
	d := doc(p("hello"))
	st, err := state.Create(&state.Config{Doc: d.Node})
	require.NoError(t, err)

	tr := st.Tr()
	require.NoError(t, tr.InsertText(" world", 6))

	newState, err := st.Apply(tr)
	require.NoError(t, err)
	assert.NotEqual(t, st.Doc, newState.Doc)
	assert.Equal(t, "hello world", newState.Doc.TextContent())
}

func TestApplyTransactionRunsAppendTransaction(t *testing.T) {
	appendCalls := 0
	plugin := state.NewPlugin(&state.PluginSpec{
		AppendTransaction: func(trs []*state.Transaction, oldState, newState *state.EditorState) *state.Transaction {
			appendCalls++
			if appendCalls > 1 {
				return nil
			}
			tr := newState.Tr()
			tr.SetMeta("fromAppend", true)
			return tr
		},
	})

	d := doc(p("hello"))
	st, err := state.Create(&state.Config{Doc: d.Node, Plugins: []*state.Plugin{plugin}})
	require.NoError(t, err)

	tr := st.Tr()
	require.NoError(t, tr.InsertText("!", 6))

	result, err := st.ApplyTransaction(tr)
	require.NoError(t, err)
	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, true, result.Transactions[1].GetMeta("fromAppend"))
}

func TestFilterTransactionBlocksApply(t *testing.T) {
	plugin := state.NewPlugin(&state.PluginSpec{
		FilterTransaction: func(tr *state.Transaction, s *state.EditorState) bool {
			return tr.GetMeta("blocked") == nil
		},
	})

	d := doc(p("hello"))
	st, err := state.Create(&state.Config{Doc: d.Node, Plugins: []*state.Plugin{plugin}})
	require.NoError(t, err)

	tr := st.Tr()
	tr.SetMeta("blocked", true)
	require.NoError(t, tr.InsertText("!", 6))

	result, err := st.ApplyTransaction(tr)
	require.NoError(t, err)
	assert.Same(t, st, result.State)
	assert.Empty(t, result.Transactions)
}

func TestPluginStateFieldTracksApply(t *testing.T) {
	key := state.NewPluginKey("counter")
	plugin := state.NewPlugin(&state.PluginSpec{
		Key: key,
		State: &state.StateField{
			Init: func(*state.Config, *state.EditorState) interface{} { return 0 },
			Apply: func(tr *state.Transaction, value interface{}, oldState, newState *state.EditorState) interface{} {
				return value.(int) + 1
			},
		},
	})

	d := doc(p("hello"))
	st, err := state.Create(&state.Config{Doc: d.Node, Plugins: []*state.Plugin{plugin}})
	require.NoError(t, err)
	assert.Equal(t, 0, key.GetState(st))

	newState, err := st.Apply(st.Tr())
	require.NoError(t, err)
	assert.Equal(t, 1, key.GetState(newState))
}

func TestApplyWithNoStepsLeavesSelectionUnchanged(t *testing.T) {
	d := doc(p("hello"))
	st, err := state.Create(&state.Config{Doc: d.Node})
	require.NoError(t, err)

	newState, err := st.Apply(st.Tr())
	require.NoError(t, err)
	assert.True(t, st.Selection.Eq(newState.Selection))
}

func TestSplitParagraphThenUndoThenRedo(t *testing.T) {
	d := doc(p("hello world"))
	st, err := state.Create(&state.Config{
		Doc:     d.Node,
		Plugins: []*state.Plugin{history.History(history.Options{})},
	})
	require.NoError(t, err)

	tr := st.Tr()
	require.NoError(t, tr.Split(6, 1))
	split, err := st.Apply(tr)
	require.NoError(t, err)
	require.Equal(t, 2, split.Doc.ChildCount())
	assert.Equal(t, "hello", split.Doc.Child(0).TextContent())
	assert.Equal(t, " world", split.Doc.Child(1).TextContent())

	var undone *state.EditorState
	require.True(t, history.Undo(split, func(tr *state.Transaction) {
		next, err := split.Apply(tr)
		require.NoError(t, err)
		undone = next
	}))
	assert.True(t, st.Doc.Eq(undone.Doc))

	var redone *state.EditorState
	require.True(t, history.Redo(undone, func(tr *state.Transaction) {
		next, err := undone.Apply(tr)
		require.NoError(t, err)
		redone = next
	}))
	assert.True(t, split.Doc.Eq(redone.Doc))

	secondParaStart := 1 + split.Doc.Child(0).NodeSize()
	secondParaEnd := secondParaStart + split.Doc.Child(1).NodeSize()
	assert.GreaterOrEqual(t, redone.Selection.From(), secondParaStart)
	assert.LessOrEqual(t, redone.Selection.From(), secondParaEnd)
}

func TestAddMarkThenInvertRoundTrips(t *testing.T) {
	d := doc(p("hello world"))
	st, err := state.Create(&state.Config{Doc: d.Node})
	require.NoError(t, err)

	em, err := builder.Schema.MarkType("em")
	require.NoError(t, err)

	tr := st.Tr()
	tr.AddMark(2, 7, em.Create(nil))
	marked, err := st.Apply(tr)
	require.NoError(t, err)

	resolved, err := marked.Doc.Resolve(3)
	require.NoError(t, err)
	assert.NotNil(t, em.IsInSet(resolved.Marks()))

	restoredDoc := marked.Doc
	for i := len(tr.Steps) - 1; i >= 0; i-- {
		invertedStep := tr.Steps[i].Invert(tr.Docs[i])
		result := invertedStep.Apply(restoredDoc)
		require.Empty(t, result.Failed)
		restoredDoc = result.Doc
	}
	assert.True(t, st.Doc.Eq(restoredDoc))
}
