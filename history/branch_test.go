package history_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-doceng/doceng/history"
	"github.com/go-doceng/doceng/state"
)

// TestBranchRebasedThroughRemoteInsert covers the collaboration-rebase
// scenario: a branch holding one unconfirmed local event is rebased across
// a remote transform that changed positions before the local event, and a
// later undo must still hit the shifted position.
func TestBranchRebasedThroughRemoteInsert(t *testing.T) {
	d := doc(p("helloworld"))
	st, err := state.Create(&state.Config{Doc: d.Node})
	require.NoError(t, err)

	localTr := st.Tr()
	require.NoError(t, localTr.InsertText("X", 4))
	sel := st.Selection.GetBookmark()

	done := history.EmptyBranch.AddTransform(localTr, sel, 100, true)
	require.Equal(t, 1, done.EventCount)

	afterLocal, err := st.Apply(localTr)
	require.NoError(t, err)
	require.Equal(t, "helXloworld", afterLocal.Doc.TextContent())

	remoteTr := afterLocal.Tr()
	require.NoError(t, remoteTr.InsertText("Y", 2))

	rebased := done.Rebased(remoteTr.Transform, 0)
	require.Equal(t, 1, rebased.EventCount)

	afterRemote, err := afterLocal.Apply(remoteTr)
	require.NoError(t, err)
	require.Equal(t, "hYelXloworld", afterRemote.Doc.TextContent())

	pop := rebased.PopEvent(afterRemote, true)
	require.NotNil(t, pop)
	assert.Equal(t, "hYelloworld", pop.Transaction.Doc.TextContent())
}
