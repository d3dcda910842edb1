package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-doceng/doceng/selection"
	"github.com/go-doceng/doceng/test/builder"
)

var (
	doc = builder.Doc
	p   = builder.P
)

func TestNearFindsTextSelection(t *testing.T) {
	d := doc(p("hello"))
	rp, err := d.Node.Resolve(0)
	require.NoError(t, err)

	sel := selection.Near(rp)
	ts, ok := sel.(*selection.TextSelection)
	require.True(t, ok)
	assert.True(t, ts.Empty())
	assert.Equal(t, 1, ts.From())
}

func TestAtStartAndAtEnd(t *testing.T) {
	d := doc(p("hello"), p("world"))

	start := selection.AtStart(d.Node)
	assert.Equal(t, 1, start.From())

	end := selection.AtEnd(d.Node)
	assert.Equal(t, d.Content.Size-1, end.From())
}

func TestTextSelectionBetween(t *testing.T) {
	d := doc(p("<a>hello<b>"))
	from, err := d.Node.Resolve(d.Tag["a"])
	require.NoError(t, err)
	to, err := d.Node.Resolve(d.Tag["b"])
	require.NoError(t, err)

	sel := selection.Between(from, to)
	assert.False(t, sel.Empty())
	assert.Equal(t, d.Tag["a"], sel.From())
	assert.Equal(t, d.Tag["b"], sel.To())
}

func TestSelectionJSONRoundTrip(t *testing.T) {
	d := doc(p("hello"))
	rp, err := d.Node.Resolve(1)
	require.NoError(t, err)
	sel := selection.NewTextSelection(rp, rp)

	obj := sel.ToJSON()
	roundTripped, err := selection.FromJSON(d.Node, obj)
	require.NoError(t, err)
	assert.True(t, sel.Eq(roundTripped))
}

func TestIsSelectableExcludesText(t *testing.T) {
	d := doc(p("hello"))
	assert.False(t, selection.IsSelectable(d.Node.Child(0).Child(0)))
}
