// Package history implements an undo/redo history for editor states, built
// on top of two branches of invertible steps (done and undone) that are
// kept in sync with document changes via step-map rebasing.
package history

import (
	"github.com/go-doceng/doceng/selection"
	"github.com/go-doceng/doceng/transform"
)

// Item is a single entry in a history branch: either a step (with its
// inverse already computed, ready to be replayed to undo it) or a bare
// position map recording a change the history doesn't own (e.g. a remote
// collaborative edit), plus, on the item that starts a user-visible
// event, the selection to restore.
type Item struct {
	Map *transform.StepMap
	// Step is the inverse of the step that produced this item, or nil for
	// a bare map-only item.
	Step transform.Step
	// Selection is set on the first item of a group, and records the
	// selection bookmark to restore when undoing back past this event.
	Selection selection.Bookmark
	// MirrorOffset, when set, is the distance (in items) back to this
	// item's mirror image (the step this one undoes, or vice versa).
	MirrorOffset *int
}

// NewItem constructs a history item.
func NewItem(m *transform.StepMap, step transform.Step, sel selection.Bookmark, mirrorOffset ...int) *Item {
	it := &Item{Map: m, Step: step, Selection: sel}
	if len(mirrorOffset) > 0 {
		mo := mirrorOffset[0]
		it.MirrorOffset = &mo
	}
	return it
}

// Merge tries to merge this item (the earlier one, in onward iteration
// order) with a later item, other, typically to collapse a run of adjacent
// single-character typing steps into fewer undo entries. Mirrors upstream
// Item.prototype.merge: merging two inverse steps means merging them in
// reverse order, since these items are the *inverses* of the original
// edits.
func (it *Item) Merge(other *Item) *Item {
	if it.Step == nil || other.Step == nil || other.Selection != nil {
		return nil
	}
	merged, ok := other.Step.Merge(it.Step)
	if !ok {
		return nil
	}
	return NewItem(merged.GetMap().Invert(), merged, it.Selection)
}
