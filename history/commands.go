package history

import "github.com/go-doceng/doceng/state"

// Dispatch receives a transaction produced by Undo or Redo, the same
// signature an editor view's dispatch function has.
type Dispatch func(tr *state.Transaction)

func getHistoryState(st *state.EditorState) *HistoryState {
	v, _ := historyKey.Get(st).(*HistoryState)
	return v
}

// histTransaction builds and dispatches the transaction that replays the
// most recent event off the done (undo) or undone (redo) branch. Grounded
// on upstream prosemirror-history's histTransaction.
func histTransaction(history *HistoryState, st *state.EditorState, dispatch Dispatch, redo bool, options Options) bool {
	items := preserveItems(st)
	branch := history.Done
	other := history.Undone
	if redo {
		branch = history.Undone
		other = history.Done
	}

	pop := branch.PopEvent(st, items)
	if pop == nil {
		return false
	}

	restored := pop.Selection.Resolve(pop.Transaction.Doc)
	added := other.AddTransform(pop.Transaction, st.Selection.GetBookmark(), options.Depth, items)

	var newDone, newUndone *Branch
	if redo {
		newDone, newUndone = added, pop.Remaining
	} else {
		newDone, newUndone = pop.Remaining, added
	}
	newHist := newHistoryState(newDone, newUndone, nil, 0, noComposition)

	if err := pop.Transaction.SetSelection(restored); err != nil {
		return false
	}
	pop.Transaction.SetMeta(historyKey, redoMeta{redo: redo, historyState: newHist})
	pop.Transaction.ScrollIntoView()

	if dispatch != nil {
		dispatch(pop.Transaction)
	}
	if redo {
		options.Metrics.recordRedo(newDone.EventCount, newUndone.EventCount)
	} else {
		options.Metrics.recordUndo(newDone.EventCount, newUndone.EventCount)
	}
	return true
}

// Undo is a command function that undoes the last change, if any. Returns
// false and does nothing when there is nothing to undo. When dispatch is
// nil, only reports whether undo is currently possible.
func Undo(st *state.EditorState, dispatch Dispatch) bool {
	hist := getHistoryState(st)
	if hist == nil || hist.Done.EventCount == 0 {
		return false
	}
	if dispatch == nil {
		return true
	}
	return histTransaction(hist, st, dispatch, false, historyOptions(st))
}

// Redo is a command function that redoes the last undone change, if any.
func Redo(st *state.EditorState, dispatch Dispatch) bool {
	hist := getHistoryState(st)
	if hist == nil || hist.Undone.EventCount == 0 {
		return false
	}
	if dispatch == nil {
		return true
	}
	return histTransaction(hist, st, dispatch, true, historyOptions(st))
}

// UndoDepth returns the number of undoable events available in the given
// state.
func UndoDepth(st *state.EditorState) int {
	hist := getHistoryState(st)
	if hist == nil {
		return 0
	}
	return hist.Done.EventCount
}

// RedoDepth returns the number of redoable events available in the given
// state.
func RedoDepth(st *state.EditorState) int {
	hist := getHistoryState(st)
	if hist == nil {
		return 0
	}
	return hist.Undone.EventCount
}

// CloseHistory marks the given transaction so the history plugin starts a
// new undo group after it, instead of merging the next change into the
// current one.
func CloseHistory(tr *state.Transaction) *state.Transaction {
	tr.SetMeta(closeHistoryKey, true)
	return tr
}
