package history

import (
	"github.com/go-doceng/doceng/selection"
	"github.com/go-doceng/doceng/state"
	"github.com/go-doceng/doceng/transform"
)

// historyKey identifies the history plugin's own state field.
var historyKey = state.NewPluginKey("history")

// closeHistoryKey is set as transaction metadata to force the next
// transaction to start a new undo group instead of merging into the
// previous one.
var closeHistoryKey = state.NewPluginKey("closeHistory")

// Options configures a history plugin.
type Options struct {
	// Depth is the amount of history events that are collected before the
	// oldest events are discarded. Defaults to 100.
	Depth int
	// NewGroupDelay is the amount of milliseconds that must pass between
	// changes for the history to start a new group, so that it can be
	// undone individually. Defaults to 500.
	NewGroupDelay int64
	// Metrics, if non-nil, receives Prometheus instrumentation for undo
	// and redo commands run against this plugin.
	Metrics *Metrics
}

func (o Options) withDefaults() Options {
	if o.Depth <= 0 {
		o.Depth = 100
	}
	if o.NewGroupDelay <= 0 {
		o.NewGroupDelay = 500
	}
	return o
}

// redoMeta is attached to a transaction produced by histTransaction so
// applyTransaction can recognize it and route its steps into the right
// branch without re-running the grouping heuristics.
type redoMeta struct {
	redo         bool
	historyState *HistoryState
}

// HistoryState is the value stored in an EditorState's plugin fields by the
// history plugin: the two branches of recorded changes plus bookkeeping
// used to decide whether a new transaction continues the current undo
// group or starts a new one.
type HistoryState struct {
	Done          *Branch
	Undone        *Branch
	prevRanges    []int
	prevTime      int64
	prevComposition interface{}
}

// noComposition is the sentinel prevComposition starts at, distinct from
// the nil a transaction's "composition" meta holds when it isn't part of
// an IME composition. Using nil for both would make every ordinary
// transaction compare equal to the initial state and the new-group check
// below would never fall through to the time/adjacency test.
var noComposition interface{} = -1

func newHistoryState(done, undone *Branch, prevRanges []int, prevTime int64, prevComposition interface{}) *HistoryState {
	return &HistoryState{Done: done, Undone: undone, prevRanges: prevRanges, prevTime: prevTime, prevComposition: prevComposition}
}

func initHistoryState(*state.Config, *state.EditorState) interface{} {
	return newHistoryState(EmptyBranch, EmptyBranch, nil, 0, noComposition)
}

func preserveItems(st *state.EditorState) bool {
	for _, p := range st.Plugins {
		if p.Spec.HistoryPreserveItems {
			return true
		}
	}
	return false
}

// applyTransaction computes the history plugin's next state field value in
// response to a transaction. Grounded on upstream prosemirror-history's
// applyTransaction.
func applyTransaction(history *HistoryState, st *state.EditorState, tr *state.Transaction, options Options) *HistoryState {
	if meta, ok := tr.GetMeta(historyKey).(redoMeta); ok {
		return meta.historyState
	}
	if tr.GetMeta(closeHistoryKey) != nil {
		history = newHistoryState(history.Done, history.Undone, nil, 0, noComposition)
	}

	appended, _ := tr.GetMeta("appendedTransaction").(*state.Transaction)
	if len(tr.Steps) == 0 {
		return history
	}

	if appended != nil {
		if meta, ok := appended.GetMeta(historyKey).(redoMeta); ok {
			if meta.redo {
				return newHistoryState(
					history.Done.AddTransform(tr, nil, options.Depth, preserveItems(st)),
					history.Undone, rangesFor(tr.Mapping.Maps), history.prevTime, history.prevComposition)
			}
			return newHistoryState(
				history.Done,
				history.Undone.AddTransform(tr, nil, options.Depth, preserveItems(st)),
				nil, history.prevTime, history.prevComposition)
		}
	}

	addToHistory := tr.GetMeta("addToHistory") != false
	appendedOptsOut := appended != nil && appended.GetMeta("addToHistory") == false
	if addToHistory && !appendedOptsOut {
		composition := tr.GetMeta("composition")
		newGroup := history.prevTime == 0 ||
			(appended == nil && history.prevComposition != composition &&
				(history.prevTime < tr.Time-options.NewGroupDelay || !isAdjacentTo(tr.Transform, history.prevRanges)))

		var prevRanges []int
		if appended != nil {
			prevRanges = mapRanges(history.prevRanges, tr.Mapping)
		} else {
			prevRanges = rangesFor(tr.Mapping.Maps)
		}

		var bookmark selection.Bookmark
		if newGroup {
			bookmark = st.Selection.GetBookmark()
		}
		nextComposition := history.prevComposition
		if composition != nil {
			nextComposition = composition
		}
		return newHistoryState(
			history.Done.AddTransform(tr, bookmark, options.Depth, preserveItems(st)),
			EmptyBranch, prevRanges, tr.Time, nextComposition)
	}

	if rebased := tr.GetMeta("rebased"); rebased != nil {
		count := rebased.(int)
		return newHistoryState(
			history.Done.Rebased(tr.Transform, count),
			history.Undone.Rebased(tr.Transform, count),
			mapRanges(history.prevRanges, tr.Mapping), history.prevTime, history.prevComposition)
	}

	return newHistoryState(
		history.Done.AddMaps(tr.Mapping.Maps),
		history.Undone.AddMaps(tr.Mapping.Maps),
		mapRanges(history.prevRanges, tr.Mapping), history.prevTime, history.prevComposition)
}

func isAdjacentTo(tr *transform.Transform, prevRanges []int) bool {
	if prevRanges == nil {
		return false
	}
	if !tr.DocChanged() {
		return true
	}
	adjacent := false
	tr.Mapping.Maps[0].ForEach(func(_, _, start, end int) {
		for i := 0; i < len(prevRanges); i += 2 {
			if start <= prevRanges[i+1] && end >= prevRanges[i] {
				adjacent = true
			}
		}
	})
	return adjacent
}

// rangesFor returns the changed ranges (in the post-transform document) of
// the last step map in maps that actually changed anything.
func rangesFor(maps []*transform.StepMap) []int {
	var result []int
	for i := len(maps) - 1; i >= 0 && len(result) == 0; i-- {
		maps[i].ForEach(func(_, _, from, to int) {
			result = append(result, from, to)
		})
	}
	return result
}

func mapRanges(ranges []int, mapping *transform.Mapping) []int {
	if ranges == nil {
		return nil
	}
	var result []int
	for i := 0; i < len(ranges); i += 2 {
		from := mapping.Map(ranges[i], 1)
		to := mapping.Map(ranges[i+1], -1)
		if from <= to {
			result = append(result, from, to)
		}
	}
	return result
}
