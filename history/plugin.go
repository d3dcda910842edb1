package history

import "github.com/go-doceng/doceng/state"

// History returns a plugin that enables the undo/redo history for an
// editor. Produces an undo history that rolls document changes back in
// reverse, merging adjacent edits (typing, deleting) into single undoable
// events the way a user expects.
func History(options Options) *state.Plugin {
	opts := options.withDefaults()
	return state.NewPlugin(&state.PluginSpec{
		Key: historyKey,
		State: &state.StateField{
			Init: initHistoryState,
			Apply: func(tr *state.Transaction, value interface{}, oldState, _ *state.EditorState) interface{} {
				return applyTransaction(value.(*HistoryState), oldState, tr, opts)
			},
		},
		Props: map[string]interface{}{
			"options": opts,
		},
	})
}

func historyOptions(st *state.EditorState) Options {
	if p, ok := st.PluginKeyLookup(historyKey.String()); ok {
		if opts, ok := p.Spec.Props["options"].(Options); ok {
			return opts
		}
	}
	return Options{}.withDefaults()
}
