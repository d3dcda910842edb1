// Package commands implements pmtool's subcommands: apply, undo, redo, and
// replay. Each command reads and rewrites a session file on disk holding the
// starting document plus a transcript of every action taken against it,
// since the editor state and history plugin built by this package only ever
// live in memory for the duration of one process. Grounded on
// Sumatoshi-tech-codefang/cmd/codefang/commands's shape: a *Command struct
// holding flags, a New*Command constructor building a *cobra.Command, and a
// Run method doing the work.
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-doceng/doceng/history"
	"github.com/go-doceng/doceng/internal/pmtoolconfig"
	"github.com/go-doceng/doceng/internal/pmtoolschema"
	"github.com/go-doceng/doceng/model"
	"github.com/go-doceng/doceng/state"
	"github.com/go-doceng/doceng/transform"
)

// actionKind distinguishes the three kinds of entries a session transcript
// can hold.
type actionKind string

const (
	actionSteps actionKind = "steps"
	actionUndo  actionKind = "undo"
	actionRedo  actionKind = "redo"
)

// action is one transcript entry: either a list of steps to apply as a
// single transaction, or a request to undo or redo the last group.
type action struct {
	Kind  actionKind                `json:"kind"`
	Steps []map[string]interface{} `json:"steps,omitempty"`
}

// session is the on-disk representation of a pmtool editing session: the
// schema to load, the document the session started from, and the
// transcript of actions applied so far. History options are not stored;
// each command loads them from the config again.
type session struct {
	Schema  string          `json:"schema"`
	Doc     json.RawMessage `json:"doc"`
	Actions []action        `json:"actions"`
}

func loadSession(path string) (*session, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session %s: %w", path, err)
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", path, err)
	}
	return &s, nil
}

func (s *session) save(path string) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return os.WriteFile(path, raw, 0o644)
}

// newSession builds a session from a fresh document file, ready to be saved
// and then fed actions.
func newSession(schemaName string, docPath string) (*session, error) {
	raw, err := os.ReadFile(docPath)
	if err != nil {
		return nil, fmt.Errorf("read document %s: %w", docPath, err)
	}
	return &session{Schema: schemaName, Doc: raw}, nil
}

// replayResult is what replaying a session's transcript produces.
type replayResult struct {
	State *state.EditorState
}

// replay rebuilds the editor state a session describes by constructing an
// EditorState from its starting document and then replaying every action in
// its transcript, in order, through the history plugin.
func replay(s *session, opts history.Options) (*replayResult, error) {
	schema, err := pmtoolschema.Resolve(s.Schema)
	if err != nil {
		return nil, err
	}

	var rawDoc map[string]interface{}
	if err := json.Unmarshal(s.Doc, &rawDoc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	doc, err := model.NodeFromJSON(schema, rawDoc)
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}

	st, err := state.Create(&state.Config{
		Doc:     doc,
		Schema:  schema,
		Plugins: []*state.Plugin{history.History(opts)},
	})
	if err != nil {
		return nil, fmt.Errorf("create editor state: %w", err)
	}

	for i, act := range s.Actions {
		st, err = applyAction(st, act)
		if err != nil {
			return nil, fmt.Errorf("action %d (%s): %w", i, act.Kind, err)
		}
	}
	return &replayResult{State: st}, nil
}

func applyAction(st *state.EditorState, act action) (*state.EditorState, error) {
	switch act.Kind {
	case actionSteps:
		tr := st.Tr()
		for _, raw := range act.Steps {
			step, err := transform.StepFromJSON(st.Schema, raw)
			if err != nil {
				return nil, fmt.Errorf("decode step: %w", err)
			}
			if err := tr.Step(step); err != nil {
				return nil, fmt.Errorf("apply step: %w", err)
			}
		}
		return st.Apply(tr)

	case actionUndo:
		var next *state.EditorState
		var applyErr error
		if !history.Undo(st, func(tr *state.Transaction) {
			next, applyErr = st.Apply(tr)
		}) {
			return st, nil
		}
		return next, applyErr

	case actionRedo:
		var next *state.EditorState
		var applyErr error
		if !history.Redo(st, func(tr *state.Transaction) {
			next, applyErr = st.Apply(tr)
		}) {
			return st, nil
		}
		return next, applyErr

	default:
		return nil, fmt.Errorf("unknown action kind %q", act.Kind)
	}
}

func printState(st *state.EditorState) error {
	raw, err := json.MarshalIndent(st.Doc.ToJSON(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	fmt.Println(string(raw))
	fmt.Printf("undo depth: %d, redo depth: %d\n", history.UndoDepth(st), history.RedoDepth(st))
	return nil
}

func loadOptions(configPath string) (history.Options, error) {
	cfg, err := pmtoolconfig.Load(configPath)
	if err != nil {
		return history.Options{}, err
	}
	return history.Options{
		Depth:         cfg.History.Depth,
		NewGroupDelay: cfg.History.NewGroupDelay,
	}, nil
}
