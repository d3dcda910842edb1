package state

import (
	"fmt"

	"github.com/go-doceng/doceng/model"
	"github.com/go-doceng/doceng/selection"
)

// Config describes the options given to EditorState.Create.
type Config struct {
	// Schema is the schema to use (inferred from Doc when omitted).
	Schema *model.Schema
	// Doc is the starting document. When omitted, an empty document is
	// created from Schema's top node type.
	Doc *model.Node
	// Selection is the starting selection. When omitted, Selection.atStart
	// on the document is used.
	Selection selection.Selection
	// StoredMarks are marks that should be applied to the next typed
	// input.
	StoredMarks []*model.Mark
	// Plugins is the set of plugins active in this state, in priority
	// order (appendTransaction and filterTransaction run in this order).
	Plugins []*Plugin
	// Metrics, if non-nil, receives Prometheus instrumentation for every
	// transaction applied to states descending from this configuration.
	Metrics *Metrics
}

// EditorState represents the editor's whole state, including the current
// document, selection, stored marks, and the values of every active
// plugin's state field. State objects are immutable: creating a new state
// is the only way to change anything in it, usually via EditorState.Apply.
type EditorState struct {
	Doc         *model.Node
	Selection   selection.Selection
	StoredMarks []*model.Mark
	Schema      *model.Schema
	Plugins     []*Plugin

	pluginsByKey map[string]*Plugin
	fields       map[string]interface{}
	metrics      *Metrics
}

// PluginKeyLookup returns the plugin registered under the given key
// string, if any, and whether it was found.
func (s *EditorState) PluginKeyLookup(key string) (*Plugin, bool) {
	p, ok := s.pluginsByKey[key]
	return p, ok
}

// Create builds a fresh editor state from a configuration.
func Create(config *Config) (*EditorState, error) {
	doc := config.Doc
	schema := config.Schema
	if schema == nil {
		if doc == nil {
			return nil, fmt.Errorf("Cannot create an editor state without a schema or a document")
		}
		schema = doc.Type.Schema
	}
	if doc == nil {
		var err error
		doc, err = schema.TopNodeType().CreateAndFill()
		if err != nil {
			return nil, err
		}
	}

	instance := &EditorState{
		Doc:          doc,
		Schema:       schema,
		StoredMarks:  config.StoredMarks,
		Plugins:      config.Plugins,
		pluginsByKey: map[string]*Plugin{},
		fields:       map[string]interface{}{},
		metrics:      config.Metrics,
	}

	for _, p := range config.Plugins {
		if _, exists := instance.pluginsByKey[p.Key()]; exists {
			return nil, fmt.Errorf("Adding different instances of a keyed plugin (%s)", p.Key())
		}
		instance.pluginsByKey[p.Key()] = p
	}

	if config.Selection != nil {
		instance.Selection = config.Selection
	} else {
		instance.Selection = selection.AtStart(doc)
	}

	for _, p := range config.Plugins {
		if p.Spec.State != nil {
			instance.fields[p.Key()] = p.Spec.State.Init(config, instance)
		}
	}

	return instance, nil
}

// Tr starts a new transaction from this state.
func (s *EditorState) Tr() *Transaction {
	return NewTransaction(s)
}

// ApplyTransaction applies the given transaction and any plugin-appended
// follow-up transactions, returning the resulting state and the list of
// transactions that were actually applied (the fixed point described by
// the editor's appendTransaction contract). Grounded on upstream
// EditorState.applyTransaction.
func (s *EditorState) ApplyTransaction(rootTr *Transaction) (*ApplyResult, error) {
	if !s.filterTransaction(rootTr, nil) {
		return &ApplyResult{State: s, Transactions: nil}, nil
	}

	trs := []*Transaction{rootTr}
	newState, err := s.applyInner(rootTr)
	if err != nil {
		return nil, err
	}
	seen := []seenPluginState{}

	for {
		haveNew := false
		for i, p := range s.Plugins {
			var before *seenPluginState
			if i < len(seen) {
				before = &seen[i]
			}
			var oldState *EditorState
			if before != nil {
				oldState = before.state
			} else {
				oldState = s
			}
			if p.Spec.AppendTransaction == nil {
				continue
			}
			var sinceTrs []*Transaction
			if before != nil {
				sinceTrs = trs[before.n:]
			} else {
				sinceTrs = trs
			}
			tr := p.Spec.AppendTransaction(sinceTrs, oldState, newState)
			if tr == nil {
				continue
			}
			if !newState.filterTransaction(tr, i) {
				continue
			}
			tr.setMetaInternal("appendedTransaction", rootTr)
			appliedState, err := newState.applyInner(tr)
			if err != nil {
				return nil, err
			}
			trs = append(trs, tr)
			newState = appliedState
			haveNew = true
		}
		if !haveNew {
			return &ApplyResult{State: newState, Transactions: trs}, nil
		}
		seen = seen[:0]
		for range s.Plugins {
			seen = append(seen, seenPluginState{state: newState, n: len(trs)})
		}
	}
}

type seenPluginState struct {
	state *EditorState
	n     int
}

// ApplyResult is the outcome of EditorState.ApplyTransaction: the
// resulting state, and the full list of transactions applied to reach it
// (the root transaction plus any appendTransaction follow-ups).
type ApplyResult struct {
	State        *EditorState
	Transactions []*Transaction
}

// Apply is a convenience wrapper around ApplyTransaction that only returns
// the resulting state.
func (s *EditorState) Apply(tr *Transaction) (*EditorState, error) {
	result, err := s.ApplyTransaction(tr)
	if err != nil {
		return nil, err
	}
	return result.State, nil
}

func (s *EditorState) filterTransaction(tr *Transaction, ignore interface{}) bool {
	for i, p := range s.Plugins {
		if ignore != nil {
			if idx, ok := ignore.(int); ok && idx == i {
				continue
			}
		}
		if p.Spec.FilterTransaction != nil && !p.Spec.FilterTransaction(tr, s) {
			return false
		}
	}
	return true
}

// applyInner computes the plain (non-appendTransaction) result of applying
// tr to this state: the new document/selection/stored marks plus every
// plugin's updated state field.
func (s *EditorState) applyInner(tr *Transaction) (*EditorState, error) {
	if tr.Before() != s.Doc {
		return nil, fmt.Errorf("Applying a transaction that does not start with the current document")
	}

	newInstance := &EditorState{
		Doc:          tr.Doc,
		Schema:       s.Schema,
		Plugins:      s.Plugins,
		pluginsByKey: s.pluginsByKey,
		fields:       map[string]interface{}{},
		metrics:      s.metrics,
	}

	newInstance.Selection = tr.Selection()
	if tr.StoredMarksSet() {
		newInstance.StoredMarks = tr.storedMarks
	} else {
		newInstance.StoredMarks = tr.selectionStoredMarks()
	}

	for _, p := range s.Plugins {
		if p.Spec.State == nil {
			continue
		}
		newInstance.fields[p.Key()] = p.Spec.State.Apply(tr, s.fields[p.Key()], s, newInstance)
	}

	s.metrics.recordApply(len(tr.Steps))

	return newInstance, nil
}
