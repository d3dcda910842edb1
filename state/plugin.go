package state

import (
	"github.com/google/uuid"
)

// StateField describes the behavior of an associated piece of state that
// lives alongside EditorState, has its own lifecycle, and is updated
// together with the rest of the state when a transaction is applied.
type StateField struct {
	// Init initializes the field's value for a fresh state, given the
	// configuration it was created with and the state itself (with this
	// field and any fields initialized after it not yet filled in).
	Init func(config *Config, instance *EditorState) interface{}
	// Apply computes a new value for this field based on a transaction,
	// the field's previous value, and the states before and after the
	// transaction.
	Apply func(tr *Transaction, value interface{}, oldState, newState *EditorState) interface{}
}

// PluginKey is an object used to tag extra properties on plugins or to
// look up a plugin's state. Keys are compared by identity (value
// equality on the uuid minted at construction), not by the human-readable
// label.
type PluginKey struct {
	label string
	id    uuid.UUID
	key   string
}

// NewPluginKey constructs a tag used to identify a plugin. Instances of
// this class act as a unique identifier; two keys constructed with the
// same label are still distinct.
func NewPluginKey(name ...string) *PluginKey {
	label := "key"
	if len(name) > 0 && name[0] != "" {
		label = name[0]
	}
	id := uuid.New()
	return &PluginKey{label: label, id: id, key: label + "$" + id.String()}
}

// String is the internal lookup key used to index a plugin's state value
// on an EditorState.
func (k *PluginKey) String() string { return k.key }

// Get retrieves the state field associated with this key from the given
// editor state, if any plugin in that state uses this key.
func (k *PluginKey) Get(state *EditorState) interface{} {
	return state.fields[k.key]
}

// GetState is an alias for Get, matching the upstream naming used when a
// plugin key is used to read a specific plugin's state field.
func (k *PluginKey) GetState(state *EditorState) interface{} {
	return k.Get(state)
}

// PluginSpec configures a plugin's behavior.
type PluginSpec struct {
	// Key gives the plugin a key by which it can be identified. Generated
	// when left nil.
	Key *PluginKey
	// State, when given, installs a StateField on every instance of this
	// plugin.
	State *StateField
	// FilterTransaction can be used to prevent a transaction from being
	// applied, returning false to drop it.
	FilterTransaction func(tr *Transaction, state *EditorState) bool
	// AppendTransaction allows the plugin to append a transaction to be
	// applied after the given array of transactions. When multiple
	// plugins return an appended transaction, they're applied in the
	// order that their plugins were added to the state.
	AppendTransaction func(trs []*Transaction, oldState, newState *EditorState) *Transaction
	// Props are used to define view-layer behavior, which is out of scope
	// for this package — kept as an opaque map so plugin definitions
	// ported from elsewhere don't need to drop the field.
	Props map[string]interface{}
	// HistoryPreserveItems tells the history plugin that this plugin's own
	// bookkeeping depends on undo/redo not merging or dropping items, so
	// the history branch should keep every item distinct and mappable
	// rather than compacting adjacent steps into one.
	HistoryPreserveItems bool
}

// Plugin is a plugin bundles extra functionality that can be added to an
// editor. Plugins bind external state to an editor state and can influence
// the way the state is transformed by transactions.
type Plugin struct {
	Spec *PluginSpec
	key  string
}

// NewPlugin constructs a plugin from its spec, generating a key when none
// was given.
func NewPlugin(spec *PluginSpec) *Plugin {
	if spec == nil {
		spec = &PluginSpec{}
	}
	k := spec.Key
	if k == nil {
		k = NewPluginKey("plugin")
	}
	return &Plugin{Spec: spec, key: k.String()}
}

// Key is this plugin's lookup key.
func (p *Plugin) Key() string { return p.key }

// GetState retrieves this plugin's state field from the given editor
// state, or nil if it has none.
func (p *Plugin) GetState(state *EditorState) interface{} {
	return state.fields[p.key]
}
