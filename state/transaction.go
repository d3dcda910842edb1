package state

import (
	"fmt"
	"time"

	"github.com/go-doceng/doceng/model"
	"github.com/go-doceng/doceng/selection"
	"github.com/go-doceng/doceng/transform"
)

const (
	updatedSelection = 1 << iota
	updatedMarks
	updatedScroll
)

// Transaction is an editor state update. Represents an atomic set of
// document/selection/stored-mark changes, plus arbitrary metadata that
// plugins can read to learn why a given transaction happened. It extends
// (composes, since Go has no class inheritance) transform.Transform with
// selection tracking: Transaction wraps every step-applying operation so
// the lazily-remapped selection, stored marks, and scroll flag stay in
// sync the way upstream's Transaction.addStep override does.
type Transaction struct {
	*transform.Transform

	curSelection    selection.Selection
	curSelectionFor int
	storedMarks     []*model.Mark
	updated         int
	meta            map[string]interface{}
	Time            int64
}

// NewTransaction starts a transaction from the given state's current
// document, selection and stored marks.
func NewTransaction(state *EditorState) *Transaction {
	return &Transaction{
		Transform:    transform.NewTransform(state.Doc),
		curSelection: state.Selection,
		storedMarks:  state.StoredMarks,
		meta:         map[string]interface{}{},
		Time:         time.Now().UnixMilli(),
	}
}

type mappingAdapter struct{ m *transform.Mapping }

func (a mappingAdapter) Map(pos int, assoc ...int) int { return a.m.Map(pos, assoc...) }

func (a mappingAdapter) MapResult(pos int, assoc ...int) selection.MapResult {
	r := a.m.MapResult(pos, assoc...)
	return selection.MapResult{Pos: r.Pos, Deleted: r.Deleted}
}

// Selection returns the transaction's current selection, lazily remapping
// the selection it started with through any steps appended since it was
// last computed or explicitly set.
func (tr *Transaction) Selection() selection.Selection {
	if tr.curSelectionFor < len(tr.Steps) {
		sliced := tr.Mapping.Slice(tr.curSelectionFor)
		tr.curSelection = tr.curSelection.Map(tr.Doc, mappingAdapter{sliced})
		tr.curSelectionFor = len(tr.Steps)
	}
	return tr.curSelection
}

// SetSelection updates the selection. Will usually cause the previous
// selection to be marked as discarded and the stored marks to be reset.
func (tr *Transaction) SetSelection(sel selection.Selection) error {
	if sel.FromResolved().Doc() != tr.Doc {
		return fmt.Errorf("Selection passed to setSelection must point at the current document")
	}
	tr.curSelection = sel
	tr.curSelectionFor = len(tr.Steps)
	tr.updated = (tr.updated | updatedSelection) &^ updatedMarks
	tr.storedMarks = nil
	return nil
}

// SelectionSet reports whether the selection was explicitly updated in
// this transaction.
func (tr *Transaction) SelectionSet() bool { return tr.updated&updatedSelection != 0 }

// SetStoredMarks sets the current stored marks.
func (tr *Transaction) SetStoredMarks(marks []*model.Mark) {
	tr.storedMarks = marks
	tr.updated |= updatedMarks
}

// EnsureMarks makes sure the current stored marks or, if that is nil, the
// marks at the selection are set to the given set of marks. Implements
// selection.Transform so a Selection.Replace call can restore marks
// across a deletion.
func (tr *Transaction) EnsureMarks(marks []*model.Mark) {
	current := tr.storedMarks
	if current == nil {
		current = tr.Selection().FromResolved().Marks()
	}
	if !model.SameMarkSet(current, marks) {
		tr.SetStoredMarks(marks)
	}
}

// AddStoredMark adds a mark to the set of stored marks.
func (tr *Transaction) AddStoredMark(mark *model.Mark) {
	current := tr.storedMarks
	if current == nil {
		current = tr.Selection().HeadResolved().Marks()
	}
	tr.EnsureMarks(mark.AddToSet(current))
}

// RemoveStoredMark removes marks of the given type from the set of stored
// marks.
func (tr *Transaction) RemoveStoredMark(markType *model.MarkType) {
	current := tr.storedMarks
	if current == nil {
		current = tr.Selection().HeadResolved().Marks()
	}
	tr.EnsureMarks(markType.RemoveFromSet(current))
}

// StoredMarksSet reports whether the stored marks were explicitly set
// (including to nil) in this transaction.
func (tr *Transaction) StoredMarksSet() bool { return tr.updated&updatedMarks != 0 }

func (tr *Transaction) selectionStoredMarks() []*model.Mark {
	return tr.Selection().FromResolved().Marks()
}

// SetTime overrides the transaction's timestamp.
func (tr *Transaction) SetTime(t int64) { tr.Time = t }

// ReplaceSelection replaces the selection with the given slice.
func (tr *Transaction) ReplaceSelection(slice *model.Slice) error {
	return tr.Selection().Replace(tr, slice)
}

// ReplaceSelectionWith replaces the selection with the given node. When
// inheritMarks is true (the default), the node gets the stored marks or,
// when there are none, the marks across the selection; these marks are
// not filtered against the schema.
func (tr *Transaction) ReplaceSelectionWith(node *model.Node, inheritMarks ...bool) error {
	inherit := true
	if len(inheritMarks) > 0 {
		inherit = inheritMarks[0]
	}
	sel := tr.Selection()
	if inherit {
		var marks []*model.Mark
		if tr.storedMarks != nil {
			marks = tr.storedMarks
		} else {
			marks = sel.FromResolved().MarksAcross(sel.ToResolved())
		}
		if marks != nil {
			node = node.Mark(marks)
		}
	}
	return sel.ReplaceWith(tr, node)
}

// DeleteSelection deletes the content of the selection.
func (tr *Transaction) DeleteSelection() error {
	return tr.ReplaceSelection(model.EmptySlice)
}

func (tr *Transaction) afterStep(prevSteps int, err error) error {
	if err != nil {
		return err
	}
	if len(tr.Steps) > prevSteps {
		tr.updated &^= updatedMarks
		tr.storedMarks = nil
	}
	return nil
}

// Step applies a new step, clearing stored marks the way every
// document-changing operation below does.
func (tr *Transaction) Step(s transform.Step) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.Step(s)
	return tr.afterStep(prev, err)
}

// MaybeStep tries to apply a step, ignoring it if it fails.
func (tr *Transaction) MaybeStep(s transform.Step) transform.StepResult {
	prev := len(tr.Steps)
	result := tr.Transform.MaybeStep(s)
	tr.afterStep(prev, nil)
	return result
}

// Replace replaces the part of the document between from and to with the
// given slice.
func (tr *Transaction) Replace(from, to int, slice *model.Slice) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.Replace(from, to, slice)
	return tr.afterStep(prev, err)
}

// ReplaceWith replaces the given range with the given content.
func (tr *Transaction) ReplaceWith(from, to int, content interface{}) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.ReplaceWith(from, to, content)
	return tr.afterStep(prev, err)
}

// Delete deletes the content between the given positions.
func (tr *Transaction) Delete(from, to int) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.Delete(from, to)
	return tr.afterStep(prev, err)
}

// Insert inserts the given content at the given position.
func (tr *Transaction) Insert(pos int, content interface{}) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.Insert(pos, content)
	return tr.afterStep(prev, err)
}

// ReplaceRange replaces the given range, used by Selection.Replace.
func (tr *Transaction) ReplaceRange(from, to int, slice *model.Slice) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.ReplaceRange(from, to, slice)
	return tr.afterStep(prev, err)
}

// ReplaceRangeWith replaces the given range with a single node, used by
// Selection.ReplaceWith.
func (tr *Transaction) ReplaceRangeWith(from, to int, node *model.Node) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.ReplaceRangeWith(from, to, node)
	return tr.afterStep(prev, err)
}

// DeleteRange removes the content between the given positions.
func (tr *Transaction) DeleteRange(from, to int) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.DeleteRange(from, to)
	return tr.afterStep(prev, err)
}

// InsertText inserts text, inheriting marks from the stored marks, the
// position, or the current selection (in that order of preference). When
// called with no position, it replaces the current selection, matching the
// empty-text-deletes behavior of upstream Transaction.insertText. When
// called with a position, an empty selection is only mapped, and a
// selection that is not empty afterwards collapses to a cursor near its end.
func (tr *Transaction) InsertText(text string, pos ...int) error {
	if len(pos) == 0 {
		if text == "" {
			return tr.DeleteSelection()
		}
		return tr.ReplaceSelectionWith(tr.Schema.Text(text), true)
	}
	from := pos[0]
	to := from
	if len(pos) > 1 {
		to = pos[1]
	}
	if text == "" {
		return tr.DeleteRange(from, to)
	}
	marks := tr.storedMarks
	if marks == nil {
		rfrom, err := tr.Doc.Resolve(from)
		if err != nil {
			return err
		}
		if to == from {
			marks = rfrom.Marks()
		} else {
			rto, err := tr.Doc.Resolve(to)
			if err != nil {
				return err
			}
			marks = rfrom.MarksAcross(rto)
		}
	}
	if err := tr.ReplaceRangeWith(from, to, tr.Schema.Text(text, marks)); err != nil {
		return err
	}
	if !tr.Selection().Empty() {
		return tr.SetSelection(selection.Near(tr.Selection().ToResolved()))
	}
	return nil
}

// AddMark adds the given mark to the inline content between from and to.
func (tr *Transaction) AddMark(from, to int, mark *model.Mark) {
	prev := len(tr.Steps)
	tr.Transform.AddMark(from, to, mark)
	tr.afterStep(prev, nil)
}

// RemoveMark removes marks matching mark (or all marks when mark is nil)
// from the inline content between from and to.
func (tr *Transaction) RemoveMark(from, to int, mark *model.Mark) {
	prev := len(tr.Steps)
	tr.Transform.RemoveMark(from, to, mark)
	tr.afterStep(prev, nil)
}

// Lift raises the content in r out of its parent node, placing it at
// target depth.
func (tr *Transaction) Lift(r *model.NodeRange, target int) {
	prev := len(tr.Steps)
	tr.Transform.Lift(r, target)
	tr.afterStep(prev, nil)
}

// Wrap wraps the given node range in the given set of wrappers.
func (tr *Transaction) Wrap(r *model.NodeRange, wrappers []transform.NodeTypeAttrs) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.Wrap(r, wrappers)
	return tr.afterStep(prev, err)
}

// SetBlockType sets the type of all textblocks between from and to to the
// given node type, with the given attributes.
func (tr *Transaction) SetBlockType(from, to int, typ *model.NodeType, attrs map[string]interface{}) {
	prev := len(tr.Steps)
	tr.Transform.SetBlockType(from, to, typ, attrs)
	tr.afterStep(prev, nil)
}

// SetNodeMarkup changes the type, attributes, and/or marks of the node at
// pos.
func (tr *Transaction) SetNodeMarkup(pos int, typ *model.NodeType, attrs map[string]interface{}, marks []*model.Mark) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.SetNodeMarkup(pos, typ, attrs, marks)
	return tr.afterStep(prev, err)
}

// Split splits the node at pos into two, at the given depth.
func (tr *Transaction) Split(pos, depth int, typesAfter ...*transform.TypeAfterSplit) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.Split(pos, depth, typesAfter...)
	return tr.afterStep(prev, err)
}

// Join joins the blocks around the given position.
func (tr *Transaction) Join(pos, depth int) error {
	prev := len(tr.Steps)
	_, err := tr.Transform.Join(pos, depth)
	return tr.afterStep(prev, err)
}

// SetMeta attaches metadata to this transaction under the given key. The
// key may be a plain string, a *Plugin, or a *PluginKey; plugin keys are
// resolved to their internal identity so two distinct plugins never
// collide even if constructed with the same label.
func (tr *Transaction) SetMeta(key interface{}, value interface{}) {
	tr.meta[metaKey(key)] = value
}

// GetMeta retrieves metadata previously attached with SetMeta.
func (tr *Transaction) GetMeta(key interface{}) interface{} {
	return tr.meta[metaKey(key)]
}

func (tr *Transaction) setMetaInternal(key string, value interface{}) {
	tr.meta[key] = value
}

func metaKey(key interface{}) string {
	switch k := key.(type) {
	case string:
		return k
	case *Plugin:
		return k.Key()
	case *PluginKey:
		return k.String()
	default:
		return fmt.Sprintf("%v", k)
	}
}

// IsGeneric reports whether no metadata has been set on this transaction,
// meaning it's probably safe for a plugin to apply it without inspecting
// it further.
func (tr *Transaction) IsGeneric() bool { return len(tr.meta) == 0 }

// ScrollIntoView marks this transaction as requesting the selection be
// scrolled into view once applied.
func (tr *Transaction) ScrollIntoView() { tr.updated |= updatedScroll }

// ScrolledIntoView reports whether ScrollIntoView was called on this
// transaction.
func (tr *Transaction) ScrolledIntoView() bool { return tr.updated&updatedScroll != 0 }
