package transform

import (
	"errors"

	"github.com/go-doceng/doceng/model"
)

// TransformError is raised by Transform.Step when the underlying StepResult
// failed. Transform.MaybeStep surfaces the failure instead of raising this.
type TransformError struct{ error }

func newTransformError(message string) error {
	return TransformError{errors.New(message)}
}

// Transform represents an abstract transformation that, when applied to a
// certain document, resulted in this document. This class is not meant to be
// used directly. It is a superclass for other transform classes.
//
// A Transform accumulates steps, the documents those steps produced, and a
// Mapping composed from each step's position map, so positions computed
// against its starting document can be mapped forward to the current one.
type Transform struct {
	// Doc is the current document (the result of applying all steps so far).
	Doc *model.Node
	// Steps are the steps in this transform.
	Steps []Step
	// Docs holds the documents before each of the steps.
	Docs []*model.Node
	// Mapping is a mapping composed of the step maps of every step.
	Mapping *Mapping
	// Schema is the schema of the transform's document.
	Schema *model.Schema
}

// NewTransform is the constructor for Transform.
func NewTransform(doc *model.Node) *Transform {
	return &Transform{Doc: doc, Mapping: NewMapping(), Schema: doc.Type.Schema}
}

// Before is the starting document.
func (tr *Transform) Before() *model.Node {
	if len(tr.Docs) > 0 {
		return tr.Docs[0]
	}
	return tr.Doc
}

// DocChanged reports whether any steps have been applied to this transform.
func (tr *Transform) DocChanged() bool {
	return len(tr.Steps) > 0
}

// Step applies a new step in this transform, saving the result. Throws an
// error when the step fails.
func (tr *Transform) Step(s Step) (*Transform, error) {
	result := tr.MaybeStep(s)
	if result.Failed != "" {
		return tr, newTransformError(result.Failed)
	}
	return tr, nil
}

// MaybeStep tries to apply a step in this transform, ignoring it if it
// fails. Returns the step result.
func (tr *Transform) MaybeStep(s Step) StepResult {
	result := s.Apply(tr.Doc)
	if result.Failed == "" {
		tr.addStep(s, result.Doc)
	}
	return result
}

func (tr *Transform) addStep(s Step, doc *model.Node) {
	tr.Docs = append(tr.Docs, tr.Doc)
	tr.Steps = append(tr.Steps, s)
	tr.Mapping.AppendMap(s.GetMap())
	tr.Doc = doc
}

// Replace replaces the part of the document between from and to with the
// given slice.
func (tr *Transform) Replace(from int, to int, slice *model.Slice) (*Transform, error) {
	return tr.Step(NewReplaceStep(from, to, slice))
}

// ReplaceWith replaces the given range with the given content, which may be
// a node, a fragment, or a slice of nodes.
func (tr *Transform) ReplaceWith(from, to int, content interface{}) (*Transform, error) {
	fragment, err := model.FragmentFrom(content)
	if err != nil {
		return tr, err
	}
	return tr.Replace(from, to, model.NewSlice(fragment, 0, 0))
}

// Delete deletes the content between the given positions.
func (tr *Transform) Delete(from, to int) (*Transform, error) {
	return tr.Replace(from, to, model.EmptySlice)
}

// Insert inserts the given content at the given position.
func (tr *Transform) Insert(pos int, content interface{}) (*Transform, error) {
	return tr.ReplaceWith(pos, pos, content)
}

// InsertText inserts text at the given range, inheriting the marks present
// at from (or spanning from..to when the range is non-empty).
func (tr *Transform) InsertText(text string, from int, to ...int) (*Transform, error) {
	t := from
	if len(to) > 0 {
		t = to[0]
	}
	if text == "" {
		return tr.Delete(from, t)
	}
	rfrom, err := tr.Doc.Resolve(from)
	if err != nil {
		return tr, err
	}
	var marks []*model.Mark
	if t == from {
		marks = rfrom.Marks()
	} else {
		rto, err := tr.Doc.Resolve(t)
		if err != nil {
			return tr, err
		}
		marks = rfrom.MarksAcross(rto)
	}
	return tr.ReplaceWith(from, t, tr.Schema.Text(text, marks))
}

// AddMark adds the given mark to the inline content between from and to.
func (tr *Transform) AddMark(from, to int, mark *model.Mark) *Transform {
	var removing, adding *markRange
	var removed, added []*markRange

	tr.Doc.NodesBetween(from, to, func(node *model.Node, pos int, parent *model.Node, index int) bool {
		if !node.IsInline() {
			return true
		}
		marks := node.Marks
		if !mark.IsInSet(marks) && node.Type.AllowsMarkType(mark.Type) {
			start := max(pos, from)
			end := min(pos+node.NodeSize(), to)
			newSet := mark.AddToSet(marks)
			for _, m := range marks {
				if !m.IsInSet(newSet) {
					if removing != nil && removing.to == start && removing.mark.Eq(m) {
						removing.to = end
					} else {
						removing = &markRange{from: start, to: end, mark: m}
						removed = append(removed, removing)
					}
				}
			}
			if adding != nil && adding.to == start {
				adding.to = end
			} else {
				adding = &markRange{from: start, to: end, mark: mark}
				added = append(added, adding)
			}
		}
		return true
	})

	for _, r := range removed {
		tr.MaybeStep(NewRemoveMarkStep(r.from, r.to, r.mark))
	}
	for _, r := range added {
		tr.MaybeStep(NewAddMarkStep(r.from, r.to, r.mark))
	}
	return tr
}

type markRange struct {
	from, to int
	mark     *model.Mark
}

// RemoveMark removes marks from the inline content between from and to. When
// mark is nil, all marks are removed; otherwise only marks equal to it.
func (tr *Transform) RemoveMark(from, to int, mark *model.Mark) *Transform {
	type matched struct {
		style    *model.Mark
		from, to int
		step     int
	}
	var matches []*matched
	step := 0

	tr.Doc.NodesBetween(from, to, func(node *model.Node, pos int, parent *model.Node, index int) bool {
		if !node.IsInline() {
			return true
		}
		step++
		var toRemove []*model.Mark
		if mark != nil {
			if mark.IsInSet(node.Marks) {
				toRemove = []*model.Mark{mark}
			}
		} else {
			toRemove = node.Marks
		}
		if len(toRemove) > 0 {
			end := min(pos+node.NodeSize(), to)
			for _, style := range toRemove {
				var found *matched
				for _, m := range matches {
					if m.step == step-1 && style.Eq(m.style) {
						found = m
						break
					}
				}
				if found != nil {
					found.to = end
					found.step = step
				} else {
					matches = append(matches, &matched{style: style, from: max(pos, from), to: end, step: step})
				}
			}
		}
		return true
	})

	for _, m := range matches {
		tr.MaybeStep(NewRemoveMarkStep(m.from, m.to, m.style))
	}
	return tr
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Lift unwraps content from its immediate parent(s), up to the given
// target depth.
func (tr *Transform) Lift(r *model.NodeRange, target int) *Transform {
	from, to := r.From, r.To
	depth := r.Depth
	gapStart, gapEnd := from.Before(depth+1), to.After(depth+1)
	start, end := gapStart, gapEnd

	before := model.EmptyFragment
	openStart := 0
	splitting := false
	for d := depth; d > target; d-- {
		if splitting || from.Index(d) > 0 {
			splitting = true
			before = model.FragmentFromArray([]*model.Node{from.Node(d).Copy(before)})
			openStart++
		} else {
			start--
		}
	}

	after := model.EmptyFragment
	openEnd := 0
	splitting = false
	for d := depth; d > target; d-- {
		if splitting || to.After(d+1) < to.End(d) {
			splitting = true
			after = model.FragmentFromArray([]*model.Node{to.Node(d).Copy(after)})
			openEnd++
		} else {
			end++
		}
	}

	tr.MaybeStep(NewReplaceAroundStep(start, end, gapStart, gapEnd,
		model.NewSlice(before.Append(after), openStart, openEnd),
		before.Size-openStart, true))
	return tr
}

// Wrap wraps the given range in the given sequence of node types, innermost
// first.
func (tr *Transform) Wrap(r *model.NodeRange, wrappers []NodeTypeAttrs) (*Transform, error) {
	content := model.EmptyFragment
	for i := len(wrappers) - 1; i >= 0; i-- {
		w := wrappers[i]
		if content.Size > 0 {
			match := w.Type.ContentMatch.MatchFragment(content)
			if match == nil || !match.ValidEnd {
				return tr, newTransformError("Wrapper type given to Transform.wrap does not form valid content of its parent wrapper")
			}
		}
		node, err := w.Type.Create(w.Attrs, content, nil)
		if err != nil {
			return tr, err
		}
		content = model.FragmentFromArray([]*model.Node{node})
	}

	start, end := r.Start(), r.End()
	tr.MaybeStep(NewReplaceAroundStep(start, end, start, end, model.NewSlice(content, 0, 0), len(wrappers), true))
	return tr, nil
}

// NodeTypeAttrs pairs a node type with the attributes to create it with,
// used by Wrap.
type NodeTypeAttrs struct {
	Type  *model.NodeType
	Attrs map[string]interface{}
}

// SetBlockType changes the type and attributes of every textblock node
// between from and to whose parent allows the new type.
func (tr *Transform) SetBlockType(from, to int, typ *model.NodeType, attrs map[string]interface{}) *Transform {
	mapFrom := len(tr.Steps)
	tr.Doc.NodesBetween(from, to, func(node *model.Node, pos int, parent *model.Node, index int) bool {
		if !node.IsTextblock() || node.HasMarkup(typ, attrs, nil) {
			return true
		}
		mapped := tr.Mapping.Slice(mapFrom)
		mPos := mapped.Map(pos, 1)
		target := tr.Doc.NodeAt(mPos)
		if target == nil {
			return true
		}
		rp, err := tr.Doc.Resolve(mPos)
		if err != nil {
			return false
		}
		par, idx := rp.Parent(), rp.Index()
		match := par.Type.ContentMatch.MatchFragment(par.Content, 0, idx)
		if match != nil {
			match = match.MatchType(typ)
		}
		if match != nil {
			match = match.MatchFragment(par.Content, idx+1)
		}
		if match == nil || !match.ValidEnd {
			return false
		}
		marks := target.Marks
		if !typ.AllowsMarks(marks) {
			var kept []*model.Mark
			for _, m := range marks {
				if typ.AllowsMarkType(m.Type) {
					kept = append(kept, m)
				}
			}
			marks = kept
		}
		newNode, err := typ.Create(attrs, nil, marks)
		if err != nil {
			return false
		}
		endPos := mapped.Map(pos+node.NodeSize(), 1)
		tr.MaybeStep(NewReplaceAroundStep(mPos, endPos, mPos+1, endPos-1,
			model.NewSlice(model.FragmentFromArray([]*model.Node{newNode}), 0, 0), 1, true))
		return false
	})
	return tr
}

// SetNodeMarkup changes the type, attributes, and/or marks of the node at
// the given position.
func (tr *Transform) SetNodeMarkup(pos int, typ *model.NodeType, attrs map[string]interface{}, marks []*model.Mark) (*Transform, error) {
	node := tr.Doc.NodeAt(pos)
	if node == nil {
		return tr, newTransformError("No node at given position")
	}
	if typ == nil {
		typ = node.Type
	}
	useMarks := marks
	if useMarks == nil {
		useMarks = node.Marks
	}
	newNode, err := typ.Create(attrs, nil, useMarks)
	if err != nil {
		return tr, err
	}
	if node.IsLeaf() {
		return tr.ReplaceWith(pos, pos+node.NodeSize(), newNode)
	}
	if !typ.ValidContent(node.Content) {
		return tr, newTransformError("Invalid content for node type " + typ.Name)
	}
	tr.MaybeStep(NewReplaceAroundStep(pos, pos+node.NodeSize(), pos+1, pos+node.NodeSize()-1,
		model.NewSlice(model.FragmentFromArray([]*model.Node{newNode}), 0, 0), 1, true))
	return tr, nil
}

// TypeAfterSplit describes the node type (and attrs) a split should use for
// the content after the split point at a given depth, overriding the
// default of reusing the original node's type.
type TypeAfterSplit struct {
	Type  *model.NodeType
	Attrs map[string]interface{}
}

// Split splits the node at the given position, and up to the given depth.
// typesAfter optionally gives the node type/attrs for the new nodes created
// after the split, innermost first.
func (tr *Transform) Split(pos int, depth int, typesAfter ...*TypeAfterSplit) (*Transform, error) {
	rpos, err := tr.Doc.Resolve(pos)
	if err != nil {
		return tr, err
	}
	before := model.EmptyFragment
	after := model.EmptyFragment
	for d, e, i := rpos.Depth, rpos.Depth-depth, depth-1; d > e; d, i = d-1, i-1 {
		before = model.FragmentFromArray([]*model.Node{rpos.Node(d).Copy(before)})
		var typeAfter *TypeAfterSplit
		if i >= 0 && i < len(typesAfter) {
			typeAfter = typesAfter[i]
		}
		if typeAfter != nil {
			newNode, err := typeAfter.Type.Create(typeAfter.Attrs, after, nil)
			if err != nil {
				return tr, err
			}
			after = model.FragmentFromArray([]*model.Node{newNode})
		} else {
			after = model.FragmentFromArray([]*model.Node{rpos.Node(d).Copy(after)})
		}
	}
	return tr.Step(NewReplaceStep(pos, pos, model.NewSlice(before.Append(after), depth, depth), true))
}

// Join joins the blocks around the given position.
func (tr *Transform) Join(pos int, depth int) (*Transform, error) {
	return tr.Step(NewReplaceStep(pos-depth, pos+depth, model.EmptySlice, true))
}

// ReplaceRange replaces the given range with the given slice, reusing the
// plain Replace step when the slice's open ends already fit the target
// range directly. Upstream additionally searches outward through ancestor
// depths for a structurally valid splice point when the trivial fit fails
// (prosemirror-transform's replaceRange); that broader search is not
// ported here, so callers that need it should resolve the range
// themselves and call Replace with an appropriately shaped slice.
func (tr *Transform) ReplaceRange(from, to int, slice *model.Slice) (*Transform, error) {
	if slice.Size() == 0 {
		return tr.Delete(from, to)
	}
	return tr.Replace(from, to, slice)
}

// ReplaceRangeWith replaces the given range with a single node.
func (tr *Transform) ReplaceRangeWith(from, to int, node *model.Node) (*Transform, error) {
	return tr.ReplaceWith(from, to, node)
}

// DeleteRange removes the content between the given positions.
func (tr *Transform) DeleteRange(from, to int) (*Transform, error) {
	return tr.Delete(from, to)
}
