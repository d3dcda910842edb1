// Package selection implements editor selections: ranges into a document
// that describe where the user's cursor, text selection, or selected node
// currently is.
package selection

import (
	"fmt"

	"github.com/go-doceng/doceng/model"
)

// Range is a part of a selection that covers a single flat range. Most
// selections only have one, but a cross-cell selection in a table can have
// several.
type Range struct {
	From *model.ResolvedPos
	To   *model.ResolvedPos
}

// NewRange constructs a Range.
func NewRange(from, to *model.ResolvedPos) *Range {
	return &Range{From: from, To: to}
}

// Selection is the superclass for editor selections. Every selection type
// must extend it (by embedding Base) and implement Eq, Map, Replace,
// ReplaceWith, ToJSON, GetBookmark and Visible, which Base does not provide.
type Selection interface {
	Anchor() int
	Head() int
	From() int
	To() int
	FromResolved() *model.ResolvedPos
	ToResolved() *model.ResolvedPos
	AnchorResolved() *model.ResolvedPos
	HeadResolved() *model.ResolvedPos
	Ranges() []*Range
	Empty() bool

	Eq(other Selection) bool
	Map(doc *model.Node, mapping Mappable) Selection
	Content() (*model.Slice, error)
	Replace(tr Transform, content *model.Slice) error
	ReplaceWith(tr Transform, node *model.Node) error
	ToJSON() map[string]interface{}
	GetBookmark() Bookmark
	Visible() bool
}

// Mappable is the subset of transform.Mapping used by selections to remap
// positions across document changes.
type Mappable interface {
	Map(pos int, assoc ...int) int
	MapResult(pos int, assoc ...int) MapResult
}

// MapResult mirrors transform.MapResult so that this package does not
// import the transform package.
type MapResult struct {
	Pos     int
	Deleted bool
}

// Transform is the subset of the state package's Transaction needed by
// Selection.Replace/ReplaceWith, avoiding an import cycle (the state
// package imports selection, so selection cannot import state back).
type Transform interface {
	ReplaceRange(from, to int, slice *model.Slice) error
	ReplaceRangeWith(from, to int, node *model.Node) error
	EnsureMarks(marks []*model.Mark)
}

// Bookmark is a lightweight, document-independent representation of a
// selection that can be mapped across steps without holding on to a stale
// resolved position, then resolved back against the eventual document.
type Bookmark interface {
	Map(mapping Mappable) Bookmark
	Resolve(doc *model.Node) Selection
}

// Base holds the two bounding resolved positions shared by every
// selection, plus any extra flat ranges (currently always the bounding
// range itself — sub-selections such as table cell selections are out of
// scope).
type Base struct {
	AnchorPos *model.ResolvedPos
	HeadPos   *model.ResolvedPos
	ranges    []*Range
}

// NewBase builds the shared Base of a concrete selection type.
func NewBase(anchor, head *model.ResolvedPos, ranges ...[]*Range) Base {
	b := Base{AnchorPos: anchor, HeadPos: head}
	if len(ranges) > 0 && len(ranges[0]) > 0 {
		b.ranges = ranges[0]
	} else {
		from, to := anchor, head
		if from.Pos > to.Pos {
			from, to = to, from
		}
		b.ranges = []*Range{NewRange(from, to)}
	}
	return b
}

func (b Base) Anchor() int { return b.AnchorPos.Pos }
func (b Base) Head() int   { return b.HeadPos.Pos }

func (b Base) AnchorResolved() *model.ResolvedPos { return b.AnchorPos }
func (b Base) HeadResolved() *model.ResolvedPos   { return b.HeadPos }

func (b Base) FromResolved() *model.ResolvedPos {
	min := b.ranges[0].From
	for _, r := range b.ranges {
		if r.From.Pos < min.Pos {
			min = r.From
		}
	}
	return min
}

func (b Base) ToResolved() *model.ResolvedPos {
	max := b.ranges[0].To
	for _, r := range b.ranges {
		if r.To.Pos > max.Pos {
			max = r.To
		}
	}
	return max
}

func (b Base) From() int { return b.FromResolved().Pos }
func (b Base) To() int   { return b.ToResolved().Pos }

func (b Base) Ranges() []*Range { return b.ranges }

func (b Base) Empty() bool {
	for _, r := range b.ranges {
		if r.From.Pos != r.To.Pos {
			return false
		}
	}
	return true
}

// Content returns the slice of the document spanned by this selection's
// bounding range, with open ends so it can be spliced back in elsewhere.
func (b Base) Content() (*model.Slice, error) {
	return b.FromResolved().Doc().Slice(b.From(), b.To(), true)
}

// doReplace deletes the selection's content and replaces it with the given
// slice (model.EmptySlice for a plain delete). Grounded on upstream
// Selection.prototype.replace: after a plain deletion, marks active at the
// boundary are carried over as stored marks so typing continues them.
func doReplace(sel Selection, tr Transform, content *model.Slice) error {
	if err := tr.ReplaceRange(sel.From(), sel.To(), content); err != nil {
		return err
	}
	if content.Size() == 0 {
		from := sel.FromResolved()
		to := sel.ToResolved()
		if marks := marksAcross(from, to); marks != nil {
			tr.EnsureMarks(marks)
		}
	}
	return nil
}

func marksAcross(from, to *model.ResolvedPos) []*model.Mark {
	return from.MarksAcross(to)
}

// doReplaceWith replaces the range from..to with a single node.
func doReplaceWith(tr Transform, from, to int, node *model.Node) error {
	return tr.ReplaceRangeWith(from, to, node)
}

// Near finds a valid cursor or leaf node selection starting at the given
// position and searching back and forth, defaulting to an AllSelection if
// no valid position exists anywhere in the document.
func Near(pos *model.ResolvedPos, bias ...int) Selection {
	b := 1
	if len(bias) > 0 {
		b = bias[0]
	}
	if sel := FindFrom(pos, b); sel != nil {
		return sel
	}
	if sel := FindFrom(pos, -b); sel != nil {
		return sel
	}
	return NewAllSelection(pos.Node(0))
}

// FindFrom searches, starting at $pos and going in the given direction,
// for a valid selection. Returns nil if no valid selection position is
// found in that direction.
func FindFrom(pos *model.ResolvedPos, dir int, textOnly ...bool) Selection {
	only := len(textOnly) > 0 && textOnly[0]
	doc := pos.Node(0)
	if pos.Parent().InlineContent() {
		return NewTextSelection(pos, pos)
	}
	if sel := findSelectionIn(doc, pos.Parent(), pos.Pos, pos.Index(), dir, only); sel != nil {
		return sel
	}
	for depth := pos.Depth - 1; depth >= 0; depth-- {
		var sel Selection
		if dir < 0 {
			sel = findSelectionIn(doc, pos.Node(depth), pos.Before(depth+1), pos.Index(depth), dir, only)
		} else {
			sel = findSelectionIn(doc, pos.Node(depth), pos.After(depth+1), pos.Index(depth)+1, dir, only)
		}
		if sel != nil {
			return sel
		}
	}
	return nil
}

func findSelectionIn(doc, node *model.Node, pos, index, dir int, textOnly bool) Selection {
	if node.InlineContent() {
		rp, err := doc.Resolve(pos)
		if err != nil {
			return nil
		}
		return NewTextSelection(rp, rp)
	}
	start := index
	if dir <= 0 {
		start = index - 1
	}
	for i := start; (dir > 0 && i < node.ChildCount()) || (dir < 0 && i >= 0); i += dir {
		child := node.Child(i)
		if !child.IsAtom() {
			innerIndex := 1
			if dir < 0 {
				innerIndex = child.NodeSize() - 1
			}
			if sel := findSelectionIn(doc, child, pos+dir, innerIndex, dir, textOnly); sel != nil {
				return sel
			}
		} else if !textOnly && IsSelectable(child) {
			at := pos
			if dir < 0 {
				at -= child.NodeSize()
			}
			rp, err := doc.Resolve(at)
			if err != nil {
				return nil
			}
			return NewNodeSelectionAt(rp)
		}
		pos += child.NodeSize() * dir
	}
	return nil
}

// AtStart finds the cursor or leaf-node selection closest to the start of
// the given document, falling back to an AllSelection.
func AtStart(doc *model.Node) Selection {
	if sel := findSelectionIn(doc, doc, 0, 0, 1, false); sel != nil {
		return sel
	}
	return NewAllSelection(doc)
}

// AtEnd finds the cursor or leaf-node selection closest to the end of the
// given document, falling back to an AllSelection.
func AtEnd(doc *model.Node) Selection {
	if sel := findSelectionIn(doc, doc, doc.Content.Size, doc.ChildCount(), -1, false); sel != nil {
		return sel
	}
	return NewAllSelection(doc)
}

// IsSelectable reports whether a node of this type can be the target of a
// NodeSelection, i.e. it is not text and its spec has not opted out via
// Selectable: false.
func IsSelectable(node *model.Node) bool {
	if node.IsText() {
		return false
	}
	if node.Type.Spec.Selectable != nil {
		return *node.Type.Spec.Selectable
	}
	return true
}

// selectionFromJSONFunc builds a Selection from its JSON representation.
type selectionFromJSONFunc func(doc *model.Node, obj map[string]interface{}) (Selection, error)

var selectionsByID = map[string]selectionFromJSONFunc{}

// JSONID registers a selection class under the given JSON type id. Panics
// on a duplicate id, mirroring upstream Selection.jsonID.
func JSONID(id string, fromJSON selectionFromJSONFunc) {
	if _, ok := selectionsByID[id]; ok {
		panic(fmt.Sprintf("Duplicate use of selection JSON ID %s", id))
	}
	selectionsByID[id] = fromJSON
}

// FromJSON deserializes a JSON-represented selection using the registry
// keyed by its "type" field.
func FromJSON(doc *model.Node, obj map[string]interface{}) (Selection, error) {
	if obj == nil {
		return nil, fmt.Errorf("Invalid input for Selection.fromJSON")
	}
	typ, ok := obj["type"].(string)
	if !ok {
		return nil, fmt.Errorf("Invalid input for Selection.fromJSON")
	}
	fromJSON, ok := selectionsByID[typ]
	if !ok {
		return nil, fmt.Errorf("No selection type %s defined", typ)
	}
	return fromJSON(doc, obj)
}

func init() {
	JSONID("text", TextSelectionFromJSON)
	JSONID("node", NodeSelectionFromJSON)
	JSONID("all", AllSelectionFromJSON)
}
