package model

import (
	"sync"
)

// ResolvedPos means resolved position. You can resolve a position to get more
// information about it. Objects of this class represent such a resolved
// position, providing various pieces of context information, and some helper
// methods.
//
// Throughout this interface, methods that take an optional depth parameter
// will interpret an absent depth as this.Depth and negative numbers as
// this.Depth + value.
type ResolvedPos struct {
	// Pos is the position that was resolved.
	Pos  int
	Path []interface{}
	// Depth is the number of levels the parent node is from the root. If
	// this position points directly into the root node, it is 0. If it
	// points into a top-level paragraph, 1, and so on.
	Depth int
	// ParentOffset is the offset this position has into its parent node.
	ParentOffset int
}

// NewResolvedPos is the constructor of ResolvedPos.
func NewResolvedPos(pos int, path []interface{}, parentOffset int) *ResolvedPos {
	return &ResolvedPos{
		Pos:          pos,
		Path:         path,
		Depth:        len(path)/3 - 1,
		ParentOffset: parentOffset,
	}
}

func (r *ResolvedPos) resolveDepth(val *int) int {
	if val == nil {
		return r.Depth
	}
	if *val < 0 {
		return r.Depth + *val
	}
	return *val
}

// Parent returns the parent node that the position points into. Note that
// even if a position points into a text node, that node is not considered
// the parent — text nodes are "flat" in this model, and have no content.
func (r *ResolvedPos) Parent() *Node { return r.Node(r.Depth) }

// Doc is the root node in which the position was resolved.
func (r *ResolvedPos) Doc() *Node { return r.Node(0) }

// Node returns the ancestor node at the given level. Node(Depth) is the
// same as Parent().
func (r *ResolvedPos) Node(depth ...int) *Node {
	var d *int
	if len(depth) > 0 {
		d = &depth[0]
	}
	return r.Path[r.resolveDepth(d)*3].(*Node)
}

// Index returns the index into the ancestor at the given level. If this
// points at the 3rd node in the 2nd paragraph on the top level, for
// example, Index(0) is 1 and Index(1) is 2.
func (r *ResolvedPos) Index(depth ...int) int {
	var d *int
	if len(depth) > 0 {
		d = &depth[0]
	}
	return r.Path[r.resolveDepth(d)*3+1].(int)
}

// IndexAfter returns the index pointing after this position into the
// ancestor at the given level.
func (r *ResolvedPos) IndexAfter(depth ...int) int {
	var d *int
	if len(depth) > 0 {
		d = &depth[0]
	}
	rd := r.resolveDepth(d)
	offset := 0
	if rd == r.Depth && r.TextOffset() == 0 {
		offset = 1
	}
	return r.Index(rd) + offset
}

// Start is the (absolute) position at the start of the node at the given
// level.
func (r *ResolvedPos) Start(depth ...int) int {
	var d *int
	if len(depth) > 0 {
		d = &depth[0]
	}
	rd := r.resolveDepth(d)
	if rd == 0 {
		return 0
	}
	return r.Path[rd*3-1].(int) + 1
}

// End is the (absolute) position at the end of the node at the given level.
func (r *ResolvedPos) End(depth ...int) int {
	var d *int
	if len(depth) > 0 {
		d = &depth[0]
	}
	rd := r.resolveDepth(d)
	return r.Start(rd) + r.Node(rd).Content.Size
}

// Before is the (absolute) position directly before the wrapping node at the
// given level, or, when depth is Depth+1, the original position. Panics at
// depth 0 (the top-level node has no position before it).
func (r *ResolvedPos) Before(depth ...int) int {
	var d *int
	if len(depth) > 0 {
		d = &depth[0]
	}
	rd := r.resolveDepth(d)
	if rd == 0 {
		panic(newRangeError("There is no position before the top-level node"))
	}
	if rd == r.Depth+1 {
		return r.Pos
	}
	return r.Path[rd*3-1].(int)
}

// After is the (absolute) position directly after the wrapping node at the
// given level, or the original position when depth is Depth+1. Panics at
// depth 0.
func (r *ResolvedPos) After(depth ...int) int {
	var d *int
	if len(depth) > 0 {
		d = &depth[0]
	}
	rd := r.resolveDepth(d)
	if rd == 0 {
		panic(newRangeError("There is no position after the top-level node"))
	}
	if rd == r.Depth+1 {
		return r.Pos
	}
	return r.Path[rd*3-1].(int) + r.Path[rd*3].(*Node).NodeSize()
}

// TextOffset returns, when this position points into a text node, the
// distance between the position and the start of the text node. Zero for
// positions that point between nodes.
func (r *ResolvedPos) TextOffset() int {
	return r.Pos - r.Path[len(r.Path)-1].(int)
}

// NodeAfter gets the node directly after the position, if any. If the
// position points into a text node, only the part of that node after the
// position is returned.
func (r *ResolvedPos) NodeAfter() *Node {
	parent := r.Parent()
	index := r.Index(r.Depth)
	if index == parent.ChildCount() {
		return nil
	}
	dOff := r.Pos - r.Path[len(r.Path)-1].(int)
	child := parent.Child(index)
	if dOff > 0 {
		return child.Cut(dOff)
	}
	return child
}

// NodeBefore gets the node directly before the position, if any. If the
// position points into a text node, only the part of that node before the
// position is returned.
func (r *ResolvedPos) NodeBefore() *Node {
	index := r.Index(r.Depth)
	dOff := r.Pos - r.Path[len(r.Path)-1].(int)
	if dOff > 0 {
		return r.Parent().Child(index).Cut(0, dOff)
	}
	if index == 0 {
		return nil
	}
	return r.Parent().Child(index - 1)
}

// Marks gets the marks at this position, factoring in the surrounding
// marks' inclusive property. If the position is at the start of a non-empty
// node, the marks of the node after it (if any) are returned.
func (r *ResolvedPos) Marks() []*Mark {
	parent := r.Parent()
	index := r.Index()

	if parent.Content.Size == 0 {
		return NoMarks
	}

	if r.TextOffset() > 0 {
		return parent.Child(index).Marks
	}

	main := parent.MaybeChild(index - 1)
	other := parent.MaybeChild(index)
	if main == nil {
		main, other = other, main
	}
	if main == nil {
		return NoMarks
	}

	marks := main.Marks
	for _, m := range main.Marks {
		if m.Type.Spec.Inclusive != nil && !*m.Type.Spec.Inclusive &&
			(other == nil || !m.IsInSet(other.Marks)) {
			marks = m.RemoveFromSet(marks)
		}
	}
	return marks
}

// MarksAcross gets the marks after the current position, if any, except
// those that are non-inclusive and not present at the given end position.
// Returns nil when the position does not point at inline content.
func (r *ResolvedPos) MarksAcross(end *ResolvedPos) []*Mark {
	after := r.Parent().MaybeChild(r.Index())
	if after == nil || !after.IsInline() {
		return nil
	}
	marks := after.Marks
	next := end.Parent().MaybeChild(end.Index())
	for _, m := range marks {
		if m.Type.Spec.Inclusive != nil && !*m.Type.Spec.Inclusive &&
			(next == nil || !m.IsInSet(next.Marks)) {
			marks = m.RemoveFromSet(marks)
		}
	}
	return marks
}

// SharedDepth is the depth up to which this position and the given
// (non-resolved) position share the same parent nodes.
func (r *ResolvedPos) SharedDepth(pos int) int {
	for depth := r.Depth; depth > 0; depth-- {
		if r.Start(depth) <= pos && r.End(depth) >= pos {
			return depth
		}
	}
	return 0
}

// BlockRange returns a range based on the place where this position and the
// given other position (defaulting to this position) diverge around block
// content. Returns nil if there is no meaningful range.
func (r *ResolvedPos) BlockRange(other *ResolvedPos, pred func(*Node) bool) *NodeRange {
	if other == nil {
		other = r
	}
	if other.Pos < r.Pos {
		return other.BlockRange(r, pred)
	}
	for d := r.Depth - boolToInt(r.Parent().InlineContent() || r.Pos == other.Pos); d >= 0; d-- {
		if other.Pos <= r.End(d) {
			if pred == nil || pred(r.Node(d)) {
				return NewNodeRange(r, other, d)
			}
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func resolvePos(doc *Node, pos int) (*ResolvedPos, error) {
	if pos < 0 || pos > doc.Content.Size {
		return nil, newRangeError("Position %d out of range", pos)
	}
	path := []interface{}{}
	start := 0
	parentOffset := pos
	node := doc
	for {
		index, offset := node.Content.FindIndex(parentOffset)
		rem := parentOffset - offset
		path = append(path, node, index, start+offset)
		if rem == 0 {
			break
		}
		node = node.Child(index)
		if node.IsText() {
			break
		}
		parentOffset = rem - 1
		start += offset + 1
	}
	return NewResolvedPos(pos, path, parentOffset), nil
}

func resolvePosCached(doc *Node, pos int) (*ResolvedPos, error) {
	resolveCacheMutex.Lock()
	defer resolveCacheMutex.Unlock()
	for _, entry := range resolveCache {
		if entry.doc == doc && entry.pos != nil && entry.pos.Pos == pos {
			return entry.pos, nil
		}
	}
	result, err := resolvePos(doc, pos)
	if err != nil {
		return nil, err
	}
	resolveCache[resolveCachePos] = resolveEntry{doc, result}
	resolveCachePos = (resolveCachePos + 1) % len(resolveCache)
	return result, nil
}

type resolveEntry struct {
	doc *Node
	pos *ResolvedPos
}

var (
	resolveCacheMutex sync.Mutex
	resolveCache      = make([]resolveEntry, 12)
	resolveCachePos   = 0
)

// NodeRange represents a flat range of content, i.e. one that starts and
// ends in the same node.
type NodeRange struct {
	// From is a resolved position along the start of the content.
	From *ResolvedPos
	// To is a resolved position along the end of the content.
	To *ResolvedPos
	// Depth is the depth of the node that this range points into.
	Depth int
}

// NewNodeRange is the constructor for NodeRange.
func NewNodeRange(from, to *ResolvedPos, depth int) *NodeRange {
	return &NodeRange{From: from, To: to, Depth: depth}
}

// Start is the position at the start of the range.
func (nr *NodeRange) Start() int { return nr.From.Before(nr.Depth + 1) }

// End is the position at the end of the range.
func (nr *NodeRange) End() int { return nr.To.After(nr.Depth + 1) }

// Parent is the parent node that the range points into.
func (nr *NodeRange) Parent() *Node { return nr.From.Node(nr.Depth) }

// StartIndex is the start index of the range in the parent node.
func (nr *NodeRange) StartIndex() int { return nr.From.Index(nr.Depth) }

// EndIndex is the end index of the range in the parent node.
func (nr *NodeRange) EndIndex() int { return nr.To.IndexAfter(nr.Depth) }
