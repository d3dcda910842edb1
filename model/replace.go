package model

import "fmt"

// A Slice represents a piece cut out of a larger document. It stores not
// only a fragment, but also the depth up to which nodes on both sides are
// "open" (cut through).
type Slice struct {
	// Content is the slice's content.
	Content *Fragment
	// OpenStart is the open depth at the start.
	OpenStart int
	// OpenEnd is the open depth at the end.
	OpenEnd int
}

// NewSlice constructs a slice. When specifying a non-zero open depth, you
// must make sure that there are nodes of at least that depth at the
// appropriate side of the fragment — i.e. if the fragment is an empty
// paragraph node, openStart and openEnd can't be greater than 1.
//
// It is not necessary for the content of open nodes to conform to the
// schema's content constraints, though it should be a valid start/end/middle
// for such a node, depending on which sides are open.
func NewSlice(content *Fragment, openStart, openEnd int) *Slice {
	return &Slice{Content: content, OpenStart: openStart, OpenEnd: openEnd}
}

// Size is the size this slice would add when inserted into a document.
func (s *Slice) Size() int {
	return s.Content.Size - s.OpenStart - s.OpenEnd
}

// InsertAt inserts the given fragment at the given position, which must be
// inside the slice's content, returning a new slice. Returns nil if the
// fragment doesn't fit there.
func (s *Slice) InsertAt(pos int, fragment *Fragment) *Slice {
	content := insertInto(s.Content, pos+s.OpenStart, fragment)
	if content == nil {
		return nil
	}
	return NewSlice(content, s.OpenStart, s.OpenEnd)
}

func insertInto(content *Fragment, dist int, insert *Fragment) *Fragment {
	index, offset := content.FindIndex(dist)
	child := content.MaybeChild(index)
	if offset == dist || (child != nil && child.IsText()) {
		return content.Cut(0, dist).Append(insert).Append(content.Cut(dist))
	}
	inner := insertInto(child.Content, dist-offset-1, insert)
	if inner == nil {
		return nil
	}
	return content.ReplaceChild(index, child.Copy(inner))
}

// RemoveBetween removes the content between the given positions (relative
// to this slice's content), returning a new slice.
func (s *Slice) RemoveBetween(from, to int) (result *Slice, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	content := removeRange(s.Content, from+s.OpenStart, to+s.OpenStart)
	return NewSlice(content, s.OpenStart, s.OpenEnd), nil
}

// removeRange panics (via newReplaceError) when the given range isn't flat;
// Slice.RemoveBetween's recover converts that into a returned error.
func removeRange(content *Fragment, from, to int) *Fragment {
	index, offset := content.FindIndex(from)
	child := content.MaybeChild(index)
	indexTo, offsetTo := content.FindIndex(to)
	if offset == from || child.IsText() {
		if offsetTo != to && !content.Child(indexTo).IsText() {
			panic(newReplaceError("Removing non-flat range"))
		}
		return content.Cut(0, from).Append(content.Cut(to))
	}
	if index != indexTo {
		panic(newReplaceError("Removing non-flat range"))
	}
	return content.ReplaceChild(index, child.Copy(removeRange(child.Content, from-offset-1, to-offset-1)))
}

// Eq tests whether this slice is equal to another slice.
func (s *Slice) Eq(other *Slice) bool {
	return s.Content.Eq(other.Content) && s.OpenStart == other.OpenStart && s.OpenEnd == other.OpenEnd
}

func (s *Slice) String() string {
	return fmt.Sprintf("%s(%d,%d)", s.Content.String(), s.OpenStart, s.OpenEnd)
}

// ToJSON renders this slice's JSON representation.
func (s *Slice) ToJSON() map[string]interface{} {
	if s.Content.Size == 0 {
		return nil
	}
	out := map[string]interface{}{"content": s.Content.ToJSON()}
	if s.OpenStart > 0 {
		out["openStart"] = s.OpenStart
	}
	if s.OpenEnd > 0 {
		out["openEnd"] = s.OpenEnd
	}
	return out
}

// SliceFromJSON deserializes a slice from its JSON representation.
func SliceFromJSON(schema *Schema, raw map[string]interface{}) (*Slice, error) {
	if raw == nil {
		return EmptySlice, nil
	}
	openStart, _ := toInt(raw["openStart"])
	openEnd, _ := toInt(raw["openEnd"])
	contentRaw, _ := raw["content"].([]interface{})
	content, err := FragmentFromJSON(schema, contentRaw)
	if err != nil {
		return nil, err
	}
	return NewSlice(content, openStart, openEnd), nil
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// EmptySlice is the slice with no content, the identity value for
// replacement operations.
var EmptySlice = NewSlice(EmptyFragment, 0, 0)

// Replace replaces the part of the document between from and to with the
// given slice, returning the resulting document. This follows the standard
// rules for inserting a slice: if the openStart/openEnd of the slice
// doesn't match the depth of the surrounding content it is joined through,
// an error is returned.
func (n *Node) Replace(from, to int, slice *Slice) (*Node, error) {
	fromPos, err := resolvePos(n, from)
	if err != nil {
		return nil, err
	}
	toPos, err := resolvePos(n, to)
	if err != nil {
		return nil, err
	}
	return replace(fromPos, toPos, slice)
}

func replace(from, to *ResolvedPos, slice *Slice) (result *Node, err error) {
	if slice.OpenStart > from.Depth {
		return nil, newReplaceError("Inserted content deeper than insertion position")
	}
	if from.Depth-slice.OpenStart != to.Depth-slice.OpenEnd {
		return nil, newReplaceError("Inconsistent open depths")
	}
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()
	return replaceOuter(from, to, slice, 0), nil
}

func replaceOuter(from, to *ResolvedPos, slice *Slice, depth int) *Node {
	index := from.Index(depth)
	node := from.Node(depth)
	if index == to.Index(depth) && depth < from.Depth-slice.OpenStart {
		inner := replaceOuter(from, to, slice, depth+1)
		return node.Copy(node.Content.ReplaceChild(index, inner))
	} else if slice.Content.Size > 0 {
		start, end := prepareSliceForReplace(slice, from)
		return close(node, replaceThreeWay(from, start, end, to, depth))
	}
	return close(node, replaceTwoWay(from, to, depth))
}

func checkJoin(main, sub *Node) {
	if !main.Type.compatibleContent(sub.Type) {
		panic(newReplaceError("Cannot join %s onto %s", sub.Type.Name, main.Type.Name))
	}
}

func joinable(before, after *ResolvedPos, depth int) *Node {
	node := before.Node(depth)
	checkJoin(node, after.Node(depth))
	return node
}

func addNode(child *Node, target []*Node) []*Node {
	last := len(target) - 1
	if last >= 0 && child.IsText() && child.SameMarkup(target[last]) {
		target[last] = child.WithText(target[last].Text + child.Text)
		return target
	}
	return append(target, child)
}

func addRange(start, end *ResolvedPos, depth int, target []*Node) []*Node {
	var node *Node
	if end != nil {
		node = end.Node(depth)
	} else {
		node = start.Node(depth)
	}
	startIndex := 0
	endIndex := node.ChildCount()
	if end != nil {
		endIndex = end.Index(depth)
	}
	if start != nil {
		startIndex = start.Index(depth)
		if start.Depth > depth {
			startIndex++
		} else if start.TextOffset() > 0 {
			target = addNode(start.NodeAfter(), target)
			startIndex++
		}
	}
	for i := startIndex; i < endIndex; i++ {
		target = addNode(node.Child(i), target)
	}
	if end != nil && end.Depth == depth && end.TextOffset() > 0 {
		target = addNode(end.NodeBefore(), target)
	}
	return target
}

func close(node *Node, content *Fragment) *Node {
	if !node.Type.ValidContent(content) {
		panic(newReplaceError("Invalid content for node %s", node.Type.Name))
	}
	return node.Copy(content)
}

func replaceThreeWay(from, start, end, to *ResolvedPos, depth int) *Fragment {
	var openStart, openEnd *Node
	if from.Depth > depth {
		openStart = joinable(from, start, depth+1)
	}
	if to.Depth > depth {
		openEnd = joinable(end, to, depth+1)
	}

	var content []*Node
	content = addRange(nil, from, depth, content)
	if openStart != nil && openEnd != nil && start.Index(depth) == end.Index(depth) {
		checkJoin(openStart, openEnd)
		content = addNode(close(openStart, replaceThreeWay(from, start, end, to, depth+1)), content)
	} else {
		if openStart != nil {
			content = addNode(close(openStart, replaceTwoWay(from, start, depth+1)), content)
		}
		content = addRange(start, end, depth, content)
		if openEnd != nil {
			content = addNode(close(openEnd, replaceTwoWay(end, to, depth+1)), content)
		}
	}
	content = addRange(to, nil, depth, content)
	return NewFragment(content)
}

func replaceTwoWay(from, to *ResolvedPos, depth int) *Fragment {
	var content []*Node
	content = addRange(nil, from, depth, content)
	if from.Depth > depth {
		typ := joinable(from, to, depth+1)
		content = addNode(close(typ, replaceTwoWay(from, to, depth+1)), content)
	}
	content = addRange(to, nil, depth, content)
	return NewFragment(content)
}

func prepareSliceForReplace(slice *Slice, along *ResolvedPos) (*ResolvedPos, *ResolvedPos) {
	extra := along.Depth - slice.OpenStart
	parent := along.Node(extra)
	node := parent.Copy(slice.Content)
	for i := extra - 1; i >= 0; i-- {
		frag, err := FragmentFrom(node)
		if err != nil {
			panic(err)
		}
		node = along.Node(i).Copy(frag)
	}
	start, err := resolvePos(node, slice.OpenStart+extra)
	if err != nil {
		panic(err)
	}
	end, err := resolvePos(node, node.Content.Size-slice.OpenEnd-extra)
	if err != nil {
		panic(err)
	}
	return start, end
}
