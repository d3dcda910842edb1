package model

import "fmt"

// A fragment represents a node's collection of child nodes.
//
// Like nodes, fragments are persistent data structures, and you should not
// mutate them or their content. Rather, you create new instances whenever
// needed. The API tries to make this easy.
type Fragment struct {
	Content []*Node
	Size    int
}

// NewFragment builds a fragment directly from a slice of children, computing
// its cached size. Callers that can't guarantee the text-join invariant
// (no two adjacent text children sharing a mark set) should go through
// FragmentFromArray instead.
func NewFragment(content []*Node) *Fragment {
	size := 0
	for _, c := range content {
		size += c.NodeSize()
	}
	return &Fragment{Content: content, Size: size}
}

// ChildCount returns the number of child nodes in this fragment.
func (f *Fragment) ChildCount() int {
	return len(f.Content)
}

// Child returns the child node at the given index, panicking when the index
// is out of range (an invariant violation by the caller, not a recoverable
// condition).
func (f *Fragment) Child(index int) *Node {
	if index < 0 || index >= len(f.Content) {
		panic(fmt.Errorf("Index %d out of range for %s", index, f.String()))
	}
	return f.Content[index]
}

// MaybeChild returns the child node at the given index, or nil when the
// index is out of range.
func (f *Fragment) MaybeChild(index int) *Node {
	if index < 0 || index >= len(f.Content) {
		return nil
	}
	return f.Content[index]
}

// FirstChild returns the first child, or nil if the fragment is empty.
func (f *Fragment) FirstChild() *Node { return f.MaybeChild(0) }

// LastChild returns the last child, or nil if the fragment is empty.
func (f *Fragment) LastChild() *Node { return f.MaybeChild(len(f.Content) - 1) }

// ForEach calls f for every child node, passing its absolute offset within
// the fragment.
func (fr *Fragment) ForEach(f func(node *Node, offset, index int)) {
	pos := 0
	for i, child := range fr.Content {
		f(child, pos, i)
		pos += child.NodeSize()
	}
}

// FindIndex finds the index of, and the offset before, the child node at a
// given content position (that is: the index such that offset ≤ pos ≤
// offset + child.NodeSize()). With the default round of -1, a position
// inside a child returns that child's index and start; with a positive
// round it returns the index and start of the next child.
func (f *Fragment) FindIndex(pos int, round ...int) (int, int) {
	r := -1
	if len(round) > 0 {
		r = round[0]
	}
	if pos == 0 {
		return 0, pos
	}
	if pos == f.Size {
		return len(f.Content), pos
	}
	if pos > f.Size || pos < 0 {
		panic(fmt.Errorf("Position %d outside of fragment (%s)", pos, f.String()))
	}
	cur := 0
	for i, child := range f.Content {
		end := cur + child.NodeSize()
		if end >= pos {
			if end == pos || r > 0 {
				return i + 1, end
			}
			return i, cur
		}
		cur = end
	}
	return len(f.Content), cur
}

// Append concatenates this fragment with another, coalescing adjacent text
// children that share a mark set (the text-join invariant).
func (f *Fragment) Append(other *Fragment) *Fragment {
	if other.Size == 0 {
		return f
	}
	if f.Size == 0 {
		return other
	}
	last := f.LastChild()
	first := other.FirstChild()
	content := make([]*Node, 0, len(f.Content)+len(other.Content))
	content = append(content, f.Content[:len(f.Content)-1]...)
	if last.IsText() && last.SameMarkup(first) {
		merged := last.WithText(last.Text + first.Text)
		content = append(content, merged)
		content = append(content, other.Content[1:]...)
	} else {
		content = append(content, last)
		content = append(content, other.Content...)
	}
	return NewFragment(content)
}

// Cut returns a fragment consisting of the given slice of this fragment's
// content.
func (f *Fragment) Cut(from int, to ...int) *Fragment {
	t := f.Size
	if len(to) > 0 {
		t = to[0]
	}
	if from == 0 && t == f.Size {
		return f
	}
	var result []*Node
	pos := 0
	for _, child := range f.Content {
		if pos >= t {
			break
		}
		end := pos + child.NodeSize()
		if end > from {
			start := from - pos
			if start < 0 {
				start = 0
			}
			stop := t - pos
			if stop > child.NodeSize() {
				stop = child.NodeSize()
			}
			if start > 0 || stop < child.NodeSize() {
				if child.IsText() {
					runes := []rune(child.Text)
					child = child.WithText(string(runes[start:stop]))
				} else {
					child = child.Cut(max(start-1, 0), min(stop-1, child.Content.Size))
				}
			}
			result = append(result, child)
		}
		pos = end
	}
	return NewFragment(result)
}

// ReplaceChild replaces the child at the given index with the given node,
// returning a new fragment.
func (f *Fragment) ReplaceChild(index int, node *Node) *Fragment {
	cur := f.Child(index)
	if cur == node {
		return f
	}
	content := make([]*Node, len(f.Content))
	copy(content, f.Content)
	content[index] = node
	return NewFragment(content)
}

// AddToStart prepends a node to the fragment.
func (f *Fragment) AddToStart(node *Node) *Fragment {
	content := append([]*Node{node}, f.Content...)
	return NewFragment(content)
}

// AddToEnd appends a node to the fragment.
func (f *Fragment) AddToEnd(node *Node) *Fragment {
	content := append(append([]*Node{}, f.Content...), node)
	return NewFragment(content)
}

// Eq tests whether this fragment and another contain the same nodes.
func (f *Fragment) Eq(other *Fragment) bool {
	if other == nil || len(f.Content) != len(other.Content) {
		return false
	}
	for i, child := range f.Content {
		if !child.Eq(other.Content[i]) {
			return false
		}
	}
	return true
}

// TextBetween extracts the text between two positions, joining text spans
// that are not adjacent with blockSeparator.
func (f *Fragment) TextBetween(from, to int, blockSeparator, leafText string) string {
	text := ""
	separated := true
	f.NodesBetween(from, to, func(node *Node, pos int, _ *Node, _ int) bool {
		var piece string
		if node.IsText() {
			runes := []rune(node.Text)
			start := 0
			if from > pos {
				start = from - pos
			}
			end := len(runes)
			if to < pos+node.NodeSize() {
				end = to - pos
			}
			piece = string(runes[start:end])
			separated = blockSeparator == ""
		} else if node.IsLeaf() && leafText != "" {
			piece = leafText
		} else if node.IsLeaf() && node.Type.Spec.ToDebugString != nil {
			piece = node.Type.Spec.ToDebugString(node)
		}
		if piece != "" {
			if blockSeparator != "" && !separated && (node.IsLeaf() || isBlock(node)) {
				text += blockSeparator
				separated = true
			}
			text += piece
		} else if node.IsBlock() {
			separated = true
		}
		return true
	}, 0, nil)
	return text
}

func isBlock(n *Node) bool { return n.IsBlock() }

// NodesBetween calls f for every descendant node between the two given
// positions, in pre-order, with the node's absolute start offset, its
// parent, and its index within the parent. When f returns false, the
// traversal does not descend into that node's children.
func (f *Fragment) NodesBetween(from, to int, fn func(node *Node, pos int, parent *Node, index int) bool, nodeStart int, parent *Node) {
	pos := 0
	for i, child := range f.Content {
		end := pos + child.NodeSize()
		if end > from && pos < to {
			start := pos + 1
			descend := fn(child, nodeStart+pos, parent, i)
			if descend && child.Content != nil && child.Content.Size > 0 {
				childFrom := from - start
				if childFrom < 0 {
					childFrom = 0
				}
				childTo := to - start
				if childTo > child.Content.Size {
					childTo = child.Content.Size
				}
				if childFrom < childTo || (from <= nodeStart+pos+child.NodeSize() && to >= nodeStart+pos+1) {
					child.Content.NodesBetween(childFrom, childTo, fn, nodeStart+start, child)
				}
			}
		}
		pos = end
	}
}

// String renders a short debug representation of the fragment's content.
func (f *Fragment) String() string {
	out := "<"
	for i, c := range f.Content {
		if i > 0 {
			out += ", "
		}
		out += c.String()
	}
	return out + ">"
}

// ToJSON renders this fragment as its JSON array representation, or nil for
// the empty fragment.
func (f *Fragment) ToJSON() []interface{} {
	if len(f.Content) == 0 {
		return nil
	}
	out := make([]interface{}, len(f.Content))
	for i, c := range f.Content {
		out[i] = c.ToJSON()
	}
	return out
}

// FragmentFromJSON deserializes a fragment from its JSON array
// representation.
func FragmentFromJSON(schema *Schema, raw []interface{}) (*Fragment, error) {
	if raw == nil {
		return EmptyFragment, nil
	}
	nodes := make([]*Node, len(raw))
	for i, r := range raw {
		obj, ok := r.(map[string]interface{})
		if !ok {
			return nil, newRangeError("Invalid input for Fragment.fromJSON")
		}
		n, err := NodeFromJSON(schema, obj)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}
	return FragmentFromArray(nodes), nil
}

// FragmentFromArray builds a fragment from an array of nodes, coalescing
// adjacent text nodes that share a mark set to preserve the text-join
// invariant.
func FragmentFromArray(array []*Node) *Fragment {
	if len(array) == 0 {
		return EmptyFragment
	}
	var joined []*Node
	for _, node := range array {
		if node == nil {
			panic(fmt.Errorf("Invalid element in fragment array"))
		}
		if len(joined) > 0 {
			last := joined[len(joined)-1]
			if last.IsText() && last.SameMarkup(node) {
				joined[len(joined)-1] = last.WithText(last.Text + node.Text)
				continue
			}
		}
		joined = append(joined, node)
	}
	return NewFragment(joined)
}

// FragmentFrom wraps its argument in a fragment. Supported inputs: nil (the
// empty fragment), a *Fragment, a *Node, a []*Node, or a []interface{}
// holding *Node values.
func FragmentFrom(content interface{}) (*Fragment, error) {
	switch c := content.(type) {
	case nil:
		return EmptyFragment, nil
	case *Fragment:
		return c, nil
	case *Node:
		return NewFragment([]*Node{c}), nil
	case []*Node:
		return FragmentFromArray(c), nil
	case []interface{}:
		nodes := make([]*Node, 0, len(c))
		for _, e := range c {
			n, ok := e.(*Node)
			if !ok {
				return nil, newRangeError("Invalid element %T passed to FragmentFrom", e)
			}
			nodes = append(nodes, n)
		}
		return FragmentFromArray(nodes), nil
	default:
		return nil, newRangeError("Can not convert %T to a Fragment", content)
	}
}

// EmptyFragment is the fragment with no content.
var EmptyFragment = &Fragment{}

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
