package model

import (
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// Node represents a node in the tree that makes up a ProseMirror document.
// A document is itself an instance of Node, with children that are also
// instances of Node.
//
// Nodes are persistent data structures: instead of changing them, you
// create new ones with the content you want. Old ones keep pointing at the
// old document shape. This is made cheaper by sharing structure between the
// old and new data as much as possible, which this tree shape (without
// parent back-pointers) makes easy.
//
// Do not directly mutate the fields of a Node.
type Node struct {
	Type    *NodeType
	Attrs   map[string]interface{}
	Content *Fragment
	Marks   []*Mark
	// Text holds the node's text content. Only meaningful (and non-empty)
	// when Type.IsText() is true; Content is nil in that case.
	Text string
}

// NewNode is the constructor for non-text nodes. Most callers should go
// through NodeType.Create / CreateChecked instead.
func NewNode(typ *NodeType, attrs map[string]interface{}, content *Fragment, marks []*Mark) *Node {
	if content == nil {
		content = EmptyFragment
	}
	if marks == nil {
		marks = NoMarks
	}
	return &Node{Type: typ, Attrs: attrs, Content: content, Marks: marks}
}

// NewTextNode is the constructor for text nodes. Panics if text is empty:
// empty text nodes are forbidden by the document model.
func NewTextNode(typ *NodeType, attrs map[string]interface{}, text string, marks []*Mark) *Node {
	if text == "" {
		panic(newRangeError("Empty text nodes are not allowed"))
	}
	if marks == nil {
		marks = NoMarks
	}
	return &Node{Type: typ, Attrs: attrs, Text: text, Marks: marks}
}

// NodeSize is the size of this node in the integer-based indexing scheme.
// For text nodes this is the number of characters; for other leaf nodes it
// is one; for non-leaf nodes it is the size of the content plus two (the
// opening and closing tokens).
func (n *Node) NodeSize() int {
	if n.IsText() {
		return len([]rune(n.Text))
	}
	if n.IsLeaf() {
		return 1
	}
	return 2 + n.Content.Size
}

// ChildCount returns the number of children this node has.
func (n *Node) ChildCount() int { return n.Content.ChildCount() }

// Child returns the child node at the given index, panicking if out of
// range.
func (n *Node) Child(index int) *Node { return n.Content.Child(index) }

// MaybeChild returns the child node at the given index, or nil.
func (n *Node) MaybeChild(index int) *Node { return n.Content.MaybeChild(index) }

// FirstChild returns the node's first child, or nil.
func (n *Node) FirstChild() *Node { return n.Content.FirstChild() }

// LastChild returns the node's last child, or nil.
func (n *Node) LastChild() *Node { return n.Content.LastChild() }

// ForEach calls f for each child, with its offset and index.
func (n *Node) ForEach(f func(node *Node, offset, index int)) { n.Content.ForEach(f) }

// IsText reports whether this is a text node.
func (n *Node) IsText() bool { return n.Type.IsText() }

// IsBlock reports whether this is a block node.
func (n *Node) IsBlock() bool { return n.Type.IsBlock() }

// IsInline reports whether this is an inline node.
func (n *Node) IsInline() bool { return n.Type.IsInline() }

// IsTextblock reports whether this is a block that directly holds inline
// content.
func (n *Node) IsTextblock() bool { return n.Type.IsBlock() && n.Type.InlineContent }

// IsLeaf reports whether this node type allows no content at all.
func (n *Node) IsLeaf() bool { return n.Type.IsLeaf() }

// IsAtom reports whether this node should be treated as a single unit,
// either because it is a leaf or because its spec says so.
func (n *Node) IsAtom() bool { return n.Type.IsAtom() }

// InlineContent reports whether this node's content is inline.
func (n *Node) InlineContent() bool { return n.Type.InlineContent }

// TextContent concatenates the text of this node and its descendants.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	if n.Content == nil {
		return ""
	}
	return n.Content.TextBetween(0, n.Content.Size, "", "")
}

// SameMarkup compares the markup (type, attributes, and marks) of this node
// to another, returning true if they are the same.
func (n *Node) SameMarkup(other *Node) bool {
	return n.HasMarkup(other.Type, other.Attrs, other.Marks)
}

// HasMarkup tests whether this node's type, attributes, and marks match the
// given values.
func (n *Node) HasMarkup(typ *NodeType, attrs map[string]interface{}, marks []*Mark) bool {
	if n.Type != typ {
		return false
	}
	if !attrsEq(n.Attrs, attrs) {
		return false
	}
	if marks == nil {
		marks = NoMarks
	}
	return SameMarkSet(n.Marks, marks)
}

func attrsEq(a, b map[string]interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// Copy creates a copy of this node with the given content (defaulting to
// this node's own content when omitted).
func (n *Node) Copy(content ...*Fragment) *Node {
	c := n.Content
	if len(content) > 0 {
		c = content[0]
	}
	if c == n.Content {
		return n
	}
	return NewNode(n.Type, n.Attrs, c, n.Marks)
}

// Mark returns a copy of this node with the given set of marks instead of
// its own.
func (n *Node) Mark(marks []*Mark) *Node {
	if SameMarkSet(n.Marks, marks) {
		return n
	}
	if n.IsText() {
		return NewTextNode(n.Type, n.Attrs, n.Text, marks)
	}
	return NewNode(n.Type, n.Attrs, n.Content, marks)
}

// WithText returns a copy of this text node with different text. Panics
// when the new text is empty. It does not check that the node is a text
// node.
func (n *Node) WithText(text string) *Node {
	if text == n.Text {
		return n
	}
	return NewTextNode(n.Type, n.Attrs, text, n.Marks)
}

// Cut returns a node with only the content between the given positions. The
// positions are relative to this node's own content (0..Content.Size for
// non-text nodes, 0..len(Text) for text nodes).
func (n *Node) Cut(from int, to ...int) *Node {
	if n.IsText() {
		t := len([]rune(n.Text))
		if len(to) > 0 {
			t = to[0]
		}
		if from == 0 && t == len([]rune(n.Text)) {
			return n
		}
		runes := []rune(n.Text)
		return n.WithText(string(runes[from:t]))
	}
	t := n.Content.Size
	if len(to) > 0 {
		t = to[0]
	}
	if from == 0 && t == n.Content.Size {
		return n
	}
	return n.Copy(n.Content.Cut(from, t))
}

// Slice extracts the content between the given positions as a Slice,
// tracking how many ancestor levels are cut through on each side. When
// includeParents is true, the full ancestor chain down to the document root
// is kept open rather than only the levels shared by from and to.
func (n *Node) Slice(from int, to int, includeParents ...bool) (*Slice, error) {
	if from == to {
		return EmptySlice, nil
	}

	fromPos, err := n.Resolve(from)
	if err != nil {
		return nil, err
	}
	toPos, err := n.Resolve(to)
	if err != nil {
		return nil, err
	}
	depth := 0
	if len(includeParents) == 0 || !includeParents[0] {
		depth = fromPos.SharedDepth(to)
	}
	start := fromPos.Start(depth)
	node := fromPos.Node(depth)
	content := node.Content.Cut(fromPos.Pos-start, toPos.Pos-start)
	return NewSlice(content, fromPos.Depth-depth, toPos.Depth-depth), nil
}

// Eq reports whether this node is structurally equal to another: same
// type, same attrs, same marks, same content.
func (n *Node) Eq(other *Node) bool {
	if n == other {
		return true
	}
	if other == nil {
		return false
	}
	if n.IsText() != other.IsText() {
		return false
	}
	if n.IsText() {
		return n.Type == other.Type && n.Text == other.Text && SameMarkSet(n.Marks, other.Marks)
	}
	if !n.HasMarkup(other.Type, other.Attrs, other.Marks) {
		return false
	}
	return n.Content.Eq(other.Content)
}

// NodeAt finds the node directly after the given position (or the text
// node containing it), descending through the tree, or nil when no node
// follows the position.
func (n *Node) NodeAt(pos int) *Node {
	node := n
	for {
		idx, offset := node.Content.FindIndex(pos)
		child := node.Content.MaybeChild(idx)
		if child == nil {
			return nil
		}
		if offset == pos || child.IsText() {
			return child
		}
		pos -= offset + 1
		node = child
	}
}

// ChildAfter returns the child node directly after pos along with its
// offset and index.
func (n *Node) ChildAfter(pos int) (*Node, int, int) {
	idx, offset := n.Content.FindIndex(pos)
	return n.Content.MaybeChild(idx), offset, idx
}

// ChildBefore returns the child node directly before pos along with its
// offset and index.
func (n *Node) ChildBefore(pos int) (*Node, int, int) {
	if pos == 0 {
		return nil, 0, 0
	}
	idx, offset := n.Content.FindIndex(pos)
	if offset < pos {
		return n.Content.Child(idx), offset, idx
	}
	return n.Content.Child(idx - 1), offset - n.Content.Child(idx-1).NodeSize(), idx - 1
}

// RangeHasMark reports whether a mark of the given type is present anywhere
// in the inline content between from and to.
func (n *Node) RangeHasMark(from, to int, typ *MarkType) bool {
	found := false
	if from >= to {
		return false
	}
	n.NodesBetween(from, to, func(node *Node, pos int, parent *Node, index int) bool {
		if typ.IsInSet(node.Marks) != nil {
			found = true
		}
		return !found
	})
	return found
}

// NodesBetween calls f for every descendant between from and to, in
// pre-order, passing the node, its absolute start position, its parent (nil
// for this node itself), and its index within the parent.
func (n *Node) NodesBetween(from, to int, f func(node *Node, pos int, parent *Node, index int) bool) {
	n.Content.NodesBetween(from, to, f, 0, n)
}

// Resolve resolves a position within this document, producing a
// ResolvedPos.
func (n *Node) Resolve(pos int) (*ResolvedPos, error) {
	return resolvePosCached(n, pos)
}

// Check recursively verifies that this node (and its descendants) are valid
// according to the schema: every child is allowed by its parent's content
// expression and mark set.
func (n *Node) Check() error {
	if !n.Type.ValidContent(n.Content) {
		return newContentError("Invalid content for node %s: %s", n.Type.Name, n.Content.String())
	}
	if !n.Type.AllowsMarks(n.Marks) {
		return newContentError("Invalid marks for node %s", n.Type.Name)
	}
	var err error
	n.Content.ForEach(func(child *Node, offset, index int) {
		if err == nil {
			err = child.Check()
		}
	})
	return err
}

// ToJSON renders the node's JSON representation.
func (n *Node) ToJSON() map[string]interface{} {
	out := map[string]interface{}{"type": n.Type.Name}
	if len(n.Attrs) > 0 {
		out["attrs"] = n.Attrs
	}
	if n.IsText() {
		out["text"] = n.Text
	} else if content := n.Content.ToJSON(); content != nil {
		out["content"] = content
	}
	if len(n.Marks) > 0 {
		marks := make([]interface{}, len(n.Marks))
		for i, m := range n.Marks {
			marks[i] = m.ToJSON()
		}
		out["marks"] = marks
	}
	return out
}

// NodeFromJSON deserializes a node from its JSON representation.
func NodeFromJSON(schema *Schema, raw map[string]interface{}) (*Node, error) {
	if raw == nil {
		return nil, newRangeError("Invalid input for Node.fromJSON")
	}
	typeName, _ := raw["type"].(string)
	marks, err := marksFromJSON(schema, raw["marks"])
	if err != nil {
		return nil, err
	}
	if typeName == "text" {
		text, _ := raw["text"].(string)
		if text == "" {
			return nil, newRangeError("Invalid text node in JSON")
		}
		return schema.Text(text, marks), nil
	}
	attrs, _ := raw["attrs"].(map[string]interface{})
	content, err := FragmentFromJSON(schema, asInterfaceSlice(raw["content"]))
	if err != nil {
		return nil, err
	}
	typ, err := schema.NodeType(typeName)
	if err != nil {
		return nil, err
	}
	return typ.CreateChecked(attrs, content, marks)
}

func asInterfaceSlice(v interface{}) []interface{} {
	if v == nil {
		return nil
	}
	s, _ := v.([]interface{})
	return s
}

func marksFromJSON(schema *Schema, raw interface{}) ([]*Mark, error) {
	arr, ok := raw.([]interface{})
	if !ok {
		return nil, nil
	}
	marks := make([]*Mark, 0, len(arr))
	for _, m := range arr {
		obj, ok := m.(map[string]interface{})
		if !ok {
			return nil, newRangeError("Invalid mark in JSON")
		}
		mark, err := MarkFromJSON(schema, obj)
		if err != nil {
			return nil, err
		}
		marks = append(marks, mark)
	}
	return marks, nil
}

// String renders a short, human-readable debug representation, honoring the
// node type's ToDebugString hook when present.
func (n *Node) String() string {
	if n.Type.Spec.ToDebugString != nil {
		return n.Type.Spec.ToDebugString(n)
	}
	if n.IsText() {
		return wrapMarks(n.Marks, spewText(n))
	}
	name := n.Type.Name
	if n.Content.Size > 0 {
		var parts []string
		n.Content.ForEach(func(child *Node, offset, index int) {
			parts = append(parts, child.String())
		})
		name += "(" + strings.Join(parts, ", ") + ")"
	}
	return wrapMarks(n.Marks, name)
}

func wrapMarks(marks []*Mark, str string) string {
	for i := len(marks) - 1; i >= 0; i-- {
		str = marks[i].Type.Name + "(" + str + ")"
	}
	return str
}

func spewText(n *Node) string {
	return spew.Sprintf("%q", n.Text)
}
