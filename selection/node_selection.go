package selection

import "github.com/go-doceng/doceng/model"

// NodeSelection is a selection that points at a single node. All
// nodes marked selectable (model.NodeSpec.Selectable) can be the target of
// a node selection. In such a selection, anchor and head both point
// directly before and after the selected node.
type NodeSelection struct {
	Base
	Node *model.Node
}

// NewNodeSelectionAt builds a NodeSelection for the node directly after
// pos.
func NewNodeSelectionAt(pos *model.ResolvedPos) *NodeSelection {
	node := pos.NodeAfter()
	docNode := pos.Node(0)
	end, err := docNode.Resolve(pos.Pos + node.NodeSize())
	if err != nil {
		panic(err)
	}
	return &NodeSelection{Base: NewBase(pos, end), Node: node}
}

// CreateNodeSelection resolves from in doc and builds a NodeSelection
// targeting the node right after it.
func CreateNodeSelection(doc *model.Node, from int) (*NodeSelection, error) {
	rp, err := doc.Resolve(from)
	if err != nil {
		return nil, err
	}
	return NewNodeSelectionAt(rp), nil
}

// Visible is false: node selections are rendered as a decoration, not a
// text cursor/highlight.
func (s *NodeSelection) Visible() bool { return false }

// Content returns a slice containing just the selected node, closed on
// both sides.
func (s *NodeSelection) Content() (*model.Slice, error) {
	fragment, err := model.FragmentFrom(s.Node)
	if err != nil {
		return nil, err
	}
	return model.NewSlice(fragment, 0, 0), nil
}

// Replace deletes/replaces the selected node.
func (s *NodeSelection) Replace(tr Transform, content *model.Slice) error {
	return doReplace(s, tr, content)
}

// ReplaceWith substitutes the selected node with a new one.
func (s *NodeSelection) ReplaceWith(tr Transform, node *model.Node) error {
	return doReplaceWith(tr, s.From(), s.To(), node)
}

// Eq reports whether other is a NodeSelection pointing at the same
// position.
func (s *NodeSelection) Eq(other Selection) bool {
	o, ok := other.(*NodeSelection)
	return ok && o.Anchor() == s.Anchor()
}

// Map remaps this selection, falling back to the nearest valid selection
// if the targeted node was deleted by the mapped steps.
func (s *NodeSelection) Map(doc *model.Node, mapping Mappable) Selection {
	result := mapping.MapResult(s.Anchor())
	rp, err := doc.Resolve(result.Pos)
	if err != nil {
		return AtStart(doc)
	}
	if result.Deleted {
		return Near(rp)
	}
	return NewNodeSelectionAt(rp)
}

// ToJSON serializes this selection as {type: "node", anchor}.
func (s *NodeSelection) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"type":   "node",
		"anchor": s.Anchor(),
	}
}

// NodeSelectionFromJSON deserializes a {type: "node", anchor} object.
func NodeSelectionFromJSON(doc *model.Node, obj map[string]interface{}) (Selection, error) {
	anchor, ok := toInt(obj["anchor"])
	if !ok {
		return nil, errRequiredField("anchor")
	}
	return CreateNodeSelection(doc, anchor)
}

// GetBookmark returns a NodeBookmark for this selection.
func (s *NodeSelection) GetBookmark() Bookmark {
	return &NodeBookmark{AnchorPos: s.Anchor()}
}

// NodeBookmark is the document-independent form of a NodeSelection. When
// the anchored node is deleted by an intervening change, it degrades to a
// TextBookmark pointing at the same position.
type NodeBookmark struct {
	AnchorPos int
}

// Map remaps the anchor through mapping, degrading to a text bookmark if
// the node was deleted.
func (b *NodeBookmark) Map(mapping Mappable) Bookmark {
	result := mapping.MapResult(b.AnchorPos)
	if result.Deleted {
		return &TextBookmark{AnchorPos: result.Pos, HeadPos: result.Pos}
	}
	return &NodeBookmark{AnchorPos: result.Pos}
}

// Resolve rebuilds a concrete selection against doc, degrading to the
// nearest valid selection if the anchored node is no longer selectable.
func (b *NodeBookmark) Resolve(doc *model.Node) Selection {
	rp, err := doc.Resolve(b.AnchorPos)
	if err != nil {
		return AtStart(doc)
	}
	node := rp.NodeAfter()
	if node != nil && IsSelectable(node) {
		return NewNodeSelectionAt(rp)
	}
	return Near(rp)
}
