package selection

import "github.com/go-doceng/doceng/model"

// AllSelection is a selection spanning the entire document.
type AllSelection struct {
	Base
}

// NewAllSelection builds a selection spanning the whole of doc.
func NewAllSelection(doc *model.Node) *AllSelection {
	start, err := doc.Resolve(0)
	if err != nil {
		panic(err)
	}
	end, err := doc.Resolve(doc.Content.Size)
	if err != nil {
		panic(err)
	}
	return &AllSelection{Base: NewBase(start, end)}
}

// Visible is true: the whole-document selection still renders a highlight.
func (s *AllSelection) Visible() bool { return true }

// Replace replaces the entire document's content with the given slice.
// Grounded on upstream AllSelection.prototype.replace.
func (s *AllSelection) Replace(tr Transform, content *model.Slice) error {
	return tr.ReplaceRange(0, s.FromResolved().Doc().Content.Size, content)
}

// ReplaceWith substitutes the entire document with a single node.
func (s *AllSelection) ReplaceWith(tr Transform, node *model.Node) error {
	return doReplaceWith(tr, 0, s.FromResolved().Doc().Content.Size, node)
}

// Content returns a slice containing the whole document, closed on both
// ends (openStart and openEnd are 0).
func (s *AllSelection) Content() (*model.Slice, error) {
	doc := s.FromResolved().Doc()
	return model.NewSlice(doc.Content, 0, 0), nil
}

// ToJSON serializes this selection as {type: "all"}.
func (s *AllSelection) ToJSON() map[string]interface{} {
	return map[string]interface{}{"type": "all"}
}

// AllSelectionFromJSON deserializes a {type: "all"} object.
func AllSelectionFromJSON(doc *model.Node, obj map[string]interface{}) (Selection, error) {
	return NewAllSelection(doc), nil
}

// Eq reports whether other is also an AllSelection.
func (s *AllSelection) Eq(other Selection) bool {
	_, ok := other.(*AllSelection)
	return ok
}

// Map rebuilds an AllSelection spanning the mapped document.
func (s *AllSelection) Map(doc *model.Node, mapping Mappable) Selection {
	return NewAllSelection(doc)
}

// GetBookmark returns the singleton AllBookmark.
func (s *AllSelection) GetBookmark() Bookmark { return allBookmark{} }

type allBookmark struct{}

func (allBookmark) Map(mapping Mappable) Bookmark { return allBookmark{} }
func (allBookmark) Resolve(doc *model.Node) Selection { return NewAllSelection(doc) }
