package selection

import "github.com/go-doceng/doceng/model"

// TextSelection is a cursor or a selection inside inline content. Both
// endpoints must point into inline-content parents (usually the same
// textblock).
type TextSelection struct {
	Base
}

// NewTextSelection constructs a text selection between the given resolved
// positions.
func NewTextSelection(anchor, head *model.ResolvedPos) *TextSelection {
	return &TextSelection{Base: NewBase(anchor, head)}
}

// CreateTextSelection resolves the given anchor/head positions in doc and
// builds a TextSelection, defaulting head to anchor.
func CreateTextSelection(doc *model.Node, anchor int, head ...int) (*TextSelection, error) {
	h := anchor
	if len(head) > 0 {
		h = head[0]
	}
	rAnchor, err := doc.Resolve(anchor)
	if err != nil {
		return nil, err
	}
	if h == anchor {
		return NewTextSelection(rAnchor, rAnchor), nil
	}
	rHead, err := doc.Resolve(h)
	if err != nil {
		return nil, err
	}
	return NewTextSelection(rAnchor, rHead), nil
}

// Cursor returns the resolved position of the cursor, or nil if this
// selection is a range rather than a single cursor.
func (s *TextSelection) Cursor() *model.ResolvedPos {
	if s.AnchorPos.Pos == s.HeadPos.Pos {
		return s.HeadPos
	}
	return nil
}

// Visible reports whether this selection type is rendered by placing a
// cursor/highlight, as opposed to a decoration (always true for text).
func (s *TextSelection) Visible() bool { return true }

// Content slices the document spanned by this selection, open on both
// sides so it can be re-inserted elsewhere.
func (s *TextSelection) Content() (*model.Slice, error) { return s.Base.Content() }

// Replace deletes/replaces the selected range and, for a plain deletion,
// carries over the marks active at the boundary as stored marks so typing
// continues them.
func (s *TextSelection) Replace(tr Transform, content *model.Slice) error {
	return doReplace(s, tr, content)
}

// ReplaceWith replaces the selected range with a single node.
func (s *TextSelection) ReplaceWith(tr Transform, node *model.Node) error {
	return doReplaceWith(tr, s.From(), s.To(), node)
}

// Eq reports whether other is a TextSelection with the same anchor/head.
func (s *TextSelection) Eq(other Selection) bool {
	o, ok := other.(*TextSelection)
	return ok && o.Anchor() == s.Anchor() && o.Head() == s.Head()
}

// Map remaps this selection across a document change. If the head no
// longer points into inline content, falls back to the nearest valid
// selection.
func (s *TextSelection) Map(doc *model.Node, mapping Mappable) Selection {
	headPos := mapping.Map(s.Head())
	rHead, err := doc.Resolve(headPos)
	if err != nil {
		return AtStart(doc)
	}
	if !rHead.Parent().InlineContent() {
		return Near(rHead)
	}
	anchorPos := mapping.Map(s.Anchor())
	rAnchor, err := doc.Resolve(anchorPos)
	if err != nil {
		return NewTextSelection(rHead, rHead)
	}
	if rAnchor.Parent().InlineContent() {
		return NewTextSelection(rAnchor, rHead)
	}
	return NewTextSelection(rHead, rHead)
}

// ToJSON serializes this selection as {type: "text", anchor, head}.
func (s *TextSelection) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"type":   "text",
		"anchor": s.Anchor(),
		"head":   s.Head(),
	}
}

// TextSelectionFromJSON deserializes a {type: "text", anchor, head} object.
func TextSelectionFromJSON(doc *model.Node, obj map[string]interface{}) (Selection, error) {
	anchor, ok := toInt(obj["anchor"])
	if !ok {
		return nil, errRequiredField("anchor")
	}
	head, ok := toInt(obj["head"])
	if !ok {
		head = anchor
	}
	return CreateTextSelection(doc, anchor, head)
}

// GetBookmark returns a TextBookmark for this selection.
func (s *TextSelection) GetBookmark() Bookmark {
	return &TextBookmark{AnchorPos: s.Anchor(), HeadPos: s.Head()}
}

// Between computes a text selection that spans between two resolved
// positions, sliding either endpoint to the nearest inline position when
// it does not point into inline content. Grounded on upstream
// TextSelection.between, used when dragging a selection across non-text
// boundaries.
func Between(anchor, head *model.ResolvedPos, bias ...int) Selection {
	dPos := anchor.Pos - head.Pos
	b := 0
	if len(bias) > 0 {
		b = bias[0]
	}
	if b == 0 || dPos != 0 {
		if dPos >= 0 {
			b = 1
		} else {
			b = -1
		}
	}
	if !head.Parent().InlineContent() {
		found := FindFrom(head, b, true)
		if found == nil {
			found = FindFrom(head, -b, true)
		}
		if found != nil {
			head = found.(*TextSelection).HeadPos
		} else {
			return Near(head, b)
		}
	}
	if !anchor.Parent().InlineContent() {
		if dPos == 0 {
			anchor = head
		} else {
			var found Selection
			if f := FindFrom(anchor, -b, true); f != nil {
				found = f
			} else {
				found = FindFrom(anchor, b, true)
			}
			ts := found.(*TextSelection)
			anchor = ts.AnchorPos
			if (anchor.Pos < head.Pos) != (dPos < 0) {
				anchor = head
			}
		}
	}
	return NewTextSelection(anchor, head)
}

// TextBookmark is the document-independent form of a TextSelection.
type TextBookmark struct {
	AnchorPos int
	HeadPos   int
}

// Map remaps both endpoints through mapping.
func (b *TextBookmark) Map(mapping Mappable) Bookmark {
	return &TextBookmark{AnchorPos: mapping.Map(b.AnchorPos), HeadPos: mapping.Map(b.HeadPos)}
}

// Resolve rebuilds a concrete selection against doc.
func (b *TextBookmark) Resolve(doc *model.Node) Selection {
	rAnchor, errA := doc.Resolve(b.AnchorPos)
	rHead, errH := doc.Resolve(b.HeadPos)
	if errA != nil || errH != nil {
		return AtStart(doc)
	}
	return Between(rAnchor, rHead)
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

func errRequiredField(name string) error {
	return &missingFieldError{name}
}

type missingFieldError struct{ field string }

func (e *missingFieldError) Error() string { return "Invalid input for Selection.fromJSON: missing " + e.field }
