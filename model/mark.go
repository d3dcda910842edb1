package model

import "reflect"

// A mark is a piece of information that can be attached to a node, such as it
// being emphasized, in code font, or a link. It has a type and optionally a
// set of attributes that provide further information (such as the target of
// the link). Marks are created through a Schema, which controls which types
// exist and which attributes they have.
type Mark struct {
	Type  *MarkType
	Attrs map[string]interface{}
}

// NewMark is the constructor for Mark. Most callers should go through
// MarkType.Create instead, which fills in attribute defaults.
func NewMark(typ *MarkType, attrs map[string]interface{}) *Mark {
	return &Mark{Type: typ, Attrs: attrs}
}

// AddToSet creates a new mark set which contains this one as well, in the
// right position (ordered by MarkType.Rank). If this mark is already in the
// set, the set itself is returned unchanged. If any marks in the set exclude
// this mark, the set itself is returned. If this mark excludes marks already
// present, those are dropped from the result.
func (m *Mark) AddToSet(set []*Mark) []*Mark {
	var result []*Mark
	placed := false
	for _, other := range set {
		if m.Eq(other) {
			return set
		}
		if m.Type.Excludes(other.Type) {
			continue
		}
		if other.Type.Excludes(m.Type) {
			return set
		}
		if !placed && other.Type.Rank > m.Type.Rank {
			result = append(result, m)
			placed = true
		}
		result = append(result, other)
	}
	if !placed {
		result = append(result, m)
	}
	return result
}

// RemoveFromSet removes this mark from the given set, returning a new set.
// If this mark is not in the set, the set itself is returned.
func (m *Mark) RemoveFromSet(set []*Mark) []*Mark {
	for i, other := range set {
		if m.Eq(other) {
			result := make([]*Mark, 0, len(set)-1)
			result = append(result, set[:i]...)
			result = append(result, set[i+1:]...)
			return result
		}
	}
	return set
}

// IsInSet tests whether there is a mark of this type and with these
// attributes in the given set.
func (m *Mark) IsInSet(set []*Mark) bool {
	for _, other := range set {
		if m.Eq(other) {
			return true
		}
	}
	return false
}

// Eq tests whether this mark has the same type and attributes as another
// mark.
func (m *Mark) Eq(other *Mark) bool {
	if m == other {
		return true
	}
	if other == nil || m.Type != other.Type {
		return false
	}
	return reflect.DeepEqual(m.Attrs, other.Attrs)
}

// ToJSON renders this mark's JSON representation: {type, attrs?}.
func (m *Mark) ToJSON() map[string]interface{} {
	out := map[string]interface{}{"type": m.Type.Name}
	if len(m.Attrs) > 0 {
		out["attrs"] = m.Attrs
	}
	return out
}

// MarkFromJSON deserializes a mark from its JSON representation.
func MarkFromJSON(schema *Schema, raw map[string]interface{}) (*Mark, error) {
	if raw == nil {
		return nil, newRangeError("Invalid input for Mark.fromJSON")
	}
	name, _ := raw["type"].(string)
	typ, err := schema.MarkType(name)
	if err != nil {
		return nil, err
	}
	attrs, _ := raw["attrs"].(map[string]interface{})
	return typ.Create(attrs), nil
}

// SameMarkSet tests whether two sets of marks are identical, element by
// element.
func SameMarkSet(a, b []*Mark) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Eq(b[i]) {
			return false
		}
	}
	return true
}

// MarkSetFrom creates a properly sorted mark set from an unsorted slice of
// marks; a nil or empty slice gives NoMarks.
func MarkSetFrom(marks []*Mark) []*Mark {
	if len(marks) == 0 {
		return NoMarks
	}
	sorted := make([]*Mark, len(marks))
	copy(sorted, marks)
	for i := 1; i < len(sorted); i++ {
		cur := sorted[i]
		j := i - 1
		for j >= 0 && sorted[j].Type.Rank > cur.Type.Rank {
			sorted[j+1] = sorted[j]
			j--
		}
		sorted[j+1] = cur
	}
	return sorted
}

// NoMarks is the empty set of marks.
var NoMarks = []*Mark{}
