package transform

import (
	"errors"

	"github.com/go-doceng/doceng/model"
)

type mapFn func(node, parent *model.Node) *model.Node

func mapFragment(fragment *model.Fragment, f mapFn, parent *model.Node) *model.Fragment {
	var mapped []*model.Node
	for i := 0; i < fragment.ChildCount(); i++ {
		child := fragment.Child(i)
		if child.Content.Size > 0 {
			child = child.Copy(mapFragment(child.Content, f, child))
		}
		if child.IsInline() {
			child = f(child, parent)
		}
		mapped = append(mapped, child)
	}
	return model.FragmentFromArray(mapped)
}

// AddMarkStep adds a mark to all inline content between two positions.
type AddMarkStep struct {
	From int
	To   int
	Mark *model.Mark
}

// NewAddMarkStep is the constructor for AddMarkStep.
func NewAddMarkStep(from, to int, mark *model.Mark) *AddMarkStep {
	return &AddMarkStep{From: from, To: to, Mark: mark}
}

// Apply is a method of the Step interface.
func (s *AddMarkStep) Apply(doc *model.Node) StepResult {
	oldSlice, err := doc.Slice(s.From, s.To)
	if err != nil {
		return Fail(err.Error())
	}
	dFrom, err := doc.Resolve(s.From)
	if err != nil {
		return Fail(err.Error())
	}
	parent := dFrom.Node(dFrom.SharedDepth(s.To))
	fragment := mapFragment(oldSlice.Content, func(node, parent *model.Node) *model.Node {
		if parent != nil && !parent.Type.AllowsMarkType(s.Mark.Type) {
			return node
		}
		return node.Mark(s.Mark.AddToSet(node.Marks))
	}, parent)
	slice := model.NewSlice(fragment, oldSlice.OpenStart, oldSlice.OpenEnd)
	return FromReplace(doc, s.From, s.To, slice)
}

// GetMap is a method of the Step interface.
func (s *AddMarkStep) GetMap() *StepMap {
	return EmptyStepMap
}

// Invert is a method of the Step interface.
func (s *AddMarkStep) Invert(doc *model.Node) Step {
	return NewRemoveMarkStep(s.From, s.To, s.Mark)
}

// Map is a method of the Step interface.
func (s *AddMarkStep) Map(mapping Mappable) Step {
	from := mapping.MapResult(s.From, 1)
	to := mapping.MapResult(s.To, -1)
	if from.Deleted && to.Deleted || from.Pos >= to.Pos {
		return nil
	}
	return NewAddMarkStep(from.Pos, to.Pos, s.Mark)
}

// Merge is a method of the Step interface.
func (s *AddMarkStep) Merge(other Step) (Step, bool) {
	add, ok := other.(*AddMarkStep)
	if !ok || !add.Mark.Eq(s.Mark) {
		return nil, false
	}
	if s.From <= add.To && s.To >= add.From {
		from, to := s.From, s.To
		if add.From < from {
			from = add.From
		}
		if add.To > to {
			to = add.To
		}
		return NewAddMarkStep(from, to, s.Mark), true
	}
	return nil, false
}

// ToJSON is a method of the Step interface.
func (s *AddMarkStep) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"stepType": "addMark",
		"mark":     s.Mark.ToJSON(),
		"from":     s.From,
		"to":       s.To,
	}
}

// AddMarkStepFromJSON builds an AddMarkStep from a JSON representation.
func AddMarkStepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	from, fromOK := toIntField(obj["from"])
	to, toOK := toIntField(obj["to"])
	if !fromOK || !toOK {
		return nil, errors.New("Invalid input for AddMarkStep.fromJSON")
	}
	raw, ok := obj["mark"].(map[string]interface{})
	if !ok {
		return nil, errors.New("Invalid input for AddMarkStep.fromJSON")
	}
	mark, err := model.MarkFromJSON(schema, raw)
	if err != nil {
		return nil, err
	}
	return NewAddMarkStep(from, to, mark), nil
}

var _ Step = &AddMarkStep{}

func toIntField(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// RemoveMarkStep removes a mark from all inline content between two positions.
type RemoveMarkStep struct {
	From int
	To   int
	Mark *model.Mark
}

// NewRemoveMarkStep is the constructor for RemoveMarkStep.
func NewRemoveMarkStep(from, to int, mark *model.Mark) *RemoveMarkStep {
	return &RemoveMarkStep{From: from, To: to, Mark: mark}
}

// Apply is a method of the Step interface.
func (s *RemoveMarkStep) Apply(doc *model.Node) StepResult {
	oldSlice, err := doc.Slice(s.From, s.To)
	if err != nil {
		return Fail(err.Error())
	}
	fragment := mapFragment(oldSlice.Content, func(node, parent *model.Node) *model.Node {
		return node.Mark(s.Mark.RemoveFromSet(node.Marks))
	}, nil)
	slice := model.NewSlice(fragment, oldSlice.OpenStart, oldSlice.OpenEnd)
	return FromReplace(doc, s.From, s.To, slice)
}

// GetMap is a method of the Step interface.
func (s *RemoveMarkStep) GetMap() *StepMap {
	return EmptyStepMap
}

// Invert is a method of the Step interface.
func (s *RemoveMarkStep) Invert(doc *model.Node) Step {
	return NewAddMarkStep(s.From, s.To, s.Mark)
}

// Map is a method of the Step interface.
func (s *RemoveMarkStep) Map(mapping Mappable) Step {
	from := mapping.MapResult(s.From, 1)
	to := mapping.MapResult(s.To, -1)
	if from.Deleted && to.Deleted || from.Pos >= to.Pos {
		return nil
	}
	return NewRemoveMarkStep(from.Pos, to.Pos, s.Mark)
}

// Merge is a method of the Step interface.
func (s *RemoveMarkStep) Merge(other Step) (Step, bool) {
	rem, ok := other.(*RemoveMarkStep)
	if !ok || !rem.Mark.Eq(s.Mark) {
		return nil, false
	}
	if s.From <= rem.To && s.To >= rem.From {
		from, to := s.From, s.To
		if rem.From < from {
			from = rem.From
		}
		if rem.To > to {
			to = rem.To
		}
		return NewRemoveMarkStep(from, to, s.Mark), true
	}
	return nil, false
}

// ToJSON is a method of the Step interface.
func (s *RemoveMarkStep) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"stepType": "removeMark",
		"mark":     s.Mark.ToJSON(),
		"from":     s.From,
		"to":       s.To,
	}
}

// RemoveMarkStepFromJSON builds a RemoveMarkStep from a JSON representation.
func RemoveMarkStepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	from, fromOK := toIntField(obj["from"])
	to, toOK := toIntField(obj["to"])
	if !fromOK || !toOK {
		return nil, errors.New("Invalid input for RemoveMarkStep.fromJSON")
	}
	raw, ok := obj["mark"].(map[string]interface{})
	if !ok {
		return nil, errors.New("Invalid input for RemoveMarkStep.fromJSON")
	}
	mark, err := model.MarkFromJSON(schema, raw)
	if err != nil {
		return nil, err
	}
	return NewRemoveMarkStep(from, to, mark), nil
}

var _ Step = &RemoveMarkStep{}
