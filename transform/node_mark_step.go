package transform

import (
	"errors"

	"github.com/go-doceng/doceng/model"
)

// AddNodeMarkStep adds a mark to a specific node, rather than a range of
// inline content.
type AddNodeMarkStep struct {
	Pos  int
	Mark *model.Mark
}

// NewAddNodeMarkStep is the constructor for AddNodeMarkStep.
func NewAddNodeMarkStep(pos int, mark *model.Mark) *AddNodeMarkStep {
	return &AddNodeMarkStep{Pos: pos, Mark: mark}
}

// Apply is a method of the Step interface.
func (s *AddNodeMarkStep) Apply(doc *model.Node) StepResult {
	node := doc.NodeAt(s.Pos)
	if node == nil {
		return Fail("No node at mark step's position")
	}
	newNode := model.NewNode(node.Type, node.Attrs, node.Content, s.Mark.AddToSet(node.Marks))
	fragment, err := model.FragmentFrom(newNode)
	if err != nil {
		return Fail(err.Error())
	}
	leaf := 0
	if !node.IsLeaf() {
		leaf = 1
	}
	return FromReplace(doc, s.Pos, s.Pos+1, model.NewSlice(fragment, 0, leaf))
}

// GetMap is a method of the Step interface.
func (s *AddNodeMarkStep) GetMap() *StepMap { return EmptyStepMap }

// Invert is a method of the Step interface.
func (s *AddNodeMarkStep) Invert(doc *model.Node) Step {
	node := doc.NodeAt(s.Pos)
	if node != nil && s.Mark.IsInSet(node.Marks) {
		return NewAddNodeMarkStep(s.Pos, s.Mark)
	}
	return NewRemoveNodeMarkStep(s.Pos, s.Mark)
}

// Map is a method of the Step interface.
func (s *AddNodeMarkStep) Map(mapping Mappable) Step {
	pos := mapping.MapResult(s.Pos, 1)
	if pos.Deleted {
		return nil
	}
	return NewAddNodeMarkStep(pos.Pos, s.Mark)
}

// Merge is a method of the Step interface. AddNodeMarkStep instances never merge.
func (s *AddNodeMarkStep) Merge(other Step) (Step, bool) {
	return nil, false
}

// ToJSON is a method of the Step interface.
func (s *AddNodeMarkStep) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"stepType": "addNodeMark",
		"pos":      s.Pos,
		"mark":     s.Mark.ToJSON(),
	}
}

// AddNodeMarkStepFromJSON builds an AddNodeMarkStep from a JSON
// representation.
func AddNodeMarkStepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	var pos int
	switch p := obj["pos"].(type) {
	case int:
		pos = p
	case float64:
		pos = int(p)
	}
	raw, ok := obj["mark"].(map[string]interface{})
	if !ok {
		return nil, errors.New("Invalid input for AddNodeMarkStep.fromJSON")
	}
	mark, err := model.MarkFromJSON(schema, raw)
	if err != nil {
		return nil, err
	}
	return NewAddNodeMarkStep(pos, mark), nil
}

var _ Step = &AddNodeMarkStep{}

// RemoveNodeMarkStep removes a mark from a specific node.
type RemoveNodeMarkStep struct {
	Pos  int
	Mark *model.Mark
}

// NewRemoveNodeMarkStep is the constructor for RemoveNodeMarkStep.
func NewRemoveNodeMarkStep(pos int, mark *model.Mark) *RemoveNodeMarkStep {
	return &RemoveNodeMarkStep{Pos: pos, Mark: mark}
}

// Apply is a method of the Step interface.
func (s *RemoveNodeMarkStep) Apply(doc *model.Node) StepResult {
	node := doc.NodeAt(s.Pos)
	if node == nil {
		return Fail("No node at mark step's position")
	}
	newNode := model.NewNode(node.Type, node.Attrs, node.Content, s.Mark.RemoveFromSet(node.Marks))
	fragment, err := model.FragmentFrom(newNode)
	if err != nil {
		return Fail(err.Error())
	}
	leaf := 0
	if !node.IsLeaf() {
		leaf = 1
	}
	return FromReplace(doc, s.Pos, s.Pos+1, model.NewSlice(fragment, 0, leaf))
}

// GetMap is a method of the Step interface.
func (s *RemoveNodeMarkStep) GetMap() *StepMap { return EmptyStepMap }

// Invert is a method of the Step interface.
func (s *RemoveNodeMarkStep) Invert(doc *model.Node) Step {
	node := doc.NodeAt(s.Pos)
	if node == nil || !s.Mark.IsInSet(node.Marks) {
		return NewRemoveNodeMarkStep(s.Pos, s.Mark)
	}
	return NewAddNodeMarkStep(s.Pos, s.Mark)
}

// Map is a method of the Step interface.
func (s *RemoveNodeMarkStep) Map(mapping Mappable) Step {
	pos := mapping.MapResult(s.Pos, 1)
	if pos.Deleted {
		return nil
	}
	return NewRemoveNodeMarkStep(pos.Pos, s.Mark)
}

// Merge is a method of the Step interface. RemoveNodeMarkStep instances never merge.
func (s *RemoveNodeMarkStep) Merge(other Step) (Step, bool) {
	return nil, false
}

// ToJSON is a method of the Step interface.
func (s *RemoveNodeMarkStep) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"stepType": "removeNodeMark",
		"pos":      s.Pos,
		"mark":     s.Mark.ToJSON(),
	}
}

// RemoveNodeMarkStepFromJSON builds a RemoveNodeMarkStep from a JSON
// representation.
func RemoveNodeMarkStepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	var pos int
	switch p := obj["pos"].(type) {
	case int:
		pos = p
	case float64:
		pos = int(p)
	}
	raw, ok := obj["mark"].(map[string]interface{})
	if !ok {
		return nil, errors.New("Invalid input for RemoveNodeMarkStep.fromJSON")
	}
	mark, err := model.MarkFromJSON(schema, raw)
	if err != nil {
		return nil, err
	}
	return NewRemoveNodeMarkStep(pos, mark), nil
}

var _ Step = &RemoveNodeMarkStep{}
