package transform

import (
	"errors"

	"github.com/go-doceng/doceng/model"
)

// AttrStep updates a given attribute of the node at a given position.
//
// Adapted from the gap-filling SetAttrsStep pattern discussed at
// https://discuss.prosemirror.net/t/preventing-image-placeholder-replacement-from-being-undone/1394/1
// to the single-attribute form that keeps inverting and merging simple.
type AttrStep struct {
	Pos   int
	Attr  string
	Value interface{}
}

// NewAttrStep is the constructor for AttrStep.
func NewAttrStep(pos int, attr string, value interface{}) *AttrStep {
	return &AttrStep{Pos: pos, Attr: attr, Value: value}
}

// Apply is a method of the Step interface.
func (s *AttrStep) Apply(doc *model.Node) StepResult {
	target := doc.NodeAt(s.Pos)
	if target == nil {
		return Fail("No node at given position")
	}
	attrs := map[string]interface{}{}
	for k, v := range target.Attrs {
		attrs[k] = v
	}
	attrs[s.Attr] = s.Value

	newNode, err := target.Type.Create(attrs, model.EmptyFragment, target.Marks)
	if err != nil {
		return Fail(err.Error())
	}
	leaf := 0
	if !target.IsLeaf() {
		leaf = 1
	}
	fragment, err := model.FragmentFrom(newNode)
	if err != nil {
		return Fail(err.Error())
	}
	slice := model.NewSlice(fragment, 0, leaf)
	return FromReplace(doc, s.Pos, s.Pos+1, slice)
}

// GetMap is a method of the Step interface.
func (s *AttrStep) GetMap() *StepMap {
	return EmptyStepMap
}

// Invert is a method of the Step interface.
func (s *AttrStep) Invert(doc *model.Node) Step {
	target := doc.NodeAt(s.Pos)
	var prev interface{}
	if target != nil {
		prev = target.Attrs[s.Attr]
	}
	return NewAttrStep(s.Pos, s.Attr, prev)
}

// Map is a method of the Step interface.
func (s *AttrStep) Map(mapping Mappable) Step {
	result := mapping.MapResult(s.Pos, 1)
	if result.Deleted {
		return nil
	}
	return NewAttrStep(result.Pos, s.Attr, s.Value)
}

// Merge is a method of the Step interface. AttrStep instances never merge.
func (s *AttrStep) Merge(other Step) (Step, bool) {
	return nil, false
}

// ToJSON is a method of the Step interface.
func (s *AttrStep) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"stepType": "attr",
		"pos":      s.Pos,
		"attr":     s.Attr,
		"value":    s.Value,
	}
}

// AttrStepFromJSON builds an AttrStep from a JSON representation.
func AttrStepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	attr, ok := obj["attr"].(string)
	if !ok {
		return nil, errors.New("Invalid input for AttrStep.fromJSON")
	}
	var pos int
	switch p := obj["pos"].(type) {
	case int:
		pos = p
	case float64:
		pos = int(p)
	}
	return NewAttrStep(pos, attr, obj["value"]), nil
}

var _ Step = &AttrStep{}

// DocAttrStep updates a given attribute of the document's top-level node.
type DocAttrStep struct {
	Attr  string
	Value interface{}
}

// NewDocAttrStep is the constructor for DocAttrStep.
func NewDocAttrStep(attr string, value interface{}) *DocAttrStep {
	return &DocAttrStep{Attr: attr, Value: value}
}

// Apply is a method of the Step interface.
func (s *DocAttrStep) Apply(doc *model.Node) StepResult {
	attrs := map[string]interface{}{}
	for k, v := range doc.Attrs {
		attrs[k] = v
	}
	attrs[s.Attr] = s.Value
	return Ok(model.NewNode(doc.Type, attrs, doc.Content, doc.Marks))
}

// GetMap is a method of the Step interface.
func (s *DocAttrStep) GetMap() *StepMap {
	return EmptyStepMap
}

// Invert is a method of the Step interface.
func (s *DocAttrStep) Invert(doc *model.Node) Step {
	return NewDocAttrStep(s.Attr, doc.Attrs[s.Attr])
}

// Map is a method of the Step interface.
func (s *DocAttrStep) Map(mapping Mappable) Step {
	return s
}

// Merge is a method of the Step interface. DocAttrStep instances never merge.
func (s *DocAttrStep) Merge(other Step) (Step, bool) {
	return nil, false
}

// ToJSON is a method of the Step interface.
func (s *DocAttrStep) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"stepType": "docAttr",
		"attr":     s.Attr,
		"value":    s.Value,
	}
}

// DocAttrStepFromJSON builds a DocAttrStep from a JSON representation.
func DocAttrStepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	attr, ok := obj["attr"].(string)
	if !ok {
		return nil, errors.New("Invalid input for DocAttrStep.fromJSON")
	}
	return NewDocAttrStep(attr, obj["value"]), nil
}

var _ Step = &DocAttrStep{}
