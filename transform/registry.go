package transform

import (
	"fmt"

	"github.com/go-doceng/doceng/model"
)

// StepFromJSONFunc builds a Step from its JSON representation.
type StepFromJSONFunc func(schema *model.Schema, obj map[string]interface{}) (Step, error)

// stepsByID is the central registry mapping stepType ids to their JSON
// constructors, the Go equivalent of the per-step-class static registration
// upstream ProseMirror does at import time.
var stepsByID = map[string]StepFromJSONFunc{
	"replace":        ReplaceStepFromJSON,
	"replaceAround":  ReplaceAroundStepFromJSON,
	"addMark":        AddMarkStepFromJSON,
	"removeMark":     RemoveMarkStepFromJSON,
	"addNodeMark":    AddNodeMarkStepFromJSON,
	"removeNodeMark": RemoveNodeMarkStepFromJSON,
	"attr":           AttrStepFromJSON,
	"docAttr":        DocAttrStepFromJSON,
	"tableSort":      TableSortStepFromJSON,
}

// AddStepType registers a new step type with the central registry, allowing
// custom step JSON to round-trip through StepFromJSON.
func AddStepType(id string, fromJSON StepFromJSONFunc) {
	stepsByID[id] = fromJSON
}

// StepFromJSON deserializes a JSON-represented step using the registry keyed
// by its "stepType" field.
func StepFromJSON(schema *model.Schema, obj map[string]interface{}) (Step, error) {
	stepType, ok := obj["stepType"].(string)
	if !ok {
		return nil, fmt.Errorf("Invalid input for Step.fromJSON")
	}
	fromJSON, ok := stepsByID[stepType]
	if !ok {
		return nil, fmt.Errorf("No step type %s defined", stepType)
	}
	return fromJSON(schema, obj)
}
