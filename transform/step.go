// Package transform implements document transforms, which are used by the
// editor to treat changes as first-class values, which can be saved, shared,
// and reasoned about.
package transform

import "github.com/go-doceng/doceng/model"

// Step is a piece of document transformation. Steps can be applied to a
// document to produce a new document, inverted to create a step that undoes
// their effect, and mapped across other changes.
type Step interface {
	// Apply applies this step to the given document, returning a result
	// object that either indicates failure, if the step can not be applied
	// to this document, or indicates success by containing a transformed
	// document.
	Apply(doc *model.Node) StepResult
	// GetMap gets the step map that represents the changes made by this
	// step, and which can be used to transform between positions in the old
	// and the new document.
	GetMap() *StepMap
	// Invert creates an inverted version of this step. Needs the document as
	// it was before the step as argument.
	Invert(doc *model.Node) Step
	// Map this step through a mappable thing, returning either a version of
	// that step with its positions adjusted, or nil if the step was made
	// redundant by the mapping.
	Map(mapping Mappable) Step
	// Merge tries to merge this step with another one, to be applied
	// directly after it. Returns the merged step when possible, and ok
	// false when the steps can't be merged.
	Merge(other Step) (merged Step, ok bool)
	// ToJSON creates a JSON-serializable representation of this step.
	ToJSON() map[string]interface{}
}

// StepResult is the result of applying a Step. Contains either a new
// document or a failure message.
type StepResult struct {
	Doc    *model.Node
	Failed string
}

// Ok builds a successful StepResult.
func Ok(doc *model.Node) StepResult { return StepResult{Doc: doc} }

// Fail builds a failed StepResult with the given message.
func Fail(message string) StepResult { return StepResult{Failed: message} }

// FromReplace builds a step result by performing a replace on doc.
func FromReplace(doc *model.Node, from, to int, slice *model.Slice) StepResult {
	newDoc, err := doc.Replace(from, to, slice)
	if err != nil {
		return Fail(err.Error())
	}
	return Ok(newDoc)
}
