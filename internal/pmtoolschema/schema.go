// Package pmtoolschema assembles the document schemas pmtool can load
// documents against. Grounded on test/builder's construction of its own
// test schema (basic nodes plus list nodes layered on top), but exported
// as real, non-test code so cmd/pmtool can pick a schema by name.
package pmtoolschema

import (
	"fmt"

	"github.com/go-doceng/doceng/model"
	"github.com/go-doceng/doceng/schema/basic"
	"github.com/go-doceng/doceng/schema/list"
)

// Named schemas pmtool accepts for its --schema flag. Config.Schema accepts
// the same names, but pmtool's commands do not read it.
const (
	Basic     = "basic"
	BasicList = "basic-list"
)

var basicList, errBasicList = model.NewSchema(&model.SchemaSpec{
	Nodes: list.AddListNodes(basic.Schema.Spec.Nodes, "paragraph block*", "block"),
	Marks: basic.Schema.Spec.Marks,
})

// Resolve returns the schema registered under name.
func Resolve(name string) (*model.Schema, error) {
	switch name {
	case "", Basic:
		return basic.Schema, nil
	case BasicList:
		if errBasicList != nil {
			return nil, fmt.Errorf("build basic-list schema: %w", errBasicList)
		}
		return basicList, nil
	default:
		return nil, fmt.Errorf("unknown schema %q", name)
	}
}
