package model_test

import (
	"strings"
	"testing"

	. "github.com/go-doceng/doceng/model"
	"github.com/stretchr/testify/assert"
)

func get(t *testing.T, expr string) *ContentMatch {
	cm, err := ParseContentMatch(expr, schema.Nodes)
	assert.NoError(t, err)
	return cm
}

func match(t *testing.T, expr, types string) bool {
	m := get(t, expr)
	var ts []*NodeType
	for _, t := range strings.Fields(types) {
		ts = append(ts, schema.Nodes[t])
	}
	for i := 0; m != nil && i < len(ts); i++ {
		m = m.MatchType(ts[i])
	}
	return m != nil && m.ValidEnd
}

func valid(t *testing.T, expr, types string) {
	assert.True(t, match(t, expr, types))
}
func invalid(t *testing.T, expr, types string) {
	assert.False(t, match(t, expr, types))
}

// unsupported checks that an expression using syntax outside the supported
// grammar (alternation, grouping, counts) is rejected by the parser.
func unsupported(t *testing.T, expr string) {
	_, err := ParseContentMatch(expr, schema.Nodes)
	assert.Error(t, err)
}

func TestContentMatchMatchType(t *testing.T) {
	// accepts empty content for the empty expr
	valid(t, "", "")
	// doesn't accept content in the empty expr
	invalid(t, "", "image")

	// matches nothing to an asterisk
	valid(t, "image*", "")
	// matches one element to an asterisk
	valid(t, "image*", "image")
	// matches multiple elements to an asterisk
	valid(t, "image*", "image image image image")
	// only matches appropriate elements to an asterisk
	invalid(t, "image*", "image text")

	// matches group members to a group
	valid(t, "inline*", "image text")
	// doesn't match non-members to a group
	invalid(t, "inline*", "paragraph")
	// rejects a choice expression (alternation is not supported)
	unsupported(t, "(paragraph | heading)")
	// rejects a choice expression written without spaces
	unsupported(t, "(paragraph|heading)")

	// matches a simple sequence
	valid(t, "paragraph horizontal_rule paragraph", "paragraph horizontal_rule paragraph")
	// fails when a sequence is too long
	invalid(t, "paragraph horizontal_rule", "paragraph horizontal_rule paragraph")
	// fails when a sequence is too short
	invalid(t, "paragraph horizontal_rule paragraph", "paragraph horizontal_rule")
	// fails when a sequence starts incorrectly
	invalid(t, "paragraph horizontal_rule", "horizontal_rule paragraph horizontal_rule")

	// accepts a sequence asterisk matching zero elements
	valid(t, "heading paragraph*", "heading")
	// accepts a sequence asterisk matching multiple elts
	valid(t, "heading paragraph*", "heading paragraph paragraph")
	// accepts a sequence plus matching one element
	valid(t, "heading paragraph+", "heading paragraph")
	// accepts a sequence plus matching multiple elts
	valid(t, "heading paragraph+", "heading paragraph paragraph")
	// fails when a sequence plus has no elements
	invalid(t, "heading paragraph+", "heading")
	// fails when a sequence plus misses its start
	invalid(t, "heading paragraph+", "paragraph paragraph")

	// accepts an optional element being present
	valid(t, "image?", "image")
	// accepts an optional element being missing
	valid(t, "image?", "")
	// fails when an optional element is present twice
	invalid(t, "image?", "image image")

	// rejects a nested repeat (grouping is not supported)
	unsupported(t, "(heading paragraph+)+")
	// rejects a group followed by further terms
	unsupported(t, "(heading paragraph+)+ horizontal_rule")

	// rejects an exact count (counts are not supported)
	unsupported(t, "hard_break{2}")
	// rejects an exact count followed by further terms
	unsupported(t, "hard_break{2} image")
	// rejects an exact count with an optional term after it
	unsupported(t, "hard_break{2} image?")
	// rejects a bounded count
	unsupported(t, "hard_break{2, 4}")
	// rejects a bounded count written without spaces
	unsupported(t, "hard_break{2,4}")
	// rejects a bounded count followed by further terms
	unsupported(t, "hard_break{2,4} image")
	// rejects a bounded count with a repeated term after it
	unsupported(t, "hard_break{2,4} image*")
	// rejects a bounded count with a repeated plus term after it
	unsupported(t, "hard_break{2,4} image+")
	// rejects a bounded count followed by a text repeat
	unsupported(t, "hard_break{2, 4} text*")
	// rejects a bounded count followed by an optional term
	unsupported(t, "hard_break{2, 4} image?")
	// rejects an open range
	unsupported(t, "hard_break{2,}")
	// rejects an open range followed by further terms
	unsupported(t, "hard_break{2,} image")
	// rejects an open range with an optional term after it
	unsupported(t, "hard_break{2,} image?")
}

// TODO fillBefore
