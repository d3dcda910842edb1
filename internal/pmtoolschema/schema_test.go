package pmtoolschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBasic(t *testing.T) {
	schema, err := Resolve("basic")
	require.NoError(t, err)
	_, err = schema.NodeType("paragraph")
	assert.NoError(t, err)
	_, err = schema.NodeType("bullet_list")
	assert.Error(t, err, "plain basic schema has no list nodes")
}

func TestResolveEmptyDefaultsToBasic(t *testing.T) {
	schema, err := Resolve("")
	require.NoError(t, err)
	_, err = schema.NodeType("paragraph")
	assert.NoError(t, err)
}

func TestResolveBasicList(t *testing.T) {
	schema, err := Resolve("basic-list")
	require.NoError(t, err)
	_, err = schema.NodeType("bullet_list")
	assert.NoError(t, err)
	_, err = schema.NodeType("list_item")
	assert.NoError(t, err)
}

func TestResolveUnknownSchema(t *testing.T) {
	_, err := Resolve("nonexistent")
	assert.Error(t, err)
}
