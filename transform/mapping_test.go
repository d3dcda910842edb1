package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMappingMirrorPreservesPositionThroughReinsert covers deleting a range
// and then reinserting identical content at the same spot: a position that
// fell inside the deleted range should recover its original offset when the
// two step maps are registered as a mirror pair, rather than collapsing to
// the start of the deletion and then to the end of the reinsertion.
func TestMappingMirrorPreservesPositionThroughReinsert(t *testing.T) {
	deleteLowo := NewStepMap([]int{3, 4, 0})
	reinsertLowo := NewStepMap([]int{3, 0, 4})

	withoutMirror := NewMapping()
	withoutMirror.AppendMap(deleteLowo)
	withoutMirror.AppendMap(reinsertLowo)
	assert.Equal(t, 7, withoutMirror.Map(5), "without the mirror pair, position 5 collapses to 3 then is pushed to 7")

	withMirror := NewMapping()
	withMirror.AppendMap(deleteLowo)
	withMirror.AppendMap(reinsertLowo, 0)
	assert.Equal(t, 5, withMirror.Map(5), "the mirror pair recovers the original position inside the re-inserted content")
}
