package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// NewForTest creates arena state for unit tests.
func NewForTest(t *testing.T, numOfNodes uint64) *State {
	state, stateDeallocFunc, err := NewState(Config{
		NumOfNodes: numOfNodes,
	})
	require.NoError(t, err)
	t.Cleanup(stateDeallocFunc)

	return state
}
