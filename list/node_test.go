package list

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/spiral/types"
)

func TestNodeSize(t *testing.T) {
	require.Equal(t, uintptr(types.NodeLength), unsafe.Sizeof(Node{}))
}
