package alloc

import (
	"github.com/pkg/errors"

	"github.com/outofforest/spiral/types"
)

// ErrOutOfSpace is returned when there is no free node in the arena.
var ErrOutOfSpace = errors.New("out of space")

// Allocator allocates nodes.
type Allocator struct {
	ring *ring[types.NodeAddress]
}

// Allocate allocates single node.
func (a *Allocator) Allocate() (types.NodeAddress, error) {
	nodeAddress, err := a.ring.Get()
	if err != nil {
		return 0, errors.WithStack(ErrOutOfSpace)
	}
	return nodeAddress, nil
}

// Deallocator deallocates nodes.
type Deallocator struct {
	state *State
	ring  *ring[types.NodeAddress]
}

// Deallocate zeroes the node and returns it to the pool. It may be allocated again after commit.
func (d *Deallocator) Deallocate(nodeAddress types.NodeAddress) {
	if nodeAddress == 0 {
		return
	}

	d.state.Clear(nodeAddress)
	d.ring.Put(nodeAddress)
}
