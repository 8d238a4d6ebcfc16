package alloc

import (
	"unsafe"

	"github.com/pkg/errors"

	"github.com/outofforest/photon"
	"github.com/outofforest/spiral/types"
)

// Config stores configuration of the node arena.
type Config struct {
	NumOfNodes   uint64
	UseHugePages bool
}

// NewState creates new arena state.
func NewState(config Config) (*State, func(), error) {
	// Slot 0 is reserved for nil address, so at least one more is needed to store anything.
	if config.NumOfNodes < 2 {
		return nil, nil, errors.New("arena is too small")
	}

	origin, deallocateFunc, err := Allocate(config.NumOfNodes, config.UseHugePages)
	if err != nil {
		return nil, nil, err
	}

	r, addresses := newRing[types.NodeAddress](config.NumOfNodes - 1)
	for i := range addresses {
		addresses[i] = types.NodeAddress(i + 1)
	}

	return &State{
		origin:     origin,
		numOfNodes: config.NumOfNodes,
		ring:       r,
	}, deallocateFunc, nil
}

// State stores the arena state.
type State struct {
	origin     unsafe.Pointer
	numOfNodes uint64
	ring       *ring[types.NodeAddress]
}

// NumOfNodes returns the number of node slots in the arena, including the reserved one.
func (s *State) NumOfNodes() uint64 {
	return s.numOfNodes
}

// Contains tells if address points to a slot which might be allocated.
func (s *State) Contains(nodeAddress types.NodeAddress) bool {
	return nodeAddress != 0 && uint64(nodeAddress) < s.numOfNodes
}

// NewAllocator creates new node allocator.
func (s *State) NewAllocator() *Allocator {
	return &Allocator{ring: s.ring}
}

// NewDeallocator creates new node deallocator.
func (s *State) NewDeallocator() *Deallocator {
	return &Deallocator{state: s, ring: s.ring}
}

// Node returns pointer to the node.
func (s *State) Node(nodeAddress types.NodeAddress) unsafe.Pointer {
	return unsafe.Add(s.origin, nodeAddress*types.NodeLength)
}

// Bytes returns byte slice of a node.
func (s *State) Bytes(nodeAddress types.NodeAddress) []byte {
	return photon.SliceFromPointer[byte](s.Node(nodeAddress), types.NodeLength)
}

// Clear sets all the bytes of the node to zero.
func (s *State) Clear(nodeAddress types.NodeAddress) {
	clear(s.Bytes(nodeAddress))
}

// Commit makes deallocated nodes available for allocation.
func (s *State) Commit() {
	s.ring.Commit()
}
