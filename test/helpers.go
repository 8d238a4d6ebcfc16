package test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/spiral/alloc"
	"github.com/outofforest/spiral/list"
	"github.com/outofforest/spiral/types"
)

// NewList creates arena of numOfNodes slots and list containing values 1..n.
func NewList(t *testing.T, numOfNodes uint64, n int) (*list.List, *alloc.State) {
	state := alloc.NewForTest(t, numOfNodes)
	return NewListInState(t, state, n), state
}

// NewListInState creates list containing values 1..n in existing arena.
func NewListInState(t *testing.T, state *alloc.State, n int) *list.List {
	l := list.New(list.Config{
		Root:        &types.ListRoot{},
		State:       state,
		Allocator:   state.NewAllocator(),
		Deallocator: state.NewDeallocator(),
	})
	for i := range n {
		require.NoError(t, l.Append(int64(i+1)))
	}
	return l
}

// CollectAddresses collects node addresses in the list order.
func CollectAddresses(l *list.List) []types.NodeAddress {
	addresses := []types.NodeAddress{}
	for nodeAddress := range l.Iterator() {
		addresses = append(addresses, nodeAddress)
	}
	return addresses
}
