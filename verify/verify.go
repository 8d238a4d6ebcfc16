package verify

import (
	"slices"

	"github.com/cespare/xxhash"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"

	"github.com/outofforest/photon"
	"github.com/outofforest/spiral/alloc"
	"github.com/outofforest/spiral/list"
	"github.com/outofforest/spiral/types"
)

// ErrCorrupted is returned when the list links are broken.
var ErrCorrupted = errors.New("list is corrupted")

// Check walks the list in both directions and verifies that links are consistent with the root.
func Check(root types.ListRoot, state *alloc.State) error {
	forward, err := walk(root.Head, root.NumOfNodes, state)
	if err != nil {
		return errors.WithMessage(err, "forward walk")
	}
	if uint64(len(forward)) != root.NumOfNodes {
		return errors.Wrapf(ErrCorrupted, "%d nodes reached, expected %d", len(forward), root.NumOfNodes)
	}
	if len(forward) > 0 && forward[len(forward)-1] != root.Tail {
		return errors.Wrapf(ErrCorrupted, "walk ended at node %d, tail is %d", forward[len(forward)-1], root.Tail)
	}
	if len(forward) == 0 && root.Tail != 0 {
		return errors.Wrapf(ErrCorrupted, "empty list has tail %d", root.Tail)
	}

	backward, err := walk(root.Tail, root.NumOfNodes, state)
	if err != nil {
		return errors.WithMessage(err, "backward walk")
	}
	if len(backward) != len(forward) {
		return errors.Wrapf(ErrCorrupted, "backward walk reached %d nodes, forward walk %d", len(backward),
			len(forward))
	}
	for i, nodeAddress := range backward {
		if forward[len(forward)-1-i] != nodeAddress {
			return errors.Wrapf(ErrCorrupted, "backward walk diverged at node %d", nodeAddress)
		}
	}

	return nil
}

// walk collects addresses reachable from the start. Walk longer than limit means there is a cycle or foreign node.
// Addresses are validated before node is read, so broken link never points outside the arena memory.
func walk(start types.NodeAddress, limit uint64, state *alloc.State) ([]types.NodeAddress, error) {
	capacity := min(limit, state.NumOfNodes())
	addresses := make([]types.NodeAddress, 0, capacity)
	visited := make(map[types.NodeAddress]struct{}, capacity)

	var previous types.NodeAddress
	current := start
	for current != 0 {
		if !state.Contains(current) {
			return nil, errors.Wrapf(ErrCorrupted, "node %d is outside the arena", current)
		}
		if _, exists := visited[current]; exists {
			return nil, errors.Wrapf(ErrCorrupted, "node %d visited twice", current)
		}
		if uint64(len(addresses)) == limit {
			return nil, errors.Wrapf(ErrCorrupted, "more than %d nodes reached", limit)
		}

		visited[current] = struct{}{}
		addresses = append(addresses, current)
		previous, current = current, list.ProjectNode(state.Node(current)).Other(previous)
	}
	return addresses, nil
}

// Fingerprint returns hash of values in the list order.
func Fingerprint(root types.ListRoot, state *alloc.State) uint64 {
	h := xxhash.New()
	for _, node := range list.Iterator(root.Head, state) {
		_, _ = h.Write(photon.NewFromValue(&node.Value).B)
	}
	return h.Sum64()
}

// StorageDigest returns hash of values ordered by node address. Relinking nodes does not change it.
func StorageDigest(root types.ListRoot, state *alloc.State) types.Hash {
	addresses := make([]types.NodeAddress, 0, root.NumOfNodes)
	for nodeAddress := range list.Iterator(root.Head, state) {
		addresses = append(addresses, nodeAddress)
	}
	slices.Sort(addresses)

	h := blake3.New()
	for _, nodeAddress := range addresses {
		_, _ = h.Write(photon.NewFromValue(&nodeAddress).B)
		_, _ = h.Write(photon.NewFromValue(&list.ProjectNode(state.Node(nodeAddress)).Value).B)
	}

	var hash types.Hash
	copy(hash[:], h.Sum(nil))
	return hash
}
