package xlink

import "github.com/outofforest/spiral/types"

// Encode returns the link value for a node placed between nodes a and b.
// Missing neighbor is passed as 0.
func Encode(a, b types.NodeAddress) types.Link {
	return types.Link(a ^ b)
}

// Decode returns the neighbor on the other side of the known one.
func Decode(link types.Link, known types.NodeAddress) types.NodeAddress {
	return types.NodeAddress(link) ^ known
}
