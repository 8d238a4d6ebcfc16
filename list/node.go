package list

import (
	"unsafe"

	"github.com/outofforest/photon"
	"github.com/outofforest/spiral/types"
	"github.com/outofforest/spiral/xlink"
)

// Node represents list node.
type Node struct {
	Link  types.Link
	Value int64
}

// Other returns the neighbor on the other side of the known one.
func (n *Node) Other(known types.NodeAddress) types.NodeAddress {
	return xlink.Decode(n.Link, known)
}

// ProjectNode projects node to list node.
func ProjectNode(n unsafe.Pointer) *Node {
	return photon.FromPointer[Node](n)
}
