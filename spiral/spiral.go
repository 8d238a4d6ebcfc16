package spiral

import (
	"github.com/outofforest/spiral/alloc"
	"github.com/outofforest/spiral/list"
	"github.com/outofforest/spiral/types"
	"github.com/outofforest/spiral/xlink"
)

// Spiralify relinks the list in place so it is traversed as 1, n, 2, n-1, 3, ...
// Front and back cursors move towards each other and each back node is spliced right after the front one.
func Spiralify(root *types.ListRoot, state *alloc.State) {
	if root.NumOfNodes <= 1 {
		return
	}

	var fp, lp types.NodeAddress
	f := root.Head
	l := list.Last(root.Head, state)

	for range root.NumOfNodes / 2 {
		fNode := list.ProjectNode(state.Node(f))
		lNode := list.ProjectNode(state.Node(l))

		// Neighbors must be taken before links are overwritten.
		fn := fNode.Other(fp)
		ln := lNode.Other(lp)

		fNode.Link = xlink.Encode(lp, l)
		lNode.Link = xlink.Encode(f, fn)

		fp, f = f, fn
		lp, l = l, ln
	}

	// Cursors met in the middle, one of them becomes the tail.
	if root.NumOfNodes%2 == 0 {
		list.ProjectNode(state.Node(lp)).Link = xlink.Encode(l, 0)
		root.Tail = lp
	} else {
		list.ProjectNode(state.Node(l)).Link = xlink.Encode(lp, 0)
		root.Tail = l
	}
}
