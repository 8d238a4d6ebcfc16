package list

import (
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/outofforest/spiral/alloc"
	"github.com/outofforest/spiral/types"
	"github.com/outofforest/spiral/xlink"
)

// Separator is printed between values.
const Separator = "~>"

// Config stores list configuration.
type Config struct {
	Root        *types.ListRoot
	State       *alloc.State
	Allocator   *alloc.Allocator
	Deallocator *alloc.Deallocator
}

// New creates new list.
func New(config Config) *List {
	return &List{
		config: config,
	}
}

// List is the list of values where each node links both of its neighbors through single xor-ed field.
type List struct {
	config Config
}

// Root returns root of the list.
func (l *List) Root() *types.ListRoot {
	return l.config.Root
}

// Len returns the number of nodes in the list.
func (l *List) Len() uint64 {
	return l.config.Root.NumOfNodes
}

// Append adds value to the end of the list.
func (l *List) Append(value int64) error {
	nodeAddress, err := l.config.Allocator.Allocate()
	if err != nil {
		return err
	}

	root := l.config.Root
	node := ProjectNode(l.config.State.Node(nodeAddress))
	node.Value = value
	node.Link = xlink.Encode(root.Tail, 0)

	if root.Tail == 0 {
		root.Head = nodeAddress
	} else {
		// Tail's link contains only its predecessor, new successor is mixed in.
		tail := ProjectNode(l.config.State.Node(root.Tail))
		tail.Link = xlink.Encode(tail.Other(0), nodeAddress)
	}
	root.Tail = nodeAddress
	root.NumOfNodes++

	return nil
}

// Iterator iterates over nodes from head to tail.
func (l *List) Iterator() func(func(types.NodeAddress, *Node) bool) {
	return Iterator(l.config.Root.Head, l.config.State)
}

// Backward iterates over nodes from tail to head.
func (l *List) Backward() func(func(types.NodeAddress, *Node) bool) {
	return Iterator(l.config.Root.Tail, l.config.State)
}

// Last finds the last node by walking the whole list.
func (l *List) Last() types.NodeAddress {
	return Last(l.config.Root.Head, l.config.State)
}

// Values returns values in the list order.
func (l *List) Values() []int64 {
	values := make([]int64, 0, l.config.Root.NumOfNodes)
	for _, node := range l.Iterator() {
		values = append(values, node.Value)
	}
	return values
}

// Print writes values separated by arrows and terminated by new line.
func (l *List) Print(w io.Writer) error {
	buf := make([]byte, 0, 64)
	for nodeAddress, node := range l.Iterator() {
		if nodeAddress != l.config.Root.Head {
			buf = append(buf, Separator...)
		}
		buf = strconv.AppendInt(buf, node.Value, 10)
	}
	buf = append(buf, '\n')

	_, err := w.Write(buf)
	return errors.WithStack(err)
}

// Destroy deallocates all the nodes and resets the root.
func (l *List) Destroy() {
	var previous types.NodeAddress
	current := l.config.Root.Head
	for current != 0 {
		next := ProjectNode(l.config.State.Node(current)).Other(previous)

		// Only the number is used after this point, node is not read again.
		l.config.Deallocator.Deallocate(current)
		previous = current
		current = next
	}

	*l.config.Root = types.ListRoot{}
}

// Iterator iterates over nodes starting from the end given by the address.
// Passing head walks the list forward, passing tail walks it backward.
func Iterator(start types.NodeAddress, state *alloc.State) func(func(types.NodeAddress, *Node) bool) {
	return func(yield func(types.NodeAddress, *Node) bool) {
		var previous types.NodeAddress
		current := start
		for current != 0 {
			node := ProjectNode(state.Node(current))
			if !yield(current, node) {
				return
			}

			previous, current = current, node.Other(previous)
		}
	}
}

// Last returns address of the last node reachable from the head, or 0 if list is empty.
func Last(head types.NodeAddress, state *alloc.State) types.NodeAddress {
	var last types.NodeAddress
	for nodeAddress := range Iterator(head, state) {
		last = nodeAddress
	}
	return last
}
