package alloc

import "github.com/pkg/errors"

func newRing[T any](capacity uint64) (*ring[T], []T) {
	items := make([]T, capacity)
	return &ring[T]{
		items:     items,
		capacity:  capacity,
		available: capacity,
	}, items
}

// ring keeps free items. Items put back become available only after commit.
type ring[T any] struct {
	items []T

	capacity        uint64
	getPtr, putPtr  uint64
	available, held uint64
	taken           uint64
}

func (r *ring[T]) Get() (T, error) {
	if r.available == 0 {
		var t T
		return t, errors.New("no free item to get")
	}
	item := r.items[r.getPtr]
	r.getPtr++
	if r.getPtr == r.capacity {
		r.getPtr = 0
	}
	r.available--
	r.taken++
	return item, nil
}

func (r *ring[T]) Put(item T) {
	if r.taken == 0 {
		// This is really critical because it means that we deallocated more than allocated.
		panic("no space left in the ring")
	}

	r.items[r.putPtr] = item
	r.putPtr++
	if r.putPtr == r.capacity {
		r.putPtr = 0
	}
	r.taken--
	r.held++
}

func (r *ring[T]) Commit() {
	r.available += r.held
	r.held = 0
}
