package stream

import (
	"context"
	"sync"
)

// Ring is a bounded FIFO that overwrites its oldest entry when full and
// remembers how many entries were overwritten since the last Pop.
type Ring[T any] struct {
	mu     sync.Mutex
	items  []T
	head   int
	count  int
	missed uint64
	closed bool
	ready  chan struct{}
}

func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring[T]{
		items: make([]T, capacity),
		ready: make(chan struct{}, 1),
	}
}

// Push appends item. It reports whether the oldest entry had to be dropped
// and whether the ring accepted the item at all.
func (ring *Ring[T]) Push(item T) (dropped bool, ok bool) {
	ring.mu.Lock()
	if ring.closed {
		ring.mu.Unlock()
		return false, false
	}
	capacity := len(ring.items)
	if ring.count == capacity {
		var zero T
		ring.items[ring.head] = zero
		ring.head = (ring.head + 1) % capacity
		ring.count--
		ring.missed++
		dropped = true
	}
	ring.items[(ring.head+ring.count)%capacity] = item
	ring.count++
	ring.mu.Unlock()

	ring.signal()
	return dropped, true
}

// Pop blocks until an item is available, the ring is closed and drained, or
// ctx is done. A non-zero missed count is returned on its own, before the
// next retained item.
func (ring *Ring[T]) Pop(ctx context.Context) (item T, missed uint64, err error) {
	for {
		ring.mu.Lock()
		if ring.missed > 0 {
			missed = ring.missed
			ring.missed = 0
			ring.mu.Unlock()
			return item, missed, nil
		}
		if ring.count > 0 {
			item = ring.items[ring.head]
			var zero T
			ring.items[ring.head] = zero
			ring.head = (ring.head + 1) % len(ring.items)
			ring.count--
			ring.mu.Unlock()
			return item, 0, nil
		}
		if ring.closed {
			ring.mu.Unlock()
			return item, 0, ErrClosed
		}
		ring.mu.Unlock()

		select {
		case <-ring.ready:
		case <-ctx.Done():
			return item, 0, ctx.Err()
		}
	}
}

// Len returns the number of buffered items.
func (ring *Ring[T]) Len() int {
	ring.mu.Lock()
	defer ring.mu.Unlock()
	return ring.count
}

func (ring *Ring[T]) Cap() int {
	return len(ring.items)
}

// Close stops accepting items. Buffered items stay readable.
func (ring *Ring[T]) Close() {
	ring.mu.Lock()
	ring.closed = true
	ring.mu.Unlock()
	ring.signal()
}

func (ring *Ring[T]) signal() {
	select {
	case ring.ready <- struct{}{}:
	default:
	}
}
