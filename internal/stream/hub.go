package stream

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrClosed is returned by a drained receiver whose hub or ring is closed.
	ErrClosed = errors.New("stream closed")
	// ErrNoReceivers is returned by Publish when nobody is subscribed.
	ErrNoReceivers = errors.New("stream has no receivers")
)

// Hub broadcasts every published value to each receiver. Receivers own a
// fixed-size ring, so a slow receiver loses its oldest values instead of
// holding back the publisher.
type Hub[T any] struct {
	mu        sync.Mutex
	receivers map[*Receiver[T]]struct{}
	capacity  int
	closed    bool
	closedErr error
	onDrop    func()
}

// NewHub creates a hub whose receivers buffer capacity values. closedErr is
// returned by Subscribe once the hub is closed. onDrop, when set, runs every
// time a receiver overwrites a value it has not read yet.
func NewHub[T any](capacity int, closedErr error, onDrop func()) *Hub[T] {
	if closedErr == nil {
		closedErr = ErrClosed
	}
	return &Hub[T]{
		receivers: map[*Receiver[T]]struct{}{},
		capacity:  capacity,
		closedErr: closedErr,
		onDrop:    onDrop,
	}
}

func (hub *Hub[T]) Subscribe() (*Receiver[T], error) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		return nil, hub.closedErr
	}
	receiver := &Receiver[T]{hub: hub, ring: NewRing[T](hub.capacity)}
	hub.receivers[receiver] = struct{}{}
	return receiver, nil
}

// Publish delivers value to every receiver and returns how many got it.
// Holding the lock for the whole fan-out keeps the relative order identical
// for all receivers.
func (hub *Hub[T]) Publish(value T) (int, error) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if hub.closed {
		return 0, hub.closedErr
	}
	if len(hub.receivers) == 0 {
		return 0, ErrNoReceivers
	}
	delivered := 0
	for receiver := range hub.receivers {
		dropped, ok := receiver.ring.Push(value)
		if !ok {
			continue
		}
		delivered++
		if dropped && hub.onDrop != nil {
			hub.onDrop()
		}
	}
	if delivered == 0 {
		return 0, ErrNoReceivers
	}
	return delivered, nil
}

// Receivers returns the number of open receivers.
func (hub *Hub[T]) Receivers() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.receivers)
}

// Close closes every receiver. Values already buffered remain readable.
func (hub *Hub[T]) Close() {
	hub.mu.Lock()
	if hub.closed {
		hub.mu.Unlock()
		return
	}
	hub.closed = true
	receivers := hub.receivers
	hub.receivers = map[*Receiver[T]]struct{}{}
	hub.mu.Unlock()

	for receiver := range receivers {
		receiver.ring.Close()
	}
}

func (hub *Hub[T]) remove(receiver *Receiver[T]) {
	hub.mu.Lock()
	delete(hub.receivers, receiver)
	hub.mu.Unlock()
}

// Receiver is one independent read cursor on a hub.
type Receiver[T any] struct {
	hub       *Hub[T]
	ring      *Ring[T]
	closeOnce sync.Once
}

// Recv returns the next value. When values were overwritten since the last
// call, Recv returns the zero value and the number of lost values instead.
func (receiver *Receiver[T]) Recv(ctx context.Context) (T, uint64, error) {
	return receiver.ring.Pop(ctx)
}

// Resubscribe opens another receiver on the same hub.
func (receiver *Receiver[T]) Resubscribe() (*Receiver[T], error) {
	return receiver.hub.Subscribe()
}

// Buffered returns the number of values waiting to be read.
func (receiver *Receiver[T]) Buffered() int {
	return receiver.ring.Len()
}

func (receiver *Receiver[T]) Close() {
	receiver.closeOnce.Do(func() {
		receiver.hub.remove(receiver)
		receiver.ring.Close()
	})
}
