package hypr

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/joshp123/hypr-golang/internal/stream"
)

// Subscription is one consumer of a listener's events. Every subscription
// sees the same events in the same order, minus whatever it drops by
// falling behind.
type Subscription struct {
	receiver *stream.Receiver[Event]
	listener *listener
	closed   atomic.Bool
}

func newSubscription(receiver *stream.Receiver[Event], active *listener) *Subscription {
	return &Subscription{receiver: receiver, listener: active}
}

// Recv blocks for the next event. After the subscription fell behind it
// returns a *LagError once, then continues with the oldest retained event.
// Once the listener has finished and the buffer is drained Recv returns an
// error matching ErrListenerTerminated.
func (subscription *Subscription) Recv(ctx context.Context) (Event, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if subscription.closed.Load() {
		return nil, ErrSubscriptionClosed
	}
	event, missed, err := subscription.receiver.Recv(ctx)
	if err != nil {
		if !errors.Is(err, stream.ErrClosed) {
			return nil, err
		}
		if subscription.closed.Load() {
			return nil, ErrSubscriptionClosed
		}
		return nil, subscription.listener.terminalError()
	}
	if missed > 0 {
		return nil, &LagError{Missed: missed}
	}
	return event, nil
}

// Resubscribe opens another subscription on the same listener.
func (subscription *Subscription) Resubscribe() (*Subscription, error) {
	return subscription.listener.subscribe()
}

// Buffered returns how many events are waiting to be received.
func (subscription *Subscription) Buffered() int {
	return subscription.receiver.Buffered()
}

// ListenerDone is closed once the listener task feeding this subscription
// has exited.
func (subscription *Subscription) ListenerDone() <-chan struct{} {
	return subscription.listener.done
}

// Close detaches the subscription. It is safe to call more than once.
func (subscription *Subscription) Close() {
	if subscription.closed.CompareAndSwap(false, true) {
		subscription.receiver.Close()
	}
}
