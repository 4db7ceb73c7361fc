package stream

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestHubDeliversSameOrderToEveryReceiver(t *testing.T) {
	hub := NewHub[int](8, nil, nil)
	first, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	second, err := first.Resubscribe()
	if err != nil {
		t.Fatalf("resubscribe failed: %v", err)
	}

	for value := 1; value <= 3; value++ {
		delivered, err := hub.Publish(value)
		if err != nil {
			t.Fatalf("publish %d failed: %v", value, err)
		}
		if delivered != 2 {
			t.Fatalf("expected 2 deliveries, got %d", delivered)
		}
	}

	for _, receiver := range []*Receiver[int]{first, second} {
		for want := 1; want <= 3; want++ {
			if got := recvValue(t, receiver); got != want {
				t.Fatalf("expected %d, got %d", want, got)
			}
		}
	}
}

func TestHubPublishWithoutReceivers(t *testing.T) {
	hub := NewHub[int](4, nil, nil)
	if _, err := hub.Publish(1); !errors.Is(err, ErrNoReceivers) {
		t.Fatalf("expected ErrNoReceivers, got %v", err)
	}

	receiver, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	receiver.Close()
	receiver.Close()

	if _, err := hub.Publish(2); !errors.Is(err, ErrNoReceivers) {
		t.Fatalf("expected ErrNoReceivers after last receiver closed, got %v", err)
	}
}

func TestHubSlowReceiverObservesGapWithoutBlockingPublisher(t *testing.T) {
	var drops atomic.Int32
	hub := NewHub[int](2, nil, func() { drops.Add(1) })
	slow, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	done := make(chan struct{})
	go func() {
		for value := 1; value <= 5; value++ {
			_, _ = hub.Publish(value)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on a slow receiver")
	}

	if got := drops.Load(); got != 3 {
		t.Fatalf("expected 3 drop notifications, got %d", got)
	}

	_, missed, err := slow.Recv(context.Background())
	if err != nil {
		t.Fatalf("recv failed: %v", err)
	}
	if missed != 3 {
		t.Fatalf("expected gap of 3, got %d", missed)
	}
	if got := recvValue(t, slow); got != 4 {
		t.Fatalf("expected oldest retained value 4, got %d", got)
	}
	if got := recvValue(t, slow); got != 5 {
		t.Fatalf("expected 5, got %d", got)
	}
}

func TestHubCloseDrainsThenReportsClosed(t *testing.T) {
	closedErr := errors.New("listener gone")
	hub := NewHub[int](4, closedErr, nil)
	receiver, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	_, _ = hub.Publish(7)
	hub.Close()
	hub.Close()

	if got := recvValue(t, receiver); got != 7 {
		t.Fatalf("expected buffered 7, got %d", got)
	}
	if _, _, err := receiver.Recv(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := hub.Subscribe(); !errors.Is(err, closedErr) {
		t.Fatalf("expected custom closed error, got %v", err)
	}
}

func TestRecvHonoursContext(t *testing.T) {
	hub := NewHub[int](1, nil, nil)
	receiver, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := receiver.Recv(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRecvWakesOnPublish(t *testing.T) {
	hub := NewHub[int](1, nil, nil)
	receiver, err := hub.Subscribe()
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	go func() {
		time.Sleep(20 * time.Millisecond)
		_, _ = hub.Publish(42)
	}()
	if got := recvValue(t, receiver); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
}

func recvValue(t *testing.T, receiver *Receiver[int]) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	value, missed, err := receiver.Recv(ctx)
	if err != nil {
		t.Fatalf("recv failed: %v", err)
	}
	if missed != 0 {
		t.Fatalf("unexpected gap of %d", missed)
	}
	return value
}
