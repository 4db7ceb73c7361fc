package hypr

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/joshp123/hypr-golang/internal/testsupport"
)

func testOptions() Options {
	logger := zerolog.Nop()
	options := DefaultOptions()
	options.Logger = &logger
	options.ReadBackoff = 10 * time.Millisecond
	return options
}

func connectFake(t *testing.T, compositor *testsupport.Compositor, mutate ...func(*Options)) *Connection {
	t.Helper()
	options := testOptions()
	for _, apply := range mutate {
		apply(&options)
	}
	conn, err := Connect(compositor.Paths, options)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func listen(t *testing.T, compositor *testsupport.Compositor, conn *Connection, filter EventFilter) *Subscription {
	t.Helper()
	before := compositor.EventClients()
	subscription, err := conn.Listen(testContext(t), filter)
	require.NoError(t, err)
	t.Cleanup(subscription.Close)
	compositor.WaitForEventClients(t, before+1)
	return subscription
}

func recvEvent(t *testing.T, subscription *Subscription) Event {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	event, err := subscription.Recv(ctx)
	require.NoError(t, err)
	return event
}

func requireNoEvent(t *testing.T, subscription *Subscription) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	event, err := subscription.Recv(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded, "unexpected event %#v", event)
}
