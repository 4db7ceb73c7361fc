package hypr

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/joshp123/hypr-golang/internal/metrics"
	"github.com/joshp123/hypr-golang/internal/testsupport"
)

func TestListenDeliversDecodedEvents(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	subscription := listen(t, compositor, conn, AllEvents())

	assert.True(t, conn.IsListening())
	assert.Equal(t, ListenerStreaming, conn.ListenerState())

	compositor.Emit(t, EventWorkspaceV2, "4,three")
	compositor.Emit(t, "fooevent", "a,b,c")

	assert.Equal(t, WorkspaceV2Event{ID: 4, Name: "three"}, recvEvent(t, subscription))
	assert.Equal(t, CustomEvent{Name: "fooevent", Data: "a,b,c"}, recvEvent(t, subscription))
}

func TestListenReassemblesLinesAcrossWrites(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	subscription := listen(t, compositor, conn, AllEvents())

	compositor.EmitRaw(t, "workspacev2>>4,th")
	time.Sleep(20 * time.Millisecond)
	compositor.EmitRaw(t, "ree\nsubmap>>resize\n")

	assert.Equal(t, WorkspaceV2Event{ID: 4, Name: "three"}, recvEvent(t, subscription))
	assert.Equal(t, SubmapEvent{Name: "resize"}, recvEvent(t, subscription))
}

func TestListenSkipsMalformedLines(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	subscription := listen(t, compositor, conn, AllEvents())

	compositor.EmitRaw(t, "garbage\nworkspacev2>>x,y\nworkspace>>3\n")

	assert.Equal(t, WorkspaceEvent{Name: "3"}, recvEvent(t, subscription))
	assert.Equal(t, 1.0, testutil.ToFloat64(conn.metrics.LinesSkipped.WithLabelValues(metrics.ReasonMalformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(conn.metrics.LinesSkipped.WithLabelValues(metrics.ReasonInvalid)))
	assert.True(t, conn.IsListening())
}

func TestListenDropsOversizedLines(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor, func(options *Options) {
		options.MaxLineBytes = 16
	})
	subscription := listen(t, compositor, conn, AllEvents())
	oversized := conn.metrics.LinesSkipped.WithLabelValues(metrics.ReasonOversized)

	compositor.EmitRaw(t, "workspace>>"+strings.Repeat("a", 20))
	time.Sleep(20 * time.Millisecond)
	compositor.EmitRaw(t, "bbb\nworkspace>>1\n")

	assert.Equal(t, WorkspaceEvent{Name: "1"}, recvEvent(t, subscription))
	assert.Equal(t, 1.0, testutil.ToFloat64(oversized))

	compositor.EmitRaw(t, "workspace>>"+strings.Repeat("c", 40)+"\nworkspace>>2\n")

	assert.Equal(t, WorkspaceEvent{Name: "2"}, recvEvent(t, subscription))
	assert.Equal(t, 2.0, testutil.ToFloat64(oversized))
	assert.True(t, conn.IsListening())
}

func TestListenRetriesTransientReadErrors(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	var interrupted atomic.Bool
	conn.wrapRead = func(next readFunc) readFunc {
		return func(buffer []byte) (int, error) {
			if interrupted.CompareAndSwap(false, true) {
				return 0, os.NewSyscallError("read", unix.EINTR)
			}
			return next(buffer)
		}
	}
	subscription := listen(t, compositor, conn, AllEvents())

	compositor.Emit(t, EventWorkspace, "5")

	assert.Equal(t, WorkspaceEvent{Name: "5"}, recvEvent(t, subscription))
	assert.True(t, interrupted.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(conn.metrics.ReadRetries))
	assert.Equal(t, ListenerStreaming, conn.ListenerState())
}

func TestListenAppliesFilter(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	subscription := listen(t, compositor, conn, OnlyEvents(EventWorkspace))

	compositor.Emit(t, EventActiveWindow, "kitty,zsh")
	compositor.Emit(t, EventWorkspace, "2")

	assert.Equal(t, WorkspaceEvent{Name: "2"}, recvEvent(t, subscription))
	requireNoEvent(t, subscription)
	assert.Equal(t, 1.0, testutil.ToFloat64(conn.metrics.LinesSkipped.WithLabelValues(metrics.ReasonFiltered)))
}

func TestSecondListenReplacesFirst(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	first := listen(t, compositor, conn, AllEvents())
	second := listen(t, compositor, conn, AllEvents())

	select {
	case <-first.ListenerDone():
	default:
		t.Fatal("expected the first listener task to have finished")
	}
	_, err := first.Recv(testContext(t))
	require.ErrorIs(t, err, ErrListenerTerminated)

	compositor.Emit(t, EventWorkspace, "7")
	assert.Equal(t, WorkspaceEvent{Name: "7"}, recvEvent(t, second))
	requireNoEvent(t, second)
	assert.Equal(t, ListenerStreaming, conn.ListenerState())
	assert.Equal(t, 2.0, testutil.ToFloat64(conn.metrics.ListenerStarts))
}

func TestSubscriptionsSeeSameOrder(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	first := listen(t, compositor, conn, AllEvents())
	second, err := conn.Resubscribe()
	require.NoError(t, err)
	defer second.Close()
	third, err := first.Resubscribe()
	require.NoError(t, err)
	defer third.Close()

	compositor.EmitRaw(t, "workspace>>1\nworkspace>>2\nworkspace>>3\n")
	for _, subscription := range []*Subscription{first, second, third} {
		for _, want := range []string{"1", "2", "3"} {
			assert.Equal(t, WorkspaceEvent{Name: want}, recvEvent(t, subscription))
		}
	}
}

func TestSlowSubscriptionLagsWithoutBlockingProducer(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor, func(options *Options) { options.EventBuffer = 2 })
	slow := listen(t, compositor, conn, AllEvents())

	compositor.EmitRaw(t, "workspace>>1\nworkspace>>2\nworkspace>>3\nworkspace>>4\nworkspace>>5\n")
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(conn.metrics.EventsLagged) == 3
	}, 2*time.Second, 10*time.Millisecond)

	_, err := slow.Recv(testContext(t))
	var lag *LagError
	require.ErrorAs(t, err, &lag)
	assert.Equal(t, uint64(3), lag.Missed)
	assert.Equal(t, WorkspaceEvent{Name: "4"}, recvEvent(t, slow))
	assert.Equal(t, WorkspaceEvent{Name: "5"}, recvEvent(t, slow))

	// The producer kept going, so fresh events still arrive.
	compositor.Emit(t, EventWorkspace, "6")
	assert.Equal(t, WorkspaceEvent{Name: "6"}, recvEvent(t, slow))
}

func TestListenerTerminatesWhenCompositorHangsUp(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	subscription := listen(t, compositor, conn, AllEvents())

	compositor.Emit(t, EventWorkspace, "1")
	compositor.DisconnectEventClients()

	assert.Equal(t, WorkspaceEvent{Name: "1"}, recvEvent(t, subscription))
	_, err := subscription.Recv(testContext(t))
	require.ErrorIs(t, err, ErrListenerTerminated)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, ListenerTerminated, conn.ListenerState())
	assert.False(t, conn.IsListening())

	_, err = conn.Resubscribe()
	require.ErrorIs(t, err, ErrListenerTerminated)
}

func TestListenerTerminatesWithoutSubscriptions(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	subscription := listen(t, compositor, conn, AllEvents())

	subscription.Close()
	subscription.Close()
	_, err := subscription.Recv(testContext(t))
	require.ErrorIs(t, err, ErrSubscriptionClosed)

	compositor.Emit(t, EventWorkspace, "1")
	select {
	case <-subscription.ListenerDone():
	case <-time.After(2 * time.Second):
		t.Fatal("listener did not exit after its last subscription closed")
	}
	assert.Equal(t, ListenerTerminated, conn.ListenerState())
}

func TestStopListening(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)

	conn.StopListening()
	assert.Equal(t, ListenerIdle, conn.ListenerState())
	_, err := conn.Resubscribe()
	require.ErrorIs(t, err, ErrNotListening)
	require.ErrorIs(t, err, ErrMisuse)

	subscription := listen(t, compositor, conn, AllEvents())
	compositor.Emit(t, EventWorkspace, "1")
	assert.Equal(t, WorkspaceEvent{Name: "1"}, recvEvent(t, subscription))

	conn.StopListening()
	conn.StopListening()
	<-subscription.ListenerDone()
	assert.Equal(t, ListenerIdle, conn.ListenerState())
	_, err = subscription.Recv(testContext(t))
	require.ErrorIs(t, err, ErrListenerTerminated)
}

func TestRecvHonoursContext(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	subscription := listen(t, compositor, conn, AllEvents())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := subscription.Recv(ctx)
	require.ErrorIs(t, err, context.Canceled)
	_, err = subscription.Recv(nil)
	require.ErrorIs(t, err, ErrNilContext)
}

func TestListenDialFailure(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	compositor.Close()

	_, err := conn.Listen(testContext(t), AllEvents())
	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, ListenerIdle, conn.ListenerState())
}

func TestCloseStopsListener(t *testing.T) {
	compositor := testsupport.NewCompositor(t)
	conn := connectFake(t, compositor)
	subscription := listen(t, compositor, conn, AllEvents())

	require.NoError(t, conn.Close())
	<-subscription.ListenerDone()
	_, err := conn.Listen(testContext(t), AllEvents())
	if !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed, got %v", err)
	}
}
