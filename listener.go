package hypr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/joshp123/hypr-golang/internal/log"
	"github.com/joshp123/hypr-golang/internal/metrics"
	"github.com/joshp123/hypr-golang/internal/stream"
	"github.com/joshp123/hypr-golang/internal/transport"
)

const (
	readChunkBytes = 8 << 10

	lagWarnBurst  = 1
	lagWarnPeriod = 5 * time.Second
)

// readFunc reads one chunk from the event socket.
type readFunc func(buffer []byte) (int, error)

// ListenerState is the lifecycle position of a Connection's event listener.
type ListenerState int32

const (
	ListenerIdle ListenerState = iota
	ListenerConnecting
	ListenerStreaming
	ListenerTerminated
)

func (state ListenerState) String() string {
	switch state {
	case ListenerIdle:
		return "idle"
	case ListenerConnecting:
		return "connecting"
	case ListenerStreaming:
		return "streaming"
	case ListenerTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("ListenerState(%d)", int32(state))
	}
}

// listener is one background task reading the event socket into a hub.
type listener struct {
	hub     *stream.Hub[Event]
	conn    *net.UnixConn
	read    readFunc
	lines   *transport.LineBuffer
	decoder *eventDecoder
	backoff time.Duration
	logger  zerolog.Logger
	lagLog  zerolog.Logger
	longLog zerolog.Logger
	owner   *Connection

	cancel context.CancelFunc
	done   chan struct{}
	state  atomic.Int32
	// cause is written before hub is closed and done is closed.
	cause error
}

// Listen starts a background listener on the event socket and returns its
// first Subscription. A listener that is already running is stopped first.
// ctx bounds connecting only; the listener runs until StopListening, Close,
// a fatal socket error, or until no subscription is left to deliver to.
func (connection *Connection) Listen(ctx context.Context, filter EventFilter) (*Subscription, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	connection.lock.Lock()
	defer connection.lock.Unlock()
	if err := connection.checkOpen(); err != nil {
		return nil, err
	}
	connection.stopLocked()

	logger := log.WithComponent(connection.logger, "listener")
	if filter.IsUniversalReject() {
		logger.Warn().Msg("listening with a filter that rejects every event")
	}

	connection.connecting.Store(true)
	dialCtx, cancelDial := context.WithTimeout(ctx, connection.options.DialTimeout)
	conn, err := transport.Dial(dialCtx, connection.paths.Events)
	cancelDial()
	connection.connecting.Store(false)
	if err != nil {
		return nil, fmt.Errorf("%w: dial event socket %s: %w", ErrTransport, connection.paths.Events, err)
	}
	poller, err := transport.NewPoller(conn)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: event socket: %w", ErrTransport, err)
	}

	read := readFunc(poller.Read)
	if connection.wrapRead != nil {
		read = connection.wrapRead(read)
	}

	runCtx, cancel := context.WithCancel(context.Background())
	active := &listener{
		conn:    conn,
		read:    read,
		lines:   transport.NewLineBuffer(connection.options.MaxLineBytes),
		decoder: newEventDecoder(filter, logger, connection.metrics),
		backoff: connection.options.ReadBackoff,
		logger:  logger,
		lagLog:  log.Sampled(logger, lagWarnBurst, lagWarnPeriod),
		longLog: log.Sampled(logger, lagWarnBurst, lagWarnPeriod),
		owner:   connection,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	active.hub = stream.NewHub[Event](connection.options.EventBuffer, ErrListenerTerminated, active.onDrop)
	receiver, err := active.hub.Subscribe()
	if err != nil {
		cancel()
		_ = conn.Close()
		return nil, err
	}
	active.state.Store(int32(ListenerStreaming))
	connection.active.Store(active)
	connection.metrics.ListenerStarts.Inc()
	logger.Info().Str(log.FieldSocket, connection.paths.Events).Msg("event listener started")

	go active.run(runCtx)
	return newSubscription(receiver, active), nil
}

// Resubscribe opens another Subscription on the running listener. It sees
// events published from now on.
func (connection *Connection) Resubscribe() (*Subscription, error) {
	connection.lock.Lock()
	defer connection.lock.Unlock()
	if err := connection.checkOpen(); err != nil {
		return nil, err
	}
	active := connection.active.Load()
	if active == nil {
		return nil, ErrNotListening
	}
	return active.subscribe()
}

// IsListening reports whether a listener is streaming events.
func (connection *Connection) IsListening() bool {
	return connection.ListenerState() == ListenerStreaming
}

func (connection *Connection) ListenerState() ListenerState {
	if connection.connecting.Load() {
		return ListenerConnecting
	}
	active := connection.active.Load()
	if active == nil {
		return ListenerIdle
	}
	return ListenerState(active.state.Load())
}

// StopListening stops the listener and waits for its task to finish. It is a
// no-op without a listener.
func (connection *Connection) StopListening() {
	connection.lock.Lock()
	defer connection.lock.Unlock()
	connection.stopLocked()
}

func (connection *Connection) stopLocked() {
	active := connection.active.Swap(nil)
	if active == nil {
		return
	}
	active.cancel()
	<-active.done
}

func (active *listener) subscribe() (*Subscription, error) {
	if ListenerState(active.state.Load()) != ListenerStreaming {
		return nil, active.terminalError()
	}
	receiver, err := active.hub.Subscribe()
	if err != nil {
		return nil, active.terminalError()
	}
	return newSubscription(receiver, active), nil
}

func (active *listener) onDrop() {
	active.owner.metrics.EventsLagged.Inc()
	active.lagLog.Warn().Msg("subscription buffer full, dropping oldest event")
}

func (active *listener) run(ctx context.Context) {
	defer close(active.done)
	stopWake := context.AfterFunc(ctx, func() {
		// Closing the socket wakes a reader parked in the poller.
		_ = active.conn.Close()
	})
	defer stopWake()
	defer active.conn.Close()
	defer active.hub.Close()

	buffer := make([]byte, readChunkBytes)
	for {
		count, err := active.read(buffer)
		if count > 0 && !active.feed(buffer[:count]) {
			active.finish(ListenerTerminated, stream.ErrNoReceivers)
			return
		}
		if err == nil {
			continue
		}

		switch {
		case ctx.Err() != nil || transport.IsClosed(err):
			active.finish(ListenerIdle, nil)
			return
		case transport.IsTransient(err):
			active.owner.metrics.ReadRetries.Inc()
			active.logger.Debug().Err(err).Dur("backoff", active.backoff).Msg("transient event socket read error")
			if !sleep(ctx, active.backoff) {
				active.finish(ListenerIdle, nil)
				return
			}
		default:
			active.finish(ListenerTerminated, err)
			return
		}
	}
}

func (active *listener) feed(chunk []byte) bool {
	before := active.lines.Overflows()
	more := active.lines.Feed(chunk, active.publish)
	if dropped := active.lines.Overflows() - before; dropped > 0 {
		for range dropped {
			active.owner.metrics.Skipped(metrics.ReasonOversized)
		}
		active.longLog.Warn().Int("dropped", dropped).Int("limit", active.owner.options.MaxLineBytes).Msg("skipping oversized event line")
	}
	return more
}

// publish hands one line to the hub. It returns false once nobody is left
// to receive.
func (active *listener) publish(line string) bool {
	event, ok := active.decoder.decode(line)
	if !ok {
		return true
	}
	_, err := active.hub.Publish(event)
	return err == nil
}

func (active *listener) finish(state ListenerState, cause error) {
	active.cause = cause
	active.state.Store(int32(state))
	switch {
	case state == ListenerIdle:
		active.logger.Debug().Msg("event listener stopped")
	case errors.Is(cause, stream.ErrNoReceivers):
		active.logger.Info().Msg("event listener terminated: no subscriptions left")
	default:
		active.logger.Warn().Err(cause).Msg("event listener terminated")
	}
}

func (active *listener) terminalError() error {
	if active.cause == nil || errors.Is(active.cause, stream.ErrNoReceivers) {
		return ErrListenerTerminated
	}
	return fmt.Errorf("%w: %w", ErrListenerTerminated, active.cause)
}

func sleep(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
