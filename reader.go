package hypr

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/joshp123/hypr-golang/internal/log"
	"github.com/joshp123/hypr-golang/internal/metrics"
	"github.com/joshp123/hypr-golang/internal/transport"
)

// EventReader reads events from its own event socket connection without a
// background task. It serves one consumer.
type EventReader struct {
	conn net.Conn

	lock    sync.Mutex
	task    ReadTask
	pending <-chan ReadOutcome
	closed  atomic.Bool
}

// ReadTask is the resumable state of a single-consumer read: the buffered
// reader and the decoder. Resume consumes the task and hands it back, so it
// can move between goroutines without being shared.
type ReadTask struct {
	reader  *bufio.Reader
	decoder *eventDecoder
}

// ReadOutcome is the result of one resumption run by Spawn.
type ReadOutcome struct {
	Task  ReadTask
	Event Event
	Err   error
}

// OpenEventReader connects a dedicated event socket reader. ctx bounds the
// dial only.
func (connection *Connection) OpenEventReader(ctx context.Context, filter EventFilter) (*EventReader, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	if err := connection.checkOpen(); err != nil {
		return nil, err
	}
	dialCtx, cancel := context.WithTimeout(ctx, connection.options.DialTimeout)
	defer cancel()
	conn, err := transport.Dial(dialCtx, connection.paths.Events)
	if err != nil {
		return nil, fmt.Errorf("%w: dial event socket %s: %w", ErrTransport, connection.paths.Events, err)
	}

	logger := log.WithComponent(connection.logger, "reader")
	return &EventReader{
		conn: conn,
		task: ReadTask{
			reader:  bufio.NewReaderSize(conn, connection.options.MaxLineBytes),
			decoder: newEventDecoder(filter, logger, connection.metrics),
		},
	}, nil
}

// NewReadTask reads event lines from source.
func NewReadTask(source io.Reader, filter EventFilter) ReadTask {
	collectors, _ := metrics.New(nil)
	return ReadTask{
		reader:  bufio.NewReaderSize(source, transport.DefaultMaxLineBytes),
		decoder: newEventDecoder(filter, log.Nop(), collectors),
	}
}

// Resume reads one line and tries to decode it. Event is nil when the line
// was filtered, undecodable, blank or too long. Err is the read error, with
// io.EOF once the source is exhausted.
func (task ReadTask) Resume() (ReadTask, Event, error) {
	line, err := task.readLine()
	if err != nil {
		return task, nil, err
	}
	if strings.TrimRight(line, "\r\n") == "" {
		return task, nil, nil
	}
	event, ok := task.decoder.decode(line)
	if !ok {
		return task, nil, nil
	}
	return task, event, nil
}

// Spawn runs one Resume on its own goroutine. The channel receives exactly
// one outcome carrying the task back.
func (task ReadTask) Spawn() <-chan ReadOutcome {
	outcome := make(chan ReadOutcome, 1)
	go func() {
		next, event, err := task.Resume()
		outcome <- ReadOutcome{Task: next, Event: event, Err: err}
	}()
	return outcome
}

func (task ReadTask) readLine() (string, error) {
	chunk, err := task.reader.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		task.decoder.metrics.Skipped(metrics.ReasonOversized)
		task.decoder.logger.Warn().Int("bytes", len(chunk)).Msg("skipping oversized event line")
		for errors.Is(err, bufio.ErrBufferFull) {
			_, err = task.reader.ReadSlice('\n')
		}
		return "", err
	}
	if err != nil {
		if errors.Is(err, io.EOF) && len(chunk) > 0 {
			return string(chunk), nil
		}
		return "", err
	}
	return string(chunk), nil
}

// Next blocks until an accepted event arrives.
func (reader *EventReader) Next() (Event, error) {
	reader.lock.Lock()
	defer reader.lock.Unlock()

	if reader.pending != nil {
		outcome := <-reader.pending
		reader.pending = nil
		reader.task = outcome.Task
		if outcome.Err != nil {
			return nil, reader.readError(outcome.Err)
		}
		if outcome.Event != nil {
			return outcome.Event, nil
		}
	}
	for {
		if reader.closed.Load() {
			return nil, ErrSubscriptionClosed
		}
		task, event, err := reader.task.Resume()
		reader.task = task
		if err != nil {
			return nil, reader.readError(err)
		}
		if event != nil {
			return event, nil
		}
	}
}

// NextContext is Next bounded by ctx. A read in flight when ctx ends is
// kept and picked up by the following call, so no line is lost.
func (reader *EventReader) NextContext(ctx context.Context) (Event, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	reader.lock.Lock()
	defer reader.lock.Unlock()

	for {
		if reader.closed.Load() {
			return nil, ErrSubscriptionClosed
		}
		if reader.pending == nil {
			reader.pending = reader.task.Spawn()
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case outcome := <-reader.pending:
			reader.pending = nil
			reader.task = outcome.Task
			if outcome.Err != nil {
				return nil, reader.readError(outcome.Err)
			}
			if outcome.Event != nil {
				return outcome.Event, nil
			}
		}
	}
}

func (reader *EventReader) readError(err error) error {
	if reader.closed.Load() || transport.IsClosed(err) {
		return ErrSubscriptionClosed
	}
	return fmt.Errorf("%w: read event socket: %w", ErrTransport, err)
}

// Close closes the socket, ending any read in flight.
func (reader *EventReader) Close() error {
	if !reader.closed.CompareAndSwap(false, true) {
		return nil
	}
	return reader.conn.Close()
}
