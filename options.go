package hypr

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/joshp123/hypr-golang/internal/transport"
)

const (
	DefaultEventBuffer    = 16
	DefaultReadBackoff    = 100 * time.Millisecond
	DefaultRequestTimeout = 5 * time.Second
	DefaultDialTimeout    = 2 * time.Second
)

type Options struct {
	// RuntimeDir overrides the directory holding instance directories.
	RuntimeDir string
	// EventBuffer is the per-subscription ring size.
	EventBuffer int
	// ReadBackoff is the pause after a transient event socket read error.
	ReadBackoff time.Duration
	// RequestTimeout bounds control socket requests whose context has no deadline.
	RequestTimeout time.Duration
	// DialTimeout bounds connecting to the event socket.
	DialTimeout time.Duration
	// MaxLineBytes bounds one event line; longer lines are dropped.
	MaxLineBytes int
	// Logger receives diagnostics. Nil builds one from HYPR_LOG_LEVEL.
	Logger *zerolog.Logger
	// Registerer receives the client's collectors. Nil leaves them unregistered.
	Registerer prometheus.Registerer
}

func DefaultOptions() Options {
	return Options{
		EventBuffer:    DefaultEventBuffer,
		ReadBackoff:    DefaultReadBackoff,
		RequestTimeout: DefaultRequestTimeout,
		DialTimeout:    DefaultDialTimeout,
		MaxLineBytes:   transport.DefaultMaxLineBytes,
	}
}

func (options Options) withDefaults() Options {
	if options.EventBuffer == 0 {
		options.EventBuffer = DefaultEventBuffer
	}
	if options.ReadBackoff == 0 {
		options.ReadBackoff = DefaultReadBackoff
	}
	if options.RequestTimeout == 0 {
		options.RequestTimeout = DefaultRequestTimeout
	}
	if options.DialTimeout == 0 {
		options.DialTimeout = DefaultDialTimeout
	}
	if options.MaxLineBytes == 0 {
		options.MaxLineBytes = transport.DefaultMaxLineBytes
	}
	return options
}

func (options Options) validate() error {
	if options.EventBuffer < 1 {
		return fmt.Errorf("event buffer must be positive, got %d", options.EventBuffer)
	}
	if options.ReadBackoff < 0 {
		return fmt.Errorf("read backoff must not be negative, got %s", options.ReadBackoff)
	}
	if options.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative, got %s", options.RequestTimeout)
	}
	if options.DialTimeout < 0 {
		return fmt.Errorf("dial timeout must not be negative, got %s", options.DialTimeout)
	}
	if options.MaxLineBytes < 1 {
		return fmt.Errorf("max line bytes must be positive, got %d", options.MaxLineBytes)
	}
	return nil
}
