package hypr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/joshp123/hypr-golang/internal/instance"
	"github.com/joshp123/hypr-golang/internal/log"
	"github.com/joshp123/hypr-golang/internal/metrics"
)

// SocketPaths locates the two sockets of one compositor instance.
type SocketPaths = instance.Paths

// Connection talks to one compositor instance. It owns at most one event
// listener at a time; commands and queries need no shared state and may be
// issued concurrently.
type Connection struct {
	paths   SocketPaths
	options Options
	logger  zerolog.Logger
	metrics *metrics.Collectors

	// lock serializes listener replacement; active is read without it.
	lock       sync.Mutex
	active     atomic.Pointer[listener]
	connecting atomic.Bool
	closed     atomic.Bool

	// wrapRead, when set, wraps the listener's socket reads.
	wrapRead func(readFunc) readFunc
}

// Connect binds a Connection to already resolved socket paths.
func Connect(paths SocketPaths, options Options) (*Connection, error) {
	if paths.Control == "" || paths.Events == "" {
		return nil, fmt.Errorf("%w: socket paths are required", ErrMisuse)
	}
	normalized, err := normalizeOptions(options)
	if err != nil {
		return nil, err
	}
	collectors, err := metrics.New(normalized.Registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	var logger zerolog.Logger
	if normalized.Logger != nil {
		logger = *normalized.Logger
	} else {
		logger = log.New(log.Config{Component: "hypr"})
	}
	logger = logger.With().Str(log.FieldInstance, paths.Instance).Logger()

	return &Connection{
		paths:   paths,
		options: normalized,
		logger:  logger,
		metrics: collectors,
	}, nil
}

// New resolves the sockets of the named instance.
func New(signature string, options Options) (*Connection, error) {
	paths, err := resolver(options).Resolve(signature)
	if err != nil {
		return nil, err
	}
	return Connect(paths, options)
}

// Current connects to the instance named by HYPRLAND_INSTANCE_SIGNATURE.
func Current(options Options) (*Connection, error) {
	lookup := resolver(options)
	signature, err := lookup.Current()
	if err != nil {
		return nil, err
	}
	paths, err := lookup.Resolve(signature)
	if err != nil {
		return nil, err
	}
	return Connect(paths, options)
}

// Instances lists the signatures of every running instance.
func Instances(options Options) ([]string, error) {
	return resolver(options).List()
}

// InstanceChange reports a compositor instance starting or exiting.
type InstanceChange = instance.Change

// WatchInstances reports instances appearing and disappearing under the
// runtime directory until ctx is done. The channel is closed on return.
func WatchInstances(ctx context.Context, options Options) (<-chan InstanceChange, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	var logger zerolog.Logger
	if options.Logger != nil {
		logger = *options.Logger
	} else {
		logger = log.New(log.Config{Component: "hypr"})
	}
	logger = log.WithComponent(logger, "instance-watch")
	return resolver(options).Watch(ctx, func(err error) {
		logger.Warn().Err(err).Msg("instance watcher error")
	})
}

func resolver(options Options) instance.Resolver {
	return instance.Resolver{RuntimeDir: options.RuntimeDir}
}

func normalizeOptions(options Options) (Options, error) {
	normalized := options.withDefaults()
	if err := normalized.validate(); err != nil {
		return Options{}, err
	}
	return normalized, nil
}

func (connection *Connection) Instance() string {
	return connection.paths.Instance
}

func (connection *Connection) Paths() SocketPaths {
	return connection.paths
}

// Close stops any listener. Commands issued afterwards fail with
// ErrConnectionClosed.
func (connection *Connection) Close() error {
	if !connection.closed.CompareAndSwap(false, true) {
		return nil
	}
	connection.StopListening()
	return nil
}

func (connection *Connection) checkOpen() error {
	if connection == nil {
		return errors.New("nil hyprland connection")
	}
	if connection.closed.Load() {
		return ErrConnectionClosed
	}
	return nil
}
