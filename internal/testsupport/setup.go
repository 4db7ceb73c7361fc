// Package testsupport provides a fake compositor that serves both IPC sockets
// from a temporary directory.
package testsupport

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/joshp123/hypr-golang/internal/instance"
)

const FakeInstance = "fake_instance_0001"

// Compositor is a fake control and event socket pair.
type Compositor struct {
	Paths instance.Paths

	control net.Listener
	events  net.Listener

	mu          sync.Mutex
	handler     Handler
	requests    []string
	clients     []net.Conn
	clientAdded chan struct{}
	closed      bool

	wg sync.WaitGroup
}

// NewCompositor starts a fake compositor and stops it when the test ends.
// Socket paths are kept short because sun_path is limited to 108 bytes.
func NewCompositor(t *testing.T) *Compositor {
	t.Helper()

	root, err := os.MkdirTemp("", "hypr")
	if err != nil {
		t.Fatalf("mkdir temp: %v", err)
	}
	dir := filepath.Join(root, FakeInstance)
	if err := os.Mkdir(dir, 0o700); err != nil {
		t.Fatalf("mkdir instance: %v", err)
	}

	paths := instance.PathsIn(FakeInstance, dir)
	control, err := net.Listen("unix", paths.Control)
	if err != nil {
		t.Fatalf("listen control: %v", err)
	}
	events, err := net.Listen("unix", paths.Events)
	if err != nil {
		_ = control.Close()
		t.Fatalf("listen events: %v", err)
	}

	compositor := &Compositor{
		Paths:       paths,
		control:     control,
		events:      events,
		handler:     AcceptAll,
		clientAdded: make(chan struct{}, 1),
	}
	compositor.wg.Add(2)
	go compositor.serveControl()
	go compositor.serveEvents()

	t.Cleanup(func() {
		compositor.Close()
		_ = os.RemoveAll(root)
	})
	return compositor
}

// RuntimeDir is the directory holding the fake instance directory.
func (compositor *Compositor) RuntimeDir() string {
	return filepath.Dir(compositor.Paths.Directory)
}

// SetHandler replaces the reply function for control socket commands.
func (compositor *Compositor) SetHandler(handler Handler) {
	compositor.mu.Lock()
	defer compositor.mu.Unlock()
	compositor.handler = handler
}

// Requests returns every raw control socket request received so far.
func (compositor *Compositor) Requests() []string {
	compositor.mu.Lock()
	defer compositor.mu.Unlock()
	return append([]string(nil), compositor.requests...)
}

// EventClients reports how many event socket clients are connected.
func (compositor *Compositor) EventClients() int {
	compositor.mu.Lock()
	defer compositor.mu.Unlock()
	return len(compositor.clients)
}

// WaitForEventClients blocks until at least count event clients are connected.
func (compositor *Compositor) WaitForEventClients(t *testing.T, count int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for compositor.EventClients() < count {
		select {
		case <-compositor.clientAdded:
		case <-time.After(20 * time.Millisecond):
		case <-deadline:
			t.Fatalf("timed out waiting for %d event clients, have %d", count, compositor.EventClients())
		}
	}
}

// Close stops both listeners and drops every client.
func (compositor *Compositor) Close() {
	compositor.mu.Lock()
	if compositor.closed {
		compositor.mu.Unlock()
		return
	}
	compositor.closed = true
	clients := compositor.clients
	compositor.clients = nil
	compositor.mu.Unlock()

	_ = compositor.control.Close()
	_ = compositor.events.Close()
	for _, client := range clients {
		_ = client.Close()
	}
	compositor.wg.Wait()
}

func isClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
