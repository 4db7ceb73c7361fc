package testsupport

import (
	"net"
	"strings"
	"testing"
	"time"
)

const (
	batchMarker       = "/[[BATCH]]"
	responseSeparator = "\n\n\n"
	maxRequestBytes   = 64 << 10
)

func (compositor *Compositor) serveControl() {
	defer compositor.wg.Done()
	for {
		conn, err := compositor.control.Accept()
		if err != nil {
			if isClosed(err) {
				return
			}
			continue
		}
		compositor.wg.Add(1)
		go compositor.handleControl(conn)
	}
}

// handleControl answers one request per connection, reading it with a single
// read the way the compositor does.
func (compositor *Compositor) handleControl(conn net.Conn) {
	defer compositor.wg.Done()
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))
	buffer := make([]byte, maxRequestBytes)
	count, err := conn.Read(buffer)
	if err != nil {
		return
	}
	request := string(buffer[:count])

	compositor.mu.Lock()
	compositor.requests = append(compositor.requests, request)
	handler := compositor.handler
	compositor.mu.Unlock()

	_, _ = conn.Write([]byte(reply(handler, request)))
}

func reply(handler Handler, request string) string {
	body, ok := strings.CutPrefix(request, batchMarker)
	if !ok {
		return handler(request)
	}
	commands := strings.Split(body, ";")
	responses := make([]string, 0, len(commands))
	for _, command := range commands {
		if command == "" {
			continue
		}
		responses = append(responses, handler(command))
	}
	return strings.Join(responses, responseSeparator)
}

func (compositor *Compositor) serveEvents() {
	defer compositor.wg.Done()
	for {
		conn, err := compositor.events.Accept()
		if err != nil {
			if isClosed(err) {
				return
			}
			continue
		}
		compositor.mu.Lock()
		if compositor.closed {
			compositor.mu.Unlock()
			_ = conn.Close()
			return
		}
		compositor.clients = append(compositor.clients, conn)
		compositor.mu.Unlock()

		select {
		case compositor.clientAdded <- struct{}{}:
		default:
		}
	}
}

// Emit writes one event line to every connected event client.
func (compositor *Compositor) Emit(t *testing.T, name string, payload string) {
	t.Helper()
	compositor.EmitRaw(t, name+">>"+payload+"\n")
}

// EmitRaw writes raw bytes to every connected event client. Clients that
// fail the write are dropped.
func (compositor *Compositor) EmitRaw(t *testing.T, raw string) {
	t.Helper()
	compositor.mu.Lock()
	defer compositor.mu.Unlock()

	kept := compositor.clients[:0]
	for _, client := range compositor.clients {
		_ = client.SetWriteDeadline(time.Now().Add(2 * time.Second))
		if _, err := client.Write([]byte(raw)); err != nil {
			_ = client.Close()
			continue
		}
		kept = append(kept, client)
	}
	compositor.clients = kept
}

// DisconnectEventClients closes every event client, as a compositor exit would.
func (compositor *Compositor) DisconnectEventClients() {
	compositor.mu.Lock()
	clients := compositor.clients
	compositor.clients = nil
	compositor.mu.Unlock()
	for _, client := range clients {
		_ = client.Close()
	}
}
