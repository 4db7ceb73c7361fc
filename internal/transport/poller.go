package transport

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

// Poller reads a socket by waiting for readiness and then issuing a single
// non-blocking read, so a waiting reader parks in the runtime poller instead
// of a blocking syscall.
type Poller struct {
	raw syscall.RawConn
}

func NewPoller(conn syscall.Conn) (*Poller, error) {
	raw, err := conn.SyscallConn()
	if err != nil {
		return nil, err
	}
	return &Poller{raw: raw}, nil
}

// Read waits until the socket is readable and reads what is available into
// buffer. A closed peer is reported as io.EOF.
func (poller *Poller) Read(buffer []byte) (int, error) {
	var (
		count   int
		readErr error
	)
	err := poller.raw.Read(func(fd uintptr) bool {
		count, readErr = unix.Read(int(fd), buffer)
		// false parks the goroutine until the descriptor is readable again.
		return !errors.Is(readErr, unix.EAGAIN)
	})
	if err != nil {
		return 0, err
	}
	if readErr != nil {
		return 0, os.NewSyscallError("read", readErr)
	}
	if count <= 0 {
		return 0, io.EOF
	}
	return count, nil
}

// IsTransient reports whether a read error is worth retrying on the same
// connection.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.ENOBUFS) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsClosed reports whether err means the local end was closed.
func IsClosed(err error) bool {
	return errors.Is(err, net.ErrClosed)
}
