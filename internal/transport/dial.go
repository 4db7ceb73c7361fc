package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// Dial connects to the Unix socket at path.
func Dial(ctx context.Context, path string) (*net.UnixConn, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		_ = conn.Close()
		return nil, fmt.Errorf("dial %s: not a unix socket connection", path)
	}
	return unixConn, nil
}

// Exchange performs one request/response round trip on a fresh connection.
// The response is everything the peer writes before closing its end.
func Exchange(ctx context.Context, path string, request string) (string, error) {
	conn, err := Dial(ctx, path)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", path, err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		// An expired deadline wakes any blocked read or write.
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	defer stop()

	if _, err := io.WriteString(conn, request); err != nil {
		return "", withContext(ctx, fmt.Errorf("write request: %w", err))
	}
	body, err := io.ReadAll(conn)
	if err != nil {
		return "", withContext(ctx, fmt.Errorf("read response: %w", err))
	}
	return string(body), nil
}

func withContext(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}
