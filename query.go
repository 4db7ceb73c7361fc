package hypr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/joshp123/hypr-golang/internal/metrics"
	"github.com/joshp123/hypr-golang/internal/wire"
)

// Query asks the compositor for data in JSON form, e.g. Query(ctx,
// "monitors") or Query(ctx, "getoption", "general:gaps_in"). A reply that is
// not JSON is returned as a rejected *CommandError.
func (connection *Connection) Query(ctx context.Context, name string, args ...string) (json.RawMessage, error) {
	ctx, cancel, err := connection.withDefaultRequestTimeout(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	if strings.TrimSpace(name) == "" {
		connection.metrics.Command(metrics.ResultMisuse)
		return nil, &CommandError{Kind: ErrorKindMisuse, Index: -1, Message: "query name is required", Err: ErrMisuse}
	}
	request := wire.FrameQuery(name, args...)
	body, err := connection.exchange(ctx, request)
	if err != nil {
		return nil, &CommandError{Kind: ErrorKindTransport, Index: -1, Command: request, Err: err}
	}
	if !json.Valid([]byte(body)) {
		connection.metrics.Command(metrics.ResultRejected)
		return nil, &CommandError{Kind: ErrorKindRejected, Index: -1, Command: request, Message: body}
	}
	connection.metrics.Command(metrics.ResultOK)
	return json.RawMessage(body), nil
}

// QueryInto runs Query and unmarshals the reply into out.
func (connection *Connection) QueryInto(ctx context.Context, out any, name string, args ...string) error {
	if out == nil {
		return errors.New("query output is required")
	}
	raw, err := connection.Query(ctx, name, args...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s query: %w", name, err)
	}
	return nil
}
