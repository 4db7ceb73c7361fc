package hypr

import (
	"context"

	"github.com/joshp123/hypr-golang/internal/log"
	"github.com/joshp123/hypr-golang/internal/metrics"
	"github.com/joshp123/hypr-golang/internal/transport"
	"github.com/joshp123/hypr-golang/internal/wire"
)

// Send runs one command and waits for the compositor's answer. Anything but
// "ok" is returned as a *CommandError of kind ErrorKindRejected.
func (connection *Connection) Send(ctx context.Context, cmd Command) error {
	ctx, cancel, err := connection.withDefaultRequestTimeout(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if err := validCommand(cmd); err != nil {
		connection.metrics.Command(metrics.ResultMisuse)
		return &CommandError{Kind: ErrorKindMisuse, Index: -1, Err: err}
	}
	framed := frame(cmd)

	body, err := connection.exchange(ctx, framed)
	if err != nil {
		return &CommandError{Kind: ErrorKindTransport, Index: -1, Command: framed, Err: err}
	}
	if !wire.IsSuccess(body) {
		connection.metrics.Command(metrics.ResultRejected)
		connection.logger.Debug().Str(log.FieldCommand, framed).Str(log.FieldReason, body).Msg("command rejected")
		return &CommandError{Kind: ErrorKindRejected, Index: 0, Command: framed, Message: body}
	}
	connection.metrics.Command(metrics.ResultOK)
	return nil
}

// SendAsync runs Send on a goroutine. The channel receives exactly one value.
func (connection *Connection) SendAsync(ctx context.Context, cmd Command) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- connection.Send(ctx, cmd)
	}()
	return result
}

// SendRecipe runs every command of recipe in one batched request. The
// returned error is nil when all of them succeeded, otherwise a *RecipeError
// listing the failures by recipe index.
func (connection *Connection) SendRecipe(ctx context.Context, recipe Recipe) error {
	ctx, cancel, err := connection.withDefaultRequestTimeout(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	if len(recipe) == 0 {
		connection.metrics.Command(metrics.ResultMisuse)
		return &RecipeError{Errors: []*CommandError{{
			Kind:    ErrorKindMisuse,
			Index:   -1,
			Message: "empty recipe",
			Err:     ErrMisuse,
		}}}
	}

	framed := make([]string, len(recipe))
	var misuse []*CommandError
	for index, cmd := range recipe {
		if err := validCommand(cmd); err != nil {
			misuse = append(misuse, &CommandError{Kind: ErrorKindMisuse, Index: index, Err: err})
			continue
		}
		framed[index] = frame(cmd)
	}
	if len(misuse) > 0 {
		connection.metrics.Command(metrics.ResultMisuse)
		return &RecipeError{Errors: misuse}
	}

	request := wire.FrameBatch(framed)
	body, err := connection.exchange(ctx, request)
	if err != nil {
		return &RecipeError{Errors: []*CommandError{{
			Kind:    ErrorKindTransport,
			Index:   -1,
			Command: request,
			Err:     err,
		}}}
	}
	return connection.demuxRecipe(framed, wire.SplitBatchResponse(body))
}

// SendRecipeAsync runs SendRecipe on a goroutine. The channel receives
// exactly one value.
func (connection *Connection) SendRecipeAsync(ctx context.Context, recipe Recipe) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- connection.SendRecipe(ctx, recipe)
	}()
	return result
}

// SendRaw writes message to the control socket unchanged and returns the
// whole reply.
func (connection *Connection) SendRaw(ctx context.Context, message string) (string, error) {
	ctx, cancel, err := connection.withDefaultRequestTimeout(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	if message == "" {
		connection.metrics.Command(metrics.ResultMisuse)
		return "", &CommandError{Kind: ErrorKindMisuse, Index: -1, Message: "empty message", Err: ErrMisuse}
	}
	body, err := connection.exchange(ctx, message)
	if err != nil {
		return "", &CommandError{Kind: ErrorKindTransport, Index: -1, Command: message, Err: err}
	}
	connection.metrics.Command(metrics.ResultOK)
	return body, nil
}

func (connection *Connection) demuxRecipe(framed []string, responses []string) error {
	var failures []*CommandError
	for index, command := range framed {
		if index >= len(responses) {
			failures = append(failures, &CommandError{
				Kind:    ErrorKindRejected,
				Index:   index,
				Command: command,
				Message: "no response for command",
			})
			continue
		}
		if wire.IsSuccess(responses[index]) {
			connection.metrics.Command(metrics.ResultOK)
			continue
		}
		connection.metrics.Command(metrics.ResultRejected)
		connection.logger.Debug().
			Int(log.FieldIndex, index).
			Str(log.FieldCommand, command).
			Str(log.FieldReason, responses[index]).
			Msg("recipe command rejected")
		failures = append(failures, &CommandError{
			Kind:    ErrorKindRejected,
			Index:   index,
			Command: command,
			Message: responses[index],
		})
	}
	if len(failures) == 0 {
		return nil
	}
	return &RecipeError{Errors: failures}
}

func (connection *Connection) exchange(ctx context.Context, request string) (string, error) {
	body, err := transport.Exchange(ctx, connection.paths.Control, request)
	if err != nil {
		connection.metrics.Command(metrics.ResultTransport)
		return "", err
	}
	return body, nil
}

func (connection *Connection) withDefaultRequestTimeout(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if ctx == nil {
		return nil, nil, ErrNilContext
	}
	if err := connection.checkOpen(); err != nil {
		return nil, nil, err
	}
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}, nil
	}
	timeout := connection.options.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	timedCtx, cancel := context.WithTimeout(ctx, timeout)
	return timedCtx, cancel, nil
}
