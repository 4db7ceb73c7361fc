package hypr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedEvent indicates an event line that cannot be decoded.
	ErrMalformedEvent = errors.New("malformed event")
	// ErrTransport indicates a socket could not be dialed, written or read.
	ErrTransport = errors.New("hyprland ipc transport failure")
	// ErrCommandRejected indicates the compositor answered with something other than ok.
	ErrCommandRejected = errors.New("hyprland rejected command")
	// ErrMisuse indicates the API was called in a way that cannot succeed.
	ErrMisuse = errors.New("hyprland client misuse")
	// ErrNotListening indicates an operation that needs an active listener.
	ErrNotListening = fmt.Errorf("%w: no active event listener", ErrMisuse)
	// ErrListenerTerminated indicates the listener task feeding a subscription has finished.
	ErrListenerTerminated = errors.New("event listener terminated")
	// ErrSubscriptionClosed indicates the subscription was closed by the caller.
	ErrSubscriptionClosed = errors.New("subscription closed")
	// ErrConnectionClosed indicates the connection was closed by the caller.
	ErrConnectionClosed = errors.New("hyprland connection closed")
	// ErrNilContext indicates a required context argument was nil.
	ErrNilContext = errors.New("context is required")
)

// ErrorKind classifies a CommandError.
type ErrorKind uint8

const (
	ErrorKindTransport ErrorKind = iota + 1
	ErrorKindRejected
	ErrorKindMisuse
)

func (kind ErrorKind) String() string {
	switch kind {
	case ErrorKindTransport:
		return "transport"
	case ErrorKindRejected:
		return "rejected"
	case ErrorKindMisuse:
		return "misuse"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(kind))
	}
}

func (kind ErrorKind) sentinel() error {
	switch kind {
	case ErrorKindTransport:
		return ErrTransport
	case ErrorKindRejected:
		return ErrCommandRejected
	case ErrorKindMisuse:
		return ErrMisuse
	default:
		return nil
	}
}

// CommandError describes one failed command. Index is the position inside a
// recipe, or -1 when the failure is not tied to a single command.
type CommandError struct {
	Kind    ErrorKind
	Index   int
	Command string
	Message string
	Err     error
}

func (err *CommandError) Error() string {
	if err == nil {
		return ""
	}
	message := strings.TrimSpace(err.Message)
	if message == "" && err.Err != nil {
		message = err.Err.Error()
	}
	if message == "" {
		message = err.Kind.String()
	}
	switch {
	case err.Command == "":
		return fmt.Sprintf("hyprland command %s: %s", err.Kind, message)
	case err.Index >= 0:
		return fmt.Sprintf("hyprland command %d %q %s: %s", err.Index, err.Command, err.Kind, message)
	default:
		return fmt.Sprintf("hyprland command %q %s: %s", err.Command, err.Kind, message)
	}
}

func (err *CommandError) Unwrap() error {
	if err == nil {
		return nil
	}
	return err.Err
}

// Is matches the sentinel for the error's kind.
func (err *CommandError) Is(target error) bool {
	if err == nil {
		return false
	}
	sentinel := err.Kind.sentinel()
	return sentinel != nil && target == sentinel
}

// RecipeError collects the failed commands of one recipe in recipe order.
type RecipeError struct {
	Errors []*CommandError
}

func (err *RecipeError) Error() string {
	if err == nil || len(err.Errors) == 0 {
		return "hyprland recipe failed"
	}
	if len(err.Errors) == 1 {
		return err.Errors[0].Error()
	}
	parts := make([]string, 0, len(err.Errors))
	for _, commandErr := range err.Errors {
		parts = append(parts, commandErr.Error())
	}
	return fmt.Sprintf("hyprland recipe: %d commands failed: %s", len(err.Errors), strings.Join(parts, "; "))
}

func (err *RecipeError) Unwrap() []error {
	if err == nil {
		return nil
	}
	unwrapped := make([]error, 0, len(err.Errors))
	for _, commandErr := range err.Errors {
		unwrapped = append(unwrapped, commandErr)
	}
	return unwrapped
}

// DecodeError is returned for an event line that cannot be decoded. It always
// matches ErrMalformedEvent.
type DecodeError struct {
	Line string
	Name string
	Err  error
}

func (err *DecodeError) Error() string {
	if err == nil {
		return ""
	}
	if err.Name == "" {
		return fmt.Sprintf("decode event line %q: %v", err.Line, err.Err)
	}
	return fmt.Sprintf("decode %s event: %v", err.Name, err.Err)
}

func (err *DecodeError) Unwrap() error {
	if err == nil {
		return nil
	}
	return err.Err
}

// LagError is returned once by Subscription.Recv after the subscription fell
// behind and Missed buffered events were dropped.
type LagError struct {
	Missed uint64
}

func (err *LagError) Error() string {
	return fmt.Sprintf("subscription lagged: %d events dropped", err.Missed)
}
