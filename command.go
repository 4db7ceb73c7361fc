package hypr

import (
	"fmt"
	"strings"

	"github.com/joshp123/hypr-golang/internal/wire"
)

// CommandKind decides how a command is framed on the control socket.
type CommandKind uint8

const (
	// DispatchCommand runs a dispatcher and is sent with the "dispatch " prefix.
	DispatchCommand CommandKind = iota + 1
	// DirectCommand is a top-level control verb such as keyword or reload.
	DirectCommand
)

func (kind CommandKind) String() string {
	switch kind {
	case DispatchCommand:
		return "dispatch"
	case DirectCommand:
		return "direct"
	default:
		return fmt.Sprintf("CommandKind(%d)", uint8(kind))
	}
}

// Command is one control socket instruction.
type Command interface {
	// Encode returns the command without any category prefix.
	Encode() string
	Kind() CommandKind
}

// Recipe is an ordered batch of commands sent in one round trip.
type Recipe []Command

type command struct {
	kind      CommandKind
	name      string
	args      []string
	separator string
}

// Dispatch builds a dispatcher invocation with space separated arguments.
// Empty arguments are dropped.
func Dispatch(name string, args ...string) Command {
	return command{kind: DispatchCommand, name: name, args: args, separator: " "}
}

// DispatchJoined builds a dispatcher invocation whose arguments are joined by
// separator, as in "movetoworkspace 3,address:0x1".
func DispatchJoined(name string, separator string, args ...string) Command {
	return command{kind: DispatchCommand, name: name, args: args, separator: separator}
}

// Direct builds a top-level control verb with space separated arguments.
func Direct(verb string, args ...string) Command {
	return command{kind: DirectCommand, name: verb, args: args, separator: " "}
}

func (cmd command) Kind() CommandKind {
	return cmd.kind
}

func (cmd command) Encode() string {
	args := make([]string, 0, len(cmd.args))
	for _, arg := range cmd.args {
		if arg != "" {
			args = append(args, arg)
		}
	}
	if len(args) == 0 {
		return cmd.name
	}
	return cmd.name + " " + strings.Join(args, cmd.separator)
}

func (cmd command) String() string {
	return frame(cmd)
}

func frame(cmd Command) string {
	return wire.FrameCommand(cmd.Kind() == DispatchCommand, cmd.Encode())
}

func validCommand(cmd Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil command", ErrMisuse)
	}
	switch cmd.Kind() {
	case DispatchCommand, DirectCommand:
	default:
		return fmt.Errorf("%w: unknown command kind %s", ErrMisuse, cmd.Kind())
	}
	if strings.TrimSpace(cmd.Encode()) == "" {
		return fmt.Errorf("%w: empty command", ErrMisuse)
	}
	return nil
}
