package testsupport

import "strings"

// Handler returns the reply body for one command. Batched requests call it
// once per command with the batch framing removed.
type Handler func(command string) string

// AcceptAll replies "ok" to every command.
func AcceptAll(string) string {
	return "ok"
}

// RejectContaining rejects commands containing needle with message and
// accepts the rest.
func RejectContaining(needle string, message string) Handler {
	return func(command string) string {
		if strings.Contains(command, needle) {
			return message
		}
		return "ok"
	}
}

// Replies answers from a fixed table keyed by the full command, falling back
// to "ok".
func Replies(table map[string]string) Handler {
	return func(command string) string {
		if body, ok := table[command]; ok {
			return body
		}
		return "ok"
	}
}

// Echo replies with the command it received.
func Echo(command string) string {
	return command
}
