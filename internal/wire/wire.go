package wire

import "strings"

const (
	// EventDelimiter separates an event name from its payload.
	EventDelimiter = ">>"
	// FieldSeparator separates positional fields inside an event payload.
	FieldSeparator = ","

	DispatchPrefix    = "dispatch "
	BatchMarker       = "/[[BATCH]]"
	BatchTerminator   = ";"
	ResponseSeparator = "\n\n\n"
	SuccessToken      = "ok"
	JSONQueryPrefix   = "j/"
)

// SplitEvent splits one event line into its name and raw payload. The
// trailing newline is optional.
func SplitEvent(line string) (name string, payload string, ok bool) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return strings.Cut(line, EventDelimiter)
}

// SplitFields splits an event payload into at most limit positional fields.
// A limit below one splits every separator. The last field keeps any
// separators beyond the limit.
func SplitFields(payload string, limit int) []string {
	if limit < 1 {
		return strings.Split(payload, FieldSeparator)
	}
	return strings.SplitN(payload, FieldSeparator, limit)
}

// FrameCommand applies the category prefix to an encoded command.
func FrameCommand(dispatch bool, encoded string) string {
	if dispatch {
		return DispatchPrefix + encoded
	}
	return encoded
}

// FrameBatch wraps already framed commands into one batch request.
func FrameBatch(framed []string) string {
	var builder strings.Builder
	size := len(BatchMarker)
	for _, command := range framed {
		size += len(command) + len(BatchTerminator)
	}
	builder.Grow(size)
	builder.WriteString(BatchMarker)
	for _, command := range framed {
		builder.WriteString(command)
		builder.WriteString(BatchTerminator)
	}
	return builder.String()
}

// SplitBatchResponse splits a batch reply into per-command segments. A single
// trailing separator does not produce an extra segment.
func SplitBatchResponse(body string) []string {
	body = strings.TrimSuffix(body, ResponseSeparator)
	return strings.Split(body, ResponseSeparator)
}

func IsSuccess(body string) bool {
	return body == SuccessToken
}

// FrameQuery builds a JSON data request such as "j/clients".
func FrameQuery(name string, args ...string) string {
	request := JSONQueryPrefix + name
	for _, arg := range args {
		if arg == "" {
			continue
		}
		request += " " + arg
	}
	return request
}
