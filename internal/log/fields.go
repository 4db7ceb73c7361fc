package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldInstance  = "instance"
	FieldSocket    = "socket"
	FieldEvent     = "event"
	FieldLine      = "line"
	FieldCommand   = "command"
	FieldIndex     = "index"
	FieldReason    = "reason"
	FieldMissed    = "missed"
	FieldState     = "state"
	FieldReceivers = "receivers"
)
