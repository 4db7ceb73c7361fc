package hypr

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/joshp123/hypr-golang/internal/log"
	"github.com/joshp123/hypr-golang/internal/metrics"
	"github.com/joshp123/hypr-golang/internal/wire"
)

// decoder describes one event variant. The payload is split into at most
// fields values so the last one keeps any commas; variadic variants split on
// every comma and need at least fields values.
type decoder struct {
	fields   int
	variadic bool
	build    func(*fieldList) Event
}

var decoders = map[string]decoder{
	EventWorkspace: {fields: 1, build: func(list *fieldList) Event {
		return WorkspaceEvent{Name: list.text(0)}
	}},
	EventWorkspaceV2: {fields: 2, build: func(list *fieldList) Event {
		return WorkspaceV2Event{ID: list.integer(0), Name: list.text(1)}
	}},
	EventFocusedMonitor: {fields: 2, build: func(list *fieldList) Event {
		return FocusedMonitorEvent{Monitor: list.text(0), Workspace: list.text(1)}
	}},
	EventFocusedMonitorV2: {fields: 2, build: func(list *fieldList) Event {
		return FocusedMonitorV2Event{Monitor: list.text(0), WorkspaceID: list.integer(1)}
	}},
	EventActiveWindow: {fields: 2, build: func(list *fieldList) Event {
		return ActiveWindowEvent{Class: list.text(0), Title: list.text(1)}
	}},
	EventActiveWindowV2: {fields: 1, build: func(list *fieldList) Event {
		return ActiveWindowV2Event{Address: list.text(0)}
	}},
	EventFullscreen: {fields: 1, build: func(list *fieldList) Event {
		return FullscreenEvent{Fullscreen: list.boolean(0)}
	}},
	EventMonitorRemoved: {fields: 1, build: func(list *fieldList) Event {
		return MonitorRemovedEvent{Name: list.text(0)}
	}},
	EventMonitorAdded: {fields: 1, build: func(list *fieldList) Event {
		return MonitorAddedEvent{Name: list.text(0)}
	}},
	EventMonitorAddedV2: {fields: 3, build: func(list *fieldList) Event {
		return MonitorAddedV2Event{ID: list.integer(0), Name: list.text(1), Description: list.text(2)}
	}},
	EventCreateWorkspace: {fields: 1, build: func(list *fieldList) Event {
		return CreateWorkspaceEvent{Name: list.text(0)}
	}},
	EventCreateWorkspaceV2: {fields: 2, build: func(list *fieldList) Event {
		return CreateWorkspaceV2Event{ID: list.integer(0), Name: list.text(1)}
	}},
	EventDestroyWorkspace: {fields: 1, build: func(list *fieldList) Event {
		return DestroyWorkspaceEvent{Name: list.text(0)}
	}},
	EventDestroyWorkspaceV2: {fields: 2, build: func(list *fieldList) Event {
		return DestroyWorkspaceV2Event{ID: list.integer(0), Name: list.text(1)}
	}},
	EventMoveWorkspace: {fields: 2, build: func(list *fieldList) Event {
		return MoveWorkspaceEvent{Name: list.text(0), Monitor: list.text(1)}
	}},
	EventMoveWorkspaceV2: {fields: 3, build: func(list *fieldList) Event {
		return MoveWorkspaceV2Event{ID: list.integer(0), Name: list.text(1), Monitor: list.text(2)}
	}},
	EventRenameWorkspace: {fields: 2, build: func(list *fieldList) Event {
		return RenameWorkspaceEvent{ID: list.integer(0), Name: list.text(1)}
	}},
	EventActiveSpecial: {fields: 2, build: func(list *fieldList) Event {
		return ActiveSpecialEvent{Name: list.text(0), Monitor: list.text(1)}
	}},
	EventActiveLayout: {fields: 2, build: func(list *fieldList) Event {
		return ActiveLayoutEvent{Keyboard: list.text(0), Layout: list.text(1)}
	}},
	EventOpenWindow: {fields: 4, build: func(list *fieldList) Event {
		return OpenWindowEvent{Address: list.text(0), Workspace: list.text(1), Class: list.text(2), Title: list.text(3)}
	}},
	EventCloseWindow: {fields: 1, build: func(list *fieldList) Event {
		return CloseWindowEvent{Address: list.text(0)}
	}},
	EventMoveWindow: {fields: 2, build: func(list *fieldList) Event {
		return MoveWindowEvent{Address: list.text(0), Workspace: list.text(1)}
	}},
	EventMoveWindowV2: {fields: 3, build: func(list *fieldList) Event {
		return MoveWindowV2Event{Address: list.text(0), WorkspaceID: list.integer(1), Workspace: list.text(2)}
	}},
	EventOpenLayer: {fields: 1, build: func(list *fieldList) Event {
		return OpenLayerEvent{Namespace: list.text(0)}
	}},
	EventCloseLayer: {fields: 1, build: func(list *fieldList) Event {
		return CloseLayerEvent{Namespace: list.text(0)}
	}},
	EventSubmap: {fields: 1, build: func(list *fieldList) Event {
		return SubmapEvent{Name: list.text(0)}
	}},
	EventChangeFloatingMode: {fields: 2, build: func(list *fieldList) Event {
		return ChangeFloatingModeEvent{Address: list.text(0), Floating: list.boolean(1)}
	}},
	EventUrgent: {fields: 1, build: func(list *fieldList) Event {
		return UrgentEvent{Address: list.text(0)}
	}},
	EventScreencast: {fields: 2, build: func(list *fieldList) Event {
		return ScreencastEvent{Active: list.boolean(0), Owner: list.text(1)}
	}},
	EventWindowTitle: {fields: 1, build: func(list *fieldList) Event {
		return WindowTitleEvent{Address: list.text(0)}
	}},
	EventWindowTitleV2: {fields: 2, build: func(list *fieldList) Event {
		return WindowTitleV2Event{Address: list.text(0), Title: list.text(1)}
	}},
	EventToggleGroup: {fields: 1, variadic: true, build: func(list *fieldList) Event {
		return ToggleGroupEvent{Open: list.boolean(0), Handles: list.rest(1)}
	}},
	EventMoveIntoGroup: {fields: 1, build: func(list *fieldList) Event {
		return MoveIntoGroupEvent{Address: list.text(0)}
	}},
	EventMoveOutOfGroup: {fields: 1, build: func(list *fieldList) Event {
		return MoveOutOfGroupEvent{Address: list.text(0)}
	}},
	EventIgnoreGroupLock: {fields: 1, build: func(list *fieldList) Event {
		return IgnoreGroupLockEvent{On: list.boolean(0)}
	}},
	EventLockGroups: {fields: 1, build: func(list *fieldList) Event {
		return LockGroupsEvent{On: list.boolean(0)}
	}},
	EventConfigReloaded: {fields: 0, build: func(*fieldList) Event {
		return ConfigReloadedEvent{}
	}},
	EventPin: {fields: 2, build: func(list *fieldList) Event {
		return PinEvent{Address: list.text(0), Pinned: list.boolean(1)}
	}},
}

// AllEventNames returns every event name with a dedicated variant, sorted.
func AllEventNames() []string {
	names := make([]string, 0, len(decoders))
	for name := range decoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// fieldList hands out positional fields and remembers the first parse error.
type fieldList struct {
	values []string
	err    error
}

func (list *fieldList) text(index int) string {
	return list.values[index]
}

func (list *fieldList) integer(index int) int64 {
	value, err := strconv.ParseInt(list.values[index], 10, 64)
	if err != nil && list.err == nil {
		list.err = fmt.Errorf("%w: field %d: %w", ErrMalformedEvent, index, err)
	}
	return value
}

// boolean compares the leading byte only, so "1" and "10" are both true.
func (list *fieldList) boolean(index int) bool {
	value := list.values[index]
	return value != "" && value[0] == '1'
}

func (list *fieldList) rest(index int) []string {
	if index >= len(list.values) {
		return []string{}
	}
	return append([]string(nil), list.values[index:]...)
}

// DecodeEvent decodes one event line. Unknown names decode to CustomEvent.
func DecodeEvent(line string) (Event, error) {
	event, _, err := DecodeFiltered(line, AllEvents())
	return event, err
}

// DecodeFiltered decodes line if filter accepts its name. ok is false with a
// nil error for filtered lines.
func DecodeFiltered(line string, filter EventFilter) (event Event, ok bool, err error) {
	name, payload, found := wire.SplitEvent(line)
	if !found {
		return nil, false, &DecodeError{Line: line, Err: fmt.Errorf("%w: missing %q", ErrMalformedEvent, wire.EventDelimiter)}
	}
	if !filter.Matches(name) {
		return nil, false, nil
	}
	event, err = decodeFields(name, payload)
	if err != nil {
		return nil, false, &DecodeError{Line: line, Name: name, Err: err}
	}
	return event, true, nil
}

func decodeFields(name string, payload string) (Event, error) {
	entry, known := decoders[name]
	if !known {
		return CustomEvent{Name: name, Data: payload}, nil
	}

	var values []string
	switch {
	case entry.fields == 0:
	case entry.variadic:
		values = wire.SplitFields(payload, 0)
	default:
		values = wire.SplitFields(payload, entry.fields)
	}
	if len(values) < entry.fields {
		return nil, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedEvent, entry.fields, len(values))
	}

	list := fieldList{values: values}
	event := entry.build(&list)
	if list.err != nil {
		return nil, list.err
	}
	return event, nil
}

// eventDecoder is the stateful decoder shared by the listener and the reader.
// It logs and counts every line it does not deliver.
type eventDecoder struct {
	filter  EventFilter
	logger  zerolog.Logger
	metrics *metrics.Collectors
}

func newEventDecoder(filter EventFilter, logger zerolog.Logger, collectors *metrics.Collectors) *eventDecoder {
	return &eventDecoder{filter: filter.Clone(), logger: logger, metrics: collectors}
}

func (decoder *eventDecoder) decode(line string) (Event, bool) {
	event, ok, err := DecodeFiltered(line, decoder.filter)
	if err != nil {
		reason := metrics.ReasonMalformed
		var numErr *strconv.NumError
		if errors.As(err, &numErr) {
			reason = metrics.ReasonInvalid
		}
		decoder.metrics.Skipped(reason)
		decoder.logger.Warn().Err(err).Str(log.FieldLine, line).Msg("skipping undecodable event line")
		return nil, false
	}
	if !ok {
		decoder.metrics.Skipped(metrics.ReasonFiltered)
		return nil, false
	}
	if custom, isCustom := event.(CustomEvent); isCustom {
		decoder.metrics.CustomEvents.Inc()
		decoder.metrics.Decoded("custom")
		decoder.logger.Debug().Str(log.FieldEvent, custom.Name).Msg("decoded unknown event as custom")
		return event, true
	}
	decoder.metrics.Decoded(event.EventName())
	return event, true
}
