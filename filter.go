package hypr

import (
	"maps"
	"sort"
)

// Polarity says what an EventFilter does with the names it lists.
type Polarity uint8

const (
	// ExcludeListed accepts every name except the listed ones.
	ExcludeListed Polarity = iota
	// IncludeListed accepts only the listed names.
	IncludeListed
)

func (polarity Polarity) String() string {
	if polarity == IncludeListed {
		return "include"
	}
	return "exclude"
}

// EventFilter selects events by name before their fields are parsed. The
// zero value accepts every event. Filters are values: assigning one and
// calling Add on either copy leaves the other unchanged.
type EventFilter struct {
	names    map[string]struct{}
	polarity Polarity
}

// AllEvents accepts every event.
func AllEvents() EventFilter {
	return EventFilter{}
}

// NoEvents rejects every event.
func NoEvents() EventFilter {
	return EventFilter{polarity: IncludeListed}
}

// NewEventFilter lists names under the default polarity, so the result
// accepts everything except names.
func NewEventFilter(names ...string) EventFilter {
	var filter EventFilter
	for _, name := range names {
		filter.Add(name)
	}
	return filter
}

// OnlyEvents accepts exactly names.
func OnlyEvents(names ...string) EventFilter {
	filter := NewEventFilter(names...)
	filter.SetPolarity(IncludeListed)
	return filter
}

// Add lists name. Copies of filter made before the call are not affected.
func (filter *EventFilter) Add(name string) {
	if _, listed := filter.names[name]; listed {
		return
	}
	names := make(map[string]struct{}, len(filter.names)+1)
	for listed := range filter.names {
		names[listed] = struct{}{}
	}
	names[name] = struct{}{}
	filter.names = names
}

func (filter *EventFilter) SetPolarity(polarity Polarity) {
	filter.polarity = polarity
}

func (filter EventFilter) Polarity() Polarity {
	return filter.polarity
}

// Matches reports whether an event called name passes the filter.
func (filter EventFilter) Matches(name string) bool {
	_, listed := filter.names[name]
	return listed != (filter.polarity == ExcludeListed)
}

// IsUniversalReject reports whether the filter can never accept an event.
func (filter EventFilter) IsUniversalReject() bool {
	return len(filter.names) == 0 && filter.polarity == IncludeListed
}

// Names returns the listed names, sorted.
func (filter EventFilter) Names() []string {
	names := make([]string, 0, len(filter.names))
	for name := range filter.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (filter EventFilter) Clone() EventFilter {
	return EventFilter{names: maps.Clone(filter.names), polarity: filter.polarity}
}
