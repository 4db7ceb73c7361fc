// Package metrics holds the Prometheus collectors for one client.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hypr"

// Skip reasons.
const (
	ReasonFiltered  = "filtered"
	ReasonMalformed = "malformed"
	ReasonInvalid   = "invalid"
	ReasonOversized = "oversized"
)

// Command results.
const (
	ResultOK        = "ok"
	ResultRejected  = "rejected"
	ResultTransport = "transport"
	ResultMisuse    = "misuse"
)

// Collectors is the set of counters a Connection updates.
type Collectors struct {
	EventsDecoded  *prometheus.CounterVec
	LinesSkipped   *prometheus.CounterVec
	EventsLagged   prometheus.Counter
	ReadRetries    prometheus.Counter
	ListenerStarts prometheus.Counter
	CommandsTotal  *prometheus.CounterVec
	CustomEvents   prometheus.Counter
}

// New builds collectors and registers them on registerer. A nil registerer
// leaves them unregistered. Collectors already present on registerer are
// reused so several connections can share one registry.
func New(registerer prometheus.Registerer) (*Collectors, error) {
	collectors := &Collectors{
		EventsDecoded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_decoded_total",
			Help:      "Total number of events decoded from the event socket by name",
		}, []string{"event"}),
		LinesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_lines_skipped_total",
			Help:      "Total number of event lines not delivered by reason",
		}, []string{"reason"}),
		EventsLagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_lagged_total",
			Help:      "Total number of buffered events dropped because a subscriber fell behind",
		}),
		ReadRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_read_retries_total",
			Help:      "Total number of transient event socket read errors retried",
		}),
		ListenerStarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listener_starts_total",
			Help:      "Total number of event listeners started",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Total number of control socket commands by result",
		}, []string{"result"}),
		CustomEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "custom_events_total",
			Help:      "Total number of events with names the decoder does not know",
		}),
	}
	if registerer == nil {
		return collectors, nil
	}

	var err error
	collectors.EventsDecoded, err = register(registerer, collectors.EventsDecoded)
	if err != nil {
		return nil, err
	}
	collectors.LinesSkipped, err = register(registerer, collectors.LinesSkipped)
	if err != nil {
		return nil, err
	}
	collectors.EventsLagged, err = register(registerer, collectors.EventsLagged)
	if err != nil {
		return nil, err
	}
	collectors.ReadRetries, err = register(registerer, collectors.ReadRetries)
	if err != nil {
		return nil, err
	}
	collectors.ListenerStarts, err = register(registerer, collectors.ListenerStarts)
	if err != nil {
		return nil, err
	}
	collectors.CommandsTotal, err = register(registerer, collectors.CommandsTotal)
	if err != nil {
		return nil, err
	}
	collectors.CustomEvents, err = register(registerer, collectors.CustomEvents)
	if err != nil {
		return nil, err
	}
	return collectors, nil
}

func register[C prometheus.Collector](registerer prometheus.Registerer, collector C) (C, error) {
	err := registerer.Register(collector)
	if err == nil {
		return collector, nil
	}
	var already prometheus.AlreadyRegisteredError
	if errors.As(err, &already) {
		if existing, ok := already.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return collector, err
}

// Decoded records a delivered event.
func (collectors *Collectors) Decoded(name string) {
	collectors.EventsDecoded.WithLabelValues(name).Inc()
}

// Skipped records an event line that was not delivered.
func (collectors *Collectors) Skipped(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	collectors.LinesSkipped.WithLabelValues(reason).Inc()
}

// Command records the outcome of one control socket command.
func (collectors *Collectors) Command(result string) {
	collectors.CommandsTotal.WithLabelValues(result).Inc()
}
