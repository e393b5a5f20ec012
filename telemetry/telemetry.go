// Package telemetry defines the fire-and-forget event sink consumed by the
// provider and payment layers. Sinks never block callers, never affect
// control flow, and their failures are never observable.
package telemetry

// Importance classifies how aggressively an event should be sampled.
type Importance string

const (
	ImportanceLow  Importance = "low"
	ImportanceHigh Importance = "high"
)

// Provider request lifecycle events. Each carries the correlation id pairing
// the started event with its outcome.
const (
	EventRequestStarted   = "provider.request.started"
	EventRequestResponded = "provider.request.responded"
	EventRequestError     = "provider.request.error"
)

// Payment lifecycle events.
const (
	EventPayStarted   = "payment.pay.started"
	EventPayCompleted = "payment.pay.completed"
	EventPayError     = "payment.pay.error"

	EventStatusStarted   = "payment.status.started"
	EventStatusCompleted = "payment.status.completed"
	EventStatusError     = "payment.status.error"
)

// Sink receives telemetry events. LogEvent must not block or panic.
type Sink interface {
	LogEvent(name string, properties map[string]string, importance Importance)
}

// Noop discards all events. Used when the caller's stored preference
// disables telemetry.
type Noop struct{}

func (Noop) LogEvent(string, map[string]string, Importance) {}

// OrNoop returns sink, or a Noop when sink is nil, so call sites never
// nil-check.
func OrNoop(sink Sink) Sink {
	if sink == nil {
		return Noop{}
	}
	return sink
}
