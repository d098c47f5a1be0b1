// Event provides the immutable event primitive for statechart transitions.
//
// # Immutability
//
// Event fields are exported for convenience in read-only contexts, but consumers MUST
// NOT modify them after construction. Use NewEvent for construction.
//
// Example:
//
//	event := NewEvent("SET_PASSWORD", "longenough")
package primitives

// Event is a tagged value: a type tag plus an optional payload.
type Event struct {
	Type string `json:"type" yaml:"type"`
	Data any    `json:"data,omitempty" yaml:"data,omitempty"`
}

// InitEvent is the type of the synthetic event that accompanies the initial
// configuration published by Start.
const InitEvent = "chartforms.init"

// NewEvent creates and returns a new immutable Event.
func NewEvent(eventType string, data any) Event {
	return Event{
		Type: eventType,
		Data: data,
	}
}

// Is reports whether the event has the given type.
func (e Event) Is(eventType string) bool {
	return e.Type == eventType
}
