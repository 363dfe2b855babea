package scene

// EventKind discriminates scene notifications.
type EventKind string

const (
	// EventPlaced fires after an object finishes its placement
	// lifecycle, initial-overlap snapshot included.
	EventPlaced EventKind = "placed"
	// EventRemoved fires after an object and its pair-book entries
	// are gone.
	EventRemoved EventKind = "removed"
	// EventTransformed fires once per committed transform change.
	// Rejected mutations roll back silently and fire nothing.
	EventTransformed EventKind = "transformed"
	// EventCollision fires for each object whose collision flag
	// flipped as a result of a committed mutation.
	EventCollision EventKind = "collision"
	// EventCleared fires after a bulk clear.
	EventCleared EventKind = "cleared"
	// EventSelection fires when the selection lands on or leaves an
	// object.
	EventSelection EventKind = "selection"
)

// Event is a plain-data scene notification. Fields beyond Kind and ID
// are populated per kind.
type Event struct {
	Kind      EventKind `json:"kind"`
	ID        ObjectID  `json:"id,omitempty"`
	Colliding bool      `json:"colliding,omitempty"`
	Selected  bool      `json:"selected,omitempty"`
}

// Sink receives scene events synchronously, on the same goroutine
// that performed the mutation. Sinks must not call back into the
// engine.
type Sink interface {
	HandleEvent(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// HandleEvent calls f.
func (f SinkFunc) HandleEvent(e Event) { f(e) }
