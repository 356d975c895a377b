package segue

// State represents the current state of a Conductor.
type State int32

const (
	// StateIdle indicates no transition is in flight. This is the initial
	// state and the state the Conductor returns to after every transition
	// settles.
	StateIdle State = iota

	// StateInFlight indicates the platform is animating between two captured
	// snapshots. Under the serialize policy the Conductor stays in flight
	// while queued transitions chain, returning to idle only once the queue
	// drains.
	StateInFlight
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInFlight:
		return "in-flight"
	default:
		return "unknown"
	}
}
