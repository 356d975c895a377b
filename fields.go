package segue

import "github.com/zoobzio/capitan"

// Typed field keys for signal observation.
var (
	// KeyState carries the conductor's current state name.
	KeyState = capitan.NewStringKey("state")

	// KeyOldState carries the state before a transition.
	KeyOldState = capitan.NewStringKey("old_state")

	// KeyNewState carries the state after a transition.
	KeyNewState = capitan.NewStringKey("new_state")

	// KeyError carries an error message.
	KeyError = capitan.NewStringKey("error")

	// KeySeq carries the frame sequence number.
	KeySeq = capitan.NewIntKey("seq")

	// KeyQueueDepth carries the number of frames waiting behind the
	// in-flight one.
	KeyQueueDepth = capitan.NewIntKey("queue_depth")

	// KeyQueued carries how long a frame waited before animating.
	KeyQueued = capitan.NewDurationKey("queued")

	// KeyElapsed carries how long a transition took to settle.
	KeyElapsed = capitan.NewDurationKey("elapsed")

	// KeyDuration carries the configured animation duration.
	KeyDuration = capitan.NewDurationKey("duration")

	// KeyEasing carries the configured easing function.
	KeyEasing = capitan.NewStringKey("easing")

	// KeyStyleKey carries the identity key of a timing rule.
	KeyStyleKey = capitan.NewStringKey("style_key")

	// KeyReason carries why a fallback or drain happened.
	KeyReason = capitan.NewStringKey("reason")

	// KeyStage carries which protocol stage a failure occurred in.
	KeyStage = capitan.NewStringKey("stage")
)
