package segue

import "github.com/zoobzio/capitan"

// Conductor lifecycle signals.
var (
	// ConductorStarted is emitted when a Conductor starts and installs its
	// timing rule.
	ConductorStarted = capitan.NewSignal(
		"segue.conductor.started",
		"Conductor started",
	)

	// ConductorStopped is emitted when a Conductor stops and releases its
	// timing rule.
	ConductorStopped = capitan.NewSignal(
		"segue.conductor.stopped",
		"Conductor stopped",
	)

	// ConductorStateChanged is emitted when a Conductor moves between idle
	// and in-flight.
	ConductorStateChanged = capitan.NewSignal(
		"segue.conductor.state.changed",
		"Conductor state transition",
	)
)

// Transition protocol signals.
var (
	// TransitionStarted is emitted when the platform begins animating a frame.
	TransitionStarted = capitan.NewSignal(
		"segue.transition.started",
		"Platform transition started",
	)

	// TransitionFinished is emitted when a frame's finished signal settles
	// successfully.
	TransitionFinished = capitan.NewSignal(
		"segue.transition.finished",
		"Platform transition finished",
	)

	// TransitionFailed is emitted when a frame's finished signal settles in
	// failure. The mutation has still been applied; only the animation failed.
	TransitionFailed = capitan.NewSignal(
		"segue.transition.failed",
		"Platform transition failed",
	)

	// TransitionQueued is emitted when a transition arrives while another is
	// in flight and is serialized behind it.
	TransitionQueued = capitan.NewSignal(
		"segue.transition.queued",
		"Transition queued behind in-flight frame",
	)

	// TransitionFallback is emitted when a transition degrades to a direct,
	// unanimated mutation.
	TransitionFallback = capitan.NewSignal(
		"segue.transition.fallback",
		"Transition fell back to direct mutation",
	)

	// MutationFailed is emitted when the mutation pipeline fails during the
	// render step. The platform transition still settles on whatever state
	// was committed.
	MutationFailed = capitan.NewSignal(
		"segue.mutation.failed",
		"Mutation pipeline failed",
	)
)

// Style resource signals.
var (
	// StyleInstalled is emitted when an owner installs its timing rule.
	StyleInstalled = capitan.NewSignal(
		"segue.style.installed",
		"Timing rule installed",
	)

	// StyleReleased is emitted when an owner removes its timing rule.
	StyleReleased = capitan.NewSignal(
		"segue.style.released",
		"Timing rule released",
	)
)

// Standalone trigger signals.
var (
	// TriggerFired is emitted when Trigger begins a platform transition.
	TriggerFired = capitan.NewSignal(
		"segue.trigger.fired",
		"Standalone transition started",
	)

	// TriggerFinished is emitted when a standalone transition settles
	// successfully.
	TriggerFinished = capitan.NewSignal(
		"segue.trigger.finished",
		"Standalone transition finished",
	)

	// TriggerFailed is emitted when a standalone transition settles in
	// failure.
	TriggerFailed = capitan.NewSignal(
		"segue.trigger.failed",
		"Standalone transition failed",
	)

	// TriggerFallback is emitted when Trigger degrades to a direct mutation.
	TriggerFallback = capitan.NewSignal(
		"segue.trigger.fallback",
		"Standalone transition fell back to direct mutation",
	)
)
