package segue

import "time"

// MetricsProvider allows integration with metrics systems like Prometheus, StatsD, etc.
// Implement this interface to receive callbacks on key transition events.
type MetricsProvider interface {
	// OnStateChange is called when the conductor moves between idle and in-flight.
	OnStateChange(from, to State)

	// OnTransitionStart is called when a frame is handed to the platform.
	OnTransitionStart()

	// OnTransitionSuccess is called when a frame's animation settles cleanly.
	// Duration is the time from handoff to settle.
	OnTransitionSuccess(duration time.Duration)

	// OnTransitionFailure is called when a frame fails at any stage.
	// Stage indicates where the failure occurred: "mutation", "animation", or "settle".
	OnTransitionFailure(stage string, duration time.Duration)

	// OnFallback is called when a transition runs as a direct mutation
	// because the platform cannot animate.
	OnFallback()

	// OnQueued is called when a transition is serialized behind an in-flight
	// frame. Depth counts the frames waiting after it joins.
	OnQueued(depth int)
}

// NoOpMetricsProvider is a no-op implementation of MetricsProvider.
// Use this as an embedded type to implement only the methods you need.
type NoOpMetricsProvider struct{}

func (NoOpMetricsProvider) OnStateChange(_, _ State)                      {}
func (NoOpMetricsProvider) OnTransitionStart()                            {}
func (NoOpMetricsProvider) OnTransitionSuccess(_ time.Duration)           {}
func (NoOpMetricsProvider) OnTransitionFailure(_ string, _ time.Duration) {}
func (NoOpMetricsProvider) OnFallback()                                   {}
func (NoOpMetricsProvider) OnQueued(_ int)                                {}
