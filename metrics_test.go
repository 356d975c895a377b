package segue

import (
	"testing"
	"time"
)

func TestNoOpMetricsProvider_DoesNotPanic(_ *testing.T) {
	var m NoOpMetricsProvider

	// These should not panic
	m.OnStateChange(StateIdle, StateInFlight)
	m.OnTransitionStart()
	m.OnTransitionSuccess(100 * time.Millisecond)
	m.OnTransitionFailure(StageAnimation, 50*time.Millisecond)
	m.OnFallback()
	m.OnQueued(2)
}
