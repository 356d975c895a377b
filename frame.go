package segue

import (
	"context"
	"time"
)

// Frame is the unit of work flowing through the mutation pipeline. Middleware
// installed via options receives the frame before the mutation runs.
type Frame struct {
	// Seq is the frame's sequence number, assigned in Transition call order.
	Seq uint64

	// Animated reports whether the frame runs inside a platform transition.
	// False for fallback frames and frames drained by Stop.
	Animated bool

	// Queued is how long the frame waited behind earlier frames before
	// animating. Zero for frames that ran immediately.
	Queued time.Duration

	ctx        context.Context
	mutate     func(context.Context) error
	enqueuedAt time.Time
}
