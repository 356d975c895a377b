// Package segue orchestrates animated view transitions around synchronous
// state mutations.
//
// The core type is Conductor, which wraps each mutation in the platform's
// capture-mutate-animate protocol and exposes an observable in-flight flag:
//
//	Capture → Mutate (forced flush) → Animate → Settle
//
// When the platform cannot animate, the mutation runs directly and nothing
// else happens; the absence of animation is never an error.
//
// # Conductor
//
// A Conductor owns a scene Registry, a timing rule installed for its
// lifetime, and the transition protocol:
//
//	conductor := segue.New[*app.Element](platform).
//	    Duration(250 * time.Millisecond).
//	    Easing("ease-out").
//	    Styles(documentSink)
//
//	if err := conductor.Start(ctx); err != nil {
//	    return err
//	}
//	defer conductor.Stop(ctx)
//
//	err := conductor.Transition(ctx, func(ctx context.Context) error {
//	    return store.SetView("detail")
//	})
//
// Transition returns only misuse errors (nil mutation, not started,
// stopped). Mutation and animation failures are reported through signals,
// metrics, and LastFailure instead of the return value, because queued
// transitions outlive the call that submitted them.
//
// # Serialization
//
// Transitions that arrive while one is in flight are queued and run in
// arrival order, each with its own capture and animation. The Conductor
// stays in flight until the queue drains, so observers see one continuous
// busy period rather than a flicker between chained transitions. A mutation
// that itself calls Transition queues its frame rather than deadlocking.
//
// # Timing Styles
//
// Start installs a keyed timing rule into the configured StyleSink and Stop
// removes it. The rule is installed only if its key is vacant, so the first
// Conductor to start owns the shared parameters and later ones leave them
// alone; only the installer removes the rule on Stop.
//
// # Observability
//
// Lifecycle and protocol events are emitted as capitan signals and mirrored
// to an optional MetricsProvider. Hook the signals for logging:
//
//	capitan.Hook(segue.TransitionFailed, func(_ context.Context, e *capitan.Event) {
//	    msg, _ := segue.KeyError.From(e)
//	    log.Printf("transition failed: %s", msg)
//	})
package segue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/pipz"
)

// mutationID names the terminal pipeline step that runs the user mutation.
const mutationID pipz.Name = "mutation"

// Misuse errors returned by Transition and the lifecycle methods. Mutation
// and animation failures are never returned; see LastFailure.
var (
	// ErrAlreadyStarted is returned by Start after a successful Start.
	ErrAlreadyStarted = errors.New("conductor already started")

	// ErrNotStarted is returned when Transition or Stop is called before
	// Start.
	ErrNotStarted = errors.New("conductor not started")

	// ErrStopped is returned when Transition is called after Stop.
	ErrStopped = errors.New("conductor stopped")

	// ErrNilMutation is returned when Transition is called with a nil
	// mutation.
	ErrNilMutation = errors.New("nil mutation")

	// ErrNilPlatform is returned by Trigger when given a nil platform.
	ErrNilPlatform = errors.New("nil platform")

	// ErrSettleTimeout marks a transition whose finished signal never
	// settled within the configured settle timeout.
	ErrSettleTimeout = errors.New("animation settle timeout")
)

// Conductor wraps state mutations in the platform's capture-mutate-animate
// protocol, serializes overlapping transitions, and exposes an observable
// in-flight flag.
type Conductor[E any] struct {
	platform Platform
	pipeline pipz.Chainable[*Frame]
	registry *Registry[E]

	timing        Timing
	flusher       Flusher
	styles        StyleSink
	clock         clockz.Clock
	syncMode      bool
	settleTimeout time.Duration
	metrics       MetricsProvider
	onStop        func(State)

	state       atomic.Int32
	seq         atomic.Uint64
	lastFailure atomic.Pointer[Failure]
	history     *failureRing

	mu       sync.Mutex
	started  bool
	stopped  bool
	queue    []*Frame
	settling []inFlight
	style    *styleResource
}

// inFlight is a frame whose animation has started but not yet settled.
// In sync mode these park until Settle is called.
type inFlight struct {
	frame    *Frame
	finished <-chan error
	start    time.Time
}

// New creates a Conductor for the given platform.
//
// Each Transition call builds a Frame and runs it through the mutation
// pipeline inside the platform's render step. Pipeline options (With*, Use*)
// wrap processing around the mutation. Instance configuration uses chainable
// methods before calling Start():
//
//	conductor := segue.New[*app.Element](platform,
//	    segue.WithTimeout(50*time.Millisecond),
//	).Duration(200 * time.Millisecond).Easing("ease-in-out")
func New[E any](platform Platform, opts ...Option) *Conductor[E] {
	terminal := pipz.Effect(mutationID, func(ctx context.Context, frame *Frame) error {
		return frame.mutate(ctx)
	})

	c := &Conductor[E]{
		platform: platform,
		pipeline: buildPipeline(terminal, opts),
		registry: NewRegistry[E](),
		timing:   defaultTiming(),
		flusher:  directFlush{},
		styles:   defaultSink,
		clock:    clockz.RealClock,
		history:  newFailureRing(0),
	}
	c.state.Store(int32(StateIdle))

	return c
}

// -----------------------------------------------------------------------------
// Chainable Instance Configuration
// -----------------------------------------------------------------------------

// Duration sets the animation duration installed at Start.
// Default: DefaultDuration. Must be called before Start().
func (c *Conductor[E]) Duration(d time.Duration) *Conductor[E] {
	c.timing.Duration = d
	return c
}

// Easing sets the animation timing function installed at Start, as a CSS
// easing-function string. Default: DefaultEasing. Must be called before
// Start().
func (c *Conductor[E]) Easing(easing string) *Conductor[E] {
	c.timing.Easing = easing
	return c
}

// Theme sets both timing parameters from a loaded Theme.
// Must be called before Start().
func (c *Conductor[E]) Theme(theme Theme) *Conductor[E] {
	c.timing = theme.Timing()
	return c
}

// Flusher sets how pending UI updates are forced to commit inside the render
// step. Hosts with deferred rendering must provide their framework's
// synchronous flush or mutations won't be visible in the captured "after"
// snapshot. Default: run the mutation as-is; nil keeps the default.
// Must be called before Start().
func (c *Conductor[E]) Flusher(f Flusher) *Conductor[E] {
	if f == nil {
		f = directFlush{}
	}
	c.flusher = f
	return c
}

// Styles sets the sink that receives the timing rule at Start.
// Default: a process-wide shared sink. Must be called before Start().
func (c *Conductor[E]) Styles(sink StyleSink) *Conductor[E] {
	c.styles = sink
	return c
}

// Clock sets a custom clock for time operations.
// Use this with clockz.FakeClock for deterministic settle-timeout testing.
// Must be called before Start().
func (c *Conductor[E]) Clock(clock clockz.Clock) *Conductor[E] {
	c.clock = clock
	return c
}

// SyncMode disables the async settle goroutine. Animations park after their
// render step and are finalized by explicit Settle calls, making tests
// deterministic. Must be called before Start().
func (c *Conductor[E]) SyncMode() *Conductor[E] {
	c.syncMode = true
	return c
}

// SettleTimeout bounds how long a transition may stay unsettled. A platform
// that never settles its finished channel would otherwise pin the Conductor
// in flight forever. Zero (the default) waits indefinitely. Not applied in
// sync mode; bound Settle with its context instead. Must be called before
// Start().
func (c *Conductor[E]) SettleTimeout(d time.Duration) *Conductor[E] {
	c.settleTimeout = d
	return c
}

// Metrics sets a metrics provider for observability integration.
// The provider receives callbacks on state changes, transition start,
// settle, fallback, and queueing. Must be called before Start().
func (c *Conductor[E]) Metrics(provider MetricsProvider) *Conductor[E] {
	c.metrics = provider
	return c
}

// OnStop sets a callback invoked when Stop finishes, receiving the final
// state. Useful for host cleanup tied to the Conductor's lifetime.
// Must be called before Start().
func (c *Conductor[E]) OnStop(fn func(State)) *Conductor[E] {
	c.onStop = fn
	return c
}

// FailureHistorySize sets the number of recent failures to retain.
// When set, Failures() returns up to this many recent records.
// Use 0 (default) to only retain the most recent failure via LastFailure().
// Must be called before Start().
func (c *Conductor[E]) FailureHistorySize(n int) *Conductor[E] {
	c.history = newFailureRing(n)
	return c
}

// State returns the current state of the Conductor.
func (c *Conductor[E]) State() State {
	return State(c.state.Load())
}

// Transitioning reports whether a transition is in flight. It stays true
// while queued transitions chain and flips back only once the queue drains.
func (c *Conductor[E]) Transitioning() bool {
	return c.State() == StateInFlight
}

// Pending returns the number of transitions queued behind the in-flight one.
func (c *Conductor[E]) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// LastFailure returns the most recent mutation or animation failure and
// true, or a zero Failure and false if none has occurred.
func (c *Conductor[E]) LastFailure() (Failure, bool) {
	ptr := c.lastFailure.Load()
	if ptr == nil {
		return Failure{}, false
	}
	return *ptr, true
}

// Failures returns the recent failure history, oldest first.
// Returns nil if failure history is not enabled (see FailureHistorySize).
func (c *Conductor[E]) Failures() []Failure {
	return c.history.all()
}

// ClearFailures discards the last failure and the failure history. Settled
// successes never discard failure records on their own; hosts reset the
// diagnostics explicitly once they have been read.
func (c *Conductor[E]) ClearFailures() {
	c.lastFailure.Store(nil)
	c.history.clear()
}

// Registry returns the scene registry. Wrapper elements register here on
// mount so the platform can pair their "before" and "after" snapshots.
func (c *Conductor[E]) Registry() *Registry[E] {
	return c.registry
}

// Register binds an element handle to a scene name in the Conductor's
// registry. Registering a nil handle removes the name instead.
func (c *Conductor[E]) Register(name string, el E) {
	c.registry.Register(name, el)
}

// Unregister removes a scene name from the Conductor's registry.
func (c *Conductor[E]) Unregister(name string) {
	c.registry.Unregister(name)
}

// Lookup returns the element handle registered under name and true, or the
// zero value and false.
func (c *Conductor[E]) Lookup(name string) (E, bool) {
	return c.registry.Lookup(name)
}

// Start validates the configured timing and installs it into the style sink.
// The rule is installed only if its key is vacant; a rule installed by an
// earlier owner is left in place and will not be removed by this Conductor's
// Stop.
//
// Start can only be called once. Subsequent calls return ErrAlreadyStarted.
func (c *Conductor[E]) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	if err := c.timing.Validate(); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("invalid timing: %w", err)
	}
	c.started = true
	c.style = &styleResource{sink: c.styles, key: StyleKeyConductor}
	c.mu.Unlock()

	if c.style.ensure(c.timing) {
		capitan.Emit(ctx, StyleInstalled,
			KeyStyleKey.Field(StyleKeyConductor),
			KeyDuration.Field(c.timing.Duration),
			KeyEasing.Field(c.timing.Easing),
		)
	}

	capitan.Emit(ctx, ConductorStarted,
		KeyDuration.Field(c.timing.Duration),
		KeyEasing.Field(c.timing.Easing),
	)

	return nil
}

// Stop drains the queue and releases the timing rule. Queued transitions run
// immediately as direct mutations so no state change is lost. A frame the
// platform is already animating settles on the platform's schedule and is
// finalized normally.
//
// Stop is idempotent after the first call. Stopping before Start returns
// ErrNotStarted.
func (c *Conductor[E]) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return ErrNotStarted
	}
	if c.stopped {
		c.mu.Unlock()
		return nil
	}
	c.stopped = true
	drained := c.queue
	c.queue = nil
	style := c.style
	c.mu.Unlock()

	for _, frame := range drained {
		frame.Queued = c.clock.Since(frame.enqueuedAt)
		c.fallback(frame, "stopped")
	}

	if style.release() {
		capitan.Emit(ctx, StyleReleased,
			KeyStyleKey.Field(StyleKeyConductor),
		)
	}

	finalState := c.State()
	capitan.Emit(ctx, ConductorStopped,
		KeyState.Field(finalState.String()),
	)
	if c.onStop != nil {
		c.onStop(finalState)
	}

	return nil
}

// Transition runs mutate inside the platform's capture-mutate-animate
// protocol. On a supported platform the mutation executes inside a forced
// synchronous flush between the two snapshot captures, then the animation
// plays. On an unsupported platform the mutation runs directly and no
// animation occurs.
//
// If a transition is already in flight the new one is queued and runs when
// the current one settles, in arrival order. Transition never blocks on an
// animation.
//
// Transition returns only misuse errors: ErrNilMutation, ErrNotStarted, or
// ErrStopped. Mutation and animation failures are reported through signals,
// metrics, and LastFailure.
func (c *Conductor[E]) Transition(ctx context.Context, mutate func(context.Context) error) error {
	if mutate == nil {
		return ErrNilMutation
	}

	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return ErrNotStarted
	}
	if c.stopped {
		c.mu.Unlock()
		return ErrStopped
	}

	frame := &Frame{
		Seq:    c.seq.Add(1),
		ctx:    ctx,
		mutate: mutate,
	}

	if c.State() == StateInFlight {
		frame.enqueuedAt = c.clock.Now()
		c.queue = append(c.queue, frame)
		depth := len(c.queue)
		c.mu.Unlock()

		capitan.Emit(ctx, TransitionQueued,
			KeySeq.Field(int(frame.Seq)),
			KeyQueueDepth.Field(depth),
		)
		if c.metrics != nil {
			c.metrics.OnQueued(depth)
		}
		return nil
	}

	if !c.platform.Supported() {
		c.mu.Unlock()
		c.fallback(frame, "unsupported")
		return nil
	}

	c.state.Store(int32(StateInFlight))
	c.mu.Unlock()

	c.announceState(ctx, StateIdle, StateInFlight)
	c.begin(frame)
	return nil
}

// Settle finalizes the oldest in-flight frame, blocking until the platform
// settles it or ctx is done. Only available in sync mode; it is how tests
// step the protocol deterministically:
//
//	conductor.Transition(ctx, mutate) // renders, then parks
//	platform.Settle(nil)              // platform reports the outcome
//	conductor.Settle(ctx)             // finalize: chain or return to idle
//
// Returns false if not in sync mode, nothing is parked, or ctx expired
// first. In the last case the frame stays parked for a later Settle.
func (c *Conductor[E]) Settle(ctx context.Context) bool {
	if !c.syncMode {
		return false
	}

	c.mu.Lock()
	if len(c.settling) == 0 {
		c.mu.Unlock()
		return false
	}
	s := c.settling[0]
	c.settling = c.settling[1:]
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		c.mu.Lock()
		c.settling = append([]inFlight{s}, c.settling...)
		c.mu.Unlock()
		return false
	case err := <-s.finished:
		c.complete(s.frame, err, s.start)
		return true
	}
}

// begin hands one frame to the platform. The Conductor must already be in
// flight. begin runs with no locks held so a mutation that re-enters
// Transition queues instead of deadlocking.
func (c *Conductor[E]) begin(frame *Frame) {
	frame.Animated = true
	start := c.clock.Now()

	capitan.Emit(frame.ctx, TransitionStarted,
		KeySeq.Field(int(frame.Seq)),
		KeyQueued.Field(frame.Queued),
	)
	if c.metrics != nil {
		c.metrics.OnTransitionStart()
	}

	finished := c.platform.Animate(func() {
		c.render(frame, start)
	})

	if c.syncMode {
		c.mu.Lock()
		c.settling = append(c.settling, inFlight{frame: frame, finished: finished, start: start})
		c.mu.Unlock()
		return
	}

	go c.await(frame, finished, start)
}

// render commits the mutation inside a forced synchronous flush so the
// platform's "after" snapshot sees every update the mutation caused. A
// pipeline error is recorded but does not abort the frame; the platform
// animates whatever state was committed.
func (c *Conductor[E]) render(frame *Frame, start time.Time) {
	c.flusher.FlushSync(func() {
		if _, err := c.pipeline.Process(frame.ctx, frame); err != nil {
			c.recordFailure(frame, StageMutation, err)
			capitan.Emit(frame.ctx, MutationFailed,
				KeySeq.Field(int(frame.Seq)),
				KeyError.Field(err.Error()),
			)
			if c.metrics != nil {
				c.metrics.OnTransitionFailure(StageMutation, c.clock.Since(start))
			}
		}
	})
}

// await blocks until the platform settles the frame, bounded by the settle
// timeout when one is configured.
func (c *Conductor[E]) await(frame *Frame, finished <-chan error, start time.Time) {
	if c.settleTimeout <= 0 {
		c.complete(frame, <-finished, start)
		return
	}

	timer := c.clock.NewTimer(c.settleTimeout)
	defer timer.Stop()

	select {
	case err := <-finished:
		c.complete(frame, err, start)
	case <-timer.C():
		c.complete(frame, ErrSettleTimeout, start)
	}
}

// complete finalizes a settled frame: records the outcome, then either
// chains the next queued frame with no idle gap or returns to idle. Queued
// frames whose platform support vanished while they waited run as direct
// mutations, preserving arrival order.
func (c *Conductor[E]) complete(frame *Frame, err error, start time.Time) {
	elapsed := c.clock.Since(start)

	if err != nil {
		stage := StageAnimation
		if errors.Is(err, ErrSettleTimeout) {
			stage = StageSettle
		}
		c.recordFailure(frame, stage, err)
		capitan.Emit(frame.ctx, TransitionFailed,
			KeySeq.Field(int(frame.Seq)),
			KeyStage.Field(stage),
			KeyError.Field(err.Error()),
			KeyElapsed.Field(elapsed),
		)
		if c.metrics != nil {
			c.metrics.OnTransitionFailure(stage, elapsed)
		}
	} else {
		capitan.Emit(frame.ctx, TransitionFinished,
			KeySeq.Field(int(frame.Seq)),
			KeyElapsed.Field(elapsed),
		)
		if c.metrics != nil {
			c.metrics.OnTransitionSuccess(elapsed)
		}
	}

	c.mu.Lock()
	for len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		if !c.platform.Supported() {
			c.mu.Unlock()
			next.Queued = c.clock.Since(next.enqueuedAt)
			c.fallback(next, "unsupported")
			c.mu.Lock()
			continue
		}
		c.mu.Unlock()

		next.Queued = c.clock.Since(next.enqueuedAt)
		c.begin(next)
		return
	}
	c.state.Store(int32(StateIdle))
	c.mu.Unlock()

	c.announceState(frame.ctx, StateInFlight, StateIdle)
}

// fallback runs a frame as a direct mutation with no animation, no forced
// flush, and no state change. Used when the platform is unsupported and for
// frames drained by Stop.
func (c *Conductor[E]) fallback(frame *Frame, reason string) {
	capitan.Emit(frame.ctx, TransitionFallback,
		KeySeq.Field(int(frame.Seq)),
		KeyReason.Field(reason),
	)
	if c.metrics != nil {
		c.metrics.OnFallback()
	}

	start := c.clock.Now()
	if _, err := c.pipeline.Process(frame.ctx, frame); err != nil {
		c.recordFailure(frame, StageMutation, err)
		capitan.Emit(frame.ctx, MutationFailed,
			KeySeq.Field(int(frame.Seq)),
			KeyError.Field(err.Error()),
		)
		if c.metrics != nil {
			c.metrics.OnTransitionFailure(StageMutation, c.clock.Since(start))
		}
	}
}

// announceState reports an idle/in-flight edge to signal and metrics
// observers. Call with no locks held; hooks may re-enter the Conductor.
func (c *Conductor[E]) announceState(ctx context.Context, oldState, newState State) {
	capitan.Emit(ctx, ConductorStateChanged,
		KeyOldState.Field(oldState.String()),
		KeyNewState.Field(newState.String()),
	)
	if c.metrics != nil {
		c.metrics.OnStateChange(oldState, newState)
	}
}

// recordFailure stores a failure for LastFailure and the history ring.
func (c *Conductor[E]) recordFailure(frame *Frame, stage string, err error) {
	f := Failure{Seq: frame.Seq, Stage: stage, Err: err, At: c.clock.Now()}
	c.lastFailure.Store(&f)
	c.history.push(f)
}
