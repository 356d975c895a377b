package segue

import "sync"

// Platform is the host environment's native ability to snapshot the current
// visual state, apply a change, and animate between the two snapshots.
// Implementations wrap whatever primitive the host exposes; scene matching
// between the "before" and "after" snapshots is entirely the platform's job.
type Platform interface {
	// Supported reports whether the snapshot-and-animate primitive is
	// available. When false, every entry point falls back to running the
	// mutation directly with no animation.
	Supported() bool

	// Animate begins a transition. The render callback is invoked exactly
	// once, synchronously, at the moment the platform is ready to capture
	// the "after" snapshot. Any visual change not committed by the time
	// render returns is missing from the animated end state.
	//
	// The returned channel settles exactly once with the animation outcome:
	// nil on success, an error if the animation failed or was interrupted.
	// The mutation's effects are valid either way. Implementations should
	// settle via a buffered send or by closing the channel so late or
	// abandoned receivers never block the platform.
	Animate(render func()) <-chan error
}

// Flusher forces the host UI framework to apply pending state updates
// synchronously instead of on its usual deferred schedule. FlushSync runs fn
// inside such a forced commit: every tree update fn causes must be visible
// when FlushSync returns, because the platform captures the "after" snapshot
// immediately afterwards.
type Flusher interface {
	FlushSync(fn func())
}

// FlusherFunc adapts a function to the Flusher interface.
type FlusherFunc func(fn func())

// FlushSync calls f(fn).
func (f FlusherFunc) FlushSync(fn func()) { f(fn) }

// directFlush is the default Flusher for hosts with no deferred scheduling:
// there is nothing pending to commit, so fn runs as-is.
type directFlush struct{}

func (directFlush) FlushSync(fn func()) { fn() }

// Headless returns a Platform that is never supported. Useful for server
// rendering and headless tests where every transition should degrade to a
// direct mutation.
func Headless() Platform { return headless{} }

type headless struct{}

func (headless) Supported() bool { return false }

func (headless) Animate(render func()) <-chan error {
	// Unreachable through Conductor or Trigger, both of which check
	// Supported first. Behave sanely anyway for direct callers.
	render()
	ch := make(chan error, 1)
	ch <- nil
	return ch
}

// ManualPlatform is a Platform whose animations settle under caller control.
// Each Animate call invokes render synchronously, records it, and parks a
// pending handle until Settle is called. Useful for tests and for hosts that
// drive animation completion from their own scheduler.
type ManualPlatform struct {
	mu        sync.Mutex
	supported bool
	pending   []chan error
	renders   int
}

// NewManualPlatform creates a ManualPlatform reporting the given support.
func NewManualPlatform(supported bool) *ManualPlatform {
	return &ManualPlatform{supported: supported}
}

// Supported reports the support value the platform was created with.
func (p *ManualPlatform) Supported() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.supported
}

// SetSupported flips the support flag for subsequent calls.
func (p *ManualPlatform) SetSupported(supported bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.supported = supported
}

// Animate invokes render synchronously and parks a finished channel that
// settles when Settle is called.
func (p *ManualPlatform) Animate(render func()) <-chan error {
	render()

	ch := make(chan error, 1)
	p.mu.Lock()
	p.pending = append(p.pending, ch)
	p.renders++
	p.mu.Unlock()
	return ch
}

// Settle resolves the oldest unsettled animation with the given outcome.
// Returns false if no animation is pending.
func (p *ManualPlatform) Settle(err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		return false
	}
	ch := p.pending[0]
	p.pending = p.pending[1:]
	ch <- err
	return true
}

// Renders returns how many times a render callback has been invoked.
func (p *ManualPlatform) Renders() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renders
}

// Pending returns how many animations are awaiting Settle.
func (p *ManualPlatform) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}
