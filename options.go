package segue

import (
	"context"
	"time"

	"github.com/zoobzio/pipz"
)

// Option wraps the mutation pipeline with additional processing. Options
// compose outside-in: the first option passed to New becomes the outermost
// wrapper, so it sees the frame first and any error last.
type Option func(pipz.Chainable[*Frame]) pipz.Chainable[*Frame]

// buildPipeline composes options around the terminal mutation step.
func buildPipeline(terminal pipz.Chainable[*Frame], opts []Option) pipz.Chainable[*Frame] {
	p := terminal
	for i := len(opts) - 1; i >= 0; i-- {
		p = opts[i](p)
	}
	return p
}

// WithMiddleware wraps the pipeline with a custom pipz chainable. Use this
// for processing the built-in options don't cover:
//
//	conductor := segue.New[dom.Element](platform,
//	    segue.WithMiddleware(func(next pipz.Chainable[*segue.Frame]) pipz.Chainable[*segue.Frame] {
//	        return pipz.NewCircuitBreaker("mutations", next, 5, time.Minute)
//	    }),
//	)
func WithMiddleware(mw func(pipz.Chainable[*Frame]) pipz.Chainable[*Frame]) Option {
	return Option(mw)
}

// WithTimeout bounds how long a mutation may run. The frame still animates
// on whatever state was committed before the deadline; the timeout is
// reported as a mutation failure.
func WithTimeout(d time.Duration) Option {
	return func(next pipz.Chainable[*Frame]) pipz.Chainable[*Frame] {
		return pipz.NewTimeout("mutation-timeout", next, d)
	}
}

// WithErrorHandler routes mutation failures to a handler for logging,
// alerting, or cleanup. The handler observes errors; it cannot recover them:
//
//	segue.WithErrorHandler(pipz.Effect("log", func(_ context.Context, err *pipz.Error[*segue.Frame]) error {
//	    log.Printf("mutation %d failed: %v", err.InputData.Seq, err.Err)
//	    return nil
//	}))
func WithErrorHandler(handler pipz.Chainable[*pipz.Error[*Frame]]) Option {
	return func(next pipz.Chainable[*Frame]) pipz.Chainable[*Frame] {
		return pipz.NewHandle("mutation-errors", next, handler)
	}
}

// UseEffect runs a side effect before the mutation. Returning an error
// aborts the mutation; the frame still animates unchanged.
func UseEffect(name pipz.Name, fn func(context.Context, *Frame) error) Option {
	return func(next pipz.Chainable[*Frame]) pipz.Chainable[*Frame] {
		return pipz.NewSequence(name+"-seq", pipz.Effect(name, fn), next)
	}
}

// UseTransform rewrites the frame before the mutation.
func UseTransform(name pipz.Name, fn func(context.Context, *Frame) *Frame) Option {
	return func(next pipz.Chainable[*Frame]) pipz.Chainable[*Frame] {
		return pipz.NewSequence(name+"-seq", pipz.Transform(name, fn), next)
	}
}

// UseApply rewrites the frame before the mutation and may fail.
func UseApply(name pipz.Name, fn func(context.Context, *Frame) (*Frame, error)) Option {
	return func(next pipz.Chainable[*Frame]) pipz.Chainable[*Frame] {
		return pipz.NewSequence(name+"-seq", pipz.Apply(name, fn), next)
	}
}

// UseFilter runs a processor only for frames matching the condition. Frames
// that don't match skip the processor and continue to the mutation.
func UseFilter(name pipz.Name, cond func(context.Context, *Frame) bool, proc pipz.Chainable[*Frame]) Option {
	return func(next pipz.Chainable[*Frame]) pipz.Chainable[*Frame] {
		return pipz.NewSequence(name+"-seq", pipz.NewFilter(name, cond, proc), next)
	}
}

// UseRateLimit throttles mutations to the given rate. Frames beyond the
// burst wait for capacity before mutating.
func UseRateLimit(name pipz.Name, perSecond float64, burst int) Option {
	return func(next pipz.Chainable[*Frame]) pipz.Chainable[*Frame] {
		return pipz.NewSequence(name+"-seq", pipz.NewRateLimiter[*Frame](name, perSecond, burst), next)
	}
}
