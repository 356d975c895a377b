package segue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// triggerStyle is the shared timing rule for standalone triggers. It is
// created lazily on first use, re-parameterized on every call, and never
// released; no lifecycle owns it. When a call targets a different sink the
// rule moves there and the old sink's copy is removed, so the process holds
// at most one resident trigger rule.
var (
	triggerMu    sync.Mutex
	triggerStyle *styleResource
)

// triggerConfig holds per-call configuration for Trigger.
type triggerConfig struct {
	timing  Timing
	flusher Flusher
	styles  StyleSink
}

// TriggerOption configures a single Trigger call.
type TriggerOption func(*triggerConfig)

// TriggerDuration sets the animation duration for this call.
// Default: DefaultDuration.
func TriggerDuration(d time.Duration) TriggerOption {
	return func(c *triggerConfig) {
		c.timing.Duration = d
	}
}

// TriggerEasing sets the animation timing function for this call.
// Default: DefaultEasing.
func TriggerEasing(easing string) TriggerOption {
	return func(c *triggerConfig) {
		c.timing.Easing = easing
	}
}

// TriggerTheme sets both timing parameters from a loaded Theme.
func TriggerTheme(theme Theme) TriggerOption {
	return func(c *triggerConfig) {
		c.timing = theme.Timing()
	}
}

// TriggerFlusher sets how pending UI updates are forced to commit inside the
// render step. Default: run the mutation as-is; nil keeps the default.
func TriggerFlusher(f Flusher) TriggerOption {
	return func(c *triggerConfig) {
		if f == nil {
			return
		}
		c.flusher = f
	}
}

// TriggerStyles sets the sink that receives the shared trigger timing rule.
// Default: the process-wide shared sink.
func TriggerStyles(sink StyleSink) TriggerOption {
	return func(c *triggerConfig) {
		c.styles = sink
	}
}

// Trigger runs mutate inside a one-shot platform transition with no
// Conductor. The shared trigger timing rule is created on first use and
// re-parameterized on every call, so each trigger animates with the timing
// it was given.
//
// Unlike Conductor.Transition, Trigger does not serialize: overlapping calls
// each start their own platform transition and the platform resolves the
// overlap. There is no in-flight flag; completion is observable through the
// TriggerFinished and TriggerFailed signals.
//
// Trigger returns the mutation's error, if any. Animation failures and an
// unsupported platform are not errors; the mutation still ran.
func Trigger(ctx context.Context, platform Platform, mutate func(context.Context) error, opts ...TriggerOption) error {
	if platform == nil {
		return ErrNilPlatform
	}
	if mutate == nil {
		return ErrNilMutation
	}

	cfg := triggerConfig{
		timing:  defaultTiming(),
		flusher: directFlush{},
		styles:  defaultSink,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.timing.Validate(); err != nil {
		return fmt.Errorf("invalid timing: %w", err)
	}

	if !platform.Supported() {
		capitan.Emit(ctx, TriggerFallback,
			KeyReason.Field("unsupported"),
		)
		if err := mutate(ctx); err != nil {
			capitan.Emit(ctx, MutationFailed,
				KeyError.Field(err.Error()),
			)
			return err
		}
		return nil
	}

	if ensureTriggerStyle(cfg.styles, cfg.timing) {
		capitan.Emit(ctx, StyleInstalled,
			KeyStyleKey.Field(StyleKeyTrigger),
			KeyDuration.Field(cfg.timing.Duration),
			KeyEasing.Field(cfg.timing.Easing),
		)
	}

	start := clockz.RealClock.Now()
	capitan.Emit(ctx, TriggerFired,
		KeyDuration.Field(cfg.timing.Duration),
		KeyEasing.Field(cfg.timing.Easing),
	)

	var mutErr error
	finished := platform.Animate(func() {
		cfg.flusher.FlushSync(func() {
			mutErr = mutate(ctx)
		})
	})

	if mutErr != nil {
		capitan.Emit(ctx, MutationFailed,
			KeyError.Field(mutErr.Error()),
		)
	}

	go func() {
		if err := <-finished; err != nil {
			capitan.Emit(ctx, TriggerFailed,
				KeyError.Field(err.Error()),
				KeyElapsed.Field(clockz.RealClock.Since(start)),
			)
			return
		}
		capitan.Emit(ctx, TriggerFinished,
			KeyElapsed.Field(clockz.RealClock.Since(start)),
		)
	}()

	return mutErr
}

// ensureTriggerStyle creates or re-parameterizes the shared trigger rule,
// reporting whether this call created it. A sink change moves the rule:
// the old sink's copy is released before the rule lands in the new sink.
func ensureTriggerStyle(sink StyleSink, t Timing) bool {
	triggerMu.Lock()
	defer triggerMu.Unlock()

	if triggerStyle == nil || triggerStyle.sink != sink {
		if triggerStyle != nil {
			triggerStyle.release()
		}
		triggerStyle = &styleResource{sink: sink, key: StyleKeyTrigger}
	}
	created := !triggerStyle.installed
	triggerStyle.update(t)
	return created
}
