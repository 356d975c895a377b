package segue

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Timing defaults applied when a Conductor or Trigger is given no overrides.
const (
	// DefaultDuration is the default animation duration.
	DefaultDuration = 300 * time.Millisecond

	// DefaultEasing is the default animation timing function.
	DefaultEasing = "cubic-bezier(0.4,0,0.2,1)"
)

// validate is the shared validator instance, with the custom easing rule
// registered for Timing and Theme fields.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("easing", func(fl validator.FieldLevel) bool {
		return IsEasing(fl.Field().String())
	})
	return v
}

// Timing parameterizes the platform animation. It is fixed at Conductor
// construction and immutable for the Conductor's lifetime; the standalone
// Trigger re-reads it on every call.
type Timing struct {
	// Duration is how long the platform animates between snapshots.
	Duration time.Duration `validate:"gt=0"`

	// Easing is the animation timing function, as a CSS easing-function
	// string: a keyword like "ease-out" or a functional form like
	// "cubic-bezier(0.4,0,0.2,1)".
	Easing string `validate:"required,easing"`
}

// Validate checks the timing parameters: the duration must be positive and
// the easing must be a valid easing-function string.
func (t Timing) Validate() error {
	return validate.Struct(t)
}

// defaultTiming returns the package defaults.
func defaultTiming() Timing {
	return Timing{Duration: DefaultDuration, Easing: DefaultEasing}
}

// IsEasing reports whether s is a valid easing-function string: one of the
// CSS keywords, or a cubic-bezier/steps/linear functional form with
// non-empty arguments. Argument values are not range-checked; that is the
// platform's job.
func IsEasing(s string) bool {
	switch s {
	case "linear", "ease", "ease-in", "ease-out", "ease-in-out", "step-start", "step-end":
		return true
	}

	open := strings.IndexByte(s, '(')
	if open <= 0 || !strings.HasSuffix(s, ")") {
		return false
	}
	switch s[:open] {
	case "cubic-bezier", "steps", "linear":
	default:
		return false
	}
	if strings.Count(s, "(") != 1 || strings.Count(s, ")") != 1 {
		return false
	}
	args := strings.TrimSpace(s[open+1 : len(s)-1])
	return args != ""
}
