package segue

import (
	"testing"
	"time"
)

func TestIsEasing_Keywords(t *testing.T) {
	keywords := []string{
		"linear", "ease", "ease-in", "ease-out", "ease-in-out",
		"step-start", "step-end",
	}
	for _, kw := range keywords {
		if !IsEasing(kw) {
			t.Errorf("expected %q to validate", kw)
		}
	}
}

func TestIsEasing_FunctionalForms(t *testing.T) {
	forms := []string{
		"cubic-bezier(0.4, 0, 0.2, 1)",
		"cubic-bezier(0,0,1,1)",
		"steps(4, end)",
		"steps(1)",
		"linear(0, 0.5, 1)",
	}
	for _, form := range forms {
		if !IsEasing(form) {
			t.Errorf("expected %q to validate", form)
		}
	}
}

func TestIsEasing_Invalid(t *testing.T) {
	invalid := []string{
		"",
		"bounce",
		"cubic-bezier",
		"cubic-bezier()",
		"cubic-bezier(   )",
		"steps(4, end",
		"ease(1)",
		"(0.4)",
		"cubic-bezier(0.4))(",
		"cubic-bezier((0.4))",
	}
	for _, s := range invalid {
		if IsEasing(s) {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestTiming_ValidateDefaults(t *testing.T) {
	if err := defaultTiming().Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestTiming_ValidateZeroDuration(t *testing.T) {
	timing := Timing{Duration: 0, Easing: "linear"}
	if err := timing.Validate(); err == nil {
		t.Error("expected error for zero duration")
	}
}

func TestTiming_ValidateNegativeDuration(t *testing.T) {
	timing := Timing{Duration: -time.Second, Easing: "linear"}
	if err := timing.Validate(); err == nil {
		t.Error("expected error for negative duration")
	}
}

func TestTiming_ValidateEmptyEasing(t *testing.T) {
	timing := Timing{Duration: 300 * time.Millisecond, Easing: ""}
	if err := timing.Validate(); err == nil {
		t.Error("expected error for empty easing")
	}
}

func TestTiming_ValidateBadEasing(t *testing.T) {
	timing := Timing{Duration: 300 * time.Millisecond, Easing: "bounce"}
	if err := timing.Validate(); err == nil {
		t.Error("expected error for unknown easing")
	}
}
