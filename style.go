package segue

import (
	"fmt"
	"sync"
)

// Style resource keys. The conductor-scoped rule and the trigger-scoped rule
// live under distinct keys so the two owners never clobber each other's
// timing parameters.
const (
	// StyleKeyConductor is the stylesheet key for conductor-owned timing rules.
	StyleKeyConductor = "segue-conductor-timing"

	// StyleKeyTrigger is the stylesheet key for the trigger-owned timing rule.
	StyleKeyTrigger = "segue-trigger-timing"
)

// StyleSink is where timing rules are installed, typically a keyed slot in
// the host document's stylesheets. Implementations must tolerate removal of
// absent keys and must be safe for concurrent use.
type StyleSink interface {
	// Insert installs rule under key, replacing any rule already there.
	Insert(key, rule string)

	// Remove deletes the rule under key if present.
	Remove(key string)

	// Has reports whether a rule exists under key.
	Has(key string) bool
}

// defaultSink receives timing rules from owners that don't configure a sink.
// One process-wide sink gives conductors and triggers the same dedupe
// behavior as keyed rules in a single document head.
var defaultSink StyleSink = NewMemorySink()

// MemorySink is a map-backed StyleSink for tests, headless hosts, and server
// rendering. Rules are retrievable with Rule for inspection.
type MemorySink struct {
	mu    sync.RWMutex
	rules map[string]string
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{rules: make(map[string]string)}
}

// Insert installs rule under key, replacing any existing rule.
func (s *MemorySink) Insert(key, rule string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[key] = rule
}

// Remove deletes the rule under key if present.
func (s *MemorySink) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rules, key)
}

// Has reports whether a rule exists under key.
func (s *MemorySink) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rules[key]
	return ok
}

// Rule returns the rule stored under key and true, or "" and false.
func (s *MemorySink) Rule(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[key]
	return rule, ok
}

// Len returns the number of stored rules.
func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// styleRule renders the stylesheet text that parameterizes the platform
// animation for both captured snapshots.
func styleRule(t Timing) string {
	return fmt.Sprintf(
		"::view-transition-old(root),\n::view-transition-new(root) {\n  animation-duration: %dms;\n  animation-timing-function: %s;\n}",
		t.Duration.Milliseconds(), t.Easing,
	)
}

// styleResource is one keyed timing rule bound to an owner's lifecycle.
// ensure is idempotent per key and release happens at most once; only the
// owner that actually installed the rule removes it, so two owners sharing a
// sink and key follow first-writer-wins without clobbering each other.
type styleResource struct {
	sink      StyleSink
	key       string
	installed bool
}

// ensure installs the rule if the key is vacant. A rule already present,
// whether installed by this owner or any other, is left untouched; the first
// writer's parameters hold for that owner's lifetime.
func (r *styleResource) ensure(t Timing) bool {
	if r.sink.Has(r.key) {
		return false
	}
	r.sink.Insert(r.key, styleRule(t))
	r.installed = true
	return true
}

// update installs or re-parameterizes the rule unconditionally. Used by the
// trigger, whose resource is mutable per call.
func (r *styleResource) update(t Timing) {
	r.sink.Insert(r.key, styleRule(t))
	r.installed = true
}

// release removes the rule iff this owner installed it, reporting whether
// this call removed it. Safe to call more than once; only the first call
// removes.
func (r *styleResource) release() bool {
	if !r.installed {
		return false
	}
	r.installed = false
	r.sink.Remove(r.key)
	return true
}
