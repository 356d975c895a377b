package segue

import (
	"reflect"
	"sync"
)

// DefaultItemPrefix is the scene-name prefix list wrappers use when the
// caller does not supply one.
const DefaultItemPrefix = "segue-item"

// ItemName derives the scene name for one row of a list: prefix + "-" + key.
// The key must be stable and unique per row across reorderings or the
// platform will match the wrong pairs. An empty prefix falls back to
// DefaultItemPrefix.
func ItemName(prefix, key string) string {
	if prefix == "" {
		prefix = DefaultItemPrefix
	}
	return prefix + "-" + key
}

// Registry maps scene names to live element handles. It is pure bookkeeping:
// it has no awareness of the transition protocol and never owns an element's
// lifetime; the rendering tree does. Wrapper elements register on mount and
// unregister on unmount, and the platform's snapshot matching, not the
// Conductor, is what consumes the names.
//
// Scene-name uniqueness is the caller's responsibility. Two live elements
// sharing a name is undefined behavior for the platform; the registry simply
// keeps the later registration.
type Registry[E any] struct {
	mu     sync.RWMutex
	scenes map[string]E
}

// NewRegistry creates an empty Registry.
func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{scenes: make(map[string]E)}
}

// Register stores or replaces the handle for name. Registering the zero
// value of a nil-able handle type (pointer, interface, map, slice, channel,
// or function) removes the entry instead, so unmount paths that null out
// their reference behave like Unregister.
func (r *Registry[E]) Register(name string, el E) {
	if isNilHandle(el) {
		r.Unregister(name)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenes[name] = el
}

// Unregister removes the entry for name if present. Removing an absent name
// is a no-op, never an error.
func (r *Registry[E]) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.scenes, name)
}

// Lookup returns the handle registered under name and true, or the zero
// value and false.
func (r *Registry[E]) Lookup(name string) (E, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	el, ok := r.scenes[name]
	return el, ok
}

// Names returns the currently registered scene names in unspecified order.
func (r *Registry[E]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.scenes))
	for name := range r.scenes {
		names = append(names, name)
	}
	return names
}

// Len returns the number of registered scenes.
func (r *Registry[E]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.scenes)
}

// isNilHandle reports whether el is the nil value of a nil-able kind.
// Non-nil-able kinds (structs, ints, strings) are never nil handles.
func isNilHandle(el any) bool {
	if el == nil {
		return true
	}
	v := reflect.ValueOf(el)
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}
