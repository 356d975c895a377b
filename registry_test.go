package segue

import (
	"fmt"
	"sort"
	"sync"
	"testing"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	registry := NewRegistry[*testElement]()

	hero := &testElement{id: "hero"}
	registry.Register("card-3", hero)

	got, ok := registry.Lookup("card-3")
	if !ok {
		t.Fatal("expected registered element")
	}
	if got != hero {
		t.Error("expected same element handle back")
	}
}

func TestRegistry_LookupMissing(t *testing.T) {
	registry := NewRegistry[*testElement]()

	got, ok := registry.Lookup("ghost")
	if ok {
		t.Error("expected missing name to report false")
	}
	if got != nil {
		t.Errorf("expected zero handle, got %v", got)
	}
}

func TestRegistry_UnregisterRemoves(t *testing.T) {
	registry := NewRegistry[*testElement]()

	registry.Register("card-3", &testElement{id: "hero"})
	registry.Unregister("card-3")

	if _, ok := registry.Lookup("card-3"); ok {
		t.Error("expected element removed")
	}
}

func TestRegistry_UnregisterAbsent(t *testing.T) {
	registry := NewRegistry[*testElement]()

	// Must not panic or error
	registry.Unregister("never-registered")

	if registry.Len() != 0 {
		t.Errorf("expected empty registry, got %d", registry.Len())
	}
}

func TestRegistry_NilHandleRemoves(t *testing.T) {
	registry := NewRegistry[*testElement]()

	registry.Register("card-3", &testElement{id: "hero"})
	registry.Register("card-3", nil)

	if _, ok := registry.Lookup("card-3"); ok {
		t.Error("expected nil registration to remove the entry")
	}
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	registry := NewRegistry[*testElement]()

	old := &testElement{id: "old"}
	replacement := &testElement{id: "new"}
	registry.Register("card-3", old)
	registry.Register("card-3", replacement)

	got, ok := registry.Lookup("card-3")
	if !ok {
		t.Fatal("expected registered element")
	}
	if got != replacement {
		t.Errorf("expected later registration kept, got %s", got.id)
	}
	if registry.Len() != 1 {
		t.Errorf("expected single entry, got %d", registry.Len())
	}
}

func TestRegistry_Names(t *testing.T) {
	registry := NewRegistry[*testElement]()

	registry.Register("hero", &testElement{id: "a"})
	registry.Register("sidebar", &testElement{id: "b"})

	names := registry.Names()
	sort.Strings(names)
	if len(names) != 2 || names[0] != "hero" || names[1] != "sidebar" {
		t.Errorf("expected [hero sidebar], got %v", names)
	}
}

func TestRegistry_ValueHandles(t *testing.T) {
	registry := NewRegistry[string]()

	registry.Register("hero", "node-42")

	got, ok := registry.Lookup("hero")
	if !ok || got != "node-42" {
		t.Errorf("expected node-42, got %q (ok=%v)", got, ok)
	}

	// The zero value of a non-nil-able type is a real registration
	registry.Register("empty", "")
	if _, ok := registry.Lookup("empty"); !ok {
		t.Error("expected empty string handle to register")
	}
}

func TestRegistry_ListReordering(t *testing.T) {
	registry := NewRegistry[*testElement]()

	// Rows register under stable per-key names
	rows := []string{"a", "b", "c"}
	for _, key := range rows {
		registry.Register(ItemName("gallery", key), &testElement{id: key})
	}
	if registry.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", registry.Len())
	}

	// Reordering re-registers the same names; the set is unchanged
	for _, key := range []string{"c", "a", "b"} {
		registry.Register(ItemName("gallery", key), &testElement{id: key})
	}
	if registry.Len() != 3 {
		t.Errorf("expected 3 rows after reorder, got %d", registry.Len())
	}

	// A removed row unregisters; a stale second unregister is harmless
	registry.Unregister(ItemName("gallery", "b"))
	registry.Unregister(ItemName("gallery", "b"))
	if registry.Len() != 2 {
		t.Errorf("expected 2 rows after removal, got %d", registry.Len())
	}
	if _, ok := registry.Lookup(ItemName("gallery", "a")); !ok {
		t.Error("expected surviving row to stay registered")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry[*testElement]()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("card-%d", n)
			el := &testElement{id: name}
			for j := 0; j < 100; j++ {
				registry.Register(name, el)
				registry.Lookup(name)
				registry.Names()
				registry.Unregister(name)
			}
		}(i)
	}
	wg.Wait()

	if registry.Len() != 0 {
		t.Errorf("expected empty registry after churn, got %d", registry.Len())
	}
}

func TestItemName_WithPrefix(t *testing.T) {
	if got := ItemName("gallery", "42"); got != "gallery-42" {
		t.Errorf("expected gallery-42, got %q", got)
	}
}

func TestItemName_EmptyPrefix(t *testing.T) {
	if got := ItemName("", "42"); got != DefaultItemPrefix+"-42" {
		t.Errorf("expected default prefix, got %q", got)
	}
}
