package ecs

import "testing"

func entitySet(t *testing.T, es []Entity) map[Entity]bool {
	t.Helper()
	m := make(map[Entity]bool, len(es))
	for _, e := range es {
		m[e] = true
	}
	return m
}

func TestFilterTracksMembershipOnAdd(t *testing.T) {
	w := NewWorld("filter-test")
	positions, _ := RegisterComponent[position](w)

	f, err := w.NewFilter().Inc(positions.ID()).End()
	if err != nil {
		t.Fatalf("End() error = %v", err)
	}

	a := w.NewEntity()
	b := w.NewEntity()
	positions.Add(a)

	if got := entitySet(t, f.Entities()); !got[a] || got[b] {
		t.Fatalf("filter membership = %v, want only %v present", got, a)
	}

	positions.Add(b)
	if got := entitySet(t, f.Entities()); !got[a] || !got[b] {
		t.Fatalf("filter membership = %v, want both %v and %v present", got, a, b)
	}
}

func TestFilterTracksMembershipOnDel(t *testing.T) {
	w := NewWorld("filter-test")
	positions, _ := RegisterComponent[position](w)

	f, _ := w.NewFilter().Inc(positions.ID()).End()
	a := w.NewEntity()
	positions.Add(a)

	if f.Len() != 1 {
		t.Fatalf("expected 1 member before Del, got %d", f.Len())
	}
	positions.Del(a)
	if f.Len() != 0 {
		t.Fatalf("expected 0 members after Del, got %d", f.Len())
	}
}

func TestFilterExcludeSemantics(t *testing.T) {
	w := NewWorld("filter-test")
	positions, _ := RegisterComponent[position](w)
	velocities, _ := RegisterComponent[velocity](w)

	f, _ := w.NewFilter().Inc(positions.ID()).Exc(velocities.ID()).End()

	a := w.NewEntity()
	positions.Add(a)
	if f.Len() != 1 {
		t.Fatalf("entity with only position should match, got %d members", f.Len())
	}

	velocities.Add(a)
	if f.Len() != 0 {
		t.Fatalf("adding the excluded type should drop the entity from the filter, got %d members", f.Len())
	}

	velocities.Del(a)
	if f.Len() != 1 {
		t.Fatalf("removing the excluded type should restore membership, got %d members", f.Len())
	}
}

func TestFilterInitialScanCapturesExistingEntities(t *testing.T) {
	w := NewWorld("filter-test")
	positions, _ := RegisterComponent[position](w)

	a := w.NewEntity()
	positions.Add(a)

	f, _ := w.NewFilter().Inc(positions.ID()).End()
	if f.Len() != 1 {
		t.Fatalf("filter created after entities already matched should scan them in, got %d members", f.Len())
	}
}

func TestFilterDeduplicatesByHash(t *testing.T) {
	w := NewWorld("filter-test")
	positions, _ := RegisterComponent[position](w)

	f1, _ := w.NewFilter().Inc(positions.ID()).End()
	f2, _ := w.NewFilter().Inc(positions.ID()).End()

	if f1 != f2 {
		t.Fatalf("two filters built from the same mask should return the same instance")
	}
}
