package status

import "testing"

func TestRegistry_CachedPointers(t *testing.T) {
	r := NewRegistry()

	a := r.Ints.Get("seasonal.count")
	b := r.Ints.Get("seasonal.count")
	if a != b {
		t.Fatal("Get must return the cached pointer for an existing key")
	}

	a.Store(7)
	if got := r.Ints.Get("seasonal.count").Load(); got != 7 {
		t.Errorf("seasonal.count = %d, want 7", got)
	}
}

func TestRegistry_Snapshot(t *testing.T) {
	r := NewRegistry()
	r.Ints.Get("b.count").Store(3)
	r.Floats.Get("a.offset").Set(1.5)
	r.Bools.Get("c.armed").Store(true)
	r.Strings.Get("d.season").Store("a-very-long-season-identifier-value")

	entries := r.Snapshot()
	if len(entries) != 4 {
		t.Fatalf("Snapshot returned %d entries, want 4", len(entries))
	}

	want := []Entry{
		{Key: "a.offset", Value: "1.5000"},
		{Key: "b.count", Value: "3"},
		{Key: "c.armed", Value: "true"},
		{Key: "d.season", Value: "a-very-long-season-ident"},
	}
	for i, w := range want {
		if entries[i] != w {
			t.Errorf("entry %d = %+v, want %+v", i, entries[i], w)
		}
	}
}

func TestAtomicFloat_Add(t *testing.T) {
	var f AtomicFloat
	f.Set(1.25)
	if got := f.Add(0.75); got != 2.0 {
		t.Errorf("Add returned %v, want 2", got)
	}
}

func TestMetricMap_Keys(t *testing.T) {
	m := NewMetricMap[AtomicString]()
	m.Get("tides.reference")
	m.Get("climate.season").Store("winter")

	keys := m.Keys()
	if len(keys) != 2 || keys[0] != "climate.season" || keys[1] != "tides.reference" {
		t.Errorf("Keys = %v", keys)
	}
	if !m.Has("climate.season") || m.Has("missing") {
		t.Error("Has disagrees with Get")
	}
	if got := m.Get("climate.season").Load(); got != "winter" {
		t.Errorf("season = %q", got)
	}
}
