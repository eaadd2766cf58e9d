// ABOUTME: Tests for the grid state registry.
// ABOUTME: Covers initialization idempotence, the sort cycle, and persistence round-trips.

package grid

import (
	"testing"
)

func setupRegistry(t *testing.T) *Registry {
	t.Helper()
	reg, err := NewRegistry(NewMemoryPersister())
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	return reg
}

func TestInitializeIdempotent(t *testing.T) {
	reg := setupRegistry(t)
	cols := peopleColumns()

	if err := reg.Initialize("people", cols); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := reg.SetSearchTerm("people", "amy"); err != nil {
		t.Fatalf("SetSearchTerm failed: %v", err)
	}

	// Re-initializing must not reset customized state
	if err := reg.Initialize("people", cols); err != nil {
		t.Fatalf("Re-initialize failed: %v", err)
	}
	st, ok := reg.Get("people")
	if !ok {
		t.Fatal("Grid missing after re-initialize")
	}
	if st.SearchTerm != "amy" {
		t.Fatalf("Re-initialize reset search term: %q", st.SearchTerm)
	}
}

func TestSortCycle(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("g", peopleColumns())

	reg.CycleSort("g", "name")
	st, _ := reg.Get("g")
	if st.SortState.Direction != DirectionAsc || st.SortState.Column != "name" {
		t.Fatalf("First click should sort asc, got %+v", st.SortState)
	}

	reg.CycleSort("g", "name")
	st, _ = reg.Get("g")
	if st.SortState.Direction != DirectionDesc {
		t.Fatalf("Second click should sort desc, got %+v", st.SortState)
	}

	reg.CycleSort("g", "name")
	st, _ = reg.Get("g")
	if st.SortState.Column != "" || st.SortState.Direction != DirectionNone {
		t.Fatalf("Third click should clear sort, got %+v", st.SortState)
	}
}

func TestSortCycleSwitchingColumnsRestartsAtAsc(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("g", peopleColumns())

	reg.CycleSort("g", "name")
	reg.CycleSort("g", "name")
	reg.CycleSort("g", "age")
	st, _ := reg.Get("g")
	if st.SortState.Column != "age" || st.SortState.Direction != DirectionAsc {
		t.Fatalf("Switching columns should restart at asc, got %+v", st.SortState)
	}
}

func TestToggleColumnVisibilityIdempotentPair(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("g", peopleColumns())

	reg.ToggleColumnVisibility("g", "city")
	st, _ := reg.Get("g")
	if st.Columns[2].Visible {
		t.Fatal("Toggle did not hide column")
	}

	reg.ToggleColumnVisibility("g", "city")
	st, _ = reg.Get("g")
	if !st.Columns[2].Visible {
		t.Fatal("Second toggle did not restore column")
	}

	// Unknown id is a silent no-op
	if err := reg.ToggleColumnVisibility("g", "bogus"); err != nil {
		t.Fatalf("Unknown column errored: %v", err)
	}
}

func TestResetColumnConfiguration(t *testing.T) {
	reg := setupRegistry(t)
	initial := peopleColumns()
	reg.Initialize("g", initial)

	reg.ToggleColumnVisibility("g", "name")
	reg.ToggleColumnVisibility("g", "age")
	reg.ResetColumnConfiguration("g", initial)

	st, _ := reg.Get("g")
	for _, col := range st.Columns {
		if !col.Visible {
			t.Fatalf("Reset did not restore %s", col.ID)
		}
	}
}

func TestToggleRowExpanded(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("g", peopleColumns())

	if reg.IsRowExpanded("g", "1") {
		t.Fatal("Row expanded before toggle")
	}
	reg.ToggleRowExpanded("g", "1")
	reg.ToggleRowExpanded("g", GroupRowID("Santiago"))
	if !reg.IsRowExpanded("g", "1") || !reg.IsRowExpanded("g", "group-Santiago") {
		t.Fatal("Toggle did not expand")
	}
	reg.ToggleRowExpanded("g", "1")
	if reg.IsRowExpanded("g", "1") {
		t.Fatal("Second toggle did not collapse")
	}
	if !reg.IsRowExpanded("g", "group-Santiago") {
		t.Fatal("Collapsing one row touched another")
	}
}

func TestGridsAreIndependent(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("a", peopleColumns())
	reg.Initialize("b", peopleColumns())

	reg.SetSearchTerm("a", "foo")
	reg.CycleSort("a", "name")

	st, _ := reg.Get("b")
	if st.SearchTerm != "" || st.SortState.Column != "" {
		t.Fatalf("Grid b observed grid a's state: %+v", st)
	}
}

func TestUnknownGridIsNoOp(t *testing.T) {
	reg := setupRegistry(t)
	if err := reg.SetSearchTerm("ghost", "x"); err != nil {
		t.Fatalf("Unknown grid errored: %v", err)
	}
	if _, ok := reg.Get("ghost"); ok {
		t.Fatal("No-op mutation created a grid")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	p := NewMemoryPersister()
	reg, err := NewRegistry(p)
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}

	reg.Initialize("g", peopleColumns())
	reg.SetSearchTerm("g", "talca")
	reg.CycleSort("g", "age")
	reg.ToggleColumnVisibility("g", "name")
	reg.ToggleRowExpanded("g", "2")

	// A fresh registry over the same persister sees the same state
	reborn, err := NewRegistry(p)
	if err != nil {
		t.Fatalf("Failed to rehydrate: %v", err)
	}
	st, ok := reborn.Get("g")
	if !ok {
		t.Fatal("Grid lost across restart")
	}
	if st.SearchTerm != "talca" {
		t.Fatalf("Search term lost: %q", st.SearchTerm)
	}
	if st.SortState.Column != "age" || st.SortState.Direction != DirectionAsc {
		t.Fatalf("Sort state lost: %+v", st.SortState)
	}
	if st.Columns[0].Visible {
		t.Fatal("Column visibility lost")
	}
	if !reborn.IsRowExpanded("g", "2") {
		t.Fatal("Expanded rows lost")
	}
}

func TestKVPersisterRoundTrip(t *testing.T) {
	kv := &fakeKV{values: map[string]string{}}
	p := NewKVPersister(kv)

	reg, err := NewRegistry(p)
	if err != nil {
		t.Fatalf("Failed to create registry: %v", err)
	}
	reg.Initialize("g", peopleColumns())
	reg.SetSearchTerm("g", "vid")

	if _, ok := kv.values[StorageKey]; !ok {
		t.Fatalf("Nothing written under %q", StorageKey)
	}

	reborn, err := NewRegistry(NewKVPersister(kv))
	if err != nil {
		t.Fatalf("Failed to rehydrate: %v", err)
	}
	st, ok := reborn.Get("g")
	if !ok || st.SearchTerm != "vid" {
		t.Fatalf("KV round trip lost state: ok=%v st=%+v", ok, st)
	}
}

type fakeKV struct {
	values map[string]string
}

func (f *fakeKV) GetSetting(key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeKV) PutSetting(key, value string) error {
	f.values[key] = value
	return nil
}
