// ABOUTME: Tests for the view pipeline: filtering, sorting, grouping.
// ABOUTME: Exercises null handling, stability, and visibility-scoped search.

package grid

import (
	"testing"
	"time"
)

func peopleColumns() []Column {
	return []Column{
		{ID: "name", Header: "Name", Accessor: "name", Visible: true, Sortable: true},
		{ID: "age", Header: "Age", Accessor: "age", Visible: true, Sortable: true},
		{ID: "city", Header: "City", Accessor: "city", Visible: true, Sortable: true, Groupable: true},
	}
}

func peopleRows() []Row {
	return []Row{
		{"id": "1", "name": "Carla", "age": 41, "city": "Santiago"},
		{"id": "2", "name": "Amy", "age": 30, "city": "Talca"},
		{"id": "3", "name": "Bob", "age": nil, "city": "Santiago"},
		{"id": "4", "name": "Diego", "age": 25, "city": "Talca"},
	}
}

func TestFilterMatchesVisibleColumnsOnly(t *testing.T) {
	cols := peopleColumns()
	rows := peopleRows()

	out := Filter(rows, cols, "talca")
	if len(out) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(out))
	}

	// Hide the city column: the same term no longer matches anything
	cols[2].Visible = false
	out = Filter(rows, cols, "talca")
	if len(out) != 0 {
		t.Fatalf("Hidden column matched search: got %d rows", len(out))
	}
}

func TestFilterEmptyTermReturnsAll(t *testing.T) {
	rows := peopleRows()
	out := Filter(rows, peopleColumns(), "")
	if len(out) != len(rows) {
		t.Fatalf("Expected all %d rows, got %d", len(rows), len(out))
	}
}

func TestFilterCaseInsensitive(t *testing.T) {
	out := Filter(peopleRows(), peopleColumns(), "AMY")
	if len(out) != 1 || out[0]["name"] != "Amy" {
		t.Fatalf("Case-insensitive match failed: %v", out)
	}
}

func TestSortNullsLast(t *testing.T) {
	rows := peopleRows()

	asc := Sort(rows, SortState{Column: "age", Direction: DirectionAsc})
	if asc[0]["name"] != "Diego" || asc[1]["name"] != "Amy" || asc[2]["name"] != "Carla" {
		t.Fatalf("Ascending order wrong: %v %v %v", asc[0]["name"], asc[1]["name"], asc[2]["name"])
	}
	if asc[3]["name"] != "Bob" {
		t.Fatalf("Expected nil age last in asc, got %v", asc[3]["name"])
	}

	desc := Sort(rows, SortState{Column: "age", Direction: DirectionDesc})
	if desc[0]["name"] != "Carla" {
		t.Fatalf("Expected Carla first in desc, got %v", desc[0]["name"])
	}
	if desc[3]["name"] != "Bob" {
		t.Fatalf("Expected nil age last in desc too, got %v", desc[3]["name"])
	}
}

func TestSortStable(t *testing.T) {
	rows := []Row{
		{"id": "a", "group": "x", "n": 1},
		{"id": "b", "group": "x", "n": 2},
		{"id": "c", "group": "x", "n": 3},
	}
	out := Sort(rows, SortState{Column: "group", Direction: DirectionAsc})
	if out[0]["id"] != "a" || out[1]["id"] != "b" || out[2]["id"] != "c" {
		t.Fatalf("Equal keys did not keep input order: %v %v %v", out[0]["id"], out[1]["id"], out[2]["id"])
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	rows := peopleRows()
	first := rows[0]["name"]
	Sort(rows, SortState{Column: "name", Direction: DirectionAsc})
	if rows[0]["name"] != first {
		t.Fatal("Sort mutated input slice")
	}
}

func TestSortDates(t *testing.T) {
	d := func(s string) time.Time {
		tm, _ := time.Parse("2006-01-02", s)
		return tm
	}
	rows := []Row{
		{"id": "1", "when": d("2024-06-01")},
		{"id": "2", "when": d("2023-01-15")},
		{"id": "3", "when": d("2025-03-09")},
	}
	out := Sort(rows, SortState{Column: "when", Direction: DirectionAsc})
	if out[0]["id"] != "2" || out[2]["id"] != "3" {
		t.Fatalf("Date sort wrong: %v %v %v", out[0]["id"], out[1]["id"], out[2]["id"])
	}
}

func TestGroupPartition(t *testing.T) {
	rows := peopleRows()
	groups := GroupRows(rows, GroupState{Column: "city"})

	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	// First-occurrence order
	if groups[0].Key != "Santiago" || groups[1].Key != "Talca" {
		t.Fatalf("Group order wrong: %s, %s", groups[0].Key, groups[1].Key)
	}

	total := 0
	for _, g := range groups {
		total += len(g.Rows)
	}
	if total != len(rows) {
		t.Fatalf("Groups do not partition rows: %d != %d", total, len(rows))
	}
}

func TestGroupUndefinedBucket(t *testing.T) {
	rows := []Row{
		{"id": "1", "city": "Talca"},
		{"id": "2", "city": nil},
		{"id": "3"},
	}
	groups := GroupRows(rows, GroupState{Column: "city"})
	if len(groups) != 2 {
		t.Fatalf("Expected 2 groups, got %d", len(groups))
	}
	if groups[1].Key != UndefinedGroupKey {
		t.Fatalf("Expected Undefined bucket, got %s", groups[1].Key)
	}
	if len(groups[1].Rows) != 2 {
		t.Fatalf("Expected 2 rows without city, got %d", len(groups[1].Rows))
	}
}

func TestBuildViewFilterThenSortThenGroup(t *testing.T) {
	st := GridState{
		Columns:    peopleColumns(),
		SortState:  SortState{Column: "name", Direction: DirectionAsc},
		GroupState: GroupState{Column: "city"},
		SearchTerm: "a",
	}
	view := BuildView(peopleRows(), st)

	if view.Groups == nil {
		t.Fatal("Expected grouped view")
	}
	// Every row in every group still matches the filter
	for _, g := range view.Groups {
		for _, row := range g.Rows {
			if len(Filter([]Row{row}, st.Columns, st.SearchTerm)) != 1 {
				t.Fatalf("Grouped row does not match filter: %v", row)
			}
		}
	}
}

func TestVisibleIDsFlattensGroups(t *testing.T) {
	st := GridState{
		Columns:    peopleColumns(),
		GroupState: GroupState{Column: "city"},
	}
	view := BuildView(peopleRows(), st)
	ids := VisibleIDs(view, "id")
	if len(ids) != 4 {
		t.Fatalf("Expected 4 ids, got %d", len(ids))
	}
	// Grouped order: both Santiago rows first
	if ids[0] != "1" || ids[1] != "3" {
		t.Fatalf("Grouped id order wrong: %v", ids)
	}
}

func TestRowIDContentFallback(t *testing.T) {
	a := Row{"name": "Amy", "age": 30}
	b := Row{"name": "Amy", "age": 30}
	c := Row{"name": "Bob", "age": 30}

	if RowID(a, "id") != RowID(b, "id") {
		t.Fatal("Identical content produced different ids")
	}
	if RowID(a, "id") == RowID(c, "id") {
		t.Fatal("Different content produced the same id")
	}

	withID := Row{"id": 7, "name": "Amy"}
	if RowID(withID, "id") != "7" {
		t.Fatalf("Expected id field to win, got %s", RowID(withID, "id"))
	}
}

func TestStringify(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{3.5, "3.5"},
	}
	for _, c := range cases {
		if got := Stringify(c.in); got != c.want {
			t.Fatalf("Stringify(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
