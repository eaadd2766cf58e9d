// ABOUTME: Tests for the grid HTML renderer.
// ABOUTME: Checks structure markers: headers, sort indicators, groups, checkboxes.

package grid

import (
	"html/template"
	"strings"
	"testing"
)

func testRenderer() *Renderer {
	return &Renderer{
		GridID:   "people",
		Title:    "People",
		BasePath: "/grids/people",
	}
}

func TestRendererBasicStructure(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("people", peopleColumns())

	out := string(testRenderer().HTML(reg, peopleRows()))
	if !strings.Contains(out, `id="grid-people"`) {
		t.Fatal("Missing grid wrapper id")
	}
	for _, header := range []string{"Name", "Age", "City"} {
		if !strings.Contains(out, header) {
			t.Fatalf("Missing header %s", header)
		}
	}
	if !strings.Contains(out, "Carla") || !strings.Contains(out, "Diego") {
		t.Fatal("Missing row data")
	}
	if !strings.Contains(out, "4 items") {
		t.Fatal("Missing item count")
	}
	if !strings.Contains(out, `hx-post="/grids/people/sort?column=name"`) {
		t.Fatal("Missing sort action on header")
	}
}

func TestRendererHidesInvisibleColumns(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("people", peopleColumns())
	reg.ToggleColumnVisibility("people", "age")

	out := string(testRenderer().HTML(reg, peopleRows()))
	if strings.Contains(out, `>Age</th>`) {
		t.Fatal("Hidden column still rendered in header")
	}
	if strings.Contains(out, `>41</td>`) {
		t.Fatal("Hidden column still rendered in body")
	}
}

func TestRendererSortIndicator(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("people", peopleColumns())
	reg.CycleSort("people", "name")

	out := string(testRenderer().HTML(reg, peopleRows()))
	if !strings.Contains(out, "&#9650;") {
		t.Fatal("Missing ascending indicator")
	}

	reg.CycleSort("people", "name")
	out = string(testRenderer().HTML(reg, peopleRows()))
	if !strings.Contains(out, "&#9660;") {
		t.Fatal("Missing descending indicator")
	}
}

func TestRendererGroupedView(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("people", peopleColumns())
	reg.SetGroupState("people", GroupState{Column: "city"})

	out := string(testRenderer().HTML(reg, peopleRows()))
	if !strings.Contains(out, "City: Santiago (2 items)") {
		t.Fatalf("Missing group header, got: %s", out)
	}
	// Collapsed groups hide member rows
	if strings.Contains(out, "Carla") {
		t.Fatal("Collapsed group rendered member rows")
	}

	reg.ToggleRowExpanded("people", GroupRowID("Santiago"))
	out = string(testRenderer().HTML(reg, peopleRows()))
	if !strings.Contains(out, "Carla") {
		t.Fatal("Expanded group hid member rows")
	}
}

func TestRendererExpandableContent(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("people", peopleColumns())

	r := testRenderer()
	r.ExpandableContent = func(row Row) template.HTML {
		return template.HTML("<p>detail for " + Stringify(row["name"]) + "</p>")
	}

	out := string(r.HTML(reg, peopleRows()))
	if strings.Contains(out, "detail for Carla") {
		t.Fatal("Detail rendered while collapsed")
	}

	reg.ToggleRowExpanded("people", "1")
	out = string(r.HTML(reg, peopleRows()))
	if !strings.Contains(out, "detail for Carla") {
		t.Fatal("Detail missing after expansion")
	}
}

func TestSelectableRendererCheckboxes(t *testing.T) {
	reg := setupRegistry(t)
	reg.Initialize("people", peopleColumns())

	sel := NewSelection()
	r := &SelectableRenderer{Renderer: *testRenderer(), Selection: sel}

	out := string(r.HTML(reg, peopleRows()))
	if !strings.Contains(out, `hx-post="/grids/people/select-all"`) {
		t.Fatal("Missing select-all checkbox")
	}
	if !strings.Contains(out, `hx-post="/grids/people/select?row=1"`) {
		t.Fatal("Missing per-row checkbox")
	}
	if !strings.Contains(out, "0 selected") {
		t.Fatal("Missing selection count")
	}

	sel.Toggle("1")
	out = string(r.HTML(reg, peopleRows()))
	if !strings.Contains(out, "1 selected") {
		t.Fatal("Selection count not updated")
	}
}
