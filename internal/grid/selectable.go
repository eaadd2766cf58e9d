// ABOUTME: Row selection model for selectable grids.
// ABOUTME: Tracks selected row ids and implements select-all over the visible set.

package grid

import (
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"
	"sync"
)

// Selection tracks which row ids are selected in one grid. It is independent
// of the Registry: selection is per-form, not persisted grid state.
type Selection struct {
	mu  sync.Mutex
	ids map[string]bool
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// Toggle flips the selected state of one row id.
func (s *Selection) Toggle(rowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ids[rowID] {
		delete(s.ids, rowID)
	} else {
		s.ids[rowID] = true
	}
}

// Has reports whether the row id is selected.
func (s *Selection) Has(rowID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ids[rowID]
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of selected rows.
func (s *Selection) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Set replaces the selection wholesale. Used to re-sync from external state,
// e.g. when a form field already holds a stored value list.
func (s *Selection) Set(rowIDs []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]bool, len(rowIDs))
	for _, id := range rowIDs {
		s.ids[id] = true
	}
}

// Clear removes every selection.
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]bool)
}

// AllSelected reports whether every id in visibleIDs is selected. An empty
// visible set is never "all selected".
func (s *Selection) AllSelected(visibleIDs []string) bool {
	if len(visibleIDs) == 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range visibleIDs {
		if !s.ids[id] {
			return false
		}
	}
	return true
}

// ToggleAll selects every visible row, or deselects them all when every
// visible row is already selected. Rows outside the visible set are left
// alone, so a filtered select-all never clears hidden selections.
func (s *Selection) ToggleAll(visibleIDs []string) {
	all := s.AllSelected(visibleIDs)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range visibleIDs {
		if all {
			delete(s.ids, id)
		} else {
			s.ids[id] = true
		}
	}
}

// SelectedRows returns the full row objects for the selected ids, in the
// order they appear in rows.
func (s *Selection) SelectedRows(rows []Row, idField string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Row
	for _, row := range rows {
		if s.ids[RowID(row, idField)] {
			out = append(out, row)
		}
	}
	return out
}

// SelectableRenderer decorates a Renderer with a checkbox column and a
// header select-all checkbox scoped to the currently visible rows.
type SelectableRenderer struct {
	Renderer
	Selection *Selection
}

// HTML renders the grid with selection checkboxes and a selected-count
// footer.
func (r *SelectableRenderer) HTML(reg *Registry, rows []Row) template.HTML {
	st, ok := reg.Get(r.GridID)
	if !ok {
		return ""
	}
	view := BuildView(rows, st)
	visible := VisibleIDs(view, r.idField())

	var sb strings.Builder
	fmt.Fprintf(&sb, `<div id="%s" class="bg-white border rounded-lg shadow-sm">`, r.target())
	r.renderToolbar(&sb, st)

	sb.WriteString(`<div class="overflow-x-auto"><table class="w-full">`)
	sb.WriteString(`<thead><tr>`)
	r.renderSelectAll(&sb, visible)
	if r.ExpandableContent != nil {
		sb.WriteString(`<th class="w-10"></th>`)
	}
	r.renderHeaders(&sb, st)
	if r.RowActions != nil {
		sb.WriteString(`<th class="px-4 py-2 text-right font-medium text-sm">Actions</th>`)
	}
	sb.WriteString(`</tr></thead><tbody>`)

	if view.Groups != nil {
		for _, g := range view.Groups {
			r.renderSelectableGroup(&sb, reg, st, g)
		}
	} else {
		for _, row := range view.Sorted {
			r.renderSelectableRow(&sb, reg, st, row)
		}
	}

	sb.WriteString(`</tbody></table></div>`)
	r.renderFooter(&sb, len(view.Filtered), r.Selection.Len())
	sb.WriteString(`</div>`)
	return template.HTML(sb.String())
}

func (r *SelectableRenderer) renderSelectAll(sb *strings.Builder, visibleIDs []string) {
	checked := ""
	if r.Selection.AllSelected(visibleIDs) {
		checked = " checked"
	}
	fmt.Fprintf(sb,
		`<th class="w-10 px-4 py-2"><input type="checkbox"%s hx-post="%s" hx-target="#%s" hx-swap="outerHTML"></th>`,
		checked, r.action("select-all"), r.target())
}

func (r *SelectableRenderer) renderSelectableRow(sb *strings.Builder, reg *Registry, st GridState, row Row) {
	rowID := RowID(row, r.idField())
	expanded := reg.IsRowExpanded(r.GridID, rowID)

	checked := ""
	if r.Selection.Has(rowID) {
		checked = " checked"
	}

	sb.WriteString(`<tr class="hover:bg-gray-50">`)
	fmt.Fprintf(sb,
		`<td class="w-10 px-4 py-2 border-t"><input type="checkbox"%s hx-post="%s?row=%s" hx-target="#%s" hx-swap="outerHTML"></td>`,
		checked, r.action("select"), html.EscapeString(rowID), r.target())
	if r.ExpandableContent != nil {
		r.renderExpandToggle(sb, rowID, expanded)
	}
	r.renderCells(sb, st, row)
	if r.RowActions != nil {
		sb.WriteString(`<td class="px-4 py-2 border-t text-right text-sm space-x-2">`)
		sb.WriteString(string(r.RowActions(row)))
		sb.WriteString(`</td>`)
	}
	sb.WriteString(`</tr>`)

	if r.ExpandableContent != nil && expanded {
		fmt.Fprintf(sb, `<tr><td colspan="%d" class="bg-gray-50 p-4">`, r.selectableSpan(st))
		sb.WriteString(string(r.ExpandableContent(row)))
		sb.WriteString(`</td></tr>`)
	}
}

func (r *SelectableRenderer) renderSelectableGroup(sb *strings.Builder, reg *Registry, st GridState, g Group) {
	header := st.GroupState.Column
	for _, col := range st.Columns {
		if col.Accessor == st.GroupState.Column {
			header = col.Header
			break
		}
	}

	groupID := GroupRowID(g.Key)
	expanded := reg.IsRowExpanded(r.GridID, groupID)
	glyph := "&#9656;"
	if expanded {
		glyph = "&#9662;"
	}

	fmt.Fprintf(sb, `<tr class="bg-gray-100"><td colspan="%d" class="px-4 py-2 font-medium text-sm">`, r.selectableSpan(st))
	fmt.Fprintf(sb,
		`<button hx-post="%s?row=%s" hx-target="#%s" hx-swap="outerHTML" class="px-1 mr-1">%s</button>`,
		r.action("toggle-row"), html.EscapeString(groupID), r.target(), glyph)
	fmt.Fprintf(sb, `%s: %s (%d items)`, html.EscapeString(header), html.EscapeString(g.Key), len(g.Rows))
	sb.WriteString(`</td></tr>`)

	if expanded {
		for _, row := range g.Rows {
			r.renderSelectableRow(sb, reg, st, row)
		}
	}
}

func (r *SelectableRenderer) selectableSpan(st GridState) int {
	return r.columnSpan(st) + 1
}
