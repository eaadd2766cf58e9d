// ABOUTME: Pure derivation of the grid view: filter, stable sort, group.
// ABOUTME: Never mutates input rows; recomputed on every state change.

package grid

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// collator performs locale-aware string comparison for the sort step.
var collator = collate.New(language.Spanish)

// Group is one bucket of the grouped view. Key is the stringified group
// value ("Undefined" for missing values).
type Group struct {
	Key  string
	Rows []Row
}

// UndefinedGroupKey labels the bucket for rows whose group value is missing.
const UndefinedGroupKey = "Undefined"

// View is the derived output of the data pipeline for one grid state.
// Groups is nil when no group column is active.
type View struct {
	Filtered []Row
	Sorted   []Row
	Groups   []Group
}

// BuildView runs the full pipeline: filter by search term, sort, group.
func BuildView(rows []Row, st GridState) View {
	filtered := Filter(rows, st.Columns, st.SearchTerm)
	sorted := Sort(filtered, st.SortState)
	var groups []Group
	if st.GroupState.Column != "" {
		groups = GroupRows(sorted, st.GroupState)
	}
	return View{Filtered: filtered, Sorted: sorted, Groups: groups}
}

// Filter retains rows where any visible column's stringified value contains
// the term, case-insensitively. An empty term retains everything. Hidden
// columns never match, even when their accessor would.
func Filter(rows []Row, columns []Column, term string) []Row {
	if term == "" {
		return rows
	}
	needle := strings.ToLower(term)

	var out []Row
	for _, row := range rows {
		for _, col := range columns {
			if !col.Visible {
				continue
			}
			value := row[col.Accessor]
			if value == nil {
				continue
			}
			if strings.Contains(strings.ToLower(Stringify(value)), needle) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort stable-sorts rows by the active sort column. Rows with a nil value in
// the sort column sort after all non-nil rows in both directions. Equal
// values keep their relative input order.
func Sort(rows []Row, st SortState) []Row {
	if st.Column == "" || st.Direction == DirectionNone {
		return rows
	}

	sign := 1
	if st.Direction == DirectionDesc {
		sign = -1
	}

	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		a := out[i][st.Column]
		b := out[j][st.Column]

		// Missing values always sink to the end, whichever direction.
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return compareValues(a, b)*sign < 0
	})
	return out
}

// compareValues orders two non-nil cell values: numbers numerically, strings
// via the collator, times chronologically, mixed types by string form.
func compareValues(a, b any) int {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}

	if at, aok := a.(time.Time); aok {
		if bt, bok := b.(time.Time); bok {
			switch {
			case at.Before(bt):
				return -1
			case at.After(bt):
				return 1
			}
			return 0
		}
	}

	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ab == bb:
				return 0
			case bb:
				return -1
			}
			return 1
		}
	}

	return collator.CompareString(Stringify(a), Stringify(b))
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

// GroupRows buckets sorted rows by the stringified group column value.
// Bucket order follows first occurrence in the input; missing values land in
// the "Undefined" bucket.
func GroupRows(rows []Row, st GroupState) []Group {
	if st.Column == "" {
		return nil
	}

	index := make(map[string]int)
	groups := []Group{}
	for _, row := range rows {
		key := UndefinedGroupKey
		if v := row[st.Column]; v != nil {
			key = Stringify(v)
		}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}

// VisibleIDs returns the ids of every row the user can currently see: the
// sorted set, or the grouped set flattened, in display order.
func VisibleIDs(view View, idField string) []string {
	rows := view.Sorted
	if view.Groups != nil {
		rows = nil
		for _, g := range view.Groups {
			rows = append(rows, g.Rows...)
		}
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = RowID(row, idField)
	}
	return ids
}
