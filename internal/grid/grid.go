// ABOUTME: Core types for the reusable data grid engine.
// ABOUTME: Columns, sort/group state, and row identity shared by the registry and pipeline.

package grid

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"time"
)

// Row is a caller-owned record. The grid only reads it through column
// accessors and the id field; it never mutates rows.
type Row map[string]any

// Column describes one grid field. Visible is the only attribute mutated at
// runtime (through the column configurator); everything else is fixed by the
// page that owns the grid.
type Column struct {
	ID        string `json:"id"`
	Header    string `json:"header"`
	Accessor  string `json:"accessor"`
	Visible   bool   `json:"visible"`
	Sortable  bool   `json:"sortable,omitempty"`
	Groupable bool   `json:"groupable,omitempty"`
}

// Direction is a sort direction. The zero value means unsorted.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionAsc  Direction = "asc"
	DirectionDesc Direction = "desc"
)

// SortState names the accessor being sorted and the direction. An empty
// column means no active sort.
type SortState struct {
	Column    string    `json:"column"`
	Direction Direction `json:"direction"`
}

// GroupState names the accessor rows are bucketed by. Empty means ungrouped.
type GroupState struct {
	Column string `json:"column"`
}

// GridState is the full per-grid state owned by the Registry. ExpandedRows
// holds row ids and synthetic group ids ("group-" + group value) and is
// serialized as a list.
type GridState struct {
	Columns      []Column   `json:"columns"`
	SortState    SortState  `json:"sortState"`
	GroupState   GroupState `json:"groupState"`
	SearchTerm   string     `json:"searchTerm"`
	ExpandedRows []string   `json:"expandedRows"`
}

// DefaultIDField is the row key used for identity when the caller does not
// name one.
const DefaultIDField = "id"

// GroupRowID returns the synthetic expansion id for a group header.
func GroupRowID(groupKey string) string {
	return "group-" + groupKey
}

// RowID returns the stable identity of a row. When the id field is missing
// or nil the id is derived from the row's content, so the same logical row
// keeps its identity across re-sorts.
func RowID(row Row, idField string) string {
	if idField == "" {
		idField = DefaultIDField
	}
	if v, ok := row[idField]; ok && v != nil {
		return Stringify(v)
	}
	return contentID(row)
}

func contentID(row Row) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(Stringify(row[k])))
		h.Write([]byte{0})
	}
	return "row-" + strconv.FormatUint(h.Sum64(), 16)
}

// Stringify renders a cell value for searching, grouping, and export.
// Nil renders as the empty string.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if t {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprintf("%v", t)
	}
}
