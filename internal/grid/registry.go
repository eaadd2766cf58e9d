// ABOUTME: Per-gridId state registry with pluggable persistence.
// ABOUTME: Every mutation saves the full store; grids never observe each other.

package grid

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Persister loads and saves the full gridId -> GridState map. The production
// implementation writes one durable key-value entry; tests use MemoryPersister.
type Persister interface {
	Load() (map[string]GridState, error)
	Save(map[string]GridState) error
}

// Registry owns all grid state, keyed by a caller-supplied grid id. All
// mutations are serialized and persisted before they return.
type Registry struct {
	mu        sync.Mutex
	grids     map[string]GridState
	persister Persister
}

// NewRegistry rehydrates the registry from the persister. A persister that
// has never saved returns an empty map.
func NewRegistry(p Persister) (*Registry, error) {
	grids, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load grid state: %w", err)
	}
	if grids == nil {
		grids = make(map[string]GridState)
	}
	return &Registry{grids: grids, persister: p}, nil
}

// Initialize creates default state for gridID iff none exists. Re-initializing
// an existing grid is a no-op, so pages can call this on every render without
// resetting persisted customization.
func (r *Registry) Initialize(gridID string, initialColumns []Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.grids[gridID]; exists {
		return nil
	}

	cols := make([]Column, len(initialColumns))
	copy(cols, initialColumns)
	r.grids[gridID] = GridState{
		Columns:      cols,
		SortState:    SortState{},
		GroupState:   GroupState{},
		SearchTerm:   "",
		ExpandedRows: []string{},
	}
	return r.persist()
}

// Get returns a snapshot of the grid's state. Callers must treat it as
// read-only; all mutation goes through the named operations.
func (r *Registry) Get(gridID string) (GridState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.grids[gridID]
	return st, ok
}

func (r *Registry) SetSortState(gridID string, sort SortState) error {
	return r.update(gridID, func(st *GridState) {
		st.SortState = sort
	})
}

func (r *Registry) SetGroupState(gridID string, group GroupState) error {
	return r.update(gridID, func(st *GridState) {
		st.GroupState = group
	})
}

func (r *Registry) SetSearchTerm(gridID, term string) error {
	return r.update(gridID, func(st *GridState) {
		st.SearchTerm = term
	})
}

// CycleSort advances the sort state for a header click on the column with
// the given accessor: unsorted -> asc -> desc -> unsorted. Clicking a
// different column always restarts at ascending.
func (r *Registry) CycleSort(gridID, accessor string) error {
	return r.update(gridID, func(st *GridState) {
		if st.SortState.Column != accessor {
			st.SortState = SortState{Column: accessor, Direction: DirectionAsc}
			return
		}
		switch st.SortState.Direction {
		case DirectionAsc:
			st.SortState = SortState{Column: accessor, Direction: DirectionDesc}
		case DirectionDesc:
			st.SortState = SortState{}
		default:
			st.SortState = SortState{Column: accessor, Direction: DirectionAsc}
		}
	})
}

// ToggleColumnVisibility flips the visible flag on the matching column.
// An unknown column id is a silent no-op.
func (r *Registry) ToggleColumnVisibility(gridID, columnID string) error {
	return r.update(gridID, func(st *GridState) {
		cols := make([]Column, len(st.Columns))
		copy(cols, st.Columns)
		for i := range cols {
			if cols[i].ID == columnID {
				cols[i].Visible = !cols[i].Visible
			}
		}
		st.Columns = cols
	})
}

// ToggleRowExpanded inserts or removes the row id from the expanded set.
// Group headers use the synthetic GroupRowID.
func (r *Registry) ToggleRowExpanded(gridID string, rowID string) error {
	return r.update(gridID, func(st *GridState) {
		expanded := make([]string, 0, len(st.ExpandedRows)+1)
		found := false
		for _, id := range st.ExpandedRows {
			if id == rowID {
				found = true
				continue
			}
			expanded = append(expanded, id)
		}
		if !found {
			expanded = append(expanded, rowID)
		}
		st.ExpandedRows = expanded
	})
}

// IsRowExpanded reports whether the row is expanded. Unknown grids and rows
// return false.
func (r *Registry) IsRowExpanded(gridID string, rowID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.grids[gridID]
	if !ok {
		return false
	}
	for _, id := range st.ExpandedRows {
		if id == rowID {
			return true
		}
	}
	return false
}

// ResetColumnConfiguration discards visibility customization and restores
// the caller's original column list.
func (r *Registry) ResetColumnConfiguration(gridID string, initialColumns []Column) error {
	return r.update(gridID, func(st *GridState) {
		cols := make([]Column, len(initialColumns))
		copy(cols, initialColumns)
		st.Columns = cols
	})
}

// update applies fn to the grid's state and persists the full store.
// Operating on an unknown grid is a silent no-op.
func (r *Registry) update(gridID string, fn func(*GridState)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.grids[gridID]
	if !ok {
		return nil
	}
	fn(&st)
	r.grids[gridID] = st
	return r.persist()
}

func (r *Registry) persist() error {
	snapshot := make(map[string]GridState, len(r.grids))
	for k, v := range r.grids {
		snapshot[k] = v
	}
	if err := r.persister.Save(snapshot); err != nil {
		return fmt.Errorf("save grid state: %w", err)
	}
	return nil
}

// MemoryPersister keeps grid state in memory. Used by tests and by grids
// that should not survive a restart.
type MemoryPersister struct {
	mu    sync.Mutex
	saved map[string]GridState
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (m *MemoryPersister) Load() (map[string]GridState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil {
		return nil, nil
	}
	out := make(map[string]GridState, len(m.saved))
	for k, v := range m.saved {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryPersister) Save(grids map[string]GridState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = grids
	return nil
}

// KVStore is the durable key-value capability the KVPersister writes to.
// *store.Store satisfies it.
type KVStore interface {
	GetSetting(key string) (string, bool, error)
	PutSetting(key, value string) error
}

// StorageKey is the fixed namespace all grids share in the durable store.
const StorageKey = "grid-storage"

// KVPersister serializes the full grid store under one durable key.
type KVPersister struct {
	kv  KVStore
	key string
}

func NewKVPersister(kv KVStore) *KVPersister {
	return &KVPersister{kv: kv, key: StorageKey}
}

type persistedStore struct {
	Grids map[string]GridState `json:"grids"`
}

func (p *KVPersister) Load() (map[string]GridState, error) {
	raw, ok, err := p.kv.GetSetting(p.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var stored persistedStore
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, fmt.Errorf("decode grid state: %w", err)
	}
	return stored.Grids, nil
}

func (p *KVPersister) Save(grids map[string]GridState) error {
	raw, err := json.Marshal(persistedStore{Grids: grids})
	if err != nil {
		return err
	}
	return p.kv.PutSetting(p.key, string(raw))
}
