// ABOUTME: CRUD layer for cuartel (barracks) records.
// ABOUTME: Create assigns server-side ids; delete is a soft state flip.

package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// Barracks is a cuartel record: one named agricultural field/block.
type Barracks struct {
	ID                string    `json:"id"`
	Barracks          string    `json:"barracks"`
	Species           string    `json:"species"`
	Variety           string    `json:"variety"`
	PhenologicalState string    `json:"phenologicalState"`
	State             bool      `json:"state"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (s *Store) FindAllBarracks() ([]*Barracks, error) {
	rows, err := s.db.Query(`
		SELECT id, barracks, species, variety, phenological_state, state, created_at, updated_at
		FROM barracks
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Barracks
	for rows.Next() {
		b, err := scanBarracks(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, b)
	}
	return records, rows.Err()
}

func (s *Store) FindBarracksByID(id string) (*Barracks, error) {
	row := s.db.QueryRow(`
		SELECT id, barracks, species, variety, phenological_state, state, created_at, updated_at
		FROM barracks
		WHERE id = ?
	`, id)
	b, err := scanBarracks(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return b, err
}

// CreateBarracks inserts a record and returns it with the server-assigned id.
func (s *Store) CreateBarracks(b *Barracks) (*Barracks, error) {
	b.ID = uuid.NewString()
	_, err := s.db.Exec(`
		INSERT INTO barracks (id, barracks, species, variety, phenological_state, state)
		VALUES (?, ?, ?, ?, ?, ?)
	`, b.ID, b.Barracks, b.Species, b.Variety, b.PhenologicalState, b.State)
	if err != nil {
		return nil, err
	}
	return s.FindBarracksByID(b.ID)
}

// barracksColumns maps patch keys to their columns. Keys outside this map
// are ignored, which gives partial-merge update semantics.
var barracksColumns = map[string]string{
	"barracks":          "barracks",
	"species":           "species",
	"variety":           "variety",
	"phenologicalState": "phenological_state",
	"state":             "state",
}

// UpdateBarracks applies the patch to the record and returns the updated row.
// Fields absent from the patch are preserved.
func (s *Store) UpdateBarracks(id string, patch map[string]any) (*Barracks, error) {
	query, args := buildUpdate("barracks", barracksColumns, patch, id)
	if query == "" {
		return s.FindBarracksByID(id)
	}

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.FindBarracksByID(id)
}

// SoftDeleteBarracks marks the record inactive rather than removing it.
func (s *Store) SoftDeleteBarracks(id string) (*Barracks, error) {
	return s.UpdateBarracks(id, map[string]any{"state": false})
}

// buildUpdate assembles an UPDATE statement from the patch keys that have a
// known column. Returns an empty query when nothing in the patch applies.
func buildUpdate(table string, columns map[string]string, patch map[string]any, id string) (string, []any) {
	var set string
	var args []any
	for key, col := range columns {
		value, ok := patch[key]
		if !ok {
			continue
		}
		if set != "" {
			set += ", "
		}
		set += col + " = ?"
		args = append(args, value)
	}
	if set == "" {
		return "", nil
	}
	args = append(args, id)
	return fmt.Sprintf("UPDATE %s SET %s, updated_at = CURRENT_TIMESTAMP WHERE id = ?", table, set), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBarracks(r rowScanner) (*Barracks, error) {
	var b Barracks
	err := r.Scan(&b.ID, &b.Barracks, &b.Species, &b.Variety, &b.PhenologicalState, &b.State, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
