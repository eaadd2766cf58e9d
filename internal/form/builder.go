// ABOUTME: Interactive form schema editor.
// ABOUTME: Section/field CRUD, duplicate, reorder splices, lenient JSON parsing.

package form

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Builder maintains its own ordered schema, structurally identical to what
// the form engine consumes. Every mutation emits the full schema through
// onChange so the host can persist or preview it.
type Builder struct {
	sections Sections
	onChange func(Sections)
}

// NewBuilder starts from an initial schema, which may be nil.
func NewBuilder(initial Sections, onChange func(Sections)) *Builder {
	sections := make(Sections, len(initial))
	copy(sections, initial)
	return &Builder{sections: sections, onChange: onChange}
}

// Sections returns the current schema.
func (b *Builder) Sections() Sections {
	return b.sections
}

func (b *Builder) emit() {
	if b.onChange != nil {
		b.onChange(b.sections)
	}
}

// AddSection appends a new empty section and returns its id.
func (b *Builder) AddSection(title, description string) string {
	id := uuid.NewString()
	b.sections = append(b.sections, SectionConfig{
		ID:          id,
		Title:       title,
		Description: description,
		Fields:      []FieldConfig{},
	})
	b.emit()
	return id
}

// EditSection updates a section's title and description. Unknown ids are a
// no-op.
func (b *Builder) EditSection(sectionID, title, description string) {
	for i := range b.sections {
		if b.sections[i].ID == sectionID {
			b.sections[i].Title = title
			b.sections[i].Description = description
			b.emit()
			return
		}
	}
}

// DeleteSection removes a section and all its fields.
func (b *Builder) DeleteSection(sectionID string) {
	for i := range b.sections {
		if b.sections[i].ID == sectionID {
			b.sections = append(b.sections[:i], b.sections[i+1:]...)
			b.emit()
			return
		}
	}
}

// DuplicateSection copies a section directly after its source. The copy and
// every field in it get fresh ids; the section title gets a "(Copy)" suffix.
func (b *Builder) DuplicateSection(sectionID string) {
	for i := range b.sections {
		if b.sections[i].ID != sectionID {
			continue
		}
		src := b.sections[i]
		dup := SectionConfig{
			ID:          uuid.NewString(),
			Title:       src.Title + " (Copy)",
			Description: src.Description,
			Fields:      make([]FieldConfig, len(src.Fields)),
		}
		for j, f := range src.Fields {
			f.ID = uuid.NewString()
			dup.Fields[j] = f
		}
		b.sections = append(b.sections[:i+1], append(Sections{dup}, b.sections[i+1:]...)...)
		b.emit()
		return
	}
}

// MoveSection splices the section at from out and reinserts it at to. Out of
// range indices and from == to are no-ops.
func (b *Builder) MoveSection(from, to int) {
	out, moved := spliceMove(b.sections, from, to)
	b.sections = out
	if moved {
		b.emit()
	}
}

// AddField appends a field to a section, assigning a fresh id.
func (b *Builder) AddField(sectionID string, field FieldConfig) string {
	for i := range b.sections {
		if b.sections[i].ID == sectionID {
			field.ID = uuid.NewString()
			b.sections[i].Fields = append(b.sections[i].Fields, field)
			b.emit()
			return field.ID
		}
	}
	return ""
}

// EditField replaces the field's attributes, keeping its id.
func (b *Builder) EditField(sectionID, fieldID string, field FieldConfig) {
	for i := range b.sections {
		if b.sections[i].ID != sectionID {
			continue
		}
		for j := range b.sections[i].Fields {
			if b.sections[i].Fields[j].ID == fieldID {
				field.ID = fieldID
				b.sections[i].Fields[j] = field
				b.emit()
				return
			}
		}
	}
}

// DeleteField removes a field from a section.
func (b *Builder) DeleteField(sectionID, fieldID string) {
	for i := range b.sections {
		if b.sections[i].ID != sectionID {
			continue
		}
		fields := b.sections[i].Fields
		for j := range fields {
			if fields[j].ID == fieldID {
				b.sections[i].Fields = append(fields[:j], fields[j+1:]...)
				b.emit()
				return
			}
		}
	}
}

// DuplicateField copies a field directly after its source with a fresh id
// and a "(Copy)" label suffix.
func (b *Builder) DuplicateField(sectionID, fieldID string) {
	for i := range b.sections {
		if b.sections[i].ID != sectionID {
			continue
		}
		fields := b.sections[i].Fields
		for j := range fields {
			if fields[j].ID != fieldID {
				continue
			}
			dup := fields[j]
			dup.ID = uuid.NewString()
			dup.Label = dup.Label + " (Copy)"
			b.sections[i].Fields = append(fields[:j+1], append([]FieldConfig{dup}, fields[j+1:]...)...)
			b.emit()
			return
		}
	}
}

// MoveField splices a field within a section from one index to another.
func (b *Builder) MoveField(sectionID string, from, to int) {
	for i := range b.sections {
		if b.sections[i].ID != sectionID {
			continue
		}
		out, moved := spliceMove(b.sections[i].Fields, from, to)
		b.sections[i].Fields = out
		if moved {
			b.emit()
		}
		return
	}
}

// spliceMove removes the element at from and reinserts it at to, matching
// drag-and-drop reorder semantics in both directions.
func spliceMove[T any](items []T, from, to int) ([]T, bool) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) || from == to {
		return items, false
	}
	moved := items[from]
	out := append(items[:from:from], items[from+1:]...)
	out = append(out[:to:to], append([]T{moved}, out[to:]...)...)
	return out, true
}

// ParseOptions parses a user-entered JSON array of {label, value}. A parse
// failure clears the options rather than erroring; the field editor treats
// bad JSON as "no options yet".
func ParseOptions(raw string) []Option {
	var opts []Option
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		return nil
	}
	return opts
}

// ParseGridConfig parses a user-entered JSON grid config with the same
// silent-clear leniency as ParseOptions.
func ParseGridConfig(raw string) *GridFieldConfig {
	var cfg GridFieldConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return nil
	}
	return &cfg
}
