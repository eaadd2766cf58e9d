// ABOUTME: Schema types for the dynamic form engine.
// ABOUTME: Field type enumeration, section/field configs, and up-front validation.

package form

import (
	"fmt"

	"github.com/agroplan/cuartel-admin/internal/grid"
)

// FieldType is the closed set of supported field kinds. Rendering dispatches
// through an exhaustive switch; schema validation rejects anything outside
// this set so a typo cannot silently render nothing.
type FieldType string

const (
	FieldText           FieldType = "text"
	FieldTextarea       FieldType = "textarea"
	FieldNumber         FieldType = "number"
	FieldCheckbox       FieldType = "checkbox"
	FieldRadio          FieldType = "radio"
	FieldSelect         FieldType = "select"
	FieldDate           FieldType = "date"
	FieldEmail          FieldType = "email"
	FieldPassword       FieldType = "password"
	FieldFile           FieldType = "file"
	FieldHidden         FieldType = "hidden"
	FieldCaptcha        FieldType = "captcha"
	FieldRange          FieldType = "range"
	FieldURL            FieldType = "url"
	FieldSearch         FieldType = "search"
	FieldAutocomplete   FieldType = "autocomplete"
	FieldGrid           FieldType = "grid"
	FieldSelectableGrid FieldType = "selectableGrid"
)

var fieldTypes = map[FieldType]bool{
	FieldText: true, FieldTextarea: true, FieldNumber: true,
	FieldCheckbox: true, FieldRadio: true, FieldSelect: true,
	FieldDate: true, FieldEmail: true, FieldPassword: true,
	FieldFile: true, FieldHidden: true, FieldCaptcha: true,
	FieldRange: true, FieldURL: true, FieldSearch: true,
	FieldAutocomplete: true, FieldGrid: true, FieldSelectableGrid: true,
}

// Valid reports whether t is a known field type.
func (t FieldType) Valid() bool {
	return fieldTypes[t]
}

// Option is one choice for select, radio, and autocomplete fields.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// GridFieldConfig embeds a grid inside a form field. StoreFullObjects
// controls whether a selectable grid submits full rows or just ids.
type GridFieldConfig struct {
	Title            string        `json:"title,omitempty"`
	IDField          string        `json:"idField,omitempty"`
	StoreFullObjects bool          `json:"storeFullObjects,omitempty"`
	Columns          []grid.Column `json:"columns"`
	Rows             []grid.Row    `json:"data"`
}

// FieldConfig describes one form field. Name is the submission key and need
// not equal ID.
type FieldConfig struct {
	ID          string           `json:"id"`
	Type        FieldType        `json:"type"`
	Label       string           `json:"label"`
	Name        string           `json:"name"`
	Options     []Option         `json:"options,omitempty"`
	Min         *float64         `json:"min,omitempty"`
	Max         *float64         `json:"max,omitempty"`
	Step        *float64         `json:"step,omitempty"`
	Required    bool             `json:"required,omitempty"`
	Disabled    bool             `json:"disabled,omitempty"`
	Placeholder string           `json:"placeholder,omitempty"`
	HelperText  string           `json:"helperText,omitempty"`
	Rows        int              `json:"rows,omitempty"`
	GridConfig  *GridFieldConfig `json:"gridConfig,omitempty"`
}

// SectionConfig is one visual group of fields, rendered in array order.
type SectionConfig struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Fields      []FieldConfig `json:"fields"`
}

// Sections is an ordered form schema.
type Sections []SectionConfig

// Validate rejects unknown field types and duplicate field names up front.
// Duplicate names would silently overwrite each other in the submission
// mapping, so they are a schema error, not a runtime surprise.
func (s Sections) Validate() error {
	seen := make(map[string]string)
	for _, sec := range s {
		for _, f := range sec.Fields {
			if !f.Type.Valid() {
				return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
			}
			if f.Name == "" {
				return fmt.Errorf("field %q in section %q has no name", f.ID, sec.Title)
			}
			if prior, dup := seen[f.Name]; dup {
				return fmt.Errorf("duplicate field name %q (fields %q and %q)", f.Name, prior, f.ID)
			}
			seen[f.Name] = f.ID
		}
	}
	return nil
}

// FieldByName finds the field with the given submission name.
func (s Sections) FieldByName(name string) (FieldConfig, bool) {
	for _, sec := range s {
		for _, f := range sec.Fields {
			if f.Name == name {
				return f, true
			}
		}
	}
	return FieldConfig{}, false
}
