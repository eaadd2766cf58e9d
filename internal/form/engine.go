// ABOUTME: Dynamic form engine: per-field values, coercion, validation, submit.
// ABOUTME: Persistence is the caller's job via the submit callback.

package form

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/agroplan/cuartel-admin/internal/grid"
)

// ErrValidation is returned by Submit when the value mapping fails the
// attached rules. Per-field messages are available through Errors.
var ErrValidation = errors.New("form validation failed")

// DateInputFormat is the wire format for date field input.
const DateInputFormat = "2006-01-02"

// DateDisplayFormat is the fixed human-readable rendering of date values.
const DateDisplayFormat = "January 2, 2006"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Rule is the validation attached to one field name. Min and Max bound
// numbers numerically and strings by length.
type Rule struct {
	Required bool
	Min      *float64
	Max      *float64
	Email    bool
}

// Form is one mounted dynamic form: schema, live values, and validation
// state. Values are addressed by field name, not id.
type Form struct {
	sections    Sections
	defaults    map[string]any
	values      map[string]any
	fieldErrors map[string]string
	rules       map[string]Rule
	captchas    map[string]*Captcha
	selections  map[string]*grid.Selection
}

// New validates the schema and builds the form with the defaults snapshot
// applied. Range fields with no default start at min, or 0.
func New(sections Sections, defaults map[string]any) (*Form, error) {
	if err := sections.Validate(); err != nil {
		return nil, fmt.Errorf("invalid form schema: %w", err)
	}

	f := &Form{
		sections:    sections,
		defaults:    make(map[string]any),
		values:      make(map[string]any),
		fieldErrors: make(map[string]string),
		rules:       make(map[string]Rule),
		captchas:    make(map[string]*Captcha),
		selections:  make(map[string]*grid.Selection),
	}
	for k, v := range defaults {
		f.defaults[k] = v
	}

	for _, sec := range sections {
		for _, field := range sec.Fields {
			f.values[field.Name] = f.initialValue(field)
			switch field.Type {
			case FieldCaptcha:
				f.captchas[field.Name] = NewCaptcha()
			case FieldSelectableGrid:
				sel := grid.NewSelection()
				if ids, ok := f.defaults[field.Name].([]string); ok {
					sel.Set(ids)
				}
				f.selections[field.Name] = sel
				f.values[field.Name] = f.selectionValue(field, sel)
			}
		}
	}
	return f, nil
}

func (f *Form) initialValue(field FieldConfig) any {
	if v, ok := f.defaults[field.Name]; ok {
		return v
	}
	switch field.Type {
	case FieldCheckbox, FieldCaptcha:
		return false
	case FieldRange:
		if field.Min != nil {
			return *field.Min
		}
		return float64(0)
	default:
		return nil
	}
}

// Sections returns the schema the form was mounted with.
func (f *Form) Sections() Sections {
	return f.sections
}

// Value returns the current value for a field name.
func (f *Form) Value(name string) any {
	return f.values[name]
}

// Values returns a copy of the full submission mapping.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// FieldError returns the current error message for a field, if any.
func (f *Form) FieldError(name string) string {
	return f.fieldErrors[name]
}

// Errors returns a copy of the per-field error messages.
func (f *Form) Errors() map[string]string {
	out := make(map[string]string, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// SetValue coerces raw input per the field's type and stores it. A number
// field given non-numeric input records a field error instead of storing a
// garbage value. Unknown names are a no-op.
func (f *Form) SetValue(name, raw string) {
	field, ok := f.sections.FieldByName(name)
	if !ok {
		return
	}
	delete(f.fieldErrors, name)

	switch field.Type {
	case FieldNumber, FieldRange:
		if raw == "" {
			f.values[name] = nil
			return
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			f.fieldErrors[name] = fmt.Sprintf("%s must be a number", field.Label)
			return
		}
		f.values[name] = n
	case FieldCheckbox:
		f.values[name] = raw == "true" || raw == "on" || raw == "1"
	case FieldDate:
		if raw == "" {
			f.values[name] = nil
			return
		}
		t, err := time.Parse(DateInputFormat, raw)
		if err != nil {
			f.fieldErrors[name] = fmt.Sprintf("%s must be a valid date", field.Label)
			return
		}
		f.values[name] = t
	default:
		f.values[name] = raw
	}
}

// DisplayValue renders the current value for a text control. Dates use the
// fixed human format.
func (f *Form) DisplayValue(name string) string {
	v := f.values[name]
	if t, ok := v.(time.Time); ok {
		return t.Format(DateDisplayFormat)
	}
	return grid.Stringify(v)
}

// Captcha returns the challenge component behind a captcha field.
func (f *Form) Captcha(name string) *Captcha {
	return f.captchas[name]
}

// SetCaptchaInput records the user's captcha attempt; the field value is the
// resulting validity.
func (f *Form) SetCaptchaInput(name, input string) {
	c, ok := f.captchas[name]
	if !ok {
		return
	}
	f.values[name] = c.SetInput(input)
}

// RefreshCaptcha regenerates the challenge and invalidates the field.
func (f *Form) RefreshCaptcha(name string) {
	c, ok := f.captchas[name]
	if !ok {
		return
	}
	c.Refresh()
	f.values[name] = false
}

// Selection returns the selection model behind a selectableGrid field.
func (f *Form) Selection(name string) *grid.Selection {
	return f.selections[name]
}

// SyncSelection recomputes the field value from the current selection:
// full rows or ids per the field's storeFullObjects flag.
func (f *Form) SyncSelection(name string) {
	field, ok := f.sections.FieldByName(name)
	if !ok {
		return
	}
	sel, ok := f.selections[name]
	if !ok {
		return
	}
	f.values[name] = f.selectionValue(field, sel)
}

// SetExternalSelection imposes a selection from outside, replacing the
// internal set wholesale.
func (f *Form) SetExternalSelection(name string, ids []string) {
	sel, ok := f.selections[name]
	if !ok {
		return
	}
	sel.Set(ids)
	f.SyncSelection(name)
}

func (f *Form) selectionValue(field FieldConfig, sel *grid.Selection) any {
	cfg := field.GridConfig
	if cfg == nil {
		return sel.IDs()
	}
	if cfg.StoreFullObjects {
		idField := cfg.IDField
		if idField == "" {
			idField = grid.DefaultIDField
		}
		return sel.SelectedRows(cfg.Rows, idField)
	}
	return sel.IDs()
}

// AttachValidation sets the rule map consulted on submit, keyed by field
// name.
func (f *Form) AttachValidation(rules map[string]Rule) {
	f.rules = rules
}

// Submit validates the current values and, on success, hands the mapping to
// the callback. On failure the callback is not invoked and per-field
// messages are recorded.
func (f *Form) Submit(callback func(values map[string]any) error) error {
	f.validate()
	if len(f.fieldErrors) > 0 {
		return ErrValidation
	}
	if callback == nil {
		return nil
	}
	return callback(f.Values())
}

func (f *Form) validate() {
	for name, rule := range f.rules {
		field, ok := f.sections.FieldByName(name)
		if !ok {
			continue
		}
		// Coercion errors from SetValue stand until corrected
		if _, bad := f.fieldErrors[name]; bad {
			continue
		}
		if msg := checkRule(field, rule, f.values[name]); msg != "" {
			f.fieldErrors[name] = msg
		}
	}
}

func checkRule(field FieldConfig, rule Rule, value any) string {
	if rule.Required && isEmpty(value) {
		return fmt.Sprintf("%s is required", field.Label)
	}
	if isEmpty(value) {
		return ""
	}

	switch v := value.(type) {
	case float64:
		if rule.Min != nil && v < *rule.Min {
			return fmt.Sprintf("%s must be at least %s", field.Label, grid.Stringify(*rule.Min))
		}
		if rule.Max != nil && v > *rule.Max {
			return fmt.Sprintf("%s must be at most %s", field.Label, grid.Stringify(*rule.Max))
		}
	case string:
		length := float64(len([]rune(v)))
		if rule.Min != nil && length < *rule.Min {
			return fmt.Sprintf("%s must be at least %s characters", field.Label, grid.Stringify(*rule.Min))
		}
		if rule.Max != nil && length > *rule.Max {
			return fmt.Sprintf("%s must be at most %s characters", field.Label, grid.Stringify(*rule.Max))
		}
		if rule.Email && !emailPattern.MatchString(v) {
			return fmt.Sprintf("%s must be a valid email address", field.Label)
		}
	}
	return ""
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case []string:
		return len(v) == 0
	case []grid.Row:
		return len(v) == 0
	}
	return false
}

// Reset restores the defaults snapshot and clears validation state. Captcha
// challenges stay but their attempts are cleared; selections revert to the
// default id set.
func (f *Form) Reset() {
	f.fieldErrors = make(map[string]string)
	for _, sec := range f.sections {
		for _, field := range sec.Fields {
			f.values[field.Name] = f.initialValue(field)
			switch field.Type {
			case FieldCaptcha:
				if c := f.captchas[field.Name]; c != nil {
					c.SetInput("")
				}
				f.values[field.Name] = false
			case FieldSelectableGrid:
				sel := f.selections[field.Name]
				if sel == nil {
					continue
				}
				if ids, ok := f.defaults[field.Name].([]string); ok {
					sel.Set(ids)
				} else {
					sel.Clear()
				}
				f.values[field.Name] = f.selectionValue(field, sel)
			}
		}
	}
}
