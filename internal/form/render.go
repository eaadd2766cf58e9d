// ABOUTME: HTML renderer for dynamic forms.
// ABOUTME: One control per field via an exhaustive switch over the field types.

package form

import (
	"fmt"
	"html"
	"html/template"
	"strings"
	"time"

	"github.com/agroplan/cuartel-admin/internal/grid"
)

// Renderer renders one mounted form. Action is the submit endpoint; the
// grid field types delegate to the page-supplied RenderGrid hook so the
// form engine stays independent of grid plumbing.
type Renderer struct {
	Form       *Form
	FormID     string
	Action     string
	BasePath   string
	// Plain renders a regular method="post" form instead of an htmx one;
	// used by pages that redirect after submit.
	Plain      bool
	RenderGrid func(field FieldConfig) template.HTML
}

func (r *Renderer) target() string {
	return "form-" + r.FormID
}

// HTML renders the full form: one fieldset per section, fields in schema
// order, submit and reset controls.
func (r *Renderer) HTML() template.HTML {
	var sb strings.Builder
	if r.Plain {
		fmt.Fprintf(&sb, `<form id="%s" method="post" action="%s" class="space-y-6">`, r.target(), r.Action)
	} else {
		fmt.Fprintf(&sb, `<form id="%s" hx-post="%s" hx-target="#%s" hx-swap="outerHTML" class="space-y-6">`,
			r.target(), r.Action, r.target())
	}

	for _, sec := range r.Form.Sections() {
		r.renderSection(&sb, sec)
	}

	sb.WriteString(`<div class="flex gap-2">`)
	sb.WriteString(`<button type="submit" class="px-4 py-2 bg-blue-600 text-white rounded hover:bg-blue-700">Submit</button>`)
	if !r.Plain {
		fmt.Fprintf(&sb,
			`<button type="button" hx-post="%s/reset" hx-target="#%s" hx-swap="outerHTML" class="px-4 py-2 border rounded hover:bg-gray-50">Reset</button>`,
			r.BasePath, r.target())
	}
	sb.WriteString(`</div></form>`)
	return template.HTML(sb.String())
}

func (r *Renderer) renderSection(sb *strings.Builder, sec SectionConfig) {
	sb.WriteString(`<fieldset class="border rounded-lg p-4 space-y-4">`)
	fmt.Fprintf(sb, `<legend class="px-2 font-semibold">%s</legend>`, html.EscapeString(sec.Title))
	if sec.Description != "" {
		fmt.Fprintf(sb, `<p class="text-sm text-gray-500">%s</p>`, html.EscapeString(sec.Description))
	}
	for _, field := range sec.Fields {
		r.renderField(sb, field)
	}
	sb.WriteString(`</fieldset>`)
}

func (r *Renderer) renderField(sb *strings.Builder, field FieldConfig) {
	if field.Type == FieldHidden {
		fmt.Fprintf(sb, `<input type="hidden" name="%s" value="%s">`,
			html.EscapeString(field.Name), html.EscapeString(r.Form.DisplayValue(field.Name)))
		return
	}

	sb.WriteString(`<div class="space-y-1">`)
	if field.Label != "" && field.Type != FieldCheckbox {
		r.renderLabel(sb, field)
	}

	switch field.Type {
	case FieldText, FieldEmail, FieldPassword, FieldURL, FieldSearch:
		r.renderTextInput(sb, field, string(field.Type))
	case FieldNumber:
		r.renderNumberInput(sb, field, "number")
	case FieldTextarea:
		r.renderTextarea(sb, field)
	case FieldCheckbox:
		r.renderCheckbox(sb, field)
	case FieldRadio:
		r.renderRadio(sb, field)
	case FieldSelect:
		r.renderSelect(sb, field)
	case FieldDate:
		r.renderDate(sb, field)
	case FieldFile:
		r.renderFile(sb, field)
	case FieldRange:
		r.renderRange(sb, field)
	case FieldAutocomplete:
		r.renderAutocomplete(sb, field)
	case FieldCaptcha:
		r.renderCaptcha(sb, field)
	case FieldGrid, FieldSelectableGrid:
		if r.RenderGrid != nil {
			sb.WriteString(string(r.RenderGrid(field)))
		}
	case FieldHidden:
		// handled above
	}

	if msg := r.Form.FieldError(field.Name); msg != "" {
		fmt.Fprintf(sb, `<p class="text-sm text-red-600">%s</p>`, html.EscapeString(msg))
	} else if field.HelperText != "" {
		fmt.Fprintf(sb, `<p class="text-sm text-gray-500">%s</p>`, html.EscapeString(field.HelperText))
	}
	sb.WriteString(`</div>`)
}

func (r *Renderer) renderLabel(sb *strings.Builder, field FieldConfig) {
	required := ""
	if field.Required {
		required = ` <span class="text-red-600">*</span>`
	}
	fmt.Fprintf(sb, `<label for="%s" class="block text-sm font-medium">%s%s</label>`,
		html.EscapeString(field.ID), html.EscapeString(field.Label), required)
}

func (r *Renderer) inputAttrs(field FieldConfig) string {
	var sb strings.Builder
	if field.Placeholder != "" {
		fmt.Fprintf(&sb, ` placeholder="%s"`, html.EscapeString(field.Placeholder))
	}
	if field.Disabled {
		sb.WriteString(` disabled`)
	}
	if field.Required {
		sb.WriteString(` required`)
	}
	return sb.String()
}

func (r *Renderer) renderTextInput(sb *strings.Builder, field FieldConfig, kind string) {
	fmt.Fprintf(sb,
		`<input type="%s" id="%s" name="%s" value="%s"%s class="w-full rounded border-gray-300 border px-3 py-2 text-sm">`,
		kind, html.EscapeString(field.ID), html.EscapeString(field.Name),
		html.EscapeString(r.Form.DisplayValue(field.Name)), r.inputAttrs(field))
}

func (r *Renderer) renderNumberInput(sb *strings.Builder, field FieldConfig, kind string) {
	extra := ""
	if field.Min != nil {
		extra += fmt.Sprintf(` min="%s"`, grid.Stringify(*field.Min))
	}
	if field.Max != nil {
		extra += fmt.Sprintf(` max="%s"`, grid.Stringify(*field.Max))
	}
	if field.Step != nil {
		extra += fmt.Sprintf(` step="%s"`, grid.Stringify(*field.Step))
	}
	fmt.Fprintf(sb,
		`<input type="%s" id="%s" name="%s" value="%s"%s%s class="w-full rounded border-gray-300 border px-3 py-2 text-sm">`,
		kind, html.EscapeString(field.ID), html.EscapeString(field.Name),
		html.EscapeString(grid.Stringify(r.Form.Value(field.Name))), extra, r.inputAttrs(field))
}

func (r *Renderer) renderTextarea(sb *strings.Builder, field FieldConfig) {
	rows := field.Rows
	if rows == 0 {
		rows = 3
	}
	fmt.Fprintf(sb,
		`<textarea id="%s" name="%s" rows="%d"%s class="w-full rounded border-gray-300 border px-3 py-2 text-sm">%s</textarea>`,
		html.EscapeString(field.ID), html.EscapeString(field.Name), rows,
		r.inputAttrs(field), html.EscapeString(r.Form.DisplayValue(field.Name)))
}

func (r *Renderer) renderCheckbox(sb *strings.Builder, field FieldConfig) {
	checked := ""
	if v, ok := r.Form.Value(field.Name).(bool); ok && v {
		checked = " checked"
	}
	fmt.Fprintf(sb,
		`<label class="flex items-center gap-2 text-sm"><input type="checkbox" id="%s" name="%s" value="true"%s%s>%s</label>`,
		html.EscapeString(field.ID), html.EscapeString(field.Name), checked,
		r.inputAttrs(field), html.EscapeString(field.Label))
}

func (r *Renderer) renderRadio(sb *strings.Builder, field FieldConfig) {
	current := grid.Stringify(r.Form.Value(field.Name))
	sb.WriteString(`<div class="space-y-1">`)
	for _, opt := range field.Options {
		checked := ""
		if current != "" && opt.Value == current {
			checked = " checked"
		}
		fmt.Fprintf(sb,
			`<label class="flex items-center gap-2 text-sm"><input type="radio" name="%s" value="%s"%s%s>%s</label>`,
			html.EscapeString(field.Name), html.EscapeString(opt.Value), checked,
			r.inputAttrs(field), html.EscapeString(opt.Label))
	}
	sb.WriteString(`</div>`)
}

func (r *Renderer) renderSelect(sb *strings.Builder, field FieldConfig) {
	current := grid.Stringify(r.Form.Value(field.Name))
	fmt.Fprintf(sb, `<select id="%s" name="%s"%s class="w-full rounded border-gray-300 border px-3 py-2 text-sm">`,
		html.EscapeString(field.ID), html.EscapeString(field.Name), r.inputAttrs(field))
	sb.WriteString(`<option value="">Select...</option>`)
	for _, opt := range field.Options {
		selected := ""
		if current != "" && opt.Value == current {
			selected = " selected"
		}
		fmt.Fprintf(sb, `<option value="%s"%s>%s</option>`,
			html.EscapeString(opt.Value), selected, html.EscapeString(opt.Label))
	}
	sb.WriteString(`</select>`)
}

func (r *Renderer) renderDate(sb *strings.Builder, field FieldConfig) {
	value := ""
	if t, ok := r.Form.Value(field.Name).(time.Time); ok {
		value = t.Format(DateInputFormat)
	}
	fmt.Fprintf(sb,
		`<input type="date" id="%s" name="%s" value="%s"%s class="rounded border-gray-300 border px-3 py-2 text-sm">`,
		html.EscapeString(field.ID), html.EscapeString(field.Name), value, r.inputAttrs(field))
	if value != "" {
		fmt.Fprintf(sb, `<span class="ml-2 text-sm text-gray-500">%s</span>`,
			html.EscapeString(r.Form.DisplayValue(field.Name)))
	}
}

func (r *Renderer) renderFile(sb *strings.Builder, field FieldConfig) {
	fmt.Fprintf(sb, `<input type="file" id="%s" name="%s"%s class="text-sm">`,
		html.EscapeString(field.ID), html.EscapeString(field.Name), r.inputAttrs(field))
}

func (r *Renderer) renderRange(sb *strings.Builder, field FieldConfig) {
	r.renderNumberInput(sb, field, "range")
	fmt.Fprintf(sb, `<span class="text-sm text-gray-500">%s</span>`,
		html.EscapeString(grid.Stringify(r.Form.Value(field.Name))))
}

// renderAutocomplete is a text input backed by a datalist of the options.
func (r *Renderer) renderAutocomplete(sb *strings.Builder, field FieldConfig) {
	listID := field.ID + "-list"
	fmt.Fprintf(sb,
		`<input type="text" id="%s" name="%s" value="%s" list="%s"%s class="w-full rounded border-gray-300 border px-3 py-2 text-sm">`,
		html.EscapeString(field.ID), html.EscapeString(field.Name),
		html.EscapeString(r.Form.DisplayValue(field.Name)), html.EscapeString(listID), r.inputAttrs(field))
	fmt.Fprintf(sb, `<datalist id="%s">`, html.EscapeString(listID))
	for _, opt := range field.Options {
		fmt.Fprintf(sb, `<option value="%s">%s</option>`,
			html.EscapeString(opt.Value), html.EscapeString(opt.Label))
	}
	sb.WriteString(`</datalist>`)
}

func (r *Renderer) renderCaptcha(sb *strings.Builder, field FieldConfig) {
	c := r.Form.Captcha(field.Name)
	if c == nil {
		return
	}
	sb.WriteString(`<div class="flex items-center gap-2">`)
	fmt.Fprintf(sb, `<span class="font-mono text-lg tracking-widest select-none bg-gray-100 px-3 py-1 rounded">%s</span>`,
		html.EscapeString(c.Challenge()))
	fmt.Fprintf(sb,
		`<button type="button" hx-post="%s/captcha/%s/refresh" hx-target="#%s" hx-swap="outerHTML" class="px-2 py-1 border rounded text-sm" title="New challenge">&#8635;</button>`,
		r.BasePath, html.EscapeString(field.Name), r.target())
	sb.WriteString(`</div>`)
	fmt.Fprintf(sb,
		`<input type="text" name="%s" placeholder="Type the characters above" `+
			`hx-post="%s/captcha/%s" hx-trigger="input changed delay:200ms" hx-target="#%s" hx-swap="outerHTML" `+
			`class="w-full rounded border-gray-300 border px-3 py-2 text-sm">`,
		html.EscapeString(field.Name), r.BasePath, html.EscapeString(field.Name), r.target())
	if v, ok := r.Form.Value(field.Name).(bool); ok && v {
		sb.WriteString(`<p class="text-sm text-green-600">Verified</p>`)
	}
}
