// ABOUTME: Form Builder page: a schema editor with a live preview.
// ABOUTME: The working schema persists in the settings table across restarts.

package admin

import (
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/agroplan/cuartel-admin/internal/form"
	"github.com/go-chi/chi/v5"
)

const builderStorageKey = "form-builder-schema"

var builderFieldTypes = []form.FieldType{
	form.FieldText, form.FieldTextarea, form.FieldNumber, form.FieldCheckbox,
	form.FieldRadio, form.FieldSelect, form.FieldDate, form.FieldEmail,
	form.FieldPassword, form.FieldFile, form.FieldHidden, form.FieldCaptcha,
	form.FieldRange, form.FieldURL, form.FieldSearch, form.FieldAutocomplete,
	form.FieldGrid, form.FieldSelectableGrid,
}

func defaultBuilderSections() form.Sections {
	return form.Sections{
		{
			ID:    "starter",
			Title: "Nueva Sección",
			Fields: []form.FieldConfig{
				{ID: "starter-name", Type: form.FieldText, Label: "Nombre", Name: "name", Required: true},
			},
		},
	}
}

func (h *Handlers) setupBuilder() error {
	sections := defaultBuilderSections()
	if raw, ok, err := h.store.GetSetting(builderStorageKey); err == nil && ok {
		var stored form.Sections
		if json.Unmarshal([]byte(raw), &stored) == nil && stored.Validate() == nil {
			sections = stored
		}
	}

	h.builder = form.NewBuilder(sections, func(s form.Sections) {
		data, err := json.Marshal(s)
		if err != nil {
			return
		}
		h.store.PutSetting(builderStorageKey, string(data))
	})
	return nil
}

func (h *Handlers) builderPage(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data := h.pageData(r, "Form Builder")
	data["Workspace"] = h.builderWorkspace()
	w.Header().Set("Content-Type", "text/html")
	renderPage(w, "builder", data)
}

func (h *Handlers) mountBuilderActions(r chi.Router) {
	respond := func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(h.builderWorkspace()))
	}

	r.Post("/sections", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		r.ParseForm()
		h.builder.AddSection(r.FormValue("title"), r.FormValue("description"))
		respond(w)
	})
	r.Post("/sections/move", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		from, _ := strconv.Atoi(r.URL.Query().Get("from"))
		to, _ := strconv.Atoi(r.URL.Query().Get("to"))
		h.builder.MoveSection(from, to)
		respond(w)
	})
	r.Post("/sections/{id}/edit", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		r.ParseForm()
		h.builder.EditSection(chi.URLParam(r, "id"), r.FormValue("title"), r.FormValue("description"))
		respond(w)
	})
	r.Post("/sections/{id}/delete", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.builder.DeleteSection(chi.URLParam(r, "id"))
		respond(w)
	})
	r.Post("/sections/{id}/duplicate", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.builder.DuplicateSection(chi.URLParam(r, "id"))
		respond(w)
	})
	r.Post("/sections/{id}/fields", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		r.ParseForm()
		h.builder.AddField(chi.URLParam(r, "id"), fieldFromForm(r))
		respond(w)
	})
	r.Post("/sections/{id}/fields/move", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		from, _ := strconv.Atoi(r.URL.Query().Get("from"))
		to, _ := strconv.Atoi(r.URL.Query().Get("to"))
		h.builder.MoveField(chi.URLParam(r, "id"), from, to)
		respond(w)
	})
	r.Post("/sections/{id}/fields/{fid}/edit", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		r.ParseForm()
		h.builder.EditField(chi.URLParam(r, "id"), chi.URLParam(r, "fid"), fieldFromForm(r))
		respond(w)
	})
	r.Post("/sections/{id}/fields/{fid}/delete", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.builder.DeleteField(chi.URLParam(r, "id"), chi.URLParam(r, "fid"))
		respond(w)
	})
	r.Post("/sections/{id}/fields/{fid}/duplicate", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.builder.DuplicateField(chi.URLParam(r, "id"), chi.URLParam(r, "fid"))
		respond(w)
	})
}

// fieldFromForm builds a FieldConfig from the add/edit field form. Options
// and grid config arrive as JSON; bad JSON leaves them empty.
func fieldFromForm(r *http.Request) form.FieldConfig {
	var min, max *float64
	if v, err := strconv.ParseFloat(r.FormValue("min"), 64); err == nil {
		min = &v
	}
	if v, err := strconv.ParseFloat(r.FormValue("max"), 64); err == nil {
		max = &v
	}
	return form.FieldConfig{
		Type:        form.FieldType(r.FormValue("type")),
		Label:       r.FormValue("label"),
		Name:        r.FormValue("name"),
		Placeholder: r.FormValue("placeholder"),
		HelperText:  r.FormValue("helperText"),
		Required:    r.FormValue("required") != "",
		Min:         min,
		Max:         max,
		Options:     form.ParseOptions(r.FormValue("options")),
		GridConfig:  form.ParseGridConfig(r.FormValue("gridConfig")),
	}
}

// builderWorkspace renders the editor and the live preview as one swap
// target, so every mutation refreshes both panels.
func (h *Handlers) builderWorkspace() template.HTML {
	var sb strings.Builder
	sb.WriteString(`<div id="builder-workspace" class="grid grid-cols-1 lg:grid-cols-2 gap-6">`)
	sb.WriteString(`<div class="space-y-4">`)
	h.renderBuilderEditor(&sb)
	sb.WriteString(`</div>`)
	sb.WriteString(`<div><h2 class="text-lg font-semibold mb-2">Preview</h2><div class="bg-white border rounded-lg shadow-sm p-6">`)
	h.renderBuilderPreview(&sb)
	sb.WriteString(`</div></div></div>`)
	return template.HTML(sb.String())
}

func builderAction(sb *strings.Builder, label, path string) {
	fmt.Fprintf(sb,
		`<button hx-post="%s" hx-target="#builder-workspace" hx-swap="outerHTML" class="text-xs text-blue-600 hover:underline">%s</button>`,
		path, html.EscapeString(label))
}

func (h *Handlers) renderBuilderEditor(sb *strings.Builder) {
	sections := h.builder.Sections()

	for i, sec := range sections {
		fmt.Fprintf(sb, `<div class="bg-white border rounded-lg shadow-sm p-4 space-y-3">`)

		fmt.Fprintf(sb,
			`<form hx-post="/form-builder/sections/%s/edit" hx-target="#builder-workspace" hx-swap="outerHTML" class="flex gap-2 items-center">`,
			sec.ID)
		fmt.Fprintf(sb, `<input type="text" name="title" value="%s" class="border rounded px-2 py-1 flex-1 font-semibold">`, html.EscapeString(sec.Title))
		fmt.Fprintf(sb, `<input type="text" name="description" value="%s" placeholder="Description" class="border rounded px-2 py-1 flex-1 text-sm">`, html.EscapeString(sec.Description))
		sb.WriteString(`<button type="submit" class="text-xs text-blue-600 hover:underline">Save</button></form>`)

		sb.WriteString(`<div class="flex gap-3">`)
		if i > 0 {
			builderAction(sb, "Move up", fmt.Sprintf("/form-builder/sections/move?from=%d&to=%d", i, i-1))
		}
		if i < len(sections)-1 {
			builderAction(sb, "Move down", fmt.Sprintf("/form-builder/sections/move?from=%d&to=%d", i, i+1))
		}
		builderAction(sb, "Duplicate", "/form-builder/sections/"+sec.ID+"/duplicate")
		builderAction(sb, "Delete", "/form-builder/sections/"+sec.ID+"/delete")
		sb.WriteString(`</div>`)

		sb.WriteString(`<ul class="divide-y border rounded">`)
		for j, field := range sec.Fields {
			sb.WriteString(`<li class="px-3 py-2 flex items-center justify-between">`)
			fmt.Fprintf(sb, `<span class="text-sm">%s <span class="text-gray-400">(%s, %s)</span></span>`,
				html.EscapeString(field.Label), html.EscapeString(field.Name), html.EscapeString(string(field.Type)))
			sb.WriteString(`<span class="flex gap-2">`)
			if j > 0 {
				builderAction(sb, "Up", fmt.Sprintf("/form-builder/sections/%s/fields/move?from=%d&to=%d", sec.ID, j, j-1))
			}
			if j < len(sec.Fields)-1 {
				builderAction(sb, "Down", fmt.Sprintf("/form-builder/sections/%s/fields/move?from=%d&to=%d", sec.ID, j, j+1))
			}
			builderAction(sb, "Duplicate", fmt.Sprintf("/form-builder/sections/%s/fields/%s/duplicate", sec.ID, field.ID))
			builderAction(sb, "Delete", fmt.Sprintf("/form-builder/sections/%s/fields/%s/delete", sec.ID, field.ID))
			sb.WriteString(`</span></li>`)
		}
		if len(sec.Fields) == 0 {
			sb.WriteString(`<li class="px-3 py-2 text-sm text-gray-500">No fields yet.</li>`)
		}
		sb.WriteString(`</ul>`)

		renderAddFieldForm(sb, sec.ID)
		sb.WriteString(`</div>`)
	}

	sb.WriteString(`<form hx-post="/form-builder/sections" hx-target="#builder-workspace" hx-swap="outerHTML" class="flex gap-2">`)
	sb.WriteString(`<input type="text" name="title" placeholder="Section title" class="border rounded px-2 py-1 flex-1">`)
	sb.WriteString(`<input type="text" name="description" placeholder="Description" class="border rounded px-2 py-1 flex-1">`)
	sb.WriteString(`<button type="submit" class="px-3 py-1 bg-blue-600 text-white rounded hover:bg-blue-700 text-sm">Add section</button></form>`)
}

func renderAddFieldForm(sb *strings.Builder, sectionID string) {
	fmt.Fprintf(sb,
		`<details class="text-sm"><summary class="cursor-pointer text-blue-600">Add field</summary>`+
			`<form hx-post="/form-builder/sections/%s/fields" hx-target="#builder-workspace" hx-swap="outerHTML" class="mt-2 grid grid-cols-2 gap-2">`,
		sectionID)
	sb.WriteString(`<select name="type" class="border rounded px-2 py-1">`)
	for _, t := range builderFieldTypes {
		fmt.Fprintf(sb, `<option value="%s">%s</option>`, t, t)
	}
	sb.WriteString(`</select>`)
	sb.WriteString(`<input type="text" name="label" placeholder="Label" class="border rounded px-2 py-1">`)
	sb.WriteString(`<input type="text" name="name" placeholder="Name" class="border rounded px-2 py-1">`)
	sb.WriteString(`<input type="text" name="placeholder" placeholder="Placeholder" class="border rounded px-2 py-1">`)
	sb.WriteString(`<input type="text" name="helperText" placeholder="Helper text" class="border rounded px-2 py-1">`)
	sb.WriteString(`<label class="flex items-center gap-1"><input type="checkbox" name="required" value="true"> Required</label>`)
	sb.WriteString(`<input type="text" name="min" placeholder="Min" class="border rounded px-2 py-1">`)
	sb.WriteString(`<input type="text" name="max" placeholder="Max" class="border rounded px-2 py-1">`)
	sb.WriteString(`<textarea name="options" placeholder='Options JSON: [{"label":"A","value":"a"}]' class="border rounded px-2 py-1 col-span-2" rows="2"></textarea>`)
	sb.WriteString(`<textarea name="gridConfig" placeholder='Grid config JSON' class="border rounded px-2 py-1 col-span-2" rows="2"></textarea>`)
	sb.WriteString(`<button type="submit" class="px-3 py-1 bg-blue-600 text-white rounded hover:bg-blue-700 col-span-2">Add</button>`)
	sb.WriteString(`</form></details>`)
}

// renderBuilderPreview mounts a throwaway form over the working schema. The
// preview never submits anywhere.
func (h *Handlers) renderBuilderPreview(sb *strings.Builder) {
	preview, err := form.New(h.builder.Sections(), nil)
	if err != nil {
		fmt.Fprintf(sb, `<p class="text-sm text-red-600">Schema error: %s</p>`, html.EscapeString(err.Error()))
		return
	}
	renderer := &form.Renderer{Form: preview, FormID: "builder-preview", Action: "#", Plain: true}
	sb.WriteString(string(renderer.HTML()))
}
