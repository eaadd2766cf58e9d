// ABOUTME: Dynamic Form demo page exercising every field type.
// ABOUTME: Mounts a captcha, a read-only grid, and a selectable plots grid.

package admin

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/agroplan/cuartel-admin/internal/form"
	"github.com/agroplan/cuartel-admin/internal/grid"
	"github.com/go-chi/chi/v5"
)

const plotsGridID = "dynamic-form-plots"

func examplePlotRows() []grid.Row {
	return []grid.Row{
		{"id": "p1", "name": "Parcela Norte", "zone": "Zona A", "hectares": 3.2},
		{"id": "p2", "name": "Parcela Sur", "zone": "Zona B", "hectares": 1.8},
		{"id": "p3", "name": "Parcela Oriente", "zone": "Zona A", "hectares": 2.5},
		{"id": "p4", "name": "Ladera Baja", "zone": "Zona C", "hectares": 4.1},
	}
}

func examplePlotColumns() []grid.Column {
	return []grid.Column{
		{ID: "name", Header: "Parcela", Accessor: "name", Visible: true, Sortable: true},
		{ID: "zone", Header: "Zona", Accessor: "zone", Visible: true, Sortable: true, Groupable: true},
		{ID: "hectares", Header: "Ha", Accessor: "hectares", Visible: true, Sortable: true},
	}
}

func exampleFormSchema() form.Sections {
	plots := &form.GridFieldConfig{
		Title:   "Parcelas",
		IDField: "id",
		Columns: examplePlotColumns(),
		Rows:    examplePlotRows(),
	}
	return form.Sections{
		{
			ID:          "general",
			Title:       "Datos Generales",
			Description: "Campos de ejemplo de cada tipo soportado.",
			Fields: []form.FieldConfig{
				{ID: "fullName", Type: form.FieldText, Label: "Nombre Completo", Name: "fullName", Required: true, Placeholder: "Nombre y apellido"},
				{ID: "email", Type: form.FieldEmail, Label: "Correo", Name: "email", Placeholder: "persona@campo.cl"},
				{ID: "password", Type: form.FieldPassword, Label: "Contraseña", Name: "password"},
				{ID: "website", Type: form.FieldURL, Label: "Sitio Web", Name: "website"},
				{ID: "searchTerms", Type: form.FieldSearch, Label: "Búsqueda", Name: "searchTerms"},
				{ID: "hectares", Type: form.FieldNumber, Label: "Hectáreas", Name: "hectares", Min: floatRef(0), Step: floatRef(0.1)},
				{ID: "visitDate", Type: form.FieldDate, Label: "Fecha de Visita", Name: "visitDate"},
				{ID: "species", Type: form.FieldSelect, Label: "Especie", Name: "species", Options: []form.Option{
					{Label: "Vid", Value: "vid"},
					{Label: "Palto", Value: "palto"},
					{Label: "Cerezo", Value: "cerezo"},
				}},
				{ID: "season", Type: form.FieldRadio, Label: "Temporada", Name: "season", Options: []form.Option{
					{Label: "Primavera", Value: "spring"},
					{Label: "Verano", Value: "summer"},
					{Label: "Otoño", Value: "autumn"},
				}},
				{ID: "certified", Type: form.FieldCheckbox, Label: "Certificado", Name: "certified"},
				{ID: "slope", Type: form.FieldRange, Label: "Pendiente (%)", Name: "slope", Min: floatRef(0), Max: floatRef(45)},
				{ID: "region", Type: form.FieldAutocomplete, Label: "Región", Name: "region", Options: []form.Option{
					{Label: "Valparaíso", Value: "Valparaíso"},
					{Label: "O'Higgins", Value: "O'Higgins"},
					{Label: "Maule", Value: "Maule"},
				}},
				{ID: "attachment", Type: form.FieldFile, Label: "Adjunto", Name: "attachment", HelperText: "Informe de terreno en PDF"},
				{ID: "notes", Type: form.FieldTextarea, Label: "Notas", Name: "notes", Rows: 3},
				{ID: "source", Type: form.FieldHidden, Label: "", Name: "source"},
			},
		},
		{
			ID:    "verification",
			Title: "Verificación",
			Fields: []form.FieldConfig{
				{ID: "human", Type: form.FieldCaptcha, Label: "Verificación", Name: "human", Required: true, HelperText: "Copia el texto del desafío."},
				{ID: "reference", Type: form.FieldGrid, Label: "Parcelas de Referencia", Name: "reference", GridConfig: &form.GridFieldConfig{
					Title:   "Referencia",
					IDField: "id",
					Columns: examplePlotColumns(),
					Rows:    examplePlotRows(),
				}},
				{ID: "plots", Type: form.FieldSelectableGrid, Label: "Parcelas Asociadas", Name: "plots", GridConfig: plots},
			},
		},
	}
}

func exampleFormRules() map[string]form.Rule {
	return map[string]form.Rule{
		"fullName": {Required: true, Min: floatRef(3)},
		"email":    {Email: true},
		"hectares": {Min: floatRef(0)},
		"human":    {Required: true},
	}
}

func (h *Handlers) setupDynamicForm() error {
	f, err := form.New(exampleFormSchema(), map[string]any{"source": "admin-demo"})
	if err != nil {
		return err
	}
	f.AttachValidation(exampleFormRules())
	h.exampleForm = f

	cols := examplePlotColumns()
	if err := h.registry.Initialize(plotsGridID, cols); err != nil {
		return err
	}
	h.exampleGrid = &gridPage{
		id:        plotsGridID,
		title:     "Parcelas",
		basePath:  "/dynamic-form/grids/plots",
		idField:   "id",
		initial:   cols,
		rows:      examplePlotRows,
		selection: f.Selection("plots"),
		onSelectionChange: func() {
			f.SyncSelection("plots")
		},
	}
	h.exampleGrid.renderer = &grid.Renderer{
		GridID:   plotsGridID,
		Title:    "Parcelas",
		IDField:  "id",
		BasePath: "/dynamic-form/grids/plots",
	}
	return nil
}

func (h *Handlers) exampleFormRenderer() *form.Renderer {
	return &form.Renderer{
		Form:     h.exampleForm,
		FormID:   "dynamic-form",
		Action:   "/dynamic-form",
		BasePath: "/dynamic-form",
		RenderGrid: func(field form.FieldConfig) template.HTML {
			if field.Name == "plots" {
				return h.exampleGrid.fragment(h.registry)
			}
			return h.renderStaticGrid(field)
		},
	}
}

// renderStaticGrid renders a read-only grid field directly from its config,
// outside the registry; there is no persisted state to track.
func (h *Handlers) renderStaticGrid(field form.FieldConfig) template.HTML {
	cfg := field.GridConfig
	if cfg == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(`<table class="w-full border"><thead><tr>`)
	for _, col := range cfg.Columns {
		if !col.Visible {
			continue
		}
		sb.WriteString(`<th class="px-3 py-2 text-left text-sm font-medium">`)
		sb.WriteString(template.HTMLEscapeString(col.Header))
		sb.WriteString(`</th>`)
	}
	sb.WriteString(`</tr></thead><tbody>`)
	for _, row := range cfg.Rows {
		sb.WriteString(`<tr>`)
		for _, col := range cfg.Columns {
			if !col.Visible {
				continue
			}
			sb.WriteString(`<td class="px-3 py-2 border-t text-sm">`)
			sb.WriteString(template.HTMLEscapeString(grid.Stringify(row[col.Accessor])))
			sb.WriteString(`</td>`)
		}
		sb.WriteString(`</tr>`)
	}
	sb.WriteString(`</tbody></table>`)
	return template.HTML(sb.String())
}

// exampleFormFragment is the htmx swap payload: optional success banner
// followed by the re-rendered form.
func (h *Handlers) exampleFormFragment() template.HTML {
	var sb strings.Builder
	if h.formSubmitted {
		sb.WriteString(`<div class="p-4 bg-green-50 border border-green-200 text-green-800 rounded">Form submitted successfully.</div>`)
	}
	sb.WriteString(string(h.exampleFormRenderer().HTML()))
	return template.HTML(sb.String())
}

func (h *Handlers) dynamicFormPage(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data := h.pageData(r, "Dynamic Form")
	data["Form"] = h.exampleFormRenderer().HTML()
	data["Submitted"] = h.formSubmitted
	h.formSubmitted = false
	w.Header().Set("Content-Type", "text/html")
	renderPage(w, "form", data)
}

func (h *Handlers) dynamicFormSubmit(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r.ParseForm()
	applyFormValues(h.exampleForm, r)
	if raw := r.FormValue("human"); raw != "" {
		h.exampleForm.SetCaptchaInput("human", raw)
	}

	err := h.exampleForm.Submit(nil)
	h.formSubmitted = err == nil
	if err == nil {
		h.exampleForm.Reset()
	}

	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(h.exampleFormFragment()))
	h.formSubmitted = false
}

func (h *Handlers) dynamicFormReset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exampleForm.Reset()
	h.formSubmitted = false
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(h.exampleFormRenderer().HTML()))
}

func (h *Handlers) dynamicFormCaptchaInput(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	name := chi.URLParam(r, "name")
	r.ParseForm()
	h.exampleForm.SetCaptchaInput(name, r.FormValue(name))
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(h.exampleFormRenderer().HTML()))
}

func (h *Handlers) dynamicFormCaptchaRefresh(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exampleForm.RefreshCaptcha(chi.URLParam(r, "name"))
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(h.exampleFormRenderer().HTML()))
}
