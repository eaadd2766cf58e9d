// ABOUTME: Create/edit forms for Lista Cuarteles records.
// ABOUTME: A dynamic-form schema drives both pages; values map onto the store record.

package admin

import (
	"net/http"

	"github.com/agroplan/cuartel-admin/internal/form"
	"github.com/agroplan/cuartel-admin/internal/httperr"
	"github.com/agroplan/cuartel-admin/internal/store"
	"github.com/go-chi/chi/v5"
)

func listaFormSchema() form.Sections {
	zone := []form.Option{
		{Label: "Zona A", Value: "Zona A"},
		{Label: "Zona B", Value: "Zona B"},
		{Label: "Zona C", Value: "Zona C"},
		{Label: "Zona D", Value: "Zona D"},
	}
	quality := []form.Option{
		{Label: "Premium", Value: "Premium"},
		{Label: "Exportación", Value: "Exportación"},
		{Label: "Mercado interno", Value: "Mercado interno"},
	}
	soil := []form.Option{
		{Label: "Franco", Value: "Franco"},
		{Label: "Franco arcilloso", Value: "Franco arcilloso"},
		{Label: "Arcilloso", Value: "Arcilloso"},
		{Label: "Arenoso", Value: "Arenoso"},
	}
	irrigation := []form.Option{
		{Label: "Goteo", Value: "Goteo"},
		{Label: "Aspersión", Value: "Aspersión"},
		{Label: "Surco", Value: "Surco"},
	}

	return form.Sections{
		{
			ID:    "identification",
			Title: "Identificación",
			Fields: []form.FieldConfig{
				{ID: "barracksPaddockName", Type: form.FieldText, Label: "Nombre Potrero", Name: "barracksPaddockName", Required: true},
				{ID: "classificationZone", Type: form.FieldSelect, Label: "Zona de Clasificación", Name: "classificationZone", Options: zone},
				{ID: "varietySpecies", Type: form.FieldText, Label: "Especie", Name: "varietySpecies"},
				{ID: "variety", Type: form.FieldText, Label: "Variedad", Name: "variety"},
				{ID: "qualityType", Type: form.FieldSelect, Label: "Tipo de Calidad", Name: "qualityType", Options: quality},
				{ID: "organic", Type: form.FieldCheckbox, Label: "Orgánico", Name: "organic"},
			},
		},
		{
			ID:    "surface",
			Title: "Superficie",
			Fields: []form.FieldConfig{
				{ID: "totalHa", Type: form.FieldNumber, Label: "Hectáreas Totales", Name: "totalHa"},
				{ID: "totalPlants", Type: form.FieldNumber, Label: "Plantas Totales", Name: "totalPlants"},
				{ID: "plantationYear", Type: form.FieldNumber, Label: "Año de Plantación", Name: "plantationYear"},
				{ID: "pattern", Type: form.FieldText, Label: "Patrón", Name: "pattern"},
			},
		},
		{
			ID:    "soil",
			Title: "Suelo y Riego",
			Fields: []form.FieldConfig{
				{ID: "soilType", Type: form.FieldSelect, Label: "Tipo de Suelo", Name: "soilType", Options: soil},
				{ID: "texture", Type: form.FieldText, Label: "Textura", Name: "texture"},
				{ID: "soilPh", Type: form.FieldNumber, Label: "pH del Suelo", Name: "soilPh", Min: floatRef(0), Max: floatRef(14), Step: floatRef(0.1)},
				{ID: "irrigationType", Type: form.FieldSelect, Label: "Tipo de Riego", Name: "irrigationType", Options: irrigation},
				{ID: "irrigationZone", Type: form.FieldCheckbox, Label: "Sector de Riego Activo", Name: "irrigationZone"},
				{ID: "observation", Type: form.FieldTextarea, Label: "Observación", Name: "observation", Rows: 4},
			},
		},
	}
}

func listaFormRules() map[string]form.Rule {
	return map[string]form.Rule{
		"barracksPaddockName": {Required: true},
		"totalHa":             {Min: floatRef(0)},
		"soilPh":              {Min: floatRef(0), Max: floatRef(14)},
	}
}

func floatRef(f float64) *float64 { return &f }

func listaFormDefaults(rec *store.BarracksList) map[string]any {
	if rec == nil {
		return nil
	}
	return map[string]any{
		"barracksPaddockName": rec.BarracksPaddockName,
		"classificationZone":  rec.ClassificationZone,
		"varietySpecies":      rec.VarietySpecies,
		"variety":             rec.Variety,
		"qualityType":         rec.QualityType,
		"organic":             rec.Organic,
		"totalHa":             rec.TotalHa,
		"totalPlants":         float64(rec.TotalPlants),
		"plantationYear":      float64(rec.PlantationYear),
		"pattern":             rec.Pattern,
		"soilType":            rec.SoilType,
		"texture":             rec.Texture,
		"soilPh":              rec.SoilPh,
		"irrigationType":      rec.IrrigationType,
		"irrigationZone":      rec.IrrigationZone,
		"observation":         rec.Observation,
	}
}

func newListaForm(rec *store.BarracksList) (*form.Form, error) {
	f, err := form.New(listaFormSchema(), listaFormDefaults(rec))
	if err != nil {
		return nil, err
	}
	f.AttachValidation(listaFormRules())
	return f, nil
}

// applyFormValues pushes the posted values through the form's coercion, one
// field at a time. Unchecked checkboxes post nothing, so absence means false.
func applyFormValues(f *form.Form, r *http.Request) {
	for _, sec := range f.Sections() {
		for _, field := range sec.Fields {
			switch field.Type {
			case form.FieldCheckbox:
				if r.FormValue(field.Name) == "" {
					f.SetValue(field.Name, "false")
				} else {
					f.SetValue(field.Name, r.FormValue(field.Name))
				}
			case form.FieldCaptcha, form.FieldGrid, form.FieldSelectableGrid:
				// captcha and grids hold server-side state
			default:
				f.SetValue(field.Name, r.FormValue(field.Name))
			}
		}
	}
}

func strVal(values map[string]any, key string) string {
	s, _ := values[key].(string)
	return s
}

func floatVal(values map[string]any, key string) float64 {
	f, _ := values[key].(float64)
	return f
}

func boolVal(values map[string]any, key string) bool {
	b, _ := values[key].(bool)
	return b
}

func (h *Handlers) renderRecordForm(w http.ResponseWriter, r *http.Request, title, action string, f *form.Form, errMsg string) {
	renderer := &form.Renderer{Form: f, FormID: "lista-record", Action: action, Plain: true}
	data := h.pageData(r, title)
	data["Form"] = renderer.HTML()
	if errMsg != "" {
		data["Error"] = errMsg
	}
	w.Header().Set("Content-Type", "text/html")
	renderPage(w, "record-form", data)
}

func (h *Handlers) listaNewForm(w http.ResponseWriter, r *http.Request) {
	f, err := newListaForm(nil)
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeInternal, "failed to build form")
		return
	}
	h.renderRecordForm(w, r, "Nuevo Registro", "/lista-cuarteles/new", f, "")
}

func (h *Handlers) listaCreate(w http.ResponseWriter, r *http.Request) {
	f, err := newListaForm(nil)
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeInternal, "failed to build form")
		return
	}
	r.ParseForm()
	applyFormValues(f, r)

	submitErr := f.Submit(func(values map[string]any) error {
		rec := &store.BarracksList{
			BarracksPaddockName: strVal(values, "barracksPaddockName"),
			ClassificationZone:  strVal(values, "classificationZone"),
			VarietySpecies:      strVal(values, "varietySpecies"),
			Variety:             strVal(values, "variety"),
			QualityType:         strVal(values, "qualityType"),
			Organic:             boolVal(values, "organic"),
			TotalHa:             floatVal(values, "totalHa"),
			TotalPlants:         int(floatVal(values, "totalPlants")),
			PlantationYear:      int(floatVal(values, "plantationYear")),
			Pattern:             strVal(values, "pattern"),
			SoilType:            strVal(values, "soilType"),
			Texture:             strVal(values, "texture"),
			SoilPh:              floatVal(values, "soilPh"),
			IrrigationType:      strVal(values, "irrigationType"),
			IrrigationZone:      boolVal(values, "irrigationZone"),
			Observation:         strVal(values, "observation"),
			State:               true,
		}
		_, err := h.store.CreateBarracksList(rec)
		return err
	})
	if submitErr == form.ErrValidation {
		h.renderRecordForm(w, r, "Nuevo Registro", "/lista-cuarteles/new", f, "Please correct the highlighted fields.")
		return
	}
	if submitErr != nil {
		h.renderRecordForm(w, r, "Nuevo Registro", "/lista-cuarteles/new", f, "Failed to save the record. The data was kept; try again.")
		return
	}
	http.Redirect(w, r, "/lista-cuarteles", http.StatusSeeOther)
}

func (h *Handlers) listaEditForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.store.FindBarracksListByID(id)
	if err == store.ErrNotFound {
		httperr.Write(w, http.StatusNotFound, httperr.CodeNotFound, "record not found")
		return
	}
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeDatabaseError, "failed to load record")
		return
	}
	f, err := newListaForm(rec)
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeInternal, "failed to build form")
		return
	}
	h.renderRecordForm(w, r, "Editar "+rec.BarracksPaddockName, "/lista-cuarteles/"+id+"/edit", f, "")
}

func (h *Handlers) listaUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := h.store.FindBarracksListByID(id)
	if err == store.ErrNotFound {
		httperr.Write(w, http.StatusNotFound, httperr.CodeNotFound, "record not found")
		return
	}
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeDatabaseError, "failed to load record")
		return
	}

	f, err := newListaForm(rec)
	if err != nil {
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeInternal, "failed to build form")
		return
	}
	r.ParseForm()
	applyFormValues(f, r)

	submitErr := f.Submit(func(values map[string]any) error {
		patch := map[string]any{
			"barracksPaddockName": strVal(values, "barracksPaddockName"),
			"classificationZone":  strVal(values, "classificationZone"),
			"varietySpecies":      strVal(values, "varietySpecies"),
			"variety":             strVal(values, "variety"),
			"qualityType":         strVal(values, "qualityType"),
			"organic":             boolVal(values, "organic"),
			"totalHa":             floatVal(values, "totalHa"),
			"totalPlants":         int(floatVal(values, "totalPlants")),
			"plantationYear":      int(floatVal(values, "plantationYear")),
			"pattern":             strVal(values, "pattern"),
			"soilType":            strVal(values, "soilType"),
			"texture":             strVal(values, "texture"),
			"soilPh":              floatVal(values, "soilPh"),
			"irrigationType":      strVal(values, "irrigationType"),
			"irrigationZone":      boolVal(values, "irrigationZone"),
			"observation":         strVal(values, "observation"),
		}
		_, err := h.store.UpdateBarracksList(id, patch)
		return err
	})
	if submitErr == form.ErrValidation {
		h.renderRecordForm(w, r, "Editar "+rec.BarracksPaddockName, "/lista-cuarteles/"+id+"/edit", f, "Please correct the highlighted fields.")
		return
	}
	if submitErr != nil {
		h.renderRecordForm(w, r, "Editar "+rec.BarracksPaddockName, "/lista-cuarteles/"+id+"/edit", f, "Failed to save the record. The data was kept; try again.")
		return
	}
	http.Redirect(w, r, "/lista-cuarteles", http.StatusSeeOther)
}
