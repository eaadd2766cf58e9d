// ABOUTME: Grid-backed pages and their htmx action endpoints.
// ABOUTME: Cuarteles over fixture rows, Lista Cuarteles over the database.

package admin

import (
	"fmt"
	"html"
	"html/template"
	"net/http"

	"github.com/agroplan/cuartel-admin/internal/grid"
	"github.com/agroplan/cuartel-admin/internal/httperr"
	"github.com/agroplan/cuartel-admin/internal/store"
	"github.com/go-chi/chi/v5"
)

// gridPage binds one grid id to its data source and renderer.
type gridPage struct {
	id        string
	title     string
	basePath  string
	idField   string
	initial   []grid.Column
	rows      func() []grid.Row
	renderer  *grid.Renderer
	selection *grid.Selection
	// onSelectionChange runs after select/select-all so owners can derive
	// values from the new selection.
	onSelectionChange func()
}

// fragment renders the grid's current state for htmx swaps.
func (p *gridPage) fragment(reg *grid.Registry) template.HTML {
	rows := p.rows()
	if p.selection != nil {
		sel := &grid.SelectableRenderer{Renderer: *p.renderer, Selection: p.selection}
		return sel.HTML(reg, rows)
	}
	return p.renderer.HTML(reg, rows)
}

func (p *gridPage) view(reg *grid.Registry) (grid.View, grid.GridState) {
	st, _ := reg.Get(p.id)
	return grid.BuildView(p.rows(), st), st
}

// mountGridActions wires the per-grid htmx endpoints under the page route.
// Every mutation responds with the re-rendered grid fragment.
func (h *Handlers) mountGridActions(r chi.Router, p *gridPage) {
	respond := func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(p.fragment(h.registry)))
	}

	r.Post("/sort", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.registry.CycleSort(p.id, r.URL.Query().Get("column"))
		respond(w)
	})
	r.Post("/group", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.registry.SetGroupState(p.id, grid.GroupState{Column: r.URL.Query().Get("column")})
		respond(w)
	})
	r.Post("/search", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		r.ParseForm()
		h.registry.SetSearchTerm(p.id, r.FormValue("term"))
		respond(w)
	})
	r.Post("/toggle-column", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.registry.ToggleColumnVisibility(p.id, r.URL.Query().Get("column"))
		respond(w)
	})
	r.Post("/toggle-row", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.registry.ToggleRowExpanded(p.id, r.URL.Query().Get("row"))
		respond(w)
	})
	r.Post("/reset-columns", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.registry.ResetColumnConfiguration(p.id, p.initial)
		respond(w)
	})
	r.Get("/export", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		view, st := p.view(h.registry)
		file, err := grid.Export(p.title, view, st.Columns, grid.Format(r.URL.Query().Get("format")))
		if err == grid.ErrPDFNotImplemented {
			httperr.Write(w, http.StatusNotImplemented, httperr.CodeNotImplemented, "PDF export is not implemented")
			return
		}
		if err != nil {
			httperr.Write(w, http.StatusBadRequest, httperr.CodeInvalidRequest, err.Error())
			return
		}
		w.Header().Set("Content-Type", file.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
		w.Write(file.Data)
	})

	if p.selection == nil {
		return
	}
	r.Post("/select", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		p.selection.Toggle(r.URL.Query().Get("row"))
		if p.onSelectionChange != nil {
			p.onSelectionChange()
		}
		respond(w)
	})
	r.Post("/select-all", func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		defer h.mu.Unlock()
		view, _ := p.view(h.registry)
		p.selection.ToggleAll(grid.VisibleIDs(view, p.idField))
		if p.onSelectionChange != nil {
			p.onSelectionChange()
		}
		respond(w)
	})
}

// mockCuarteles are the fixture rows behind the Cuarteles page; the page
// demonstrates the grid engine without touching the database.
var mockCuarteles = []grid.Row{
	{"id": "1", "barracks": "Cuartel Norte 1", "species": "Vid", "variety": "Cabernet Sauvignon", "phenologicalState": "Floración", "state": true},
	{"id": "2", "barracks": "Cuartel Norte 2", "species": "Vid", "variety": "Carmenère", "phenologicalState": "Cuaja", "state": true},
	{"id": "3", "barracks": "Cuartel Sur 1", "species": "Palto", "variety": "Hass", "phenologicalState": "Brotación", "state": true},
	{"id": "4", "barracks": "Cuartel Sur 2", "species": "Palto", "variety": "Fuerte", "phenologicalState": "Floración", "state": true},
	{"id": "5", "barracks": "Cuartel Oriente", "species": "Cerezo", "variety": "Lapins", "phenologicalState": "Pinta", "state": true},
	{"id": "6", "barracks": "Cuartel Poniente", "species": "Cerezo", "variety": "Santina", "phenologicalState": "Cosecha", "state": false},
	{"id": "7", "barracks": "Ladera Alta", "species": "Nogal", "variety": "Chandler", "phenologicalState": "Receso", "state": true},
}

func cuartelesColumns() []grid.Column {
	return []grid.Column{
		{ID: "barracks", Header: "Cuartel", Accessor: "barracks", Visible: true, Sortable: true},
		{ID: "species", Header: "Especie", Accessor: "species", Visible: true, Sortable: true, Groupable: true},
		{ID: "variety", Header: "Variedad", Accessor: "variety", Visible: true, Sortable: true},
		{ID: "phenologicalState", Header: "Estado Fenológico", Accessor: "phenologicalState", Visible: true, Sortable: true, Groupable: true},
		{ID: "state", Header: "Activo", Accessor: "state", Visible: false, Sortable: true},
	}
}

func (h *Handlers) setupCuarteles() error {
	cols := cuartelesColumns()
	if err := h.registry.Initialize("cuarteles", cols); err != nil {
		return err
	}
	h.cuarteles = &gridPage{
		id:       "cuarteles",
		title:    "Cuarteles",
		basePath: "/cuarteles",
		idField:  "id",
		initial:  cols,
		rows:     func() []grid.Row { return mockCuarteles },
	}
	h.cuarteles.renderer = &grid.Renderer{
		GridID:   "cuarteles",
		Title:    "Cuarteles",
		IDField:  "id",
		BasePath: "/cuarteles",
		ExpandableContent: func(row grid.Row) template.HTML {
			return template.HTML(fmt.Sprintf(
				`<dl class="text-sm grid grid-cols-2 gap-1"><dt class="text-gray-500">Variedad</dt><dd>%s</dd><dt class="text-gray-500">Estado</dt><dd>%s</dd></dl>`,
				html.EscapeString(grid.Stringify(row["variety"])),
				html.EscapeString(grid.Stringify(row["phenologicalState"]))))
		},
	}
	return nil
}

func (h *Handlers) cuartelesPage(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data := h.pageData(r, "Cuarteles")
	data["Grid"] = h.cuarteles.fragment(h.registry)
	w.Header().Set("Content-Type", "text/html")
	renderPage(w, "grid", data)
}

func listaColumns() []grid.Column {
	return []grid.Column{
		{ID: "barracksPaddockName", Header: "Potrero", Accessor: "barracksPaddockName", Visible: true, Sortable: true},
		{ID: "classificationZone", Header: "Zona", Accessor: "classificationZone", Visible: true, Sortable: true, Groupable: true},
		{ID: "varietySpecies", Header: "Especie", Accessor: "varietySpecies", Visible: true, Sortable: true, Groupable: true},
		{ID: "variety", Header: "Variedad", Accessor: "variety", Visible: true, Sortable: true},
		{ID: "qualityType", Header: "Calidad", Accessor: "qualityType", Visible: true, Sortable: true, Groupable: true},
		{ID: "totalHa", Header: "Ha", Accessor: "totalHa", Visible: true, Sortable: true},
		{ID: "totalPlants", Header: "Plantas", Accessor: "totalPlants", Visible: true, Sortable: true},
		{ID: "organic", Header: "Orgánico", Accessor: "organic", Visible: false, Sortable: true, Groupable: true},
		{ID: "soilType", Header: "Suelo", Accessor: "soilType", Visible: false, Sortable: true, Groupable: true},
		{ID: "soilPh", Header: "pH", Accessor: "soilPh", Visible: false, Sortable: true},
		{ID: "irrigationType", Header: "Riego", Accessor: "irrigationType", Visible: false, Sortable: true, Groupable: true},
		{ID: "plantationYear", Header: "Año Plantación", Accessor: "plantationYear", Visible: false, Sortable: true},
	}
}

func rowFromBarracksList(rec *store.BarracksList) grid.Row {
	return grid.Row{
		"id":                  rec.ID,
		"barracksPaddockName": rec.BarracksPaddockName,
		"classificationZone":  rec.ClassificationZone,
		"varietySpecies":      rec.VarietySpecies,
		"variety":             rec.Variety,
		"qualityType":         rec.QualityType,
		"totalHa":             rec.TotalHa,
		"totalPlants":         rec.TotalPlants,
		"organic":             rec.Organic,
		"soilType":            rec.SoilType,
		"soilPh":              rec.SoilPh,
		"irrigationType":      rec.IrrigationType,
		"plantationYear":      rec.PlantationYear,
	}
}

func (h *Handlers) setupLista() error {
	cols := listaColumns()
	if err := h.registry.Initialize("lista-cuarteles", cols); err != nil {
		return err
	}
	h.lista = &gridPage{
		id:       "lista-cuarteles",
		title:    "Lista Cuarteles",
		basePath: "/lista-cuarteles",
		idField:  "id",
		initial:  cols,
		rows: func() []grid.Row {
			records, err := h.store.FindAllBarracksList()
			if err != nil {
				return nil
			}
			var rows []grid.Row
			for _, rec := range records {
				// Soft-deleted records stay in the table but leave the list
				if !rec.State {
					continue
				}
				rows = append(rows, rowFromBarracksList(rec))
			}
			return rows
		},
	}
	h.lista.renderer = &grid.Renderer{
		GridID:   "lista-cuarteles",
		Title:    "Lista Cuarteles",
		IDField:  "id",
		BasePath: "/lista-cuarteles",
		RowActions: func(row grid.Row) template.HTML {
			id := html.EscapeString(grid.Stringify(row["id"]))
			return template.HTML(fmt.Sprintf(
				`<a href="/lista-cuarteles/%s/edit" class="text-blue-600 hover:underline">Edit</a> `+
					`<button hx-post="/lista-cuarteles/%s/delete" hx-target="#grid-lista-cuarteles" hx-swap="outerHTML" hx-confirm="Deactivate this record?" class="text-red-600 hover:underline">Delete</button>`,
				id, id))
		},
	}
	return nil
}

func (h *Handlers) listaPage(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data := h.pageData(r, "Lista Cuarteles")
	data["Grid"] = h.lista.fragment(h.registry)
	data["NewPath"] = "/lista-cuarteles/new"
	w.Header().Set("Content-Type", "text/html")
	renderPage(w, "grid", data)
}

func (h *Handlers) listaDelete(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := chi.URLParam(r, "id")
	if _, err := h.store.SoftDeleteBarracksList(id); err != nil {
		if err == store.ErrNotFound {
			httperr.Write(w, http.StatusNotFound, httperr.CodeNotFound, "record not found")
			return
		}
		httperr.Write(w, http.StatusInternalServerError, httperr.CodeDatabaseError, "failed to delete record")
		return
	}
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(h.lista.fragment(h.registry)))
}
