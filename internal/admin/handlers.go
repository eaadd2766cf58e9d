// ABOUTME: HTTP handlers for the admin UI pages.
// ABOUTME: Dashboard, session pages, request logs, and shared page plumbing.

package admin

import (
	"net/http"
	"sync"

	"github.com/agroplan/cuartel-admin/internal/auth"
	"github.com/agroplan/cuartel-admin/internal/form"
	"github.com/agroplan/cuartel-admin/internal/grid"
	"github.com/agroplan/cuartel-admin/internal/store"
	"github.com/go-chi/chi/v5"
)

type Handlers struct {
	store    *store.Store
	session  *auth.Service
	registry *grid.Registry

	// Page state is shared across requests; the admin UI is a single
	// operator surface, so mutations are serialized here.
	mu            sync.Mutex
	cuarteles     *gridPage
	lista         *gridPage
	exampleForm   *form.Form
	exampleGrid   *gridPage
	formSubmitted bool
	builder       *form.Builder
}

func NewHandlers(s *store.Store, session *auth.Service) (*Handlers, error) {
	registry, err := grid.NewRegistry(grid.NewKVPersister(s))
	if err != nil {
		return nil, err
	}

	h := &Handlers{store: s, session: session, registry: registry}
	if err := h.setupCuarteles(); err != nil {
		return nil, err
	}
	if err := h.setupLista(); err != nil {
		return nil, err
	}
	if err := h.setupDynamicForm(); err != nil {
		return nil, err
	}
	if err := h.setupBuilder(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/login", h.loginPage)
	r.Post("/login", h.loginSubmit)
	r.Post("/logout", h.logout)
	r.Get("/unauthorized", h.unauthorized)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleUser))
		r.Get("/", h.dashboard)
		r.Route("/cuarteles", func(r chi.Router) {
			r.Get("/", h.cuartelesPage)
			h.mountGridActions(r, h.cuarteles)
		})
		r.Route("/dynamic-form", func(r chi.Router) {
			r.Get("/", h.dynamicFormPage)
			r.Post("/", h.dynamicFormSubmit)
			r.Post("/reset", h.dynamicFormReset)
			r.Post("/captcha/{name}", h.dynamicFormCaptchaInput)
			r.Post("/captcha/{name}/refresh", h.dynamicFormCaptchaRefresh)
			r.Route("/grids/plots", func(r chi.Router) {
				h.mountGridActions(r, h.exampleGrid)
			})
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleManager))
		r.Route("/lista-cuarteles", func(r chi.Router) {
			r.Get("/", h.listaPage)
			r.Get("/new", h.listaNewForm)
			r.Post("/new", h.listaCreate)
			r.Get("/{id}/edit", h.listaEditForm)
			r.Post("/{id}/edit", h.listaUpdate)
			r.Post("/{id}/delete", h.listaDelete)
			h.mountGridActions(r, h.lista)
		})
		r.Route("/form-builder", func(r chi.Router) {
			r.Get("/", h.builderPage)
			h.mountBuilderActions(r)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(auth.RoleAdmin))
		r.Get("/admin/logs", h.logsList)
	})
}

// pageData assembles the common template payload: page title plus the
// session user for the sidebar.
func (h *Handlers) pageData(r *http.Request, title string) map[string]any {
	data := map[string]any{"Title": title}
	if user, ok := auth.UserFromContext(r.Context()); ok {
		data["User"] = user
	}
	return data
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	barracks, _ := h.store.FindAllBarracks()
	plots, _ := h.store.FindAllBarracksList()
	logs, _ := h.store.GetRequestLogs(500)

	data := h.pageData(r, "Dashboard")
	data["BarracksCount"] = len(barracks)
	data["PlotCount"] = len(plots)
	data["RequestCount"] = len(logs)

	w.Header().Set("Content-Type", "text/html")
	renderPage(w, "dashboard", data)
}

func (h *Handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	renderPage(w, "login", map[string]any{
		"Title": "Sign in",
		"From":  r.URL.Query().Get("from"),
	})
}

func (h *Handlers) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	creds := auth.Credentials{
		Enterprise: r.FormValue("enterprise"),
		Username:   r.FormValue("username"),
		Password:   r.FormValue("password"),
	}

	if _, _, err := h.session.Login(creds); err != nil {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusUnauthorized)
		renderPage(w, "login", map[string]any{
			"Title": "Sign in",
			"From":  r.FormValue("from"),
			"Error": "Invalid enterprise, username, or password.",
		})
		return
	}

	target := r.FormValue("from")
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	h.session.Logout()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handlers) unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	renderPage(w, "unauthorized", h.pageData(r, "Access denied"))
}

func (h *Handlers) logsList(w http.ResponseWriter, r *http.Request) {
	logs, err := h.store.GetRequestLogs(200)
	if err != nil {
		http.Error(w, "failed to load logs", http.StatusInternalServerError)
		return
	}
	data := h.pageData(r, "Request Logs")
	data["Logs"] = logs
	w.Header().Set("Content-Type", "text/html")
	renderPage(w, "logs", data)
}
