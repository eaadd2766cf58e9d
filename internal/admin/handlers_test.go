// ABOUTME: Tests for the admin HTTP handlers.
// ABOUTME: Covers session flow, role gating, grid actions, and record CRUD.

package admin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/agroplan/cuartel-admin/internal/auth"
	"github.com/agroplan/cuartel-admin/internal/store"
	"github.com/go-chi/chi/v5"
)

func setupAdmin(t *testing.T) (*Handlers, http.Handler, *store.Store, *auth.Service) {
	t.Helper()
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	session := auth.NewService(s)
	h, err := NewHandlers(s, session)
	if err != nil {
		t.Fatalf("Failed to build handlers: %v", err)
	}

	r := chi.NewRouter()
	r.Use(auth.Middleware(session))
	h.RegisterRoutes(r)
	return h, r, s, session
}

func loginAs(t *testing.T, session *auth.Service, username string) {
	t.Helper()
	_, _, err := session.Login(auth.Credentials{
		Enterprise: "empresa1",
		Username:   username,
		Password:   username + "123",
	})
	if err != nil {
		t.Fatalf("Login as %s failed: %v", username, err)
	}
}

func get(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, router http.Handler, path string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginPageRenders(t *testing.T) {
	_, router, _, _ := setupAdmin(t)

	rec := get(t, router, "/login")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "empresa1") {
		t.Error("Expected login page to prefill the enterprise")
	}
}

func TestAnonymousRedirectsToLogin(t *testing.T) {
	_, router, _, _ := setupAdmin(t)

	rec := get(t, router, "/cuarteles")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?from=%2Fcuarteles" {
		t.Errorf("Expected redirect to login with origin, got %q", loc)
	}
}

func TestLoginSubmitRedirects(t *testing.T) {
	_, router, _, _ := setupAdmin(t)

	rec := postForm(t, router, "/login", url.Values{
		"enterprise": {"empresa1"},
		"username":   {"user"},
		"password":   {"user123"},
		"from":       {"/cuarteles"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/cuarteles" {
		t.Errorf("Expected redirect back to origin, got %q", loc)
	}
}

func TestLoginSubmitBadCredentials(t *testing.T) {
	_, router, _, _ := setupAdmin(t)

	rec := postForm(t, router, "/login", url.Values{
		"enterprise": {"empresa1"},
		"username":   {"user"},
		"password":   {"wrong"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid enterprise, username, or password.") {
		t.Error("Expected error message on the login page")
	}
}

func TestDashboardAfterLogin(t *testing.T) {
	_, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	rec := get(t, router, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Dashboard") {
		t.Error("Expected dashboard content")
	}
}

func TestRoleGating(t *testing.T) {
	_, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	rec := get(t, router, "/lista-cuarteles")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303 for user on manager route, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/unauthorized" {
		t.Errorf("Expected /unauthorized, got %q", loc)
	}

	loginAs(t, session, "manager")
	if rec := get(t, router, "/lista-cuarteles"); rec.Code != http.StatusOK {
		t.Fatalf("Expected manager to reach lista-cuarteles, got %d", rec.Code)
	}
	rec = get(t, router, "/admin/logs")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303 for manager on admin route, got %d", rec.Code)
	}

	loginAs(t, session, "admin")
	if rec := get(t, router, "/admin/logs"); rec.Code != http.StatusOK {
		t.Fatalf("Expected admin to reach logs, got %d", rec.Code)
	}
}

func TestCuartelesSortAction(t *testing.T) {
	_, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	rec := postForm(t, router, "/cuarteles/sort?column=species", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `id="grid-cuarteles"`) {
		t.Error("Expected the grid fragment")
	}
	if !strings.Contains(body, "&#9650;") {
		t.Error("Expected an ascending sort indicator")
	}
}

func TestCuartelesSearchFilters(t *testing.T) {
	_, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	rec := postForm(t, router, "/cuarteles/search", url.Values{"term": {"Palto"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Hass") {
		t.Error("Expected matching rows to remain")
	}
	if strings.Contains(body, "Chandler") {
		t.Error("Expected non-matching rows to be filtered out")
	}
}

func TestCuartelesExport(t *testing.T) {
	_, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	rec := get(t, router, "/cuarteles/export?format=csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %q", ct)
	}
	if !strings.HasPrefix(rec.Body.String(), "Cuartel,Especie,Variedad,Estado Fenol") {
		t.Errorf("Expected visible-column header row, got %q", rec.Body.String()[:40])
	}

	rec = get(t, router, "/cuarteles/export?format=pdf")
	if rec.Code != http.StatusNotImplemented {
		t.Fatalf("Expected 501 for PDF export, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "not_implemented") {
		t.Error("Expected the error envelope code")
	}
}

func TestListaCreateRecord(t *testing.T) {
	_, router, s, session := setupAdmin(t)
	loginAs(t, session, "manager")

	rec := postForm(t, router, "/lista-cuarteles/new", url.Values{
		"barracksPaddockName": {"Potrero Los Aromos"},
		"classificationZone":  {"Zona A"},
		"varietySpecies":      {"Vid"},
		"variety":             {"Syrah"},
		"totalHa":             {"3.5"},
		"totalPlants":         {"4200"},
		"soilPh":              {"6.8"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected redirect after create, got %d: %s", rec.Code, rec.Body.String())
	}

	records, err := s.FindAllBarracksList()
	if err != nil || len(records) != 1 {
		t.Fatalf("Expected one record, got %d (err %v)", len(records), err)
	}
	if records[0].BarracksPaddockName != "Potrero Los Aromos" {
		t.Errorf("Unexpected name %q", records[0].BarracksPaddockName)
	}
	if records[0].TotalHa != 3.5 || records[0].TotalPlants != 4200 {
		t.Errorf("Numeric fields not stored: %+v", records[0])
	}
	if !records[0].State {
		t.Error("New records should be active")
	}
}

func TestListaCreateValidation(t *testing.T) {
	_, router, s, session := setupAdmin(t)
	loginAs(t, session, "manager")

	rec := postForm(t, router, "/lista-cuarteles/new", url.Values{
		"soilPh": {"20"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected re-rendered form, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "is required") {
		t.Error("Expected a required-field message")
	}
	if !strings.Contains(body, "must be at most 14") {
		t.Error("Expected the pH range message")
	}

	if records, _ := s.FindAllBarracksList(); len(records) != 0 {
		t.Error("Validation failure must not create a record")
	}
}

func TestListaEditRecord(t *testing.T) {
	_, router, s, session := setupAdmin(t)
	loginAs(t, session, "manager")

	created, err := s.CreateBarracksList(&store.BarracksList{
		BarracksPaddockName: "Potrero Viejo",
		TotalHa:             2.0,
		State:               true,
	})
	if err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}

	rec := get(t, router, "/lista-cuarteles/"+created.ID+"/edit")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Potrero Viejo") {
		t.Error("Expected the edit form to prefill the record")
	}

	rec = postForm(t, router, "/lista-cuarteles/"+created.ID+"/edit", url.Values{
		"barracksPaddockName": {"Potrero Renovado"},
		"totalHa":             {"2.5"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected redirect after edit, got %d", rec.Code)
	}

	updated, err := s.FindBarracksListByID(created.ID)
	if err != nil {
		t.Fatalf("Failed to reload record: %v", err)
	}
	if updated.BarracksPaddockName != "Potrero Renovado" || updated.TotalHa != 2.5 {
		t.Errorf("Record not updated: %+v", updated)
	}
}

func TestListaDeleteIsSoft(t *testing.T) {
	_, router, s, session := setupAdmin(t)
	loginAs(t, session, "manager")

	created, err := s.CreateBarracksList(&store.BarracksList{
		BarracksPaddockName: "Potrero Saliente",
		State:               true,
	})
	if err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}

	rec := postForm(t, router, "/lista-cuarteles/"+created.ID+"/delete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Potrero Saliente") {
		t.Error("Deleted record should leave the grid")
	}

	reloaded, err := s.FindBarracksListByID(created.ID)
	if err != nil {
		t.Fatalf("Soft-deleted record should still exist: %v", err)
	}
	if reloaded.State {
		t.Error("Expected state flipped to false")
	}
}

func TestListaDeleteUnknownRecord(t *testing.T) {
	_, router, _, session := setupAdmin(t)
	loginAs(t, session, "manager")

	rec := postForm(t, router, "/lista-cuarteles/no-such-id/delete", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
}

func TestDynamicFormPageRenders(t *testing.T) {
	_, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	rec := get(t, router, "/dynamic-form")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `id="form-dynamic-form"`) {
		t.Error("Expected the form fragment")
	}
	if !strings.Contains(body, `id="grid-dynamic-form-plots"`) {
		t.Error("Expected the embedded selectable grid")
	}
}

func TestDynamicFormValidationErrors(t *testing.T) {
	_, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	rec := postForm(t, router, "/dynamic-form", url.Values{"email": {"not-an-email"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "is required") {
		t.Error("Expected required errors for empty fields")
	}
	if !strings.Contains(body, "valid email") {
		t.Error("Expected the email format error")
	}
	if strings.Contains(body, "Form submitted successfully.") {
		t.Error("Failed submit must not flash success")
	}
}

func TestDynamicFormCaptchaFlow(t *testing.T) {
	h, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	challenge := h.exampleForm.Captcha("human").Challenge()
	rec := postForm(t, router, "/dynamic-form/captcha/human", url.Values{"human": {challenge}})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Verified") {
		t.Error("Expected the captcha to verify with the exact challenge")
	}

	rec = postForm(t, router, "/dynamic-form/captcha/human/refresh", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "Verified") {
		t.Error("Refresh must invalidate the captcha")
	}
}

func TestDynamicFormSelectablePlots(t *testing.T) {
	h, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	rec := postForm(t, router, "/dynamic-form/grids/plots/select?row=p2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "1 selected") {
		t.Error("Expected the selection count in the footer")
	}

	value := h.exampleForm.Value("plots")
	ids, ok := value.([]string)
	if !ok || len(ids) != 1 || ids[0] != "p2" {
		t.Errorf("Expected the form value to follow the selection, got %#v", value)
	}
}

func TestBuilderAddSectionPersists(t *testing.T) {
	_, router, s, session := setupAdmin(t)
	loginAs(t, session, "manager")

	rec := postForm(t, router, "/form-builder/sections", url.Values{
		"title":       {"Datos del Predio"},
		"description": {"Sección de prueba"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Datos del Predio") {
		t.Error("Expected the new section in the editor")
	}

	raw, ok, err := s.GetSetting("form-builder-schema")
	if err != nil || !ok {
		t.Fatalf("Expected the schema persisted, got ok=%v err=%v", ok, err)
	}
	if !strings.Contains(raw, "Datos del Predio") {
		t.Error("Persisted schema should contain the new section")
	}
}

func TestBuilderAddFieldShowsInPreview(t *testing.T) {
	h, router, _, session := setupAdmin(t)
	loginAs(t, session, "manager")

	sections := h.builder.Sections()
	if len(sections) == 0 {
		t.Fatal("Expected a starter section")
	}
	rec := postForm(t, router, "/form-builder/sections/"+sections[0].ID+"/fields", url.Values{
		"type":  {"email"},
		"label": {"Correo de Contacto"},
		"name":  {"contactEmail"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Correo de Contacto") {
		t.Error("Expected the new field listed in the editor and preview")
	}
	if !strings.Contains(body, `type="email"`) {
		t.Error("Expected the preview to render the email input")
	}
}

func TestBuilderSurvivesRestart(t *testing.T) {
	_, router, s, session := setupAdmin(t)
	loginAs(t, session, "manager")

	postForm(t, router, "/form-builder/sections", url.Values{"title": {"Persistente"}})

	h2, err := NewHandlers(s, session)
	if err != nil {
		t.Fatalf("Failed to rebuild handlers: %v", err)
	}
	found := false
	for _, sec := range h2.builder.Sections() {
		if sec.Title == "Persistente" {
			found = true
		}
	}
	if !found {
		t.Error("Expected the builder schema to reload from storage")
	}
}

func TestLogoutEndsSession(t *testing.T) {
	_, router, _, session := setupAdmin(t)
	loginAs(t, session, "user")

	rec := postForm(t, router, "/logout", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected 303, got %d", rec.Code)
	}

	rec = get(t, router, "/")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected redirect to login after logout, got %d", rec.Code)
	}
}
