// ABOUTME: Tests for the session service and route guards.
// ABOUTME: Covers login, logout, persistence, and the role hierarchy redirects.

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakeKV struct {
	values map[string]string
}

func newFakeKV() *fakeKV {
	return &fakeKV{values: map[string]string{}}
}

func (f *fakeKV) GetSetting(key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakeKV) PutSetting(key, value string) error {
	f.values[key] = value
	return nil
}

func (f *fakeKV) DeleteSetting(key string) error {
	delete(f.values, key)
	return nil
}

func TestRoleHierarchy(t *testing.T) {
	cases := []struct {
		have, want Role
		allowed    bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleManager, true},
		{RoleAdmin, RoleUser, true},
		{RoleManager, RoleAdmin, false},
		{RoleManager, RoleManager, true},
		{RoleManager, RoleUser, true},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleManager, false},
		{RoleUser, RoleUser, true},
		{Role("ghost"), RoleUser, false},
	}
	for _, c := range cases {
		if got := c.have.Allows(c.want); got != c.allowed {
			t.Fatalf("%s.Allows(%s) = %v, want %v", c.have, c.want, got, c.allowed)
		}
	}
}

func TestLoginSuccess(t *testing.T) {
	kv := newFakeKV()
	svc := NewService(kv)

	user, token, err := svc.Login(Credentials{Enterprise: "empresa1", Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Role != RoleAdmin {
		t.Fatalf("Expected admin role, got %s", user.Role)
	}
	if !strings.HasPrefix(token, "mock-jwt-token-") {
		t.Fatalf("Unexpected token shape: %q", token)
	}
	if !svc.IsLoggedIn() {
		t.Fatal("IsLoggedIn false after login")
	}

	current, ok := svc.CurrentUser()
	if !ok || current.Username != "admin" || current.EnterpriseID != "empresa1" {
		t.Fatalf("CurrentUser wrong: ok=%v user=%+v", ok, current)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(newFakeKV())

	cases := []Credentials{
		{Enterprise: "empresa1", Username: "admin", Password: "wrong"},
		{Enterprise: "empresa1", Username: "nobody", Password: "admin123"},
		{Enterprise: "otra", Username: "admin", Password: "admin123"},
	}
	for _, creds := range cases {
		if _, _, err := svc.Login(creds); err != ErrInvalidCredentials {
			t.Fatalf("Expected ErrInvalidCredentials for %+v, got %v", creds, err)
		}
	}
	if svc.IsLoggedIn() {
		t.Fatal("Failed login left a session behind")
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	kv := newFakeKV()
	svc := NewService(kv)
	if _, _, err := svc.Login(Credentials{Enterprise: "empresa1", Username: "manager", Password: "manager123"}); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// A new service over the same storage sees the session
	reborn := NewService(kv)
	if !reborn.IsLoggedIn() {
		t.Fatal("Session lost across restart")
	}
	user, ok := reborn.CurrentUser()
	if !ok || user.Role != RoleManager {
		t.Fatalf("User snapshot lost: ok=%v user=%+v", ok, user)
	}
}

func TestLogout(t *testing.T) {
	svc := NewService(newFakeKV())
	svc.Login(Credentials{Enterprise: "empresa1", Username: "user", Password: "user123"})

	if err := svc.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if svc.IsLoggedIn() {
		t.Fatal("Still logged in after logout")
	}
	if _, ok := svc.CurrentUser(); ok {
		t.Fatal("User snapshot survived logout")
	}
}

func guardedHandler(svc *Service, guard func(http.Handler) http.Handler) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return Middleware(svc)(guard(ok))
}

func TestRequireAuthRedirectsWithFrom(t *testing.T) {
	svc := NewService(newFakeKV())
	h := guardedHandler(svc, RequireAuth)

	req := httptest.NewRequest("GET", "/lista-cuarteles", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?from=%2Flista-cuarteles" {
		t.Fatalf("Redirect lost original path: %q", loc)
	}
}

func TestRequireRole(t *testing.T) {
	svc := NewService(newFakeKV())
	svc.Login(Credentials{Enterprise: "empresa1", Username: "manager", Password: "manager123"})

	// Manager may pass a user-gated route
	h := guardedHandler(svc, RequireRole(RoleUser))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/cuarteles", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Manager blocked from user route: %d", rec.Code)
	}

	// But not an admin-gated one
	h = guardedHandler(svc, RequireRole(RoleAdmin))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/admin/logs", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("Manager allowed into admin route: %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/unauthorized" {
		t.Fatalf("Expected /unauthorized, got %q", loc)
	}
}

func TestUserFromContextMissing(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, ok := UserFromContext(req.Context()); ok {
		t.Fatal("Found a user on an empty context")
	}
}
