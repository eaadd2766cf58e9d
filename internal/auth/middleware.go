// ABOUTME: Route guards for the admin pages.
// ABOUTME: Attaches the session user to context and enforces the role hierarchy.

package auth

import (
	"context"
	"net/http"
	"net/url"
)

type contextKey string

const userContextKey contextKey = "user"

// Middleware resolves the current session user once per request and stashes
// it in context for handlers and guards downstream.
func Middleware(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := svc.CurrentUser(); ok {
				r = r.WithContext(context.WithValue(r.Context(), userContextKey, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserFromContext returns the session user attached by Middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok
}

// RequireAuth redirects unauthenticated requests to the login page,
// preserving the requested path for the post-login redirect.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login?from="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole gates a route at the given role. Unauthenticated requests go
// to login; authenticated users below the required role go to /unauthorized.
func RequireRole(required Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				http.Redirect(w, r, "/login?from="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
				return
			}
			if !user.Role.Allows(required) {
				http.Redirect(w, r, "/unauthorized", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
