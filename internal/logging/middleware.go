// ABOUTME: HTTP request logging middleware.
// ABOUTME: Captures method, path, status, and duration, and stores them in the database.

package logging

import (
	"bufio"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/agroplan/cuartel-admin/internal/auth"
	"github.com/agroplan/cuartel-admin/internal/store"
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.statusCode = http.StatusOK
		rw.written = true
	}
	return rw.ResponseWriter.Write(b)
}

// Hijack keeps connection upgrades working through the wrapper.
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, http.ErrNotSupported
	}
	return h.Hijack()
}

// Middleware records every request to the database. Health checks and static
// assets are skipped; the insert runs fire-and-forget so logging never slows
// or fails a request.
func Middleware(s *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			duration := time.Since(start).Milliseconds()

			userID := ""
			if user, ok := auth.UserFromContext(r.Context()); ok {
				userID = user.Username
			}

			ip := r.RemoteAddr
			if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
				ip = strings.Split(forwarded, ",")[0]
			}

			go s.LogRequest(&store.RequestLog{
				Method:     r.Method,
				Path:       r.URL.Path,
				StatusCode: wrapped.statusCode,
				DurationMs: int(duration),
				UserID:     userID,
				IPAddress:  ip,
				UserAgent:  r.Header.Get("User-Agent"),
			})
		})
	}
}
