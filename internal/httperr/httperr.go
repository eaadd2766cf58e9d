// ABOUTME: Standardized JSON error envelope for HTTP handlers.
// ABOUTME: One response shape across every endpoint: code, message, status, optional field.

package httperr

import (
	"encoding/json"
	"net/http"
)

// Response is the error envelope every endpoint returns on failure.
type Response struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Field   string `json:"field,omitempty"`
}

// Standard error codes.
const (
	CodeInvalidRequest   = "invalid_request"
	CodeInvalidBody      = "invalid_request_body"
	CodeValidationFailed = "validation_failed"
	CodeNotFound         = "not_found"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeInternal         = "internal_error"
	CodeDatabaseError    = "database_error"
	CodeNotImplemented   = "not_implemented"
)

// Write sends the envelope with the given status.
func Write(w http.ResponseWriter, status int, code, message string) {
	write(w, Response{Code: code, Message: message, Status: status})
}

// WriteField sends the envelope naming the offending field, for validation
// errors.
func WriteField(w http.ResponseWriter, status int, code, message, field string) {
	write(w, Response{Code: code, Message: message, Status: status, Field: field})
}

func write(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Status)
	json.NewEncoder(w).Encode(resp)
}
