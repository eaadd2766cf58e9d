// ABOUTME: Tests for the JSON error envelope.

package httperr

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	Write(rec, 404, CodeNotFound, "record not found")

	if rec.Code != 404 {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Wrong content type: %s", ct)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Body not JSON: %v", err)
	}
	if resp.Code != CodeNotFound || resp.Status != 404 || resp.Message != "record not found" {
		t.Fatalf("Envelope wrong: %+v", resp)
	}
	if resp.Field != "" {
		t.Fatal("Field should be omitted")
	}
}

func TestWriteField(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteField(rec, 400, CodeValidationFailed, "hectares must be a number", "totalHa")

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Body not JSON: %v", err)
	}
	if resp.Field != "totalHa" {
		t.Fatalf("Field lost: %+v", resp)
	}
}
