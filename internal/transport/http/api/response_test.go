package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFailBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Fail(rec, http.StatusNotFound, "not_found", "Employee not found", "req-9")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != false || body["message"] != "Employee not found" || body["code"] != "not_found" || body["requestId"] != "req-9" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["fields"]; ok {
		t.Fatal("expected fields to be omitted")
	}
}

func TestNoContentHasNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("expected bare 204, got %d %q", rec.Code, rec.Body.String())
	}
}
