package httpx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()
	JSONError(w, http.StatusBadRequest, "invalid_json", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content-type = %q", ct)
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"error":"invalid_json"}` {
		t.Fatalf("body = %s", got)
	}
}

func TestWantsJSON(t *testing.T) {
	tests := []struct {
		accept, contentType string
		want                bool
	}{
		{"application/json", "", true},
		{"text/html,application/json", "", false},
		{"", "application/json", true},
		{"", "", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.accept != "" {
			r.Header.Set("Accept", tt.accept)
		}
		if tt.contentType != "" {
			r.Header.Set("Content-Type", tt.contentType)
		}
		if got := WantsJSON(r); got != tt.want {
			t.Errorf("WantsJSON(accept=%q, ct=%q) = %v", tt.accept, tt.contentType, got)
		}
	}
}

func TestDecode(t *testing.T) {
	var dst struct {
		Statut string `json:"statut"`
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"statut":"Validé"}`))
	if err := Decode(r, &dst); err != nil || dst.Statut != "Validé" {
		t.Fatalf("Decode = %v, %+v", err, dst)
	}
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	if err := Decode(r, &dst); err == nil {
		t.Fatal("expected error on empty body")
	}
}
