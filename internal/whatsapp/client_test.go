package whatsapp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/go-gestion/internal/config"
)

func TestNotConfigured(t *testing.T) {
	c := New(config.WhatsAppConfig{BaseURL: `""`})
	if _, err := c.Status(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestSendText(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/send-text" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "k3y" {
			t.Errorf("api key header = %q", r.Header.Get("x-api-key"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := New(config.WhatsAppConfig{BaseURL: `"` + srv.URL + `/"`, APIKey: "'k3y'"})
	res, err := c.SendText(context.Background(), "212600000000", "Bonjour")
	if err != nil {
		t.Fatal(err)
	}
	if res["ok"] != true || got["phone"] != "212600000000" || got["text"] != "Bonjour" {
		t.Fatalf("res=%v body=%v", res, got)
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error":"session closed"}`, "session closed"},
		{"message field", `{"message":"bad phone"}`, "bad phone"},
		{"no json", `oops`, "WHTSP service error (502)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			c := New(config.WhatsAppConfig{BaseURL: srv.URL, APIKey: "k"})
			_, err := c.Status(context.Background())
			var gwErr *Error
			if !errors.As(err, &gwErr) || gwErr.Message != tt.want || gwErr.Status != http.StatusBadGateway {
				t.Fatalf("got %v", err)
			}
		})
	}
}

func TestSendMediaValidation(t *testing.T) {
	c := New(config.WhatsAppConfig{BaseURL: "http://example.invalid", APIKey: "k"})
	if _, err := c.SendMedia(context.Background(), MediaMessage{Phone: "1"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if _, err := c.SendText(context.Background(), "", "x"); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
