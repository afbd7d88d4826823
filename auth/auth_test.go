package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	now := time.Now()
	raw, err := IssueToken(42, "AB123", "Manager", now)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ParseToken(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 || claims.CIN != "AB123" || claims.Role != "Manager" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestParseTokenRejects(t *testing.T) {
	expired, err := IssueToken(1, "X", "PDG", time.Now().Add(-2*tokenTTL))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	for name, raw := range map[string]string{
		"garbage": "not.a.token",
		"expired": expired,
		"empty":   "",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseToken(raw); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func sessionCookie(t *testing.T, uid uint) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	CreateSession(rec, uid)
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestSessionCookie(t *testing.T) {
	c := sessionCookie(t, 9)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	if uid, ok := ParseSession(req); !ok || uid != 9 {
		t.Errorf("ParseSession = %d, %v", uid, ok)
	}

	tampered := *c
	tampered.Value = "10" + c.Value[1:]
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&tampered)
	if _, ok := ParseSession(req); ok {
		t.Error("tampered cookie accepted")
	}
}

func TestMiddlewareAndRequireAuth(t *testing.T) {
	token, err := IssueToken(5, "C5", "Employé", time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	var seen uint
	var role string
	h := Middleware(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		role = RoleFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen != 5 || role != "Employé" {
		t.Errorf("bearer: code=%d uid=%d role=%q", rec.Code, seen, role)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous code = %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/contacts/1/statement", nil)
	req.Header.Set("Accept", "text/html")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Errorf("browser code = %d, want redirect", rec.Code)
	}
}

func TestRequireAuthVerifier(t *testing.T) {
	SetUserVerifier(func(_ context.Context, uid uint) bool { return uid != 3 })
	t.Cleanup(func() { SetUserVerifier(nil) })

	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), 3))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("deleted user code = %d", rec.Code)
	}
}
