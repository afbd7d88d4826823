// Package handlers exposes the services over HTTP. Every handler answers JSON;
// the statement print view also renders HTML and PDF.
package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/gate"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/internal/whatsapp"
)

// Authorizer answers the per-resource questions handlers ask beyond the
// route-level permission.
type Authorizer interface {
	Role(ctx context.Context) string
	AuthorizeBon(ctx context.Context, action gate.Action, bonType string) error
	AuthorizePaymentStatus(ctx context.Context, action gate.Action, statut string) error
}

func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func queryID(r *http.Request, name string) *uint {
	id, err := strconv.ParseUint(r.URL.Query().Get(name), 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	v := uint(id)
	return &v
}

// queryFirst returns the first non-empty value among names, so the short
// aliases (q, from, to) keep working next to search, date_from and date_to.
func queryFirst(q url.Values, names ...string) string {
	for _, n := range names {
		if v := q.Get(n); v != "" {
			return v
		}
	}
	return ""
}

func actor(ctx context.Context, authz Authorizer) services.Actor {
	uid, _ := auth.UserIDFromContext(ctx)
	a := services.Actor{ID: uid}
	if authz != nil {
		a.Role = authz.Role(ctx)
	}
	return a
}

func badID(w http.ResponseWriter) {
	httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.Decode(r, dst); err != nil {
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid_json", i18n.T(i18n.LangFrom(r.Context()), "invalid_json"))
		return false
	}
	return true
}

// writeError maps service errors to HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFrom(r.Context())
	var verr *services.ValidationError
	var werr *whatsapp.Error
	switch {
	case errors.As(err, &verr):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", verr.Violations)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONMessage(w, http.StatusNotFound, "not_found", i18n.T(lang, "not_found"))
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.JSONMessage(w, http.StatusUnauthorized, "invalid_credentials", i18n.T(lang, "invalid_credentials"))
	case errors.Is(err, services.ErrForbidden), errors.Is(err, gate.ErrUnauthorized):
		httpx.JSONMessage(w, http.StatusForbidden, "forbidden", i18n.T(lang, "forbidden"))
	case errors.Is(err, services.ErrInvalid), errors.Is(err, whatsapp.ErrInvalid):
		httpx.JSONMessage(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, whatsapp.ErrNotConfigured):
		httpx.JSONMessage(w, http.StatusServiceUnavailable, "whatsapp_not_configured", i18n.T(lang, "whatsapp_not_configured"))
	case errors.As(err, &werr):
		httpx.JSONMessage(w, http.StatusBadGateway, "whatsapp_error", werr.Message)
	default:
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		httpx.JSONMessage(w, http.StatusInternalServerError, "internal_error", i18n.T(lang, "internal_error"))
	}
}
