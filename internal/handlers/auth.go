package handlers

import (
	"context"
	"net/http"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/schedule"
	"github.com/diewo77/go-gestion/internal/services"
)

// AccessChecker reports the access schedule decision of a user.
type AccessChecker interface {
	Lenient(ctx context.Context, userID uint) (schedule.Decision, error)
}

type AuthHandler struct {
	auth   *services.AuthService
	access AccessChecker
}

func NewAuthHandler(a *services.AuthService, access AccessChecker) *AuthHandler {
	return &AuthHandler{auth: a, access: access}
}

type loginRequest struct {
	CIN      string `json:"cin"`
	Password string `json:"password"`
}

// Login checks the credentials, returns a bearer token and also opens a
// session cookie for the print pages.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req.CIN, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	auth.CreateSession(w, res.User.ID)
	httpx.JSON(w, http.StatusOK, res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	u, err := h.auth.Me(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	required, err := h.auth.Required(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": u, "password_change_required": required})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	if err := h.auth.ChangePassword(r.Context(), uid, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// VerifyPassword re-checks the caller's password before a sensitive action.
func (h *AuthHandler) VerifyPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}
	uid, _ := auth.UserIDFromContext(r.Context())
	if err := h.auth.VerifyPassword(r.Context(), uid, req.Password); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"valid": true})
}

// CheckAccess reports the schedule decision without blocking.
func (h *AuthHandler) CheckAccess(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	dec, err := h.access.Lenient(r.Context(), uid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	lang := i18n.LangFrom(r.Context())
	dec.Localize(lang)
	if dec.Message == "" {
		code := "access_granted"
		if !dec.HasSchedule {
			code = "no_restriction"
		}
		dec.Message = i18n.T(lang, code)
	}
	httpx.JSON(w, http.StatusOK, dec)
}
