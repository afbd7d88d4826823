package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
)

// PasswordRule reports whether a user must change their password first.
type PasswordRule interface {
	Required(ctx context.Context, userID uint) (bool, error)
}

// passwordExempt are the routes a user with an expired password still reaches.
var passwordExempt = map[string]bool{
	"/auth/me":              true,
	"/auth/change-password": true,
	"/auth/check-access":    true,
	"/auth/logout":          true,
}

// PasswordPolicy blocks authenticated requests with 403
// PASSWORD_CHANGE_REQUIRED while the weekly password change is pending.
// Lookup errors let the request through.
func PasswordPolicy(rule PasswordRule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := auth.UserIDFromContext(r.Context())
			if !ok || passwordExempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			required, err := rule.Required(r.Context(), uid)
			if err != nil {
				log.Printf("password policy: user %d: %v", uid, err)
			}
			if required {
				httpx.JSON(w, http.StatusForbidden, map[string]any{
					"error":                    "PASSWORD_CHANGE_REQUIRED",
					"message":                  i18n.T(i18n.LangFrom(r.Context()), "password_change_required"),
					"password_change_required": true,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
