// Package middleware holds the HTTP wrappers shared by every route: request
// logging, panic recovery, preferences and the employee access rules.
package middleware

import (
	"net/http"
	"strconv"

	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/view"
)

const prefMaxAge = 86400 * 30

// Prefs extracts language, theme and overdue threshold preferences
// (query > cookie > header) and stores them in context. Query-provided
// values are persisted in cookies.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := pref(w, r, "lang", "")
		if lang != "fr" && lang != "en" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		theme := pref(w, r, "theme", "light")

		ctx := i18n.WithLang(r.Context(), lang)
		ctx = view.WithTheme(ctx, theme)

		value, _ := strconv.Atoi(pref(w, r, "overdue_value", ""))
		unit := pref(w, r, "overdue_unit", "")
		if value > 0 {
			ctx = ledger.WithThreshold(ctx, ledger.Threshold{Value: value, Unit: unit}.Normalized())
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func pref(w http.ResponseWriter, r *http.Request, name, def string) string {
	if q := r.URL.Query().Get(name); q != "" {
		http.SetCookie(w, &http.Cookie{Name: name, Value: q, Path: "/", MaxAge: prefMaxAge})
		return q
	}
	if c, err := r.Cookie(name); err == nil && c.Value != "" {
		return c.Value
	}
	return def
}
