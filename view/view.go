// Package view renders the printable HTML pages from embedded templates.
package view

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/diewo77/go-gestion/i18n"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var files embed.FS

type themeKey struct{}

// WithTheme returns a new context with the given theme.
func WithTheme(ctx context.Context, theme string) context.Context {
	return context.WithValue(ctx, themeKey{}, theme)
}

// ThemeFromContext retrieves the theme from context, defaulting to "light".
func ThemeFromContext(ctx context.Context) string {
	if theme, ok := ctx.Value(themeKey{}).(string); ok && theme != "" {
		return theme
	}
	return "light"
}

var (
	tplCache = struct {
		sync.RWMutex
		m map[string]*template.Template
	}{m: map[string]*template.Template{}}

	langResolver = func(r *http.Request) string { return i18n.LangFrom(r.Context()) }
)

// Funcs returns the template helpers for lang.
func Funcs(lang string) template.FuncMap {
	return template.FuncMap{
		"t":    func(code string) string { return i18n.T(lang, code) },
		"lang": func() string { return lang },
		"label": func(s string) string { return i18n.StartLabel(lang, s) },
		"amount": func(v decimal.Decimal) string {
			return i18n.FormatAmount(lang, v)
		},
		"date": func(t any) string {
			switch v := t.(type) {
			case time.Time:
				if v.IsZero() {
					return ""
				}
				return v.Format("02/01/2006")
			case *time.Time:
				if v == nil || v.IsZero() {
					return ""
				}
				return v.Format("02/01/2006")
			}
			return ""
		},
		"year": func() int { return time.Now().Year() },
		// dict builds a map for sub-templates: {{ template "x" (dict "K" v) }}
		"dict": func(values ...any) map[string]any {
			if len(values)%2 != 0 {
				return nil
			}
			m := make(map[string]any, len(values)/2)
			for i := 0; i < len(values); i += 2 {
				if key, ok := values[i].(string); ok {
					m[key] = values[i+1]
				}
			}
			return m
		},
	}
}

func load(name, lang string) (*template.Template, error) {
	key := lang + "/" + name
	tplCache.RLock()
	t, ok := tplCache.m[key]
	tplCache.RUnlock()
	if ok {
		return t, nil
	}
	t, err := template.New("layout.html").Funcs(Funcs(lang)).ParseFS(files, "templates/layout.html", "templates/"+name)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	tplCache.Lock()
	tplCache.m[key] = t
	tplCache.Unlock()
	return t, nil
}

// Render executes the named page inside the layout.
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	lang := langResolver(r)
	t, err := load(name, lang)
	if err != nil {
		return err
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["Lang"]; !ok {
		data["Lang"] = lang
	}
	if _, ok := data["Theme"]; !ok {
		data["Theme"] = ThemeFromContext(r.Context())
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.Execute(w, data)
}
