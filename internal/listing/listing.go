// Package listing holds the search and pagination helpers shared by list endpoints.
package listing

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/internal/models"
)

// Page is one page of a filtered list.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

// Paginate slices items. page is 1-based and clamped to the valid range;
// limit 0 returns everything on one page.
func Paginate[T any](items []T, page, limit int) Page[T] {
	total := len(items)
	if limit <= 0 {
		if items == nil {
			items = []T{}
		}
		return Page[T]{Items: items, Total: total, Page: 1, Limit: 0, TotalPages: 1}
	}
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	start := (page - 1) * limit
	end := min(start+limit, total)
	out := make([]T, 0, end-start)
	out = append(out, items[start:end]...)
	return Page[T]{Items: out, Total: total, Page: page, Limit: limit, TotalPages: pages}
}

// PageParams reads page and limit from a query string.
func PageParams(q url.Values, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(q.Get("page"))
	limit = defaultLimit
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}
	return page, limit
}

// Haystack joins the searchable parts, lower-cased.
func Haystack(parts ...string) string {
	return strings.ToLower(strings.Join(parts, " "))
}

// PhoneTokens returns the raw, digits-only and canonical 9-digit forms.
func PhoneTokens(phone string) []string {
	if strings.TrimSpace(phone) == "" {
		return nil
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return []string{phone, digits, models.CanonicalPhone(phone)}
}

// DateTokens returns the common written forms of t's day.
func DateTokens(t time.Time) []string {
	if t.IsZero() {
		return nil
	}
	return []string{t.Format("2006-01-02"), t.Format("02/01/2006"), t.Format("02-01-2006")}
}

// Match reports whether the haystack contains the trimmed, lower-cased term.
// An empty term matches everything.
func Match(haystack, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	return term == "" || strings.Contains(haystack, term)
}

// SortDir reads "asc"/"desc", defaulting to def.
func SortDir(v string, def string) string {
	switch strings.ToLower(v) {
	case "asc", "desc":
		return strings.ToLower(v)
	}
	return def
}
