package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/schedule"
)

// ScheduleChecker evaluates a user's access schedule.
type ScheduleChecker interface {
	Lenient(ctx context.Context, userID uint) (schedule.Decision, error)
	Strict(ctx context.Context, userID uint) (schedule.Decision, error)
}

// AccessDenied is the body of a 403 caused by the access schedule.
type AccessDenied struct {
	Error        string `json:"error"`
	AccessDenied bool   `json:"access_denied"`
	schedule.Decision
}

// AccessSchedule refuses requests outside the caller's schedule. Inactive
// schedules are ignored and lookup errors let the request through.
func AccessSchedule(c ScheduleChecker) func(http.Handler) http.Handler {
	return accessMiddleware(c.Lenient, false)
}

// AccessScheduleStrict also refuses users whose schedule was disabled and
// answers 500 when the schedule cannot be read.
func AccessScheduleStrict(c ScheduleChecker) func(http.Handler) http.Handler {
	return accessMiddleware(c.Strict, true)
}

func accessMiddleware(check func(context.Context, uint) (schedule.Decision, error), strict bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				httpx.JSON(w, http.StatusUnauthorized, map[string]any{"error": "unauthorized", "access_denied": true})
				return
			}
			dec, err := check(r.Context(), uid)
			if err != nil {
				log.Printf("access schedule: user %d: %v", uid, err)
				if strict {
					httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			if !dec.Allowed {
				dec.Localize(i18n.LangFrom(r.Context()))
				httpx.JSON(w, http.StatusForbidden, AccessDenied{Error: "access_denied", AccessDenied: true, Decision: dec})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
