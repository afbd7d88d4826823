package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/gate"
	"github.com/diewo77/go-gestion/httpx"
	"gorm.io/gorm"
)

// AuthGate is the central authorization point: role permissions resolved from
// the users table, cached, plus resource policies for bons, payments and remises.
type AuthGate struct {
	Gate          *gate.HybridGate[uint]
	CacheResolver *gate.CachedResolver[uint]
}

// NewAuthGate creates the gate with the default policies registered.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	return NewAuthGateWithResolver(NewDBRoleResolver(db), cacheTTL)
}

// NewAuthGateWithResolver builds the gate on any role resolver.
func NewAuthGateWithResolver(resolver gate.RoleResolver[uint], cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](resolver, cacheTTL)
	ag := &AuthGate{Gate: gate.NewHybridGate[uint](cached), CacheResolver: cached}
	ag.RegisterPolicy(ResBon, NewBonPolicy(ag.roleName))
	ag.RegisterPolicy(ResPayment, NewPaymentPolicy(ag.roleName))
	ag.RegisterPolicy(ResRemise, NewRemisePolicy(ag.roleName))
	return ag
}

func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[uint]) {
	ag.Gate.Register(resourceType, p)
}

func (ag *AuthGate) roleName(ctx context.Context, userID uint) string {
	if role := ag.Gate.RoleOf(ctx, userID); role != nil {
		return role.Name()
	}
	return ""
}

// Role returns the caller's role name, empty when anonymous or unknown.
func (ag *AuthGate) Role(ctx context.Context) string {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return ""
	}
	return ag.roleName(ctx, userID)
}

// Authorize checks if the current user can perform an action on a resource.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// CanRole checks role permissions only.
func (ag *AuthGate) CanRole(ctx context.Context, action gate.Action, resourceType string) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanRole(ctx, userID, action, resourceType)
}

// AuthorizeBon checks action on a bon of bonType.
func (ag *AuthGate) AuthorizeBon(ctx context.Context, action gate.Action, bonType string) error {
	return ag.Authorize(ctx, action, ResBon, BonTarget{Type: bonType})
}

// AuthorizePaymentStatus checks that the caller may write statut on a payment.
func (ag *AuthGate) AuthorizePaymentStatus(ctx context.Context, action gate.Action, statut string) error {
	return ag.Authorize(ctx, action, ResPayment, PaymentStatus(statut))
}

// InvalidateUser clears the cache for a specific user. Call it when a role changes.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.CacheResolver.Invalidate(userID)
}

func (ag *AuthGate) InvalidateAll() {
	ag.CacheResolver.InvalidateAll()
}

// RequirePermission returns middleware that checks a role permission.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserIDFromContext(r.Context()); !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			if !ag.CanRole(r.Context(), action, resourceType) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin only lets through roles holding "*:*" (the PDG).
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
				return
			}
			role, err := ag.CacheResolver.Resolve(r.Context(), userID)
			if err != nil || role == nil || !role.HasPermission(gate.PermissionAll) {
				httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
