// Package gate is a small role/permission authorization layer.
//
// A subject resolves to a Role holding "resource:action" permissions. A
// resource-specific Policy can then refine the decision for a concrete
// resource (for instance which payment statuses a role may set).
package gate

import "context"

// HybridGate checks the role permission first, then the resource policy.
type HybridGate[U comparable] struct {
	resolver RoleResolver[U]
	policies map[string]Policy[U]
}

func NewHybridGate[U comparable](resolver RoleResolver[U]) *HybridGate[U] {
	return &HybridGate[U]{resolver: resolver, policies: make(map[string]Policy[U])}
}

func (g *HybridGate[U]) Register(resourceType string, p Policy[U]) {
	g.policies[resourceType] = p
}

// Authorize returns nil when user may perform action on resourceType. The
// policy registered for resourceType is consulted only when resource is non-nil.
func (g *HybridGate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	if !g.CanRole(ctx, user, action, resourceType) {
		return ErrUnauthorized
	}
	if resource == nil {
		return nil
	}
	if p, ok := g.policies[resourceType]; ok && !p.Can(ctx, user, action, resource) {
		return ErrUnauthorized
	}
	return nil
}

func (g *HybridGate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// CanRole checks only the role permission.
func (g *HybridGate[U]) CanRole(ctx context.Context, user U, action Action, resourceType string) bool {
	var zero U
	if user == zero {
		return false
	}
	role, err := g.resolver.Resolve(ctx, user)
	if err != nil || role == nil {
		return false
	}
	return role.HasPermission(NewPermission(resourceType, action))
}

// RoleOf exposes the resolved role, nil when none.
func (g *HybridGate[U]) RoleOf(ctx context.Context, user U) Role {
	role, err := g.resolver.Resolve(ctx, user)
	if err != nil {
		return nil
	}
	return role
}
