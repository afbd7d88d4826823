package gate

import (
	"context"
	"sort"
)

// Role is a named set of permissions.
type Role interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// RoleResolver finds the role of a subject. A nil Role with a nil error means
// the subject has no role.
type RoleResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Role, error)
}

// StaticRole is an in-memory Role.
type StaticRole struct {
	name        string
	permissions map[Permission]struct{}
}

func NewStaticRole(name string, permissions ...Permission) *StaticRole {
	r := &StaticRole{name: name, permissions: make(map[Permission]struct{}, len(permissions))}
	for _, perm := range permissions {
		r.permissions[perm] = struct{}{}
	}
	return r
}

func (r *StaticRole) Name() string { return r.name }

// Permissions returns the granted permissions sorted alphabetically.
func (r *StaticRole) Permissions() []Permission {
	perms := make([]Permission, 0, len(r.permissions))
	for perm := range r.permissions {
		perms = append(perms, perm)
	}
	sort.Slice(perms, func(i, j int) bool { return perms[i] < perms[j] })
	return perms
}

func (r *StaticRole) HasPermission(requested Permission) bool {
	for perm := range r.permissions {
		if perm.Matches(requested) {
			return true
		}
	}
	return false
}

// StaticResolver maps subjects to roles in memory.
type StaticResolver[U comparable] struct {
	roles map[U]Role
}

func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{roles: make(map[U]Role)}
}

func (r *StaticResolver[U]) Set(user U, role Role) {
	r.roles[user] = role
}

func (r *StaticResolver[U]) Resolve(_ context.Context, user U) (Role, error) {
	return r.roles[user], nil
}
