package policy

import (
	"github.com/diewo77/go-gestion/gate"
	"github.com/diewo77/go-gestion/internal/models"
)

// Resource types checked by the gate.
const (
	ResContact  = "contact"
	ResProduct  = "product"
	ResBon      = "bon"
	ResPayment  = "payment"
	ResRemise   = "remise"
	ResSchedule = "schedule"
	ResAudit    = "audit"
	ResWhatsApp = "whatsapp"
	ResEmployee = "employee"
	ResCompany  = "company"
)

func perms(resource string, actions ...gate.Action) []gate.Permission {
	out := make([]gate.Permission, 0, len(actions))
	for _, a := range actions {
		out = append(out, gate.NewPermission(resource, a))
	}
	return out
}

func all(resources ...string) []gate.Permission {
	out := make([]gate.Permission, 0, len(resources))
	for _, r := range resources {
		out = append(out, gate.Permission(r+":"+gate.Wildcard))
	}
	return out
}

var (
	read  = []gate.Action{gate.ActionView, gate.ActionList}
	write = []gate.Action{gate.ActionView, gate.ActionList, gate.ActionCreate, gate.ActionUpdate}
)

func join(groups ...[]gate.Permission) []gate.Permission {
	var out []gate.Permission
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Roles maps each employee role to its permissions. Deleting payments and
// remises, managing schedules and employees stay with the PDG.
func Roles() map[string]*gate.StaticRole {
	return map[string]*gate.StaticRole{
		models.RolePDG: gate.NewStaticRole(models.RolePDG, gate.PermissionAll),
		models.RoleManagerPlus: gate.NewStaticRole(models.RoleManagerPlus, join(
			all(ResContact, ResProduct, ResBon, ResWhatsApp),
			perms(ResPayment, append(write, gate.ActionValidate)...),
			perms(ResRemise, write...),
			perms(ResAudit, read...),
			perms(ResCompany, read...),
		)...),
		models.RoleManager: gate.NewStaticRole(models.RoleManager, join(
			perms(ResContact, write...),
			perms(ResProduct, write...),
			perms(ResPayment, write...),
			perms(ResRemise, write...),
			perms(ResBon, append(write, gate.ActionValidate, gate.ActionDelete)...),
			perms(ResWhatsApp, gate.ActionView, gate.ActionCreate),
			perms(ResCompany, gate.ActionView),
		)...),
		models.RoleEmploye: gate.NewStaticRole(models.RoleEmploye, join(
			perms(ResContact, read...),
			perms(ResProduct, read...),
			perms(ResBon, read...),
			perms(ResPayment, write...),
			perms(ResRemise, write...),
			perms(ResCompany, gate.ActionView),
		)...),
	}
}
