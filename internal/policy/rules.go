package policy

import (
	"context"
	"slices"

	"github.com/diewo77/go-gestion/gate"
	"github.com/diewo77/go-gestion/internal/models"
)

// CanManageBon reports whether role may create, edit or delete bons of bonType.
// Managers only handle purchase-side documents.
func CanManageBon(bonType, role string) bool {
	switch models.NormalizeRole(role) {
	case models.RolePDG, models.RoleManagerPlus:
		return true
	case models.RoleManager:
		return bonType == models.BonCommande || bonType == models.BonAvoirFournisseur
	}
	return false
}

// CanValidate reports whether role may change the status of bons of bonType.
func CanValidate(bonType, role string) bool {
	return CanManageBon(bonType, role)
}

// AllowedPaymentStatuses lists the statuses role may write on a payment.
func AllowedPaymentStatuses(role string) []string {
	if models.NormalizeRole(role) == models.RoleEmploye {
		return []string{models.StatutEnAttente, models.StatutAnnule}
	}
	return models.PaymentStatuses
}

// CanSetPaymentStatus reports whether role may write statut on a payment.
func CanSetPaymentStatus(role, statut string) bool {
	return slices.Contains(AllowedPaymentStatuses(role), statut)
}

// BonTarget is the resource checked for bon actions.
type BonTarget struct {
	Type string
}

// PaymentStatus is the resource checked when a payment status is written.
type PaymentStatus string

// RemiseStatus is the resource checked when a remise item status is written.
type RemiseStatus string

type roleOf func(ctx context.Context, userID uint) string

// NewBonPolicy applies the per-type bon rules on top of role permissions.
func NewBonPolicy(role roleOf) gate.Policy[uint] {
	return gate.PolicyFunc[uint](func(ctx context.Context, userID uint, action gate.Action, resource any) bool {
		var bonType string
		switch v := resource.(type) {
		case BonTarget:
			bonType = v.Type
		case *models.Bon:
			bonType = v.Type
		default:
			return true
		}
		switch action {
		case gate.ActionView, gate.ActionList:
			return true
		case gate.ActionValidate:
			return CanValidate(bonType, role(ctx, userID))
		}
		return CanManageBon(bonType, role(ctx, userID))
	})
}

// NewPaymentPolicy restricts which statuses each role may write.
func NewPaymentPolicy(role roleOf) gate.Policy[uint] {
	return gate.PolicyFunc[uint](func(ctx context.Context, userID uint, _ gate.Action, resource any) bool {
		st, ok := resource.(PaymentStatus)
		if !ok {
			return true
		}
		return CanSetPaymentStatus(role(ctx, userID), string(st))
	})
}

// NewRemisePolicy keeps validation of remise items with the PDG.
func NewRemisePolicy(role roleOf) gate.Policy[uint] {
	return gate.PolicyFunc[uint](func(ctx context.Context, userID uint, _ gate.Action, resource any) bool {
		st, ok := resource.(RemiseStatus)
		if !ok {
			return true
		}
		return string(st) != models.StatutValide || models.NormalizeRole(role(ctx, userID)) == models.RolePDG
	})
}
