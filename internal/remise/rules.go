package remise

import "github.com/diewo77/go-gestion/internal/models"

// CreateStatut is the status a new item gets: only the PDG chooses freely.
func CreateStatut(role, requested string) string {
	if models.NormalizeRole(role) != models.RolePDG || requested == "" {
		return models.StatutEnAttente
	}
	return requested
}

// CanSetStatut reports whether role may move an item to statut on update.
func CanSetStatut(role, statut string) bool {
	return statut != models.StatutValide || models.NormalizeRole(role) == models.RolePDG
}

// CanDelete reports whether role may delete beneficiaries and items.
func CanDelete(role string) bool {
	return models.NormalizeRole(role) == models.RolePDG
}
