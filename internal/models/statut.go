package models

import "strings"

var inactiveStatuses = map[string]struct{}{
	"annulé": {}, "annule": {},
	"supprimé": {}, "supprime": {},
	"brouillon": {},
	"refusé": {}, "refuse": {},
	"expiré": {}, "expire": {},
}

// IsActiveStatus reports whether a bon or payment with this status counts in balances.
// An empty status is active.
func IsActiveStatus(statut string) bool {
	_, inactive := inactiveStatuses[strings.ToLower(strings.TrimSpace(statut))]
	return !inactive
}

// NormalizePaymentStatus maps the spellings clients send to the canonical
// payment statuses. Empty means En attente; unknown values are returned as is.
func NormalizePaymentStatus(statut string) string {
	s := strings.TrimSpace(statut)
	switch strings.ToLower(s) {
	case "":
		return StatutEnAttente
	case "attente", "en attente", "en_attente":
		return StatutEnAttente
	case "valide", "validé", "valid":
		return StatutValide
	case "refuse", "refusé", "refusee":
		return StatutRefuse
	case "annule", "annulé", "annulee":
		return StatutAnnule
	}
	return s
}
