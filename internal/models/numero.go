package models

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonDigit   = regexp.MustCompile(`\D`)
	firstDigit = regexp.MustCompile(`\d+`)
	payPrefix  = regexp.MustCompile(`(?i)^(pay|pa|p-|p)`)
)

// BonPrefix is the numbering prefix of a bon type.
func BonPrefix(bonType string) string {
	switch bonType {
	case BonComptant:
		return "COM"
	case BonSortie:
		return "SOR"
	case BonCommande:
		return "CMD"
	case BonDevis:
		return "DEV"
	case BonAvoir:
		return "AVC"
	case BonAvoirFournisseur:
		return "AVF"
	case BonAvoirComptant:
		return "AVCC"
	case BonVehicule:
		return "VEH"
	case BonEcommerce:
		return "ORD"
	}
	return "BON"
}

// PadID keeps the digits of id and left-pads them with zeros to width.
func PadID(id string, width int) string {
	s := nonDigit.ReplaceAllString(id, "")
	if s == "" {
		return ""
	}
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// BonNumero prefers the stored numero, else prefix and padded id.
func BonNumero(b *Bon) string {
	if b.Numero != "" {
		return b.Numero
	}
	if b.ID == 0 {
		return ""
	}
	return BonPrefix(b.Type) + PadID(strconv.FormatUint(uint64(b.ID), 10), 2)
}

// DisplayBonNumero is the business-facing numero: Commande=CMD, Sortie=SOR,
// Comptant=CMP, other types use BonPrefix. The numeric part is the first run
// of digits of the stored numero, else the padded id.
func DisplayBonNumero(b *Bon) string {
	prefix := BonPrefix(b.Type)
	switch b.Type {
	case BonCommande:
		prefix = "CMD"
	case BonSortie:
		prefix = "SOR"
	case BonComptant:
		prefix = "CMP"
	}
	numeric := firstDigit.FindString(b.Numero)
	if numeric == "" && b.ID != 0 {
		numeric = PadID(strconv.FormatUint(uint64(b.ID), 10), 2)
	}
	return prefix + numeric
}

// PaymentDisplayNumero renders PAY followed by the numero without its own pay prefix.
func PaymentDisplayNumero(p *Payment) string {
	raw := strings.TrimSpace(p.Numero)
	if raw == "" && p.ID != 0 {
		raw = strconv.FormatUint(uint64(p.ID), 10)
	}
	return "PAY" + payPrefix.ReplaceAllString(raw, "")
}
