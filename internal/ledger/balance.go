package ledger

import (
	"context"
	"time"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/shopspring/decimal"
)

// SoldeCumule is the contact's current balance from bon and payment totals.
//
//	Client:      solde + Sortie + Comptant - payments - Avoir
//	Fournisseur: solde + Commande - payments - AvoirFournisseur
func SoldeCumule(contact *models.Contact, bons []models.Bon, payments []models.Payment) decimal.Decimal {
	bal := contact.Solde
	if contact.Type != models.ContactClient && contact.Type != models.ContactFournisseur {
		return bal
	}
	for i := range bons {
		b := &bons[i]
		if !BelongsTo(b, contact) {
			continue
		}
		if models.IsAvoirType(b.Type) {
			bal = bal.Sub(b.MontantTotal)
		} else {
			bal = bal.Add(b.MontantTotal)
		}
	}
	for i := range payments {
		p := &payments[i]
		if PaymentBelongsTo(p, contact) && p.TypePaiement == contact.Type {
			bal = bal.Sub(p.MontantTotal)
		}
	}
	return bal
}

// Threshold is an overdue delay expressed in days or 30-day months.
type Threshold struct {
	Value int
	Unit  string // "days" or "months"
}

// DefaultThreshold is 30 days.
var DefaultThreshold = Threshold{Value: 30, Unit: "days"}

type thresholdKey struct{}

// WithThreshold stores the caller's overdue threshold preference.
func WithThreshold(ctx context.Context, t Threshold) context.Context {
	return context.WithValue(ctx, thresholdKey{}, t)
}

// ThresholdFrom returns the stored preference, else def.
func ThresholdFrom(ctx context.Context, def Threshold) Threshold {
	if t, ok := ctx.Value(thresholdKey{}).(Threshold); ok {
		return t
	}
	return def
}

// Normalized replaces an invalid threshold by DefaultThreshold.
func (t Threshold) Normalized() Threshold {
	if t.Value <= 0 {
		return DefaultThreshold
	}
	if t.Unit != "months" {
		t.Unit = "days"
	}
	return t
}

// IsOverdue reports whether a contact with a positive balance has gone quiet
// for at least the threshold. Activity is the latest of its last payment and
// last bon; no activity at all counts as overdue.
func IsOverdue(contact *models.Contact, solde decimal.Decimal, lastPayment, lastBon *time.Time, threshold Threshold, now time.Time) bool {
	if contact.Archived || !solde.IsPositive() {
		return false
	}
	var last *time.Time
	for _, t := range []*time.Time{lastPayment, lastBon} {
		if t != nil && !t.IsZero() && (last == nil || t.After(*last)) {
			last = t
		}
	}
	if last == nil {
		return true
	}
	if last.After(now) {
		return false
	}
	threshold = threshold.Normalized()
	days := int(now.Sub(*last).Hours() / 24)
	if threshold.Unit == "months" {
		return days/30 >= threshold.Value
	}
	return days >= threshold.Value
}
