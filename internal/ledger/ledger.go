// Package ledger derives a contact's statement: one row per bon line and per
// payment, in date order, with a running balance.
package ledger

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/shopspring/decimal"
)

// Kind tells how a row moves the balance.
type Kind string

const (
	KindProduit  Kind = "produit"  // debit
	KindPaiement Kind = "paiement" // credit
	KindAvoir    Kind = "avoir"    // credit
)

// Row is one statement line.
type Row struct {
	ID           string          `json:"id"`
	Kind         Kind            `json:"type"`
	Date         time.Time       `json:"date"`
	BonID        uint            `json:"bon_id,omitempty"`
	BonType      string          `json:"bon_type"`
	Numero       string          `json:"numero"`
	Statut       string          `json:"statut"`
	ProductID    *uint           `json:"product_id,omitempty"`
	Reference    string          `json:"reference"`
	Designation  string          `json:"designation"`
	Quantite     decimal.Decimal `json:"quantite"`
	PrixUnitaire decimal.Decimal `json:"prix_unitaire"`
	Montant      decimal.Decimal `json:"montant"`
	Mouvement    decimal.Decimal `json:"mouvement"`
	RemiseTotale decimal.Decimal `json:"remise_totale"`
	Benefice     decimal.Decimal `json:"benefice"`
	PaymentID    uint            `json:"payment_id,omitempty"`
	ModePaiement string          `json:"mode_paiement,omitempty"`
	Solde        decimal.Decimal `json:"solde"`

	RemisePourcentage decimal.Decimal `json:"remise_pourcentage"`
	RemiseMontant     decimal.Decimal `json:"remise_montant"`
}

// Signed is the row's effect on the balance.
func (r Row) Signed() decimal.Decimal {
	if r.Kind == KindProduit {
		return r.Montant
	}
	return r.Montant.Neg()
}

// ContactBonTypes are the bon types that move a contact's balance.
func ContactBonTypes(contactType string) []string {
	if contactType == models.ContactFournisseur {
		return []string{models.BonCommande, models.BonAvoirFournisseur}
	}
	return []string{models.BonSortie, models.BonComptant, models.BonAvoir}
}

// BelongsTo reports whether an active bon counts for contact.
func BelongsTo(b *models.Bon, contact *models.Contact) bool {
	if !models.IsActiveStatus(b.Statut) {
		return false
	}
	var owner *uint
	switch contact.Type {
	case models.ContactFournisseur:
		if b.Type != models.BonCommande && b.Type != models.BonAvoirFournisseur {
			return false
		}
		owner = b.FournisseurID
	default:
		if b.Type != models.BonSortie && b.Type != models.BonComptant && b.Type != models.BonAvoir {
			return false
		}
		owner = b.ClientID
	}
	return owner != nil && *owner == contact.ID
}

// PaymentBelongsTo reports whether an active payment counts for contact.
// A payment without type_paiement is taken as the contact's type.
func PaymentBelongsTo(p *models.Payment, contact *models.Contact) bool {
	if p.ContactID == nil || *p.ContactID != contact.ID || !models.IsActiveStatus(p.Statut) {
		return false
	}
	return p.TypePaiement == "" || p.TypePaiement == contact.Type
}

// Rows builds the unfiltered, date-ordered rows of contact. bons may contain
// any bon: the ones that do not belong to contact are only used to date payments.
func Rows(contact *models.Contact, bons []models.Bon, payments []models.Payment, products map[uint]models.Product) []Row {
	var rows []Row
	for i := range bons {
		b := &bons[i]
		if !BelongsTo(b, contact) {
			continue
		}
		for j := range b.Items {
			rows = append(rows, itemRow(b, &b.Items[j], j, products))
		}
	}
	for i := range payments {
		p := &payments[i]
		if !PaymentBelongsTo(p, contact) {
			continue
		}
		rows = append(rows, paymentRow(p, bons))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

func itemRow(b *models.Bon, it *models.BonItem, idx int, products map[uint]models.Product) Row {
	row := Row{
		ID:                "bon-" + strconv.FormatUint(uint64(b.ID), 10) + "-" + strconv.Itoa(idx),
		Kind:              KindProduit,
		Date:              b.Date(),
		BonID:             b.ID,
		BonType:           b.Type,
		Numero:            models.BonNumero(b),
		Statut:            b.Statut,
		ProductID:         it.ProductID,
		Designation:       it.Designation,
		Quantite:          it.Quantite,
		PrixUnitaire:      it.PrixUnitaire,
		Montant:           it.NetTotal(),
		RemisePourcentage: it.RemisePourcentage,
		RemiseMontant:     it.RemiseMontant,
	}
	if models.IsAvoirType(b.Type) {
		row.Kind = KindAvoir
	}
	var product *models.Product
	if it.ProductID != nil {
		if p, ok := products[*it.ProductID]; ok {
			product = &p
			row.Reference = p.Reference
			row.Designation = p.Designation
		} else {
			row.Reference = strconv.FormatUint(uint64(*it.ProductID), 10)
		}
	}
	cost := itemCost(it, product)
	row.Mouvement = it.PrixUnitaire.Sub(cost).Mul(it.Quantite)
	row.RemiseTotale = it.RemiseMontant.Mul(it.Quantite)
	row.Benefice = row.Mouvement
	switch b.Type {
	case models.BonSortie, models.BonComptant, models.BonAvoir, models.BonAvoirComptant:
		row.Benefice = row.Mouvement.Sub(row.RemiseTotale)
	}
	return row
}

// itemCost resolves the unit cost: line snapshot cout_revient, then snapshot
// prix_achat, then the product's current cost.
func itemCost(it *models.BonItem, product *models.Product) decimal.Decimal {
	if it.CoutRevient.Valid {
		return it.CoutRevient.Decimal
	}
	if it.PrixAchat.Valid {
		return it.PrixAchat.Decimal
	}
	if product != nil {
		return product.UnitCost()
	}
	return decimal.Zero
}

func paymentRow(p *models.Payment, bons []models.Bon) Row {
	mode := p.ModePaiement
	if mode == "" {
		mode = models.ModeEspeces
	}
	return Row{
		ID:           "payment-" + strconv.FormatUint(uint64(p.ID), 10),
		Kind:         KindPaiement,
		Date:         PaymentDate(p, bons),
		BonType:      "Paiement",
		Numero:       models.PaymentDisplayNumero(p),
		Statut:       p.Statut,
		Reference:    "PAIEMENT",
		Designation:  "Paiement " + mode,
		Quantite:     decimal.NewFromInt(1),
		PrixUnitaire: p.MontantTotal,
		Montant:      p.MontantTotal,
		PaymentID:    p.ID,
		ModePaiement: mode,
	}
}

// PaymentDate is the date a payment sorts at: date_paiement, else the date of
// the linked bon, else the creation time. The linked bon is looked up by
// bon_type first so ids colliding across types resolve correctly.
func PaymentDate(p *models.Payment, bons []models.Bon) time.Time {
	if p.DatePaiement != nil && !p.DatePaiement.IsZero() {
		return *p.DatePaiement
	}
	if p.BonID != nil {
		if p.BonType != "" {
			for i := range bons {
				if bons[i].ID == *p.BonID && bons[i].Type == p.BonType {
					return bons[i].Date()
				}
			}
		}
		for i := range bons {
			if bons[i].ID == *p.BonID {
				return bons[i].Date()
			}
		}
	}
	return p.CreatedAt
}

// Running assigns the running balance to each row starting from start.
func Running(start decimal.Decimal, rows []Row) []Row {
	bal := start
	for i := range rows {
		bal = bal.Add(rows[i].Signed())
		rows[i].Solde = bal
	}
	return rows
}

// Filter keeps the rows whose product reference, designation or bon numero
// contain term, case-insensitively.
func Filter(rows []Row, term string) []Row {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Reference), term) ||
			strings.Contains(strings.ToLower(r.Designation), term) ||
			strings.Contains(strings.ToLower(r.Numero), term) {
			out = append(out, r)
		}
	}
	return out
}
