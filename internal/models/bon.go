package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bon types. All are stored in one table discriminated by Type.
const (
	BonCommande         = "Commande"
	BonSortie           = "Sortie"
	BonComptant         = "Comptant"
	BonDevis            = "Devis"
	BonAvoir            = "Avoir"
	BonAvoirFournisseur = "AvoirFournisseur"
	BonAvoirComptant    = "AvoirComptant"
	BonVehicule         = "Vehicule"
	BonEcommerce        = "Ecommerce"
)

var BonTypes = []string{BonCommande, BonSortie, BonComptant, BonDevis, BonAvoir, BonAvoirFournisseur, BonAvoirComptant, BonVehicule}

// Bon statuses.
const (
	StatutBrouillon = "Brouillon"
	StatutEnAttente = "En attente"
	StatutValide    = "Validé"
	StatutRefuse    = "Refusé"
	StatutAnnule    = "Annulé"
	StatutLivre     = "Livré"
	StatutPaye      = "Payé"
)

type Bon struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Numero         string          `gorm:"size:50;index" json:"numero"`
	Type           string          `gorm:"size:32;index;not null" json:"type"`
	DateCreation   time.Time       `gorm:"index" json:"date_creation"`
	ClientID       *uint           `gorm:"index" json:"client_id,omitempty"`
	FournisseurID  *uint           `gorm:"index" json:"fournisseur_id,omitempty"`
	MontantTotal   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"montant_total"`
	Statut         string          `gorm:"size:32;default:'En attente'" json:"statut"`
	Vehicule       string          `gorm:"size:100" json:"vehicule,omitempty"`
	LieuChargement string          `gorm:"size:255" json:"lieu_chargement,omitempty"`
	BonOrigineID   *uint           `json:"bon_origine_id,omitempty"`
	RemiseIsClient bool            `gorm:"not null;default:false" json:"remise_is_client"`
	RemiseID       *uint           `gorm:"index" json:"remise_id,omitempty"`
	CreatedBy      *uint           `json:"created_by,omitempty"`

	Items []BonItem `gorm:"foreignKey:BonID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// BonItem is one line of a bon. CoutRevient and PrixAchat are snapshots taken
// when the line was written; null means "use the product's current value".
type BonItem struct {
	ID                uint                `gorm:"primaryKey" json:"id"`
	BonID             uint                `gorm:"index;not null" json:"bon_id"`
	ProductID         *uint               `gorm:"index" json:"product_id,omitempty"`
	Designation       string              `gorm:"size:255" json:"designation,omitempty"`
	Quantite          decimal.Decimal     `gorm:"type:numeric(14,3);not null;default:0" json:"quantite"`
	PrixUnitaire      decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0" json:"prix_unitaire"`
	Total             decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"total"`
	CoutRevient       decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"cout_revient"`
	PrixAchat         decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"prix_achat"`
	RemisePourcentage decimal.Decimal     `gorm:"type:numeric(6,2);not null;default:0" json:"remise_pourcentage"`
	RemiseMontant     decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0" json:"remise_montant"`
}

// IsAvoirType reports whether bons of this type credit the contact.
func IsAvoirType(t string) bool {
	return t == BonAvoir || t == BonAvoirFournisseur || t == BonAvoirComptant
}

// Date is date_creation, else the insertion time.
func (b *Bon) Date() time.Time {
	if !b.DateCreation.IsZero() {
		return b.DateCreation
	}
	return b.CreatedAt
}

// ContactID is the client for sales-side bons and the supplier for purchase-side ones.
func (b *Bon) ContactID() *uint {
	if b.Type == BonCommande || b.Type == BonAvoirFournisseur {
		return b.FournisseurID
	}
	return b.ClientID
}

// ComputeTotal sums the net line totals of the items.
func (b *Bon) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(it.NetTotal())
	}
	return total
}

// GrossTotal is quantity times unit price.
func (it *BonItem) GrossTotal() decimal.Decimal {
	return it.Quantite.Mul(it.PrixUnitaire)
}

// NetTotal is the stored line total when set, else the gross total reduced by
// the percentage discount then by the per-unit amount discount.
func (it *BonItem) NetTotal() decimal.Decimal {
	if it.Total.Valid && !it.Total.Decimal.IsZero() {
		return it.Total.Decimal
	}
	total := it.GrossTotal()
	if it.RemisePourcentage.IsPositive() {
		total = total.Mul(decimal.NewFromInt(1).Sub(it.RemisePourcentage.Div(decimal.NewFromInt(100))))
	}
	if it.RemiseMontant.IsPositive() {
		total = total.Sub(it.RemiseMontant.Mul(it.Quantite))
	}
	return total
}
