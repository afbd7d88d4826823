package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ContactClient      = "Client"
	ContactFournisseur = "Fournisseur"
)

// Contact is a client or a supplier. Solde is the opening balance; SoldeCumule
// is derived from bons and payments and never stored.
type Contact struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reference  string `gorm:"size:50;index" json:"reference,omitempty"`
	NomComplet string `gorm:"size:255;not null" json:"nom_complet"`
	Societe    string `gorm:"size:255" json:"societe,omitempty"`
	Type       string `gorm:"size:20;index;not null" json:"type"`
	Telephone  string `gorm:"size:50" json:"telephone,omitempty"`
	Email      string `gorm:"size:255" json:"email,omitempty"`
	Adresse    string `gorm:"size:500" json:"adresse,omitempty"`
	RIB        string `gorm:"column:rib;size:64" json:"rib,omitempty"`
	ICE        string `gorm:"column:ice;size:20" json:"ice,omitempty"`

	Solde         decimal.Decimal     `gorm:"type:numeric(14,2);not null;default:0" json:"solde"`
	Plafond       decimal.NullDecimal `gorm:"type:numeric(14,2)" json:"plafond"`
	DateOuverture *time.Time          `json:"date_ouverture,omitempty"`
	Archived      bool                `gorm:"not null;default:false" json:"archived"`

	SoldeCumule decimal.Decimal `gorm:"-" json:"solde_cumule"`
}

// OpeningDate is date_ouverture, else the creation time.
func (c *Contact) OpeningDate() time.Time {
	if c.DateOuverture != nil && !c.DateOuverture.IsZero() {
		return *c.DateOuverture
	}
	return c.CreatedAt
}

// OverPlafond reports whether the derived balance exceeds the credit ceiling.
func (c *Contact) OverPlafond() bool {
	return c.Plafond.Valid && c.SoldeCumule.GreaterThan(c.Plafond.Decimal)
}
