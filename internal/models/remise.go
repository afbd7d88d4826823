package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	RemiseTypeClient = "client-remise"
	RemiseTypeAbonne = "client_abonne"
)

// RemiseBonTypes are the bon types a remise item may point at.
var RemiseBonTypes = []string{BonCommande, BonSortie, BonComptant}

var RemiseStatuses = []string{StatutEnAttente, StatutValide, StatutAnnule}

// ClientRemise is a discount beneficiary.
type ClientRemise struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Nom   string `gorm:"size:255;not null;index" json:"nom"`
	Phone string `gorm:"size:50" json:"phone,omitempty"`
	CIN   string `gorm:"column:cin;size:32" json:"cin,omitempty"`
	Note  string `gorm:"type:text" json:"note,omitempty"`
	Type  string `gorm:"size:32;not null;default:'client-remise'" json:"type"`

	Items []ItemRemise `gorm:"foreignKey:ClientRemiseID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// ItemRemise is one discount line granted to a beneficiary. PrixRemise may be negative.
type ItemRemise struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ClientRemiseID uint            `gorm:"index;not null" json:"client_remise_id"`
	ProductID      *uint           `gorm:"index" json:"product_id,omitempty"`
	BonID          *uint           `gorm:"index" json:"bon_id,omitempty"`
	BonType        *string         `gorm:"size:32" json:"bon_type,omitempty"`
	IsAchat        bool            `gorm:"not null;default:false" json:"is_achat"`
	Qte            decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0" json:"qte"`
	PrixRemise     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"prix_remise"`
	Statut         string          `gorm:"size:20;default:'En attente'" json:"statut"`
	CreatedBy      *uint           `json:"created_by,omitempty"`
}
