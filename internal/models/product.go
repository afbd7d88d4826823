package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Reference   string          `gorm:"size:50;index" json:"reference"`
	Designation string          `gorm:"size:255;not null" json:"designation"`
	Quantite    decimal.Decimal `gorm:"type:numeric(14,3);not null;default:0" json:"quantite"`
	PrixAchat   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"prix_achat"`
	CoutRevient decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"cout_revient"`
	PrixGros    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"prix_gros"`
	PrixVente   decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"prix_vente"`
	EstService  bool            `gorm:"not null;default:false" json:"est_service"`
}

// UnitCost is cout_revient, else prix_achat.
func (p *Product) UnitCost() decimal.Decimal {
	if !p.CoutRevient.IsZero() {
		return p.CoutRevient
	}
	return p.PrixAchat
}
