package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment modes.
const (
	ModeEspeces  = "Espèces"
	ModeCheque   = "Chèque"
	ModeVirement = "Virement"
	ModeTraite   = "Traite"
)

var PaymentModes = []string{ModeEspeces, ModeCheque, ModeVirement, ModeTraite}

// PaymentStatuses is the closed set accepted on write.
var PaymentStatuses = []string{StatutEnAttente, StatutValide, StatutRefuse, StatutAnnule}

// Payment is one entry of the caisse. Numero equals the id once inserted.
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Numero            string          `gorm:"size:50;index" json:"numero"`
	TypePaiement      string          `gorm:"size:20;index;not null;default:'Client'" json:"type_paiement"`
	ContactID         *uint           `gorm:"index" json:"contact_id,omitempty"`
	BonID             *uint           `gorm:"index" json:"bon_id,omitempty"`
	BonType           string          `gorm:"size:32" json:"bon_type,omitempty"`
	MontantTotal      decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"montant_total"`
	ModePaiement      string          `gorm:"size:20;index" json:"mode_paiement"`
	Statut            string          `gorm:"size:20;index;default:'En attente'" json:"statut"`
	DatePaiement      *time.Time      `gorm:"index" json:"date_paiement,omitempty"`
	Designation       string          `gorm:"type:text" json:"designation,omitempty"`
	DateEcheance      *time.Time      `json:"date_echeance,omitempty"`
	Banque            string          `gorm:"size:100" json:"banque,omitempty"`
	Personnel         string          `gorm:"size:255" json:"personnel,omitempty"`
	ReferenceVirement string          `gorm:"size:100" json:"reference_virement,omitempty"`
	CodeReglement     string          `gorm:"size:100" json:"code_reglement,omitempty"`
	TalonID           *uint           `json:"talon_id,omitempty"`
	ImageURL          string          `gorm:"size:500" json:"image_url,omitempty"`
	CreatedBy         *uint           `json:"created_by,omitempty"`
	UpdatedBy         *uint           `json:"updated_by,omitempty"`

	Contact *Contact `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
}
