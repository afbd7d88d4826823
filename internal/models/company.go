package models

import "time"

// Company is the single row of letterhead data printed on statements.
type Company struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UpdatedAt time.Time `json:"updated_at"`

	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255" json:"email,omitempty"`
	Phone   string `gorm:"size:50" json:"phone,omitempty"`
	Address string `gorm:"size:500" json:"address,omitempty"`
	City    string `gorm:"size:100" json:"city,omitempty"`

	// Moroccan legal identifiers
	ICE     string `gorm:"column:ice;size:20" json:"ice,omitempty"`
	RC      string `gorm:"column:rc;size:50" json:"rc,omitempty"`
	IF      string `gorm:"column:if_number;size:50" json:"if,omitempty"`
	Patente string `gorm:"size:50" json:"patente,omitempty"`
}
