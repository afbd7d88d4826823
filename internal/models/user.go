package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Employee roles, highest privilege first.
const (
	RolePDG         = "PDG"
	RoleManagerPlus = "ManagerPlus"
	RoleManager     = "Manager"
	RoleEmploye     = "Employé"
)

var Roles = []string{RolePDG, RoleManagerPlus, RoleManager, RoleEmploye}

// User is an employee account. Login is by CIN (national identity number).
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CIN          string     `gorm:"column:cin;uniqueIndex;size:32;not null" json:"cin"`
	NomComplet   string     `gorm:"size:255" json:"nom_complet"`
	Role         string     `gorm:"size:32;not null;default:'Employé'" json:"role"`
	Password     string     `gorm:"size:255;not null" json:"-"` // bcrypt hash
	DateEmbauche *time.Time `json:"date_embauche,omitempty"`

	PasswordChangedAt               *time.Time `json:"password_changed_at,omitempty"`
	PasswordChangeRequiredWeekStart *time.Time `json:"password_change_required_week_start,omitempty"`
}

// NormalizeRole maps loosely written role names (case, accents) to the canonical ones.
// Unknown values are returned trimmed.
func NormalizeRole(role string) string {
	r := strings.TrimSpace(role)
	switch strings.ToLower(r) {
	case "pdg":
		return RolePDG
	case "managerplus", "manager_plus", "manager plus":
		return RoleManagerPlus
	case "manager":
		return RoleManager
	case "employé", "employe", "employee":
		return RoleEmploye
	}
	return r
}

func (u *User) IsPDG() bool      { return NormalizeRole(u.Role) == RolePDG }
func (u *User) IsEmployee() bool { return NormalizeRole(u.Role) == RoleEmploye }
