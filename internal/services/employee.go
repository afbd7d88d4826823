package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// EmployeeService administers employee accounts.
type EmployeeService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewEmployeeService(db *gorm.DB) *EmployeeService {
	return &EmployeeService{DB: db, now: time.Now}
}

type EmployeeInput struct {
	CIN          string     `json:"cin"`
	NomComplet   string     `json:"nom_complet"`
	Role         string     `json:"role"`
	Password     string     `json:"password"`
	DateEmbauche *time.Time `json:"date_embauche"`
}

func (in EmployeeInput) validate() error {
	v := validation.Violations{}
	validation.Required("cin", in.CIN, v)
	validation.Required("password", in.Password, v)
	validation.OneOf("role", models.NormalizeRole(in.Role), models.Roles, v)
	return check(v)
}

// HashPassword returns the bcrypt hash stored in users.password.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (s *EmployeeService) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.DB.WithContext(ctx).Order("nom_complet, id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return users, nil
}

func (s *EmployeeService) Create(ctx context.Context, in EmployeeInput) (models.User, error) {
	var u models.User
	if err := in.validate(); err != nil {
		return u, err
	}
	cin := strings.TrimSpace(in.CIN)
	var n int64
	if err := s.DB.WithContext(ctx).Unscoped().Model(&models.User{}).Where("cin = ?", cin).Count(&n).Error; err != nil {
		return u, fmt.Errorf("check cin: %w", err)
	}
	if n > 0 {
		return u, &ValidationError{Violations: validation.Violations{"cin": "already_used"}}
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return u, err
	}
	role := models.NormalizeRole(in.Role)
	if role == "" {
		role = models.RoleEmploye
	}
	now := s.now()
	u = models.User{
		CIN:               cin,
		NomComplet:        strings.TrimSpace(in.NomComplet),
		Role:              role,
		Password:          hash,
		DateEmbauche:      in.DateEmbauche,
		PasswordChangedAt: &now,
	}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		return u, fmt.Errorf("create employee: %w", err)
	}
	return u, nil
}

func (s *EmployeeService) SetRole(ctx context.Context, id uint, role string) (models.User, error) {
	var u models.User
	role = models.NormalizeRole(role)
	if !slices.Contains(models.Roles, role) {
		return u, &ValidationError{Violations: validation.Violations{"role": "invalid_choice"}}
	}
	if err := s.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return u, notFound("employee", err)
	}
	if err := s.DB.WithContext(ctx).Model(&u).Update("role", role).Error; err != nil {
		return u, fmt.Errorf("set role: %w", err)
	}
	return u, nil
}

// Delete soft-deletes the account. Callers cannot delete themselves.
func (s *EmployeeService) Delete(ctx context.Context, id uint, actor Actor) error {
	if id == actor.ID {
		return invalid("cannot delete own account")
	}
	res := s.DB.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete employee: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("employee", gorm.ErrRecordNotFound)
	}
	return nil
}
