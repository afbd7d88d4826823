package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/validation"
	"gorm.io/gorm"
)

// CompanyService manages the single letterhead row.
type CompanyService struct{ DB *gorm.DB }

func NewCompanyService(db *gorm.DB) *CompanyService { return &CompanyService{DB: db} }

// Get returns the company, a zero value when none is configured yet.
func (s *CompanyService) Get(ctx context.Context) (models.Company, error) {
	var c models.Company
	err := s.DB.WithContext(ctx).Order("id").First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Company{}, nil
	}
	if err != nil {
		return c, fmt.Errorf("load company: %w", err)
	}
	return c, nil
}

// Update creates or replaces the company details.
func (s *CompanyService) Update(ctx context.Context, in models.Company) (models.Company, error) {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	if err := check(v); err != nil {
		return models.Company{}, err
	}
	c, err := s.Get(ctx)
	if err != nil {
		return c, err
	}
	in.ID = c.ID
	in.Name = strings.TrimSpace(in.Name)
	if err := s.DB.WithContext(ctx).Save(&in).Error; err != nil {
		return in, fmt.Errorf("save company: %w", err)
	}
	return in, nil
}
