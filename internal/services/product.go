package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/diewo77/go-gestion/internal/listing"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductService struct{ DB *gorm.DB }

func NewProductService(db *gorm.DB) *ProductService { return &ProductService{DB: db} }

type ProductInput struct {
	Reference   string          `json:"reference"`
	Designation string          `json:"designation"`
	Quantite    decimal.Decimal `json:"quantite"`
	PrixAchat   decimal.Decimal `json:"prix_achat"`
	CoutRevient decimal.Decimal `json:"cout_revient"`
	PrixGros    decimal.Decimal `json:"prix_gros"`
	PrixVente   decimal.Decimal `json:"prix_vente"`
	EstService  bool            `json:"est_service"`
}

func (in ProductInput) validate() error {
	v := validation.Violations{}
	validation.Required("designation", in.Designation, v)
	for field, d := range map[string]decimal.Decimal{
		"prix_achat": in.PrixAchat, "cout_revient": in.CoutRevient,
		"prix_gros": in.PrixGros, "prix_vente": in.PrixVente,
	} {
		if d.IsNegative() {
			v[field] = "must_not_be_negative"
		}
	}
	return check(v)
}

func (in ProductInput) apply(p *models.Product) {
	p.Reference = strings.TrimSpace(in.Reference)
	p.Designation = strings.TrimSpace(in.Designation)
	p.Quantite = in.Quantite
	p.PrixAchat = in.PrixAchat
	p.CoutRevient = in.CoutRevient
	p.PrixGros = in.PrixGros
	p.PrixVente = in.PrixVente
	p.EstService = in.EstService
}

// List returns products matching search on reference and designation, by designation.
func (s *ProductService) List(ctx context.Context, search string, page, limit int) (listing.Page[models.Product], error) {
	var products []models.Product
	if err := s.DB.WithContext(ctx).Order("designation").Find(&products).Error; err != nil {
		return listing.Page[models.Product]{}, fmt.Errorf("list products: %w", err)
	}
	products = slices.DeleteFunc(products, func(p models.Product) bool {
		return !listing.Match(listing.Haystack(p.Reference, p.Designation, fmt.Sprint(p.ID)), search)
	})
	return listing.Paginate(products, page, limit), nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	if err := s.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return p, notFound("product", err)
	}
	return p, nil
}

func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}
	var p models.Product
	in.apply(&p)
	if err := s.DB.WithContext(ctx).Create(&p).Error; err != nil {
		return p, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	if err := in.validate(); err != nil {
		return models.Product{}, err
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return p, err
	}
	in.apply(&p)
	if err := s.DB.WithContext(ctx).Save(&p).Error; err != nil {
		return p, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product: %w", ErrNotFound)
	}
	return nil
}
