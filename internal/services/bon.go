package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/listing"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/remise"
	"github.com/diewo77/go-gestion/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BonStatuses is the closed set a bon status may be set to.
var BonStatuses = []string{
	models.StatutBrouillon, models.StatutEnAttente, models.StatutValide,
	models.StatutRefuse, models.StatutAnnule, models.StatutLivre, models.StatutPaye,
}

type BonService struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewBonService(db *gorm.DB) *BonService { return &BonService{DB: db, now: time.Now} }

type BonItemInput struct {
	ProductID         *uint               `json:"product_id"`
	Designation       string              `json:"designation"`
	Quantite          decimal.Decimal     `json:"quantite"`
	PrixUnitaire      decimal.Decimal     `json:"prix_unitaire"`
	Total             decimal.NullDecimal `json:"total"`
	RemisePourcentage decimal.Decimal     `json:"remise_pourcentage"`
	RemiseMontant     decimal.Decimal     `json:"remise_montant"`
}

type BonInput struct {
	Type            string         `json:"type"`
	DateCreation    *time.Time     `json:"date_creation"`
	ClientID        *uint          `json:"client_id"`
	FournisseurID   *uint          `json:"fournisseur_id"`
	Statut          string         `json:"statut"`
	Vehicule        string         `json:"vehicule"`
	LieuChargement  string         `json:"lieu_chargement"`
	BonOrigineID    *uint          `json:"bon_origine_id"`
	RemiseIsClient  any            `json:"remise_is_client"`
	RemiseID        any            `json:"remise_id"`
	RemiseClientNom string         `json:"remise_client_nom"`
	Items           []BonItemInput `json:"items"`
}

func purchaseSide(t string) bool {
	return t == models.BonCommande || t == models.BonAvoirFournisseur
}

func (in BonInput) validate() error {
	v := validation.Violations{}
	validation.Required("type", in.Type, v)
	validation.OneOf("type", in.Type, models.BonTypes, v)
	validation.OneOf("statut", in.Statut, BonStatuses, v)
	if purchaseSide(in.Type) {
		validation.RequiredID("fournisseur_id", in.FournisseurID, v)
	} else if in.Type == models.BonSortie || in.Type == models.BonAvoir {
		validation.RequiredID("client_id", in.ClientID, v)
	}
	if len(in.Items) == 0 {
		v["items"] = "required"
	}
	for i, it := range in.Items {
		if !it.Quantite.IsPositive() {
			v["items."+strconv.Itoa(i)+".quantite"] = "must_be_positive"
		}
		if it.PrixUnitaire.IsNegative() {
			v["items."+strconv.Itoa(i)+".prix_unitaire"] = "must_not_be_negative"
		}
		if it.ProductID == nil && strings.TrimSpace(it.Designation) == "" {
			v["items."+strconv.Itoa(i)+".designation"] = "required"
		}
	}
	return check(v)
}

type BonFilter struct {
	Type      string
	Statut    string
	ContactID *uint
	Search    string
	Period    ledger.Period
	Page      int
	Limit     int
}

// List returns bons newest first, without items.
func (s *BonService) List(ctx context.Context, f BonFilter) (listing.Page[models.Bon], error) {
	q := s.DB.WithContext(ctx).Model(&models.Bon{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Statut != "" {
		q = q.Where("statut = ?", f.Statut)
	}
	if f.ContactID != nil {
		q = q.Where("client_id = ? OR fournisseur_id = ?", *f.ContactID, *f.ContactID)
	}
	if f.Period.From != nil {
		q = q.Where("date_creation >= ?", *f.Period.From)
	}
	if f.Period.To != nil {
		q = q.Where("date_creation <= ?", *f.Period.To)
	}
	var bons []models.Bon
	if err := q.Order("date_creation DESC, id DESC").Find(&bons).Error; err != nil {
		return listing.Page[models.Bon]{}, fmt.Errorf("list bons: %w", err)
	}
	bons = slices.DeleteFunc(bons, func(b models.Bon) bool {
		parts := append([]string{models.BonNumero(&b), models.DisplayBonNumero(&b), b.Type, b.Statut, b.Vehicule},
			listing.DateTokens(b.Date())...)
		return !listing.Match(listing.Haystack(parts...), f.Search)
	})
	return listing.Paginate(bons, f.Page, f.Limit), nil
}

func (s *BonService) Get(ctx context.Context, id uint) (models.Bon, error) {
	var b models.Bon
	if err := s.DB.WithContext(ctx).Preload("Items").First(&b, id).Error; err != nil {
		return b, notFound("bon", err)
	}
	return b, nil
}

// Create stores a bon and its lines. Line costs are snapshotted from the
// products, the total is recomputed and the numero derived from the id.
func (s *BonService) Create(ctx context.Context, in BonInput, actor Actor) (models.Bon, error) {
	if err := in.validate(); err != nil {
		return models.Bon{}, err
	}
	b := models.Bon{
		Type:           in.Type,
		ClientID:       in.ClientID,
		FournisseurID:  in.FournisseurID,
		Statut:         in.Statut,
		Vehicule:       in.Vehicule,
		LieuChargement: in.LieuChargement,
		BonOrigineID:   in.BonOrigineID,
		CreatedBy:      actor.ptr(),
	}
	if b.Statut == "" {
		b.Statut = models.StatutEnAttente
	}
	if in.DateCreation != nil {
		b.DateCreation = *in.DateCreation
	} else {
		b.DateCreation = s.now()
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := remise.ResolveTarget(ctx, tx, remise.TargetInput{
			ClientID:        in.ClientID,
			RemiseIsClient:  in.RemiseIsClient,
			RemiseID:        in.RemiseID,
			RemiseClientNom: in.RemiseClientNom,
		})
		if err != nil {
			return invalid("%v", err)
		}
		b.RemiseIsClient, b.RemiseID = target.RemiseIsClient, target.RemiseID

		for _, it := range in.Items {
			item := models.BonItem{
				ProductID:         it.ProductID,
				Designation:       strings.TrimSpace(it.Designation),
				Quantite:          it.Quantite,
				PrixUnitaire:      it.PrixUnitaire,
				Total:             it.Total,
				RemisePourcentage: it.RemisePourcentage,
				RemiseMontant:     it.RemiseMontant,
			}
			if it.ProductID != nil {
				var p models.Product
				if err := tx.First(&p, *it.ProductID).Error; err != nil {
					return notFound(fmt.Sprintf("product %d", *it.ProductID), err)
				}
				if item.Designation == "" {
					item.Designation = p.Designation
				}
				item.CoutRevient = decimal.NewNullDecimal(p.CoutRevient)
				item.PrixAchat = decimal.NewNullDecimal(p.PrixAchat)
			}
			b.Items = append(b.Items, item)
		}
		b.MontantTotal = b.ComputeTotal()

		if err := tx.Create(&b).Error; err != nil {
			return fmt.Errorf("create bon: %w", err)
		}
		b.Numero = models.BonNumero(&b)
		return tx.Model(&b).Update("numero", b.Numero).Error
	})
	return b, err
}

// SetStatut changes a bon's status.
func (s *BonService) SetStatut(ctx context.Context, id uint, statut string) (models.Bon, error) {
	v := validation.Violations{}
	validation.Required("statut", statut, v)
	validation.OneOf("statut", statut, BonStatuses, v)
	if err := check(v); err != nil {
		return models.Bon{}, err
	}
	b, err := s.Get(ctx, id)
	if err != nil {
		return b, err
	}
	if err := s.DB.WithContext(ctx).Model(&b).Update("statut", statut).Error; err != nil {
		return b, fmt.Errorf("update bon statut: %w", err)
	}
	b.Statut = statut
	return b, nil
}

func (s *BonService) Delete(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bon_id = ?", id).Delete(&models.BonItem{}).Error; err != nil {
			return fmt.Errorf("delete bon items: %w", err)
		}
		res := tx.Delete(&models.Bon{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete bon: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("bon: %w", ErrNotFound)
		}
		return nil
	})
}
