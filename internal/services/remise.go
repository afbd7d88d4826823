package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/remise"
	"github.com/diewo77/go-gestion/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	clientRemisesTable = "client_remises"
	itemRemisesTable   = "item_remises"
)

type RemiseService struct {
	DB    *gorm.DB
	Audit *AuditService
}

func NewRemiseService(db *gorm.DB, audit *AuditService) *RemiseService {
	return &RemiseService{DB: db, Audit: audit}
}

// ClientRemiseView is a beneficiary with the total of its non-cancelled items.
type ClientRemiseView struct {
	models.ClientRemise
	TotalRemise decimal.Decimal `json:"total_remise"`
}

type ClientRemiseInput struct {
	Nom   string `json:"nom"`
	Phone string `json:"phone"`
	CIN   string `json:"cin"`
	Note  string `json:"note"`
	Type  string `json:"type"`
}

func (in ClientRemiseInput) validate() error {
	v := validation.Violations{}
	validation.Required("nom", in.Nom, v)
	validation.OneOf("type", in.Type, []string{models.RemiseTypeClient, models.RemiseTypeAbonne}, v)
	return check(v)
}

func (in ClientRemiseInput) apply(c *models.ClientRemise) {
	c.Nom = strings.TrimSpace(in.Nom)
	c.Phone = strings.TrimSpace(in.Phone)
	c.CIN = strings.TrimSpace(in.CIN)
	c.Note = in.Note
	c.Type = in.Type
	if c.Type == "" {
		c.Type = models.RemiseTypeClient
	}
}

type ItemRemiseInput struct {
	ProductID  *uint           `json:"product_id"`
	BonID      *uint           `json:"bon_id"`
	BonType    *string         `json:"bon_type"`
	IsAchat    bool            `json:"is_achat"`
	Qte        decimal.Decimal `json:"qte"`
	PrixRemise decimal.Decimal `json:"prix_remise"`
	Statut     string          `json:"statut"`
}

func (in ItemRemiseInput) validate() error {
	v := validation.Violations{}
	validation.RequiredID("product_id", in.ProductID, v)
	validation.OneOf("statut", in.Statut, models.RemiseStatuses, v)
	if in.Qte.IsNegative() {
		v["qte"] = "must_not_be_negative"
	}
	return check(v)
}

func (s *RemiseService) ListClients(ctx context.Context, search string) ([]ClientRemiseView, error) {
	q := s.DB.WithContext(ctx).Preload("Items").Order("nom")
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("LOWER(nom) LIKE ? OR phone LIKE ? OR LOWER(cin) LIKE ?", like, like, like)
	}
	var clients []models.ClientRemise
	if err := q.Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("list client remises: %w", err)
	}
	out := make([]ClientRemiseView, len(clients))
	for i, c := range clients {
		out[i] = ClientRemiseView{ClientRemise: c, TotalRemise: remise.ClientTotal(c.Items)}
		out[i].Items = nil
	}
	return out, nil
}

func (s *RemiseService) GetClient(ctx context.Context, id uint) (ClientRemiseView, error) {
	var c models.ClientRemise
	if err := s.DB.WithContext(ctx).Preload("Items").First(&c, id).Error; err != nil {
		return ClientRemiseView{}, notFound("client remise", err)
	}
	return ClientRemiseView{ClientRemise: c, TotalRemise: remise.ClientTotal(c.Items)}, nil
}

func (s *RemiseService) CreateClient(ctx context.Context, in ClientRemiseInput, actor Actor) (models.ClientRemise, error) {
	var c models.ClientRemise
	if err := in.validate(); err != nil {
		return c, err
	}
	in.apply(&c)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return fmt.Errorf("create client remise: %w", err)
		}
		return s.Audit.Record(ctx, tx, clientRemisesTable, models.OpInsert, idStr(c.ID), actor.ptr(), nil, c)
	})
	return c, err
}

func (s *RemiseService) UpdateClient(ctx context.Context, id uint, in ClientRemiseInput, actor Actor) (models.ClientRemise, error) {
	if err := in.validate(); err != nil {
		return models.ClientRemise{}, err
	}
	var c models.ClientRemise
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return c, notFound("client remise", err)
	}
	old := c
	in.apply(&c)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&c).Error; err != nil {
			return fmt.Errorf("update client remise: %w", err)
		}
		return s.Audit.Record(ctx, tx, clientRemisesTable, models.OpUpdate, idStr(id), actor.ptr(), old, c)
	})
	return c, err
}

// DeleteClient removes a beneficiary and its items. PDG only.
func (s *RemiseService) DeleteClient(ctx context.Context, id uint, actor Actor) error {
	if !remise.CanDelete(actor.Role) {
		return fmt.Errorf("delete client remise: %w", ErrForbidden)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.ClientRemise
		if err := tx.First(&c, id).Error; err != nil {
			return notFound("client remise", err)
		}
		if err := tx.Where("client_remise_id = ?", id).Delete(&models.ItemRemise{}).Error; err != nil {
			return fmt.Errorf("delete remise items: %w", err)
		}
		if err := tx.Delete(&c).Error; err != nil {
			return fmt.Errorf("delete client remise: %w", err)
		}
		return s.Audit.Record(ctx, tx, clientRemisesTable, models.OpDelete, idStr(id), actor.ptr(), c, nil)
	})
}

func (s *RemiseService) ListItems(ctx context.Context, clientID uint) ([]models.ItemRemise, error) {
	if _, err := s.GetClient(ctx, clientID); err != nil {
		return nil, err
	}
	items := []models.ItemRemise{}
	err := s.DB.WithContext(ctx).Where("client_remise_id = ?", clientID).Order("created_at DESC, id DESC").Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list remise items: %w", err)
	}
	return items, nil
}

// CreateItem adds an item; non-PDG creators always get En attente.
func (s *RemiseService) CreateItem(ctx context.Context, clientID uint, in ItemRemiseInput, actor Actor) (models.ItemRemise, error) {
	if err := in.validate(); err != nil {
		return models.ItemRemise{}, err
	}
	if _, err := s.GetClient(ctx, clientID); err != nil {
		return models.ItemRemise{}, err
	}
	bonID, bonType, err := remise.ResolveBonLink(ctx, s.DB, in.BonID, in.BonType)
	if err != nil {
		return models.ItemRemise{}, err
	}
	it := models.ItemRemise{
		ClientRemiseID: clientID,
		ProductID:      in.ProductID,
		BonID:          bonID,
		BonType:        bonType,
		IsAchat:        in.IsAchat,
		Qte:            in.Qte,
		PrixRemise:     in.PrixRemise,
		Statut:         remise.CreateStatut(actor.Role, in.Statut),
		CreatedBy:      actor.ptr(),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&it).Error; err != nil {
			return fmt.Errorf("create remise item: %w", err)
		}
		return s.Audit.Record(ctx, tx, itemRemisesTable, models.OpInsert, idStr(it.ID), actor.ptr(), nil, it)
	})
	return it, err
}

// UpdateItem replaces an item. A Validé status from a non-PDG is ignored.
func (s *RemiseService) UpdateItem(ctx context.Context, id uint, in ItemRemiseInput, actor Actor) (models.ItemRemise, error) {
	if err := in.validate(); err != nil {
		return models.ItemRemise{}, err
	}
	var it models.ItemRemise
	if err := s.DB.WithContext(ctx).First(&it, id).Error; err != nil {
		return it, notFound("remise item", err)
	}
	old := it
	bonID, bonType, err := remise.ResolveBonLink(ctx, s.DB, in.BonID, in.BonType)
	if err != nil {
		return it, err
	}
	it.BonID, it.BonType = bonID, bonType
	it.ProductID = in.ProductID
	it.IsAchat = in.IsAchat
	it.Qte = in.Qte
	it.PrixRemise = in.PrixRemise
	if in.Statut != "" && remise.CanSetStatut(actor.Role, in.Statut) {
		it.Statut = in.Statut
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&it).Error; err != nil {
			return fmt.Errorf("update remise item: %w", err)
		}
		return s.Audit.Record(ctx, tx, itemRemisesTable, models.OpUpdate, idStr(id), actor.ptr(), old, it)
	})
	return it, err
}

func (s *RemiseService) DeleteItem(ctx context.Context, id uint, actor Actor) error {
	if !remise.CanDelete(actor.Role) {
		return fmt.Errorf("delete remise item: %w", ErrForbidden)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var it models.ItemRemise
		if err := tx.First(&it, id).Error; err != nil {
			return notFound("remise item", err)
		}
		if err := tx.Delete(&it).Error; err != nil {
			return fmt.Errorf("delete remise item: %w", err)
		}
		return s.Audit.Record(ctx, tx, itemRemisesTable, models.OpDelete, idStr(id), actor.ptr(), it, nil)
	})
}

// SummaryLine is one beneficiary in the combined summary.
type SummaryLine struct {
	Kind       string          `json:"kind"`
	ID         uint            `json:"id"`
	Nom        string          `json:"nom"`
	ItemsTotal decimal.Decimal `json:"items_total"`
	BonsTotal  decimal.Decimal `json:"bons_total"`
	Bons       int             `json:"bons"`
	Total      decimal.Decimal `json:"total"`
}

// Summary merges item remises and bon line discounts per beneficiary.
func (s *RemiseService) Summary(ctx context.Context) ([]SummaryLine, error) {
	db := s.DB.WithContext(ctx)
	var clients []models.ClientRemise
	if err := db.Preload("Items").Order("nom").Find(&clients).Error; err != nil {
		return nil, fmt.Errorf("load client remises: %w", err)
	}
	var bons []models.Bon
	err := db.Preload("Items").
		Where("type IN ?", []string{models.BonSortie, models.BonComptant}).
		Where("remise_id IS NOT NULL").
		Find(&bons).Error
	if err != nil {
		return nil, fmt.Errorf("load discounted bons: %w", err)
	}

	type key struct {
		kind string
		id   uint
	}
	lines := map[key]*SummaryLine{}
	var order []key
	get := func(k key) *SummaryLine {
		if l, ok := lines[k]; ok {
			return l
		}
		l := &SummaryLine{Kind: k.kind, ID: k.id}
		lines[k] = l
		order = append(order, k)
		return l
	}
	for _, c := range clients {
		l := get(key{remise.TargetRemise, c.ID})
		l.Nom = c.Nom
		l.ItemsTotal = remise.ClientTotal(c.Items)
	}
	var contactIDs []uint
	for _, b := range remise.Beneficiaries(remise.BonDiscounts(bons)) {
		l := get(key{b.Kind, b.ID})
		l.BonsTotal = b.Total
		l.Bons = b.Bons
		if b.Kind == remise.TargetClient {
			contactIDs = append(contactIDs, b.ID)
		}
	}
	if len(contactIDs) > 0 {
		var contacts []models.Contact
		if err := db.Unscoped().Where("id IN ?", contactIDs).Find(&contacts).Error; err != nil {
			return nil, fmt.Errorf("load contacts: %w", err)
		}
		for _, c := range contacts {
			if l, ok := lines[key{remise.TargetClient, c.ID}]; ok {
				l.Nom = c.NomComplet
			}
		}
	}
	out := make([]SummaryLine, 0, len(order))
	for _, k := range order {
		l := lines[k]
		l.Total = l.ItemsTotal.Add(l.BonsTotal)
		out = append(out, *l)
	}
	return out, nil
}

func idStr(id uint) string { return strconv.FormatUint(uint64(id), 10) }
