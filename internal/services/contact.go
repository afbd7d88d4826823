package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/listing"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var contactTypes = []string{models.ContactClient, models.ContactFournisseur}

type ContactService struct {
	DB        *gorm.DB
	Threshold ledger.Threshold
	now       func() time.Time
}

func NewContactService(db *gorm.DB, threshold ledger.Threshold) *ContactService {
	return &ContactService{DB: db, Threshold: threshold.Normalized(), now: time.Now}
}

// ContactView is a contact with its derived balance and activity.
type ContactView struct {
	models.Contact
	Overdue     bool       `json:"overdue"`
	OverPlafond bool       `json:"over_plafond"`
	LastPayment *time.Time `json:"last_payment,omitempty"`
	LastBon     *time.Time `json:"last_bon,omitempty"`
}

type ContactFilter struct {
	Type            string
	Search          string
	Sort            string // nom, societe, solde_cumule
	Dir             string
	OverdueFirst    bool
	IncludeArchived bool
	Page            int
	Limit           int
}

type ContactInput struct {
	Reference     string              `json:"reference"`
	NomComplet    string              `json:"nom_complet"`
	Societe       string              `json:"societe"`
	Type          string              `json:"type"`
	Telephone     string              `json:"telephone"`
	Email         string              `json:"email"`
	Adresse       string              `json:"adresse"`
	RIB           string              `json:"rib"`
	ICE           string              `json:"ice"`
	Solde         decimal.Decimal     `json:"solde"`
	Plafond       decimal.NullDecimal `json:"plafond"`
	DateOuverture *time.Time          `json:"date_ouverture"`
	Archived      bool                `json:"archived"`
}

func (in ContactInput) validate() error {
	v := validation.Violations{}
	validation.Required("nom_complet", in.NomComplet, v)
	validation.Required("type", in.Type, v)
	validation.OneOf("type", in.Type, contactTypes, v)
	if in.Plafond.Valid {
		f, _ := in.Plafond.Decimal.Float64()
		validation.NonNegativeFloat("plafond", f, v)
	}
	return check(v)
}

func (in ContactInput) apply(c *models.Contact) {
	c.Reference = strings.TrimSpace(in.Reference)
	c.NomComplet = strings.TrimSpace(in.NomComplet)
	c.Societe = strings.TrimSpace(in.Societe)
	c.Type = in.Type
	c.Telephone = strings.TrimSpace(in.Telephone)
	c.Email = strings.TrimSpace(in.Email)
	c.Adresse = in.Adresse
	c.RIB = in.RIB
	c.ICE = in.ICE
	c.Solde = in.Solde
	c.Plafond = in.Plafond
	c.DateOuverture = in.DateOuverture
	c.Archived = in.Archived
}

// activity is what the balance of a set of contacts is derived from.
type activity struct {
	bons     map[uint][]models.Bon
	payments map[uint][]models.Payment
}

func (s *ContactService) loadActivity(ctx context.Context, ids []uint) (activity, error) {
	act := activity{bons: map[uint][]models.Bon{}, payments: map[uint][]models.Payment{}}
	if len(ids) == 0 {
		return act, nil
	}
	var bons []models.Bon
	err := s.DB.WithContext(ctx).
		Select("id", "type", "client_id", "fournisseur_id", "montant_total", "statut", "date_creation", "created_at").
		Where("client_id IN ? OR fournisseur_id IN ?", ids, ids).
		Find(&bons).Error
	if err != nil {
		return act, fmt.Errorf("load bons: %w", err)
	}
	for _, b := range bons {
		if b.ClientID != nil {
			act.bons[*b.ClientID] = append(act.bons[*b.ClientID], b)
		}
		if b.FournisseurID != nil && (b.ClientID == nil || *b.FournisseurID != *b.ClientID) {
			act.bons[*b.FournisseurID] = append(act.bons[*b.FournisseurID], b)
		}
	}
	var payments []models.Payment
	err = s.DB.WithContext(ctx).
		Select("id", "contact_id", "type_paiement", "montant_total", "statut", "date_paiement", "created_at").
		Where("contact_id IN ?", ids).
		Find(&payments).Error
	if err != nil {
		return act, fmt.Errorf("load payments: %w", err)
	}
	for _, p := range payments {
		act.payments[*p.ContactID] = append(act.payments[*p.ContactID], p)
	}
	return act, nil
}

func (s *ContactService) view(c models.Contact, act activity, now time.Time, threshold ledger.Threshold) ContactView {
	bons, payments := act.bons[c.ID], act.payments[c.ID]
	c.SoldeCumule = ledger.SoldeCumule(&c, bons, payments)
	v := ContactView{Contact: c}
	for i := range bons {
		if !ledger.BelongsTo(&bons[i], &c) {
			continue
		}
		d := bons[i].Date()
		if v.LastBon == nil || d.After(*v.LastBon) {
			v.LastBon = &d
		}
	}
	for i := range payments {
		if !ledger.PaymentBelongsTo(&payments[i], &c) {
			continue
		}
		d := payments[i].CreatedAt
		if payments[i].DatePaiement != nil {
			d = *payments[i].DatePaiement
		}
		if v.LastPayment == nil || d.After(*v.LastPayment) {
			v.LastPayment = &d
		}
	}
	v.Overdue = ledger.IsOverdue(&c, c.SoldeCumule, v.LastPayment, v.LastBon, threshold, now)
	v.OverPlafond = c.OverPlafond()
	return v
}

func (s *ContactService) views(ctx context.Context, contacts []models.Contact) ([]ContactView, error) {
	ids := make([]uint, len(contacts))
	for i, c := range contacts {
		ids[i] = c.ID
	}
	act, err := s.loadActivity(ctx, ids)
	if err != nil {
		return nil, err
	}
	now := s.now()
	threshold := ledger.ThresholdFrom(ctx, s.Threshold)
	out := make([]ContactView, len(contacts))
	for i, c := range contacts {
		out[i] = s.view(c, act, now, threshold)
	}
	return out, nil
}

func contactHaystack(c *models.Contact) string {
	parts := []string{c.NomComplet, c.Societe, c.Reference, c.Email}
	parts = append(parts, listing.PhoneTokens(c.Telephone)...)
	return listing.Haystack(parts...)
}

// List filters, sorts and paginates contacts with their derived balance.
func (s *ContactService) List(ctx context.Context, f ContactFilter) (listing.Page[ContactView], error) {
	q := s.DB.WithContext(ctx).Model(&models.Contact{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if !f.IncludeArchived {
		q = q.Where("archived = ?", false)
	}
	var contacts []models.Contact
	if err := q.Find(&contacts).Error; err != nil {
		return listing.Page[ContactView]{}, fmt.Errorf("list contacts: %w", err)
	}
	contacts = slices.DeleteFunc(contacts, func(c models.Contact) bool {
		return !listing.Match(contactHaystack(&c), f.Search)
	})
	views, err := s.views(ctx, contacts)
	if err != nil {
		return listing.Page[ContactView]{}, err
	}
	SortContacts(views, f.Sort, f.Dir, f.OverdueFirst)
	return listing.Paginate(views, f.Page, f.Limit), nil
}

// SortContacts orders by nom (default), societe or solde_cumule. Overdue
// contacts come first when overdueFirst is set.
func SortContacts(views []ContactView, key, dir string, overdueFirst bool) {
	desc := listing.SortDir(dir, "asc") == "desc"
	slices.SortStableFunc(views, func(a, b ContactView) int {
		if overdueFirst && a.Overdue != b.Overdue {
			if a.Overdue {
				return -1
			}
			return 1
		}
		var c int
		switch key {
		case "societe":
			c = cmp.Compare(strings.ToLower(a.Societe), strings.ToLower(b.Societe))
		case "solde_cumule", "solde":
			c = a.SoldeCumule.Cmp(b.SoldeCumule)
		default:
			c = cmp.Compare(strings.ToLower(a.NomComplet), strings.ToLower(b.NomComplet))
		}
		if desc {
			c = -c
		}
		return c
	})
}

func (s *ContactService) find(ctx context.Context, id uint) (models.Contact, error) {
	var c models.Contact
	if err := s.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return c, notFound("contact", err)
	}
	return c, nil
}

func (s *ContactService) Get(ctx context.Context, id uint) (ContactView, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return ContactView{}, err
	}
	views, err := s.views(ctx, []models.Contact{c})
	if err != nil {
		return ContactView{}, err
	}
	return views[0], nil
}

func (s *ContactService) Create(ctx context.Context, in ContactInput) (ContactView, error) {
	if err := in.validate(); err != nil {
		return ContactView{}, err
	}
	var c models.Contact
	in.apply(&c)
	if err := s.DB.WithContext(ctx).Create(&c).Error; err != nil {
		return ContactView{}, fmt.Errorf("create contact: %w", err)
	}
	c.SoldeCumule = c.Solde
	return ContactView{Contact: c}, nil
}

func (s *ContactService) Update(ctx context.Context, id uint, in ContactInput) (ContactView, error) {
	if err := in.validate(); err != nil {
		return ContactView{}, err
	}
	c, err := s.find(ctx, id)
	if err != nil {
		return ContactView{}, err
	}
	in.apply(&c)
	if err := s.DB.WithContext(ctx).Save(&c).Error; err != nil {
		return ContactView{}, fmt.Errorf("update contact: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *ContactService) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Contact{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete contact: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("contact: %w", ErrNotFound)
	}
	return nil
}

// Overdue lists the overdue contacts, highest balance first.
func (s *ContactService) Overdue(ctx context.Context, contactType string) ([]ContactView, error) {
	page, err := s.List(ctx, ContactFilter{Type: contactType})
	if err != nil {
		return nil, err
	}
	out := []ContactView{}
	for _, v := range page.Items {
		if v.Overdue {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, func(a, b ContactView) int { return b.SoldeCumule.Cmp(a.SoldeCumule) })
	return out, nil
}

// Statement builds the ledger of one contact. Bons referenced by the
// contact's payments are loaded too so payments can be dated from them.
func (s *ContactService) Statement(ctx context.Context, id uint, opts ledger.Options) (ledger.Statement, error) {
	c, err := s.find(ctx, id)
	if err != nil {
		return ledger.Statement{}, err
	}
	db := s.DB.WithContext(ctx)

	var payments []models.Payment
	if err := db.Where("contact_id = ?", c.ID).Find(&payments).Error; err != nil {
		return ledger.Statement{}, fmt.Errorf("load payments: %w", err)
	}
	var bons []models.Bon
	col := "client_id"
	if c.Type == models.ContactFournisseur {
		col = "fournisseur_id"
	}
	if err := db.Preload("Items").Where(col+" = ?", c.ID).Find(&bons).Error; err != nil {
		return ledger.Statement{}, fmt.Errorf("load bons: %w", err)
	}
	known := map[uint]bool{}
	for _, b := range bons {
		known[b.ID] = true
	}
	var linked []uint
	for _, p := range payments {
		if p.BonID != nil && !known[*p.BonID] {
			linked = append(linked, *p.BonID)
		}
	}
	if len(linked) > 0 {
		var extra []models.Bon
		if err := db.Where("id IN ?", linked).Find(&extra).Error; err != nil {
			return ledger.Statement{}, fmt.Errorf("load linked bons: %w", err)
		}
		bons = append(bons, extra...)
	}

	var productIDs []uint
	for _, b := range bons {
		for _, it := range b.Items {
			if it.ProductID != nil {
				productIDs = append(productIDs, *it.ProductID)
			}
		}
	}
	products := map[uint]models.Product{}
	if len(productIDs) > 0 {
		var list []models.Product
		if err := db.Unscoped().Where("id IN ?", productIDs).Find(&list).Error; err != nil {
			return ledger.Statement{}, fmt.Errorf("load products: %w", err)
		}
		for _, p := range list {
			products[p.ID] = p
		}
	}
	return ledger.Build(c, bons, payments, products, opts), nil
}
