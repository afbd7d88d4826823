package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/validation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const paymentsTable = "payments"

type PaymentService struct {
	DB    *gorm.DB
	Audit *AuditService
	Loc   *time.Location
	now   func() time.Time
}

func NewPaymentService(db *gorm.DB, audit *AuditService, loc *time.Location) *PaymentService {
	if loc == nil {
		loc = time.UTC
	}
	return &PaymentService{DB: db, Audit: audit, Loc: loc, now: time.Now}
}

type PaymentInput struct {
	TypePaiement      string          `json:"type_paiement"`
	ContactID         *uint           `json:"contact_id"`
	BonID             *uint           `json:"bon_id"`
	BonType           string          `json:"bon_type"`
	MontantTotal      decimal.Decimal `json:"montant_total"`
	ModePaiement      string          `json:"mode_paiement"`
	Statut            string          `json:"statut"`
	DatePaiement      string          `json:"date_paiement"`
	Designation       string          `json:"designation"`
	DateEcheance      string          `json:"date_echeance"`
	Banque            string          `json:"banque"`
	Personnel         string          `json:"personnel"`
	ReferenceVirement string          `json:"reference_virement"`
	CodeReglement     string          `json:"code_reglement"`
	TalonID           *uint           `json:"talon_id"`
	ImageURL          string          `json:"image_url"`
}

// ParsePaymentDate accepts "YYYY-MM-DD HH:MM:SS", "YYYY-MM-DDTHH:MM",
// RFC 3339 and a bare "YYYY-MM-DD", which takes the clock time of now.
// Empty means now.
func ParsePaymentDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		n := now.In(loc)
		return time.Date(t.Year(), t.Month(), t.Day(), n.Hour(), n.Minute(), n.Second(), 0, loc), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: date de paiement invalide %q", ErrInvalid, s)
}

func (s *PaymentService) apply(p *models.Payment, in PaymentInput) error {
	v := validation.Violations{}
	if !in.MontantTotal.IsPositive() {
		v["montant_total"] = "must_be_positive"
	}
	validation.Required("mode_paiement", in.ModePaiement, v)
	validation.OneOf("mode_paiement", in.ModePaiement, models.PaymentModes, v)
	validation.OneOf("type_paiement", in.TypePaiement, contactTypes, v)
	if in.Statut != "" {
		validation.OneOf("statut", models.NormalizePaymentStatus(in.Statut), models.PaymentStatuses, v)
	}
	if err := check(v); err != nil {
		return err
	}

	if in.DatePaiement != "" || p.DatePaiement == nil {
		d, err := ParsePaymentDate(in.DatePaiement, s.now(), s.Loc)
		if err != nil {
			return err
		}
		p.DatePaiement = &d
	}
	p.DateEcheance = nil
	if in.DateEcheance != "" {
		d, err := ledger.ParseDay(in.DateEcheance, s.Loc)
		if err != nil {
			return invalid("date d'échéance invalide %q", in.DateEcheance)
		}
		p.DateEcheance = &d
	}
	p.TypePaiement = cmp.Or(in.TypePaiement, models.ContactClient)
	p.ContactID = in.ContactID
	p.BonID = in.BonID
	p.BonType = in.BonType
	p.MontantTotal = in.MontantTotal
	p.ModePaiement = in.ModePaiement
	if in.Statut != "" || p.Statut == "" {
		p.Statut = models.NormalizePaymentStatus(in.Statut)
	}
	p.Designation = in.Designation
	p.Banque = strings.TrimSpace(in.Banque)
	p.Personnel = strings.TrimSpace(in.Personnel)
	p.ReferenceVirement = strings.TrimSpace(in.ReferenceVirement)
	p.CodeReglement = strings.TrimSpace(in.CodeReglement)
	p.TalonID = in.TalonID
	p.ImageURL = in.ImageURL
	return nil
}

func (s *PaymentService) Get(ctx context.Context, id uint) (models.Payment, error) {
	var p models.Payment
	if err := s.DB.WithContext(ctx).Preload("Contact").First(&p, id).Error; err != nil {
		return p, notFound("payment", err)
	}
	return p, nil
}

// Create inserts a payment; its numero is its id. Status authorization is the caller's job.
func (s *PaymentService) Create(ctx context.Context, in PaymentInput, actor Actor) (models.Payment, error) {
	var p models.Payment
	if err := s.apply(&p, in); err != nil {
		return p, err
	}
	p.CreatedBy = actor.ptr()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&p).Error; err != nil {
			return fmt.Errorf("create payment: %w", err)
		}
		p.Numero = strconv.FormatUint(uint64(p.ID), 10)
		if err := tx.Model(&p).Update("numero", p.Numero).Error; err != nil {
			return err
		}
		return s.Audit.Record(ctx, tx, paymentsTable, models.OpInsert, p.Numero, actor.ptr(), nil, p)
	})
	return p, err
}

func (s *PaymentService) Update(ctx context.Context, id uint, in PaymentInput, actor Actor) (models.Payment, error) {
	old, err := s.Get(ctx, id)
	if err != nil {
		return old, err
	}
	old.Contact = nil
	p := old
	if err := s.apply(&p, in); err != nil {
		return p, err
	}
	p.UpdatedBy = actor.ptr()
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Contact").Save(&p).Error; err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		return s.Audit.Record(ctx, tx, paymentsTable, models.OpUpdate, strconv.FormatUint(uint64(id), 10), actor.ptr(), old, p)
	})
	return p, err
}

// SetStatut writes a normalized status.
func (s *PaymentService) SetStatut(ctx context.Context, id uint, statut string, actor Actor) (models.Payment, error) {
	statut = models.NormalizePaymentStatus(statut)
	if !slices.Contains(models.PaymentStatuses, statut) {
		return models.Payment{}, check(validation.Violations{"statut": "invalid_choice"})
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return p, err
	}
	old := p.Statut
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("id = ?", id).Updates(map[string]any{"statut": statut, "updated_by": actor.ptr()}).Error; err != nil {
			return fmt.Errorf("update payment statut: %w", err)
		}
		return s.Audit.Record(ctx, tx, paymentsTable, models.OpUpdate, strconv.FormatUint(uint64(id), 10), actor.ptr(),
			map[string]string{"statut": old}, map[string]string{"statut": statut})
	})
	p.Statut = statut
	return p, err
}

func (s *PaymentService) Delete(ctx context.Context, id uint, actor Actor) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	p.Contact = nil
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Payment{}, id).Error; err != nil {
			return fmt.Errorf("delete payment: %w", err)
		}
		return s.Audit.Record(ctx, tx, paymentsTable, models.OpDelete, strconv.FormatUint(uint64(id), 10), actor.ptr(), p, nil)
	})
}

// PaymentOrder moves one payment to a new date.
type PaymentOrder struct {
	ID      uint   `json:"id"`
	NewDate string `json:"newDate"`
}

type ReorderInput struct {
	ContactID     uint           `json:"contactId"`
	PaymentOrders []PaymentOrder `json:"paymentOrders"`
}

// Reorder rewrites the dates of the listed payments of one contact, all or nothing.
func (s *PaymentService) Reorder(ctx context.Context, in ReorderInput, actor Actor) (int, error) {
	if in.ContactID == 0 || len(in.PaymentOrders) == 0 {
		return 0, invalid("contactId et paymentOrders requis")
	}
	dates := make([]time.Time, len(in.PaymentOrders))
	for i, o := range in.PaymentOrders {
		d, err := ParsePaymentDate(o.NewDate, s.now(), s.Loc)
		if err != nil || strings.TrimSpace(o.NewDate) == "" {
			return 0, invalid("date invalide pour le paiement %d", o.ID)
		}
		dates[i] = d
	}
	updated := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, o := range in.PaymentOrders {
			res := tx.Model(&models.Payment{}).
				Where("id = ? AND contact_id = ?", o.ID, in.ContactID).
				Updates(map[string]any{"date_paiement": dates[i], "updated_by": actor.ptr()})
			if res.Error != nil {
				return fmt.Errorf("reorder payment %d: %w", o.ID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("payment %d of contact %d: %w", o.ID, in.ContactID, ErrNotFound)
			}
			updated++
		}
		return s.Audit.Record(ctx, tx, paymentsTable, models.OpUpdate, "reorder", actor.ptr(), nil, in)
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// Personnel lists the distinct names recorded on payments.
func (s *PaymentService) Personnel(ctx context.Context) ([]string, error) {
	var names []string
	err := s.DB.WithContext(ctx).Model(&models.Payment{}).
		Where("personnel IS NOT NULL AND personnel <> ''").
		Distinct("personnel").Order("personnel").Pluck("personnel", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list personnel: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
