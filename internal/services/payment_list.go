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
	"github.com/diewo77/go-gestion/internal/listing"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/shopspring/decimal"
)

// PaymentFilter selects caisse entries.
type PaymentFilter struct {
	Search    string
	Date      string // exact day
	Mode      string
	Statuts   []string
	ContactID *uint
	BonID     *uint
	Type      string
	Period    ledger.Period
	Sort      string // date, montant, numero, contact
	Dir       string
	Page      int
	Limit     int
}

// PaymentView is a payment as the caisse shows it.
type PaymentView struct {
	models.Payment
	DisplayNumero string    `json:"display_numero"`
	ContactName   string    `json:"contact_name,omitempty"`
	SortDate      time.Time `json:"-"`
}

// CaisseTotals sums the filtered payments per mode.
type CaisseTotals struct {
	ByMode map[string]decimal.Decimal `json:"by_mode"`
	Total  decimal.Decimal            `json:"total"`
	Count  int                        `json:"count"`
}

type PaymentList struct {
	listing.Page[PaymentView]
	Totals CaisseTotals `json:"totals"`
}

func paymentView(p models.Payment) PaymentView {
	v := PaymentView{Payment: p, DisplayNumero: models.PaymentDisplayNumero(&p), SortDate: p.CreatedAt}
	if p.DatePaiement != nil {
		v.SortDate = *p.DatePaiement
	}
	if p.Contact != nil {
		v.ContactName = cmp.Or(p.Contact.NomComplet, p.Contact.Societe)
	}
	return v
}

func paymentHaystack(v *PaymentView, loc *time.Location) string {
	parts := []string{strconv.FormatUint(uint64(v.ID), 10), v.Numero, v.DisplayNumero,
		v.Designation, v.ContactName, v.ReferenceVirement, v.Banque, v.Personnel}
	parts = append(parts, listing.DateTokens(v.SortDate.In(loc))...)
	return listing.Haystack(parts...)
}

// List filters the caisse, computes the totals over every filtered entry and
// returns the requested page.
func (s *PaymentService) List(ctx context.Context, f PaymentFilter) (PaymentList, error) {
	q := s.DB.WithContext(ctx).Model(&models.Payment{}).Preload("Contact")
	if f.Mode != "" {
		q = q.Where("mode_paiement = ?", f.Mode)
	}
	if len(f.Statuts) > 0 {
		statuts := make([]string, len(f.Statuts))
		for i, st := range f.Statuts {
			statuts[i] = models.NormalizePaymentStatus(st)
		}
		q = q.Where("statut IN ?", statuts)
	}
	if f.ContactID != nil {
		q = q.Where("contact_id = ?", *f.ContactID)
	}
	if f.BonID != nil {
		q = q.Where("bon_id = ?", *f.BonID)
	}
	if f.Type != "" {
		q = q.Where("type_paiement = ?", f.Type)
	}
	var payments []models.Payment
	if err := q.Find(&payments).Error; err != nil {
		return PaymentList{}, fmt.Errorf("list payments: %w", err)
	}

	var day *time.Time
	if f.Date != "" {
		d, err := ledger.ParseDay(f.Date, s.Loc)
		if err != nil {
			return PaymentList{}, invalid("date invalide %q", f.Date)
		}
		day = &d
	}
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		v := paymentView(p)
		local := v.SortDate.In(s.Loc)
		if day != nil && (local.Year() != day.Year() || local.YearDay() != day.YearDay()) {
			continue
		}
		if !f.Period.Contains(v.SortDate) {
			continue
		}
		if !listing.Match(paymentHaystack(&v, s.Loc), f.Search) {
			continue
		}
		views = append(views, v)
	}

	SortPayments(views, f.Sort, f.Dir)
	return PaymentList{Page: listing.Paginate(views, f.Page, f.Limit), Totals: Totals(views)}, nil
}

// Totals sums amounts per payment mode; unknown modes count as Espèces.
func Totals(views []PaymentView) CaisseTotals {
	t := CaisseTotals{ByMode: map[string]decimal.Decimal{}, Count: len(views)}
	for _, m := range models.PaymentModes {
		t.ByMode[m] = decimal.Zero
	}
	for _, v := range views {
		mode := v.ModePaiement
		if !slices.Contains(models.PaymentModes, mode) {
			mode = models.ModeEspeces
		}
		t.ByMode[mode] = t.ByMode[mode].Add(v.MontantTotal)
		t.Total = t.Total.Add(v.MontantTotal)
	}
	return t
}

// SortPayments orders by date (default, newest first), montant, numero or contact.
func SortPayments(views []PaymentView, key, dir string) {
	def := "asc"
	if key == "" || key == "date" {
		def = "desc"
	}
	desc := listing.SortDir(dir, def) == "desc"
	slices.SortStableFunc(views, func(a, b PaymentView) int {
		var c int
		switch key {
		case "montant":
			c = a.MontantTotal.Cmp(b.MontantTotal)
		case "numero":
			c = cmp.Compare(a.ID, b.ID)
		case "contact":
			c = cmp.Compare(strings.ToLower(a.ContactName), strings.ToLower(b.ContactName))
		default:
			c = a.SortDate.Compare(b.SortDate)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if desc {
			c = -c
		}
		return c
	})
}
