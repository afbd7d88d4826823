package ledger

import (
	"time"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/shopspring/decimal"
)

const (
	LabelSoldeInitial = "Solde initial"
	LabelDebutPeriode = "Solde au début de période"
)

// Options select the rows of a statement.
type Options struct {
	Period Period
	Search string
}

// Totals summarize the displayed rows. Final is the closing balance of the
// period and ignores the search filter.
type Totals struct {
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Quantite decimal.Decimal `json:"quantite"`
	Benefice decimal.Decimal `json:"benefice"`
	Net      decimal.Decimal `json:"net"`
	Final    decimal.Decimal `json:"final"`
}

// Statement is the ledger of one contact over a period.
type Statement struct {
	Contact      models.Contact  `json:"contact"`
	Label        string          `json:"label"`
	StartBalance decimal.Decimal `json:"start_balance"`
	Rows         []Row           `json:"rows"`
	Totals       Totals          `json:"totals"`
	From         *time.Time      `json:"from,omitempty"`
	To           *time.Time      `json:"to,omitempty"`
}

// Build computes the statement of contact. The start balance is the opening
// solde plus every row dated before the period start.
func Build(contact models.Contact, bons []models.Bon, payments []models.Payment, products map[uint]models.Product, opts Options) Statement {
	all := Rows(&contact, bons, payments, products)

	start := contact.Solde
	visible := make([]Row, 0, len(all))
	for _, r := range all {
		if opts.Period.From != nil && r.Date.Before(*opts.Period.From) {
			start = start.Add(r.Signed())
			continue
		}
		if opts.Period.Contains(r.Date) {
			visible = append(visible, r)
		}
	}
	visible = Running(start, visible)
	shown := Filter(visible, opts.Search)
	totals := ComputeTotals(start, shown)
	totals.Final = start
	if n := len(visible); n > 0 {
		totals.Final = visible[n-1].Solde
	}

	st := Statement{
		Contact:      contact,
		Label:        StartLabel(&contact, opts.Period),
		StartBalance: start,
		Rows:         shown,
		Totals:       totals,
		From:         opts.Period.From,
		To:           opts.Period.To,
	}
	if st.Rows == nil {
		st.Rows = []Row{}
	}
	return st
}

// StartLabel names the first line: the opening balance, or the balance at the
// period start when the period begins after the account was opened.
func StartLabel(contact *models.Contact, p Period) string {
	if p.From == nil {
		return LabelSoldeInitial
	}
	opened := contact.OpeningDate()
	if opened.IsZero() {
		return LabelDebutPeriode
	}
	y, m, d := opened.Date()
	openedDay := time.Date(y, m, d, 0, 0, 0, 0, p.From.Location())
	if p.From.After(openedDay) {
		return LabelDebutPeriode
	}
	return LabelSoldeInitial
}

// ComputeTotals sums rows. Quantities only count product lines with a product.
// Final is start + debits - credits.
func ComputeTotals(start decimal.Decimal, rows []Row) Totals {
	t := Totals{Debit: decimal.Zero, Credit: decimal.Zero, Quantite: decimal.Zero, Benefice: decimal.Zero}
	for _, r := range rows {
		switch r.Kind {
		case KindProduit:
			t.Debit = t.Debit.Add(r.Montant)
			if r.ProductID != nil {
				t.Quantite = t.Quantite.Add(r.Quantite)
			}
			t.Benefice = t.Benefice.Add(r.Benefice)
		case KindAvoir:
			t.Credit = t.Credit.Add(r.Montant)
			t.Benefice = t.Benefice.Sub(r.Benefice.Abs())
		case KindPaiement:
			t.Credit = t.Credit.Add(r.Montant)
		}
	}
	t.Net = t.Debit.Sub(t.Credit)
	t.Final = start.Add(t.Net)
	return t
}
