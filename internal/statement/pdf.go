// Package statement renders a contact's ledger statement as a PDF document.
package statement

import (
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/shopspring/decimal"
)

// Document is everything printed on a statement.
type Document struct {
	Company   models.Company
	Statement ledger.Statement
	Lang      string
	PrintedAt time.Time
}

const dateLayout = "02/01/2006"

var (
	small  = propsText(8, fontstyle.Normal, align.Left)
	smallR = propsText(8, fontstyle.Normal, align.Right)
	head   = propsText(8, fontstyle.Bold, align.Left)
	headR  = propsText(8, fontstyle.Bold, align.Right)
)

// Title is the document heading, with the contact name.
func Title(doc Document) string {
	name := doc.Statement.Contact.NomComplet
	if doc.Statement.Contact.Societe != "" {
		name += " - " + doc.Statement.Contact.Societe
	}
	return i18n.T(doc.Lang, "statement_title") + " : " + name
}

// PeriodLabel describes the covered period, empty when unbounded.
func PeriodLabel(st ledger.Statement) string {
	switch {
	case st.From != nil && st.To != nil:
		return fmt.Sprintf("Du %s au %s", st.From.Format(dateLayout), st.To.Format(dateLayout))
	case st.From != nil:
		return "Depuis le " + st.From.Format(dateLayout)
	case st.To != nil:
		return "Jusqu'au " + st.To.Format(dateLayout)
	}
	return ""
}

// PDF renders doc as an A4 PDF.
func PDF(doc Document) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(10).
		WithTopMargin(12).
		WithRightMargin(10).
		Build()
	m := maroto.New(cfg)

	amount := func(v decimal.Decimal) string { return i18n.FormatAmount(doc.Lang, v) }
	st := doc.Statement

	m.AddRows(companyHeader(doc.Company)...)
	m.AddRows(text.NewRow(10, Title(doc), propsText(13, fontstyle.Bold, align.Center)))
	if p := PeriodLabel(st); p != "" {
		m.AddRows(text.NewRow(6, p, propsText(9, fontstyle.Normal, align.Center)))
	}
	m.AddRow(6)

	m.AddRow(6,
		text.NewCol(2, "Date", head),
		text.NewCol(2, "Numéro", head),
		text.NewCol(4, "Désignation", head),
		text.NewCol(1, "Qté", headR),
		text.NewCol(1, "Montant", headR),
		text.NewCol(2, "Solde", headR),
	)
	m.AddRow(6,
		text.NewCol(8, i18n.StartLabel(doc.Lang, st.Label), head),
		text.NewCol(4, amount(st.StartBalance), headR),
	)
	for _, r := range st.Rows {
		montant := amount(r.Montant)
		if r.Kind != ledger.KindProduit {
			montant = "-" + montant
		}
		qty := ""
		if r.Kind == ledger.KindProduit {
			qty = r.Quantite.String()
		}
		m.AddRow(5,
			text.NewCol(2, r.Date.Format(dateLayout), small),
			text.NewCol(2, r.Numero, small),
			text.NewCol(4, truncate(r.Designation, 48), small),
			text.NewCol(1, qty, smallR),
			text.NewCol(1, montant, smallR),
			text.NewCol(2, amount(r.Solde), smallR),
		)
	}
	m.AddRow(4)
	t := st.Totals
	m.AddRows(
		totalRow("Total débit", amount(t.Debit)),
		totalRow("Total crédit", amount(t.Credit)),
		totalRow("Solde final", amount(t.Final)),
	)
	printed := doc.PrintedAt
	if printed.IsZero() {
		printed = time.Now()
	}
	m.AddRows(text.NewRow(8, "Imprimé le "+printed.Format("02/01/2006 15:04"), propsText(7, fontstyle.Italic, align.Right)))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate statement pdf: %w", err)
	}
	return out.GetBytes(), nil
}

func companyHeader(c models.Company) []core.Row {
	if c.Name == "" {
		return nil
	}
	rows := []core.Row{text.NewRow(7, c.Name, propsText(12, fontstyle.Bold, align.Left))}
	var parts []string
	for _, s := range []string{c.Address, c.City, c.Phone, c.Email} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) > 0 {
		rows = append(rows, text.NewRow(5, strings.Join(parts, " | "), small))
	}
	var ids []string
	for _, kv := range [][2]string{{"ICE", c.ICE}, {"RC", c.RC}, {"IF", c.IF}, {"Patente", c.Patente}} {
		if kv[1] != "" {
			ids = append(ids, kv[0]+": "+kv[1])
		}
	}
	if len(ids) > 0 {
		rows = append(rows, text.NewRow(5, strings.Join(ids, "  "), small))
	}
	return rows
}

func totalRow(label, value string) core.Row {
	return text.NewRow(6, label+" : "+value, headR)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
