package statement

import (
	"bytes"
	"testing"
	"time"

	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/shopspring/decimal"
)

func sampleStatement() ledger.Statement {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	return ledger.Statement{
		Contact:      models.Contact{NomComplet: "Ali Benali", Societe: "Atlas"},
		Label:        ledger.LabelDebutPeriode,
		StartBalance: decimal.NewFromInt(100),
		Rows: []ledger.Row{
			{Kind: ledger.KindProduit, Date: from.AddDate(0, 0, 2), Numero: "SOR01", Designation: "Ciment", Quantite: decimal.NewFromInt(2), Montant: decimal.NewFromInt(80), Solde: decimal.NewFromInt(180)},
			{Kind: ledger.KindPaiement, Date: from.AddDate(0, 0, 5), Numero: "PAY3", Designation: "Paiement Espèces", Montant: decimal.NewFromInt(50), Solde: decimal.NewFromInt(130)},
		},
		Totals: ledger.Totals{Debit: decimal.NewFromInt(80), Credit: decimal.NewFromInt(50), Final: decimal.NewFromInt(130)},
		From:   &from,
		To:     &to,
	}
}

func TestPDF(t *testing.T) {
	doc := Document{
		Company:   models.Company{Name: "Boukir", City: "Tanger", ICE: "0001"},
		Statement: sampleStatement(),
		Lang:      "fr",
		PrintedAt: time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC),
	}
	out, err := PDF(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output is not a pdf: %q", out[:min(len(out), 16)])
	}
}

func TestLabels(t *testing.T) {
	st := sampleStatement()
	if got := PeriodLabel(st); got != "Du 01/01/2024 au 31/01/2024" {
		t.Errorf("period label = %q", got)
	}
	st.From, st.To = nil, nil
	if PeriodLabel(st) != "" {
		t.Error("unbounded period should have no label")
	}
	if got := Title(Document{Statement: st, Lang: "fr"}); got != "Relevé de compte : Ali Benali - Atlas" {
		t.Errorf("title = %q", got)
	}
	if truncate("abcdef", 4) != "abc…" || truncate("abc", 4) != "abc" {
		t.Error("truncate")
	}
}
