package remise

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/diewo77/go-gestion/internal/db"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func uptr(v uint) *uint     { return &v }
func sptr(v string) *string { return &v }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(gdb); err != nil {
		t.Fatal(err)
	}
	return gdb
}

func TestClientTotalSkipsCancelled(t *testing.T) {
	items := []models.ItemRemise{
		{Qte: d("2"), PrixRemise: d("5"), Statut: models.StatutValide},
		{Qte: d("1"), PrixRemise: d("-3"), Statut: models.StatutEnAttente},
		{Qte: d("10"), PrixRemise: d("5"), Statut: models.StatutAnnule},
	}
	if got := ClientTotal(items); !got.Equal(d("7")) {
		t.Fatalf("ClientTotal = %s, want 7", got)
	}
}

func TestLineDiscount(t *testing.T) {
	tests := []struct {
		name string
		item models.BonItem
		want string
	}{
		{"amount per unit", models.BonItem{Quantite: d("3"), PrixUnitaire: d("10"), RemiseMontant: d("2")}, "6"},
		{"percentage", models.BonItem{Quantite: d("2"), PrixUnitaire: d("50"), RemisePourcentage: d("10")}, "10"},
		{"amount wins", models.BonItem{Quantite: d("1"), PrixUnitaire: d("50"), RemisePourcentage: d("10"), RemiseMontant: d("1")}, "1"},
		{"stored total below gross", models.BonItem{Quantite: d("2"), PrixUnitaire: d("50"), Total: decimal.NewNullDecimal(d("90"))}, "10"},
		{"none", models.BonItem{Quantite: d("2"), PrixUnitaire: d("50")}, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LineDiscount(tt.item); !got.Equal(d(tt.want)) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBonDiscountsAndBeneficiaries(t *testing.T) {
	line := []models.BonItem{{Quantite: d("2"), PrixUnitaire: d("10"), RemiseMontant: d("1")}}
	bons := []models.Bon{
		{ID: 1, Type: models.BonSortie, Statut: models.StatutValide, ClientID: uptr(7), RemiseIsClient: true, Items: line},
		{ID: 2, Type: models.BonComptant, Statut: models.StatutEnAttente, RemiseID: uptr(3), Items: line},
		{ID: 3, Type: models.BonSortie, Statut: models.StatutValide, ClientID: uptr(7), RemiseIsClient: true, Items: line},
		{ID: 4, Type: models.BonSortie, Statut: models.StatutAnnule, RemiseID: uptr(3), Items: line},
		{ID: 5, Type: models.BonCommande, Statut: models.StatutValide, RemiseID: uptr(3), Items: line},
		{ID: 6, Type: models.BonSortie, Statut: models.StatutValide, Items: line},
	}
	discounts := BonDiscounts(bons)
	if len(discounts) != 4 {
		t.Fatalf("expected 4 discounted bons, got %d", len(discounts))
	}
	if discounts[0].Numero != "SOR01" {
		t.Errorf("numero = %q", discounts[0].Numero)
	}
	got := Beneficiaries(discounts)
	if len(got) != 2 {
		t.Fatalf("expected 2 beneficiaries, got %+v", got)
	}
	if got[0].Kind != TargetClient || got[0].ID != 7 || !got[0].Total.Equal(d("4")) || got[0].Bons != 2 {
		t.Errorf("client beneficiary = %+v", got[0])
	}
	if got[1].Kind != TargetRemise || got[1].ID != 3 || !got[1].Total.Equal(d("2")) {
		t.Errorf("remise beneficiary = %+v", got[1])
	}
}

func TestResolveTarget(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()

	if _, err := ResolveTarget(ctx, gdb, TargetInput{RemiseIsClient: "oui"}); !errors.Is(err, ErrClientRequired) {
		t.Fatalf("expected ErrClientRequired, got %v", err)
	}
	tg, err := ResolveTarget(ctx, gdb, TargetInput{RemiseIsClient: true, ClientID: float64(12)})
	if err != nil || !tg.RemiseIsClient || tg.RemiseID == nil || *tg.RemiseID != 12 {
		t.Fatalf("client target = %+v, %v", tg, err)
	}
	tg, err = ResolveTarget(ctx, gdb, TargetInput{RemiseID: "4", RemiseClientNom: "ignored"})
	if err != nil || tg.RemiseIsClient || *tg.RemiseID != 4 {
		t.Fatalf("explicit target = %+v, %v", tg, err)
	}
	tg, err = ResolveTarget(ctx, gdb, TargetInput{})
	if err != nil || tg.RemiseID != nil {
		t.Fatalf("empty target = %+v, %v", tg, err)
	}

	first, err := ResolveTarget(ctx, gdb, TargetInput{RemiseClientNom: "  Hassan "})
	if err != nil || first.RemiseID == nil {
		t.Fatalf("create by name: %+v, %v", first, err)
	}
	again, err := ResolveTarget(ctx, gdb, TargetInput{RemiseClientNom: "HASSAN"})
	if err != nil || *again.RemiseID != *first.RemiseID {
		t.Fatalf("name lookup should reuse %d, got %+v %v", *first.RemiseID, again, err)
	}
	var cr models.ClientRemise
	gdb.First(&cr, *first.RemiseID)
	if cr.Type != models.RemiseTypeClient || cr.Nom != "Hassan" {
		t.Fatalf("created beneficiary = %+v", cr)
	}
}

func TestResolveBonLink(t *testing.T) {
	gdb := setupTestDB(t)
	ctx := context.Background()
	comptant := models.Bon{Type: models.BonComptant}
	gdb.Create(&comptant)

	id, typ, err := ResolveBonLink(ctx, gdb, uptr(comptant.ID), nil)
	if err != nil || id == nil || typ == nil || *typ != models.BonComptant {
		t.Fatalf("lookup by id: %v %v %v", id, typ, err)
	}
	id, typ, _ = ResolveBonLink(ctx, gdb, uptr(999), nil)
	if id != nil || typ != nil {
		t.Fatalf("missing bon should drop the link")
	}
	id, typ, _ = ResolveBonLink(ctx, gdb, uptr(1), sptr(models.BonDevis))
	if id != nil || typ != nil {
		t.Fatalf("invalid type should drop the link")
	}
	id, typ, _ = ResolveBonLink(ctx, gdb, uptr(5), sptr(models.BonCommande))
	if *id != 5 || *typ != models.BonCommande {
		t.Fatalf("explicit link changed: %v %v", id, typ)
	}
}

func TestRoleRules(t *testing.T) {
	if CreateStatut(models.RoleEmploye, models.StatutValide) != models.StatutEnAttente {
		t.Error("employee creation must be pending")
	}
	if CreateStatut("pdg", models.StatutValide) != models.StatutValide {
		t.Error("PDG picks the status")
	}
	if CanSetStatut(models.RoleManager, models.StatutValide) || !CanSetStatut(models.RoleManager, models.StatutAnnule) {
		t.Error("only PDG validates")
	}
	if CanDelete(models.RoleManagerPlus) || !CanDelete(models.RolePDG) {
		t.Error("only PDG deletes")
	}
}
