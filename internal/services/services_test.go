package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/go-gestion/internal/db"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	d, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(d); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return d
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func uptr(v uint) *uint { return &v }

var (
	pdg     = Actor{ID: 1, Role: models.RolePDG}
	employe = Actor{ID: 2, Role: models.RoleEmploye}
)

func TestContactSoldeCumule(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	contacts := NewContactService(d, ledger.DefaultThreshold)
	bons := NewBonService(d)
	payments := NewPaymentService(d, NewAuditService(d), time.UTC)

	c, err := contacts.Create(ctx, ContactInput{NomComplet: "Karim", Type: models.ContactClient, Solde: dec("100")})
	if err != nil {
		t.Fatalf("create contact: %v", err)
	}
	_, err = bons.Create(ctx, BonInput{
		Type:     models.BonSortie,
		ClientID: uptr(c.ID),
		Items:    []BonItemInput{{Designation: "Ciment", Quantite: dec("2"), PrixUnitaire: dec("100")}},
	}, pdg)
	if err != nil {
		t.Fatalf("create bon: %v", err)
	}
	_, err = payments.Create(ctx, PaymentInput{ContactID: uptr(c.ID), MontantTotal: dec("50"), ModePaiement: models.ModeEspeces}, pdg)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	// cancelled payments do not count
	_, err = payments.Create(ctx, PaymentInput{ContactID: uptr(c.ID), MontantTotal: dec("30"), ModePaiement: models.ModeCheque, Statut: "annule"}, pdg)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	got, err := contacts.Get(ctx, c.ID)
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if !got.SoldeCumule.Equal(dec("250")) {
		t.Fatalf("solde_cumule = %s, want 250", got.SoldeCumule)
	}
	if got.LastBon == nil || got.LastPayment == nil {
		t.Fatalf("activity not derived: %+v", got)
	}
}

func TestContactListAndOverdue(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	s := NewContactService(d, ledger.Threshold{Value: 10, Unit: "days"})
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	for _, in := range []ContactInput{
		{NomComplet: "Zineb", Type: models.ContactClient, Solde: dec("500"), Telephone: "06 12 34 56 78"},
		{NomComplet: "Ahmed", Type: models.ContactClient},
		{NomComplet: "Fourni SARL", Type: models.ContactFournisseur, Solde: dec("10")},
	} {
		if _, err := s.Create(ctx, in); err != nil {
			t.Fatalf("create %s: %v", in.NomComplet, err)
		}
	}

	page, err := s.List(ctx, ContactFilter{Type: models.ContactClient})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 || page.Items[0].NomComplet != "Ahmed" {
		t.Fatalf("unexpected list: total=%d first=%q", page.Total, page.Items[0].NomComplet)
	}

	page, err = s.List(ctx, ContactFilter{Search: "0612345678"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].NomComplet != "Zineb" {
		t.Fatalf("phone search: %+v", page.Items)
	}

	page, err = s.List(ctx, ContactFilter{Type: models.ContactClient, OverdueFirst: true})
	if err != nil {
		t.Fatal(err)
	}
	if !page.Items[0].Overdue || page.Items[0].NomComplet != "Zineb" {
		t.Fatalf("overdue contact should sort first: %+v", page.Items[0])
	}

	overdue, err := s.Overdue(ctx, models.ContactClient)
	if err != nil {
		t.Fatal(err)
	}
	if len(overdue) != 1 || overdue[0].NomComplet != "Zineb" {
		t.Fatalf("overdue = %+v", overdue)
	}
}

func TestContactValidationAndNotFound(t *testing.T) {
	d := setupTestDB(t)
	s := NewContactService(d, ledger.DefaultThreshold)
	ctx := context.Background()

	_, err := s.Create(ctx, ContactInput{Type: "Autre"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Violations["nom_complet"] != "required" || verr.Violations["type"] != "invalid_choice" {
		t.Fatalf("violations = %v", verr.Violations)
	}
	if !errors.Is(err, ErrInvalid) {
		t.Fatal("validation error should match ErrInvalid")
	}
	if _, err := s.Get(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v", err)
	}
	if err := s.Delete(ctx, 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete missing = %v", err)
	}
}

func TestContactStatement(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	contacts := NewContactService(d, ledger.DefaultThreshold)
	bons := NewBonService(d)
	payments := NewPaymentService(d, NewAuditService(d), time.UTC)

	opened := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	c, err := contacts.Create(ctx, ContactInput{NomComplet: "Karim", Type: models.ContactClient, Solde: dec("100"), DateOuverture: &opened})
	if err != nil {
		t.Fatal(err)
	}
	jan := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	for _, day := range []time.Time{jan, feb} {
		_, err := bons.Create(ctx, BonInput{
			Type:         models.BonSortie,
			ClientID:     uptr(c.ID),
			DateCreation: &day,
			Items:        []BonItemInput{{Designation: "Fer", Quantite: dec("1"), PrixUnitaire: dec("40")}},
		}, pdg)
		if err != nil {
			t.Fatal(err)
		}
	}
	_, err = payments.Create(ctx, PaymentInput{ContactID: uptr(c.ID), MontantTotal: dec("30"), ModePaiement: models.ModeEspeces, DatePaiement: "2024-02-15 10:00:00"}, pdg)
	if err != nil {
		t.Fatal(err)
	}

	period, err := ledger.NewPeriod("2024-02-01", "", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	st, err := contacts.Statement(ctx, c.ID, ledger.Options{Period: period})
	if err != nil {
		t.Fatal(err)
	}
	if !st.StartBalance.Equal(dec("140")) {
		t.Fatalf("start balance = %s, want 140", st.StartBalance)
	}
	if len(st.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(st.Rows))
	}
	if !st.Rows[1].Solde.Equal(dec("150")) {
		t.Fatalf("final solde = %s, want 150", st.Rows[1].Solde)
	}
	if st.Label != ledger.LabelDebutPeriode {
		t.Fatalf("label = %q", st.Label)
	}
}

func TestBonListSearchByDate(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	bons := NewBonService(d)
	c, _ := NewContactService(d, ledger.DefaultThreshold).Create(ctx, ContactInput{NomComplet: "Karim", Type: models.ContactClient})

	var ids []uint
	for _, day := range []int{5, 6} {
		at := time.Date(2024, 3, day, 10, 0, 0, 0, time.UTC)
		b, err := bons.Create(ctx, BonInput{
			Type:         models.BonSortie,
			ClientID:     uptr(c.ID),
			DateCreation: &at,
			Items:        []BonItemInput{{Designation: "Ciment", Quantite: dec("1"), PrixUnitaire: dec("10")}},
		}, pdg)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, b.ID)
	}

	page, err := bons.List(ctx, BonFilter{Search: "05/03/2024"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Items[0].ID != ids[0] {
		t.Fatalf("search by day = %+v, want bon %d", page.Items, ids[0])
	}
	page, err = bons.List(ctx, BonFilter{Search: "2024-03"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 2 {
		t.Fatalf("search by month total = %d", page.Total)
	}
}

func TestBonCreate(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	contacts := NewContactService(d, ledger.DefaultThreshold)
	products := NewProductService(d)
	bons := NewBonService(d)

	c, _ := contacts.Create(ctx, ContactInput{NomComplet: "Karim", Type: models.ContactClient})
	p, err := products.Create(ctx, ProductInput{Reference: "P1", Designation: "Ciment", CoutRevient: dec("60"), PrixVente: dec("80")})
	if err != nil {
		t.Fatal(err)
	}

	b, err := bons.Create(ctx, BonInput{
		Type:           models.BonSortie,
		ClientID:       uptr(c.ID),
		RemiseIsClient: "1",
		Items: []BonItemInput{
			{ProductID: uptr(p.ID), Quantite: dec("3"), PrixUnitaire: dec("80"), RemiseMontant: dec("5")},
		},
	}, pdg)
	if err != nil {
		t.Fatalf("create bon: %v", err)
	}
	if b.Numero != fmt.Sprintf("SOR%02d", b.ID) {
		t.Fatalf("numero = %q", b.Numero)
	}
	if !b.MontantTotal.Equal(dec("225")) {
		t.Fatalf("total = %s, want 225", b.MontantTotal)
	}
	if !b.RemiseIsClient || b.RemiseID == nil || *b.RemiseID != c.ID {
		t.Fatalf("remise target = %v %v", b.RemiseIsClient, b.RemiseID)
	}
	got, err := bons.Get(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Items) != 1 || !got.Items[0].CoutRevient.Valid || !got.Items[0].CoutRevient.Decimal.Equal(dec("60")) {
		t.Fatalf("cost snapshot missing: %+v", got.Items)
	}
	if got.Items[0].Designation != "Ciment" {
		t.Fatalf("designation = %q", got.Items[0].Designation)
	}

	_, err = bons.Create(ctx, BonInput{Type: models.BonCommande, Items: []BonItemInput{{Designation: "x", Quantite: dec("1")}}}, pdg)
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Violations["fournisseur_id"] != "required" {
		t.Fatalf("commande without fournisseur: %v", err)
	}

	if _, err := bons.SetStatut(ctx, b.ID, models.StatutAnnule); err != nil {
		t.Fatal(err)
	}
	if err := bons.Delete(ctx, b.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := bons.Get(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted bon still found: %v", err)
	}
}

func TestPaymentLifecycleAndAudit(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	audit := NewAuditService(d)
	s := NewPaymentService(d, audit, time.UTC)

	p, err := s.Create(ctx, PaymentInput{MontantTotal: dec("120"), ModePaiement: models.ModeVirement, DatePaiement: "2024-03-01T08:30", Personnel: " Said "}, employe)
	if err != nil {
		t.Fatal(err)
	}
	if p.Numero != fmt.Sprint(p.ID) || p.Statut != models.StatutEnAttente || p.TypePaiement != models.ContactClient {
		t.Fatalf("defaults not applied: %+v", p)
	}
	if p.DatePaiement.Hour() != 8 || p.DatePaiement.Minute() != 30 {
		t.Fatalf("date = %v", p.DatePaiement)
	}

	if _, err := s.Create(ctx, PaymentInput{MontantTotal: dec("0"), ModePaiement: "Carte"}, employe); !errors.Is(err, ErrInvalid) {
		t.Fatalf("invalid payment accepted: %v", err)
	}

	p, err = s.SetStatut(ctx, p.ID, "valide", pdg)
	if err != nil {
		t.Fatal(err)
	}
	if p.Statut != models.StatutValide {
		t.Fatalf("statut = %q", p.Statut)
	}
	if err := s.Delete(ctx, p.ID, pdg); err != nil {
		t.Fatal(err)
	}

	page, err := audit.List(ctx, AuditFilter{Table: "payments"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 3 {
		t.Fatalf("audit entries = %d, want 3", page.Total)
	}
	if page.Items[0].Operation != models.OpDelete {
		t.Fatalf("newest entry = %s", page.Items[0].Operation)
	}
	tables, err := audit.Tables(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 1 || tables[0] != "payments" {
		t.Fatalf("tables = %v", tables)
	}

	names, err := s.Personnel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Fatalf("deleted payment personnel still listed: %v", names)
	}
}

func TestParsePaymentDate(t *testing.T) {
	now := time.Date(2024, 5, 5, 14, 7, 9, 0, time.UTC)
	cases := []struct {
		in   string
		want time.Time
	}{
		{"", now},
		{"2024-01-02 03:04:05", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{"2024-01-02T03:04", time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)},
		{"2024-01-02", time.Date(2024, 1, 2, 14, 7, 9, 0, time.UTC)},
		{"2024-01-02T03:04:05Z", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := ParsePaymentDate(tc.in, now, time.UTC)
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Errorf("%q = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParsePaymentDate("02/01/2024", now, time.UTC); !errors.Is(err, ErrInvalid) {
		t.Fatalf("bad date accepted: %v", err)
	}
}

func TestPaymentListTotalsAndReorder(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	s := NewPaymentService(d, NewAuditService(d), time.UTC)
	contacts := NewContactService(d, ledger.DefaultThreshold)
	c, _ := contacts.Create(ctx, ContactInput{NomComplet: "Karim", Type: models.ContactClient})

	inputs := []PaymentInput{
		{ContactID: uptr(c.ID), MontantTotal: dec("10"), ModePaiement: models.ModeEspeces, DatePaiement: "2024-01-01 10:00:00", Personnel: "Said"},
		{ContactID: uptr(c.ID), MontantTotal: dec("20"), ModePaiement: models.ModeCheque, DatePaiement: "2024-01-02 10:00:00"},
		{MontantTotal: dec("5"), ModePaiement: models.ModeEspeces, DatePaiement: "2024-01-03 10:00:00", Statut: "Annulé"},
	}
	var ids []uint
	for _, in := range inputs {
		p, err := s.Create(ctx, in, pdg)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, p.ID)
	}

	list, err := s.List(ctx, PaymentFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if list.Total != 3 || list.Items[0].ID != ids[2] {
		t.Fatalf("default order should be newest first: %+v", list.Items)
	}
	if !list.Totals.Total.Equal(dec("35")) || !list.Totals.ByMode[models.ModeEspeces].Equal(dec("15")) {
		t.Fatalf("totals = %+v", list.Totals)
	}

	list, err = s.List(ctx, PaymentFilter{ContactID: uptr(c.ID), Search: "karim"})
	if err != nil {
		t.Fatal(err)
	}
	if list.Total != 2 {
		t.Fatalf("contact filter total = %d", list.Total)
	}

	for term, want := range map[string]uint{"02/01/2024": ids[1], "03-01-2024": ids[2], "2024-01-01": ids[0]} {
		list, err = s.List(ctx, PaymentFilter{Search: term})
		if err != nil {
			t.Fatal(err)
		}
		if list.Total != 1 || list.Items[0].ID != want {
			t.Fatalf("search %q = %+v, want payment %d", term, list.Items, want)
		}
	}

	n, err := s.Reorder(ctx, ReorderInput{ContactID: c.ID, PaymentOrders: []PaymentOrder{{ID: ids[0], NewDate: "2024-01-05 10:00:00"}}}, pdg)
	if err != nil || n != 1 {
		t.Fatalf("reorder = %d, %v", n, err)
	}
	p, _ := s.Get(ctx, ids[0])
	if p.DatePaiement.Day() != 5 {
		t.Fatalf("date not rewritten: %v", p.DatePaiement)
	}
	// the third payment has no contact, so the whole batch is rejected
	_, err = s.Reorder(ctx, ReorderInput{ContactID: c.ID, PaymentOrders: []PaymentOrder{
		{ID: ids[1], NewDate: "2024-01-09 10:00:00"},
		{ID: ids[2], NewDate: "2024-01-09 10:00:00"},
	}}, pdg)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("reorder foreign payment = %v", err)
	}
	p, _ = s.Get(ctx, ids[1])
	if p.DatePaiement.Day() != 2 {
		t.Fatal("reorder was not rolled back")
	}

	names, _ := s.Personnel(ctx)
	if len(names) != 1 || names[0] != "Said" {
		t.Fatalf("personnel = %v", names)
	}
}

func TestRemiseItemsAndSummary(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	s := NewRemiseService(d, NewAuditService(d))
	products := NewProductService(d)
	prod, _ := products.Create(ctx, ProductInput{Designation: "Ciment"})

	cr, err := s.CreateClient(ctx, ClientRemiseInput{Nom: "Garage Atlas"}, pdg)
	if err != nil {
		t.Fatal(err)
	}
	if cr.Type != models.RemiseTypeClient {
		t.Fatalf("type = %q", cr.Type)
	}

	it, err := s.CreateItem(ctx, cr.ID, ItemRemiseInput{ProductID: uptr(prod.ID), Qte: dec("4"), PrixRemise: dec("2.5"), Statut: models.StatutValide}, employe)
	if err != nil {
		t.Fatal(err)
	}
	if it.Statut != models.StatutEnAttente {
		t.Fatalf("employee item statut = %q", it.Statut)
	}
	it, err = s.UpdateItem(ctx, it.ID, ItemRemiseInput{ProductID: uptr(prod.ID), Qte: dec("4"), PrixRemise: dec("2.5"), Statut: models.StatutValide}, employe)
	if err != nil {
		t.Fatal(err)
	}
	if it.Statut != models.StatutEnAttente {
		t.Fatal("employee must not validate an item")
	}
	if _, err := s.UpdateItem(ctx, it.ID, ItemRemiseInput{ProductID: uptr(prod.ID), Qte: dec("4"), PrixRemise: dec("2.5"), Statut: models.StatutValide}, pdg); err != nil {
		t.Fatal(err)
	}

	view, err := s.GetClient(ctx, cr.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !view.TotalRemise.Equal(dec("10")) {
		t.Fatalf("total remise = %s, want 10", view.TotalRemise)
	}

	summary, err := s.Summary(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 1 || summary[0].Nom != "Garage Atlas" || !summary[0].Total.Equal(dec("10")) {
		t.Fatalf("summary = %+v", summary)
	}

	if err := s.DeleteItem(ctx, it.ID, employe); !errors.Is(err, ErrForbidden) {
		t.Fatalf("employee delete = %v", err)
	}
	if err := s.DeleteClient(ctx, cr.ID, pdg); err != nil {
		t.Fatal(err)
	}
	var left int64
	d.Model(&models.ItemRemise{}).Count(&left)
	if left != 0 {
		t.Fatalf("items left = %d", left)
	}
}

func TestScheduleCRUD(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	employees := NewEmployeeService(d)
	u, err := employees.Create(ctx, EmployeeInput{CIN: "EE1", Password: "secret1", Role: "employe"})
	if err != nil {
		t.Fatal(err)
	}
	s := NewScheduleService(d)

	_, err = s.Create(ctx, ScheduleInput{UserID: u.ID, StartTime: "25:00", DaysOfWeek: []int{0}})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Violations["start_time"] != "invalid_time" || verr.Violations["days_of_week"] != "out_of_range" {
		t.Fatalf("bad schedule accepted: %v", err)
	}

	sc, err := s.Create(ctx, ScheduleInput{UserID: u.ID, StartTime: "09:00", EndTime: "17:00", DaysOfWeek: []int{3, 1, 3}})
	if err != nil {
		t.Fatal(err)
	}
	if !sc.IsActive || len(sc.DaysOfWeek) != 2 || sc.DaysOfWeek[0] != 1 {
		t.Fatalf("schedule = %+v", sc)
	}
	if _, err := s.Create(ctx, ScheduleInput{UserID: u.ID}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("second schedule accepted: %v", err)
	}

	off := false
	sc, err = s.Update(ctx, u.ID, ScheduleInput{IsActive: &off, DetailedSchedules: map[int]models.DaySlot{1: {StartTime: "10:00", EndTime: "12:00"}}})
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.IsActive || got.StartTime != "08:00" {
		t.Fatalf("update not stored: %+v", got)
	}
	if start, end := got.Window(1); start != "10:00" || end != "12:00" {
		t.Fatalf("window = %s-%s", start, end)
	}
	if err := s.Delete(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete = %v", err)
	}
}

func TestEmployeesAndAuth(t *testing.T) {
	d := setupTestDB(t)
	ctx := context.Background()
	employees := NewEmployeeService(d)
	monday := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	employees.now = func() time.Time { return monday.AddDate(0, 0, -3) }
	a := NewAuthService(d, time.UTC).WithClock(func() time.Time { return monday })

	u, err := employees.Create(ctx, EmployeeInput{CIN: " BK1 ", NomComplet: "Said", Password: "secret1"})
	if err != nil {
		t.Fatal(err)
	}
	if u.Role != models.RoleEmploye || u.CIN != "BK1" {
		t.Fatalf("employee = %+v", u)
	}
	if _, err := employees.Create(ctx, EmployeeInput{CIN: "BK1", Password: "x"}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("duplicate cin accepted: %v", err)
	}

	if _, err := a.Login(ctx, "BK1", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password = %v", err)
	}
	res, err := a.Login(ctx, "BK1", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if res.Token == "" || !res.PasswordChangeRequired {
		t.Fatalf("login = %+v", res)
	}

	if err := a.ChangePassword(ctx, u.ID, "secret1", "nouveau1"); err != nil {
		t.Fatal(err)
	}
	required, err := a.Required(ctx, u.ID)
	if err != nil || required {
		t.Fatalf("still required after change: %v %v", required, err)
	}
	if err := a.VerifyPassword(ctx, u.ID, "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still valid: %v", err)
	}

	if _, err := employees.SetRole(ctx, u.ID, "manager"); err != nil {
		t.Fatal(err)
	}
	me, _ := a.Me(ctx, u.ID)
	if me.Role != models.RoleManager {
		t.Fatalf("role = %q", me.Role)
	}
	if err := employees.Delete(ctx, u.ID, Actor{ID: u.ID}); !errors.Is(err, ErrInvalid) {
		t.Fatalf("self delete = %v", err)
	}
	if err := employees.Delete(ctx, u.ID, Actor{ID: u.ID + 100, Role: models.RolePDG}); err != nil {
		t.Fatal(err)
	}
	if a.Exists(ctx, u.ID) {
		t.Fatal("deleted user still exists")
	}
}

func TestPasswordChangeRequired(t *testing.T) {
	monday := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	before := monday.AddDate(0, 0, -1)
	after := monday.Add(-time.Hour)
	cases := []struct {
		name    string
		role    string
		changed *time.Time
		now     time.Time
		want    bool
	}{
		{"employee monday stale", models.RoleEmploye, &before, monday, true},
		{"employee monday fresh", models.RoleEmploye, &after, monday, false},
		{"employee never changed", models.RoleEmploye, nil, monday, true},
		{"employee tuesday", models.RoleEmploye, &before, monday.AddDate(0, 0, 1), false},
		{"manager monday", models.RoleManager, &before, monday, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := models.User{Role: tc.role, PasswordChangedAt: tc.changed}
			if got := PasswordChangeRequired(&u, tc.now, time.UTC); got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
