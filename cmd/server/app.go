package main

import (
	"net/http"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/gate"
	"github.com/diewo77/go-gestion/internal/middleware"
	"github.com/diewo77/go-gestion/internal/policy"
	"gorm.io/gorm"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux       *http.ServeMux
	db        *gorm.DB
	routerCfg *policy.RouterConfig
}

// NewApp creates a new application with all routes configured.
func NewApp(db *gorm.DB, routerCfg *policy.RouterConfig) *App {
	app := &App{
		mux:       http.NewServeMux(),
		db:        db,
		routerCfg: routerCfg,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// auth context, then preferences (language, theme, overdue threshold)
	handler := auth.Middleware(middleware.Prefs(a.mux))
	handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes() {
	// ─────────────────────────────────────────────────────────────────────────
	// Public routes
	// ─────────────────────────────────────────────────────────────────────────
	hh := a.routerCfg.HealthHandler
	ah := a.routerCfg.AuthHandler

	a.mux.HandleFunc("GET /health", hh.Check)
	a.mux.HandleFunc("GET /healthz", hh.Check)
	a.mux.HandleFunc("POST /auth/login", ah.Login)
	a.mux.HandleFunc("POST /auth/logout", ah.Logout)

	// ─────────────────────────────────────────────────────────────────────────
	// Authenticated, outside the access schedule
	// ─────────────────────────────────────────────────────────────────────────
	a.mux.Handle("GET /auth/me", a.requireAuth(http.HandlerFunc(ah.Me)))
	a.mux.Handle("POST /auth/change-password", a.requireAuth(http.HandlerFunc(ah.ChangePassword)))
	a.mux.Handle("POST /auth/verify-password", a.requireAuth(http.HandlerFunc(ah.VerifyPassword)))
	a.mux.Handle("GET /auth/check-access", a.requireAuth(http.HandlerFunc(ah.CheckAccess)))

	// ─────────────────────────────────────────────────────────────────────────
	// Business routes (auth + password policy + schedule + permission)
	// ─────────────────────────────────────────────────────────────────────────
	ch := a.routerCfg.ContactHandler
	a.handle("GET /contacts", policy.ResContact, gate.ActionList, ch.List)
	a.handle("POST /contacts", policy.ResContact, gate.ActionCreate, ch.Create)
	a.handle("GET /contacts/overdue", policy.ResContact, gate.ActionList, ch.Overdue)
	a.handle("GET /contacts/{id}", policy.ResContact, gate.ActionView, ch.Get)
	a.handle("PUT /contacts/{id}", policy.ResContact, gate.ActionUpdate, ch.Update)
	a.handle("DELETE /contacts/{id}", policy.ResContact, gate.ActionDelete, ch.Delete)
	a.handle("GET /contacts/{id}/ledger", policy.ResContact, gate.ActionView, ch.Ledger)
	a.handle("GET /contacts/{id}/statement", policy.ResContact, gate.ActionView, ch.Statement)

	ph := a.routerCfg.ProductHandler
	a.handle("GET /products", policy.ResProduct, gate.ActionList, ph.List)
	a.handle("POST /products", policy.ResProduct, gate.ActionCreate, ph.Create)
	a.handle("GET /products/{id}", policy.ResProduct, gate.ActionView, ph.Get)
	a.handle("PUT /products/{id}", policy.ResProduct, gate.ActionUpdate, ph.Update)
	a.handle("DELETE /products/{id}", policy.ResProduct, gate.ActionDelete, ph.Delete)

	bh := a.routerCfg.BonHandler
	a.handle("GET /bons", policy.ResBon, gate.ActionList, bh.List)
	a.handle("POST /bons", policy.ResBon, gate.ActionCreate, bh.Create)
	a.handle("GET /bons/{id}", policy.ResBon, gate.ActionView, bh.Get)
	a.handle("PATCH /bons/{id}/statut", policy.ResBon, gate.ActionUpdate, bh.SetStatut)
	a.handle("DELETE /bons/{id}", policy.ResBon, gate.ActionDelete, bh.Delete)

	pay := a.routerCfg.PaymentHandler
	a.handle("GET /payments", policy.ResPayment, gate.ActionList, pay.List)
	a.handle("POST /payments", policy.ResPayment, gate.ActionCreate, pay.Create)
	a.handle("GET /payments/personnel", policy.ResPayment, gate.ActionList, pay.Personnel)
	a.handle("PATCH /payments/reorder", policy.ResPayment, gate.ActionUpdate, pay.Reorder)
	a.handle("GET /payments/{id}", policy.ResPayment, gate.ActionView, pay.Get)
	a.handle("PUT /payments/{id}", policy.ResPayment, gate.ActionUpdate, pay.Update)
	a.handle("PATCH /payments/{id}/statut", policy.ResPayment, gate.ActionUpdate, pay.SetStatut)
	a.handle("DELETE /payments/{id}", policy.ResPayment, gate.ActionDelete, pay.Delete)

	rh := a.routerCfg.RemiseHandler
	a.handle("GET /remises/clients", policy.ResRemise, gate.ActionList, rh.ListClients)
	a.handle("POST /remises/clients", policy.ResRemise, gate.ActionCreate, rh.CreateClient)
	a.handle("GET /remises/clients/{id}", policy.ResRemise, gate.ActionView, rh.GetClient)
	a.handle("PUT /remises/clients/{id}", policy.ResRemise, gate.ActionUpdate, rh.UpdateClient)
	a.handle("DELETE /remises/clients/{id}", policy.ResRemise, gate.ActionDelete, rh.DeleteClient)
	a.handle("GET /remises/clients/{id}/items", policy.ResRemise, gate.ActionView, rh.ListItems)
	a.handle("POST /remises/clients/{id}/items", policy.ResRemise, gate.ActionCreate, rh.CreateItem)
	a.handle("PUT /remises/items/{id}", policy.ResRemise, gate.ActionUpdate, rh.UpdateItem)
	a.handle("DELETE /remises/items/{id}", policy.ResRemise, gate.ActionDelete, rh.DeleteItem)
	a.handle("GET /remises/summary", policy.ResRemise, gate.ActionList, rh.Summary)

	audh := a.routerCfg.AuditHandler
	a.handle("GET /audit/logs", policy.ResAudit, gate.ActionList, audh.Logs)
	a.handle("GET /audit/tables", policy.ResAudit, gate.ActionList, audh.Tables)

	wh := a.routerCfg.WhatsAppHandler
	a.handle("GET /whatsapp/status", policy.ResWhatsApp, gate.ActionView, wh.Status)
	a.handle("POST /whatsapp/send-text", policy.ResWhatsApp, gate.ActionCreate, wh.SendText)
	a.handle("POST /whatsapp/send-media", policy.ResWhatsApp, gate.ActionCreate, wh.SendMedia)

	sh := a.routerCfg.CompanyHandler
	a.handle("GET /company", policy.ResCompany, gate.ActionView, sh.Get)
	a.handle("PUT /company", policy.ResCompany, gate.ActionUpdate, sh.Update)

	// ─────────────────────────────────────────────────────────────────────────
	// Admin routes (PDG only)
	// ─────────────────────────────────────────────────────────────────────────
	sch := a.routerCfg.ScheduleHandler
	a.admin("GET /access-schedules", sch.List)
	a.admin("POST /access-schedules", sch.Create)
	a.admin("GET /access-schedules/{userID}", sch.Get)
	a.admin("PUT /access-schedules/{userID}", sch.Update)
	a.admin("DELETE /access-schedules/{userID}", sch.Delete)

	eh := a.routerCfg.EmployeeHandler
	a.admin("GET /admin/employees", eh.List)
	a.admin("POST /admin/employees", eh.Create)
	a.admin("PUT /admin/employees/{id}/role", eh.SetRole)
	a.admin("DELETE /admin/employees/{id}", eh.Delete)
}

// ─────────────────────────────────────────────────────────────────────────────
// Middleware
// ─────────────────────────────────────────────────────────────────────────────

// requireAuth rejects anonymous callers with 401.
func (a *App) requireAuth(next http.Handler) http.Handler {
	return auth.RequireAuth(next)
}

// guarded runs the password policy and the access schedule after auth.
func (a *App) guarded(next http.Handler) http.Handler {
	access := middleware.AccessSchedule(a.routerCfg.Access)
	if a.routerCfg.StrictAccess {
		access = middleware.AccessScheduleStrict(a.routerCfg.Access)
	}
	return a.requireAuth(middleware.PasswordPolicy(a.routerCfg.AuthService)(access(next)))
}

func (a *App) handle(pattern, resourceType string, action gate.Action, h http.HandlerFunc) {
	a.mux.Handle(pattern, a.guarded(a.routerCfg.AuthGate.RequirePermission(resourceType, action)(h)))
}

func (a *App) admin(pattern string, h http.HandlerFunc) {
	a.mux.Handle(pattern, a.guarded(a.routerCfg.AuthGate.RequireAdmin()(h)))
}
