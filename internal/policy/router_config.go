package policy

import (
	"time"

	"github.com/diewo77/go-gestion/internal/config"
	"github.com/diewo77/go-gestion/internal/handlers"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/schedule"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/internal/whatsapp"
	"gorm.io/gorm"
)

// RouterConfig holds the configured handlers and the services the
// middleware chain needs.
type RouterConfig struct {
	AuthGate *AuthGate
	Loc      *time.Location

	// StrictAccess selects the fail-closed schedule middleware.
	StrictAccess bool

	Access      *schedule.Checker
	AuthService *services.AuthService

	HealthHandler   *handlers.HealthHandler
	AuthHandler     *handlers.AuthHandler
	ContactHandler  *handlers.ContactHandler
	ProductHandler  *handlers.ProductHandler
	CompanyHandler  *handlers.CompanyHandler
	BonHandler      *handlers.BonHandler
	PaymentHandler  *handlers.PaymentHandler
	RemiseHandler   *handlers.RemiseHandler
	ScheduleHandler *handlers.ScheduleHandler
	AuditHandler    *handlers.AuditHandler
	WhatsAppHandler *handlers.WhatsAppHandler
	EmployeeHandler *handlers.AdminEmployeeHandler
}

// NewRouterConfig wires the services, the authorization gate and the handlers.
func NewRouterConfig(db *gorm.DB, cfg *config.Config) *RouterConfig {
	loc := cfg.Location.Location()
	threshold := ledger.Threshold{Value: cfg.Ledger.OverdueValue, Unit: cfg.Ledger.OverdueUnit}.Normalized()

	// Roles change rarely; role edits invalidate the entry explicitly.
	authGate := NewAuthGate(db, 5*time.Minute)

	audit := services.NewAuditService(db)
	authService := services.NewAuthService(db, loc)
	company := services.NewCompanyService(db)
	access := schedule.NewChecker(db, loc)

	return &RouterConfig{
		AuthGate:     authGate,
		Loc:          loc,
		StrictAccess: cfg.App.StrictAccess,
		Access:       access,
		AuthService:  authService,

		HealthHandler:   handlers.NewHealthHandler(db),
		AuthHandler:     handlers.NewAuthHandler(authService, access),
		ContactHandler:  handlers.NewContactHandler(services.NewContactService(db, threshold), company, loc),
		ProductHandler:  handlers.NewProductHandler(services.NewProductService(db)),
		CompanyHandler:  handlers.NewCompanyHandler(company),
		BonHandler:      handlers.NewBonHandler(services.NewBonService(db), authGate, loc),
		PaymentHandler:  handlers.NewPaymentHandler(services.NewPaymentService(db, audit, loc), authGate, loc),
		RemiseHandler:   handlers.NewRemiseHandler(services.NewRemiseService(db, audit), authGate),
		ScheduleHandler: handlers.NewScheduleHandler(services.NewScheduleService(db)),
		AuditHandler:    handlers.NewAuditHandler(audit),
		WhatsAppHandler: handlers.NewWhatsAppHandler(whatsapp.New(cfg.WhatsApp)),
		EmployeeHandler: handlers.NewAdminEmployeeHandler(services.NewEmployeeService(db), authGate, authGate.InvalidateUser),
	}
}
