package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/feedback-api/internal/application/analytics"
	"github.com/jhoicas/feedback-api/internal/application/auth"
	"github.com/jhoicas/feedback-api/internal/application/quota"
	"github.com/jhoicas/feedback-api/internal/application/usecase"
	"github.com/jhoicas/feedback-api/internal/domain/entity"
	"github.com/jhoicas/feedback-api/internal/monitoring"
	"github.com/jhoicas/feedback-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC    *usecase.CompanyUseCase
	PlanUC       *usecase.PlanUseCase
	MessageUC    *usecase.MessageUseCase
	UserUC       *usecase.UserUseCase
	Capabilities *usecase.CapabilityService
	Quota        *quota.Enforcer
	StatsUC      *analytics.StatsUseCase
	AuthUC       *auth.AuthUseCase
	Limiter      RateLimiter // nil desactiva el rate limiting
	Metrics      *monitoring.Metrics
	Logger       *logger.Logger
	JWTSecret    string
}

// Router registra las rutas de la API.
// Las rutas protegidas cargan el token de forma opcional y dejan la decisión al AuthGate,
// que distingue anónimo (401 → login) de autenticado sin permiso (403 → su inicio).
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Logger, deps.Metrics))

	api := app.Group("/api")
	session := OptionalAuth(deps.JWTSecret)
	admin := RequireRole(entity.RoleAdmin)
	ownerOrAdmin := RequireRole(entity.RoleCompany, entity.RoleAdmin)
	companyAccess := RequireCompanyAccess()

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Companies
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.Quota)
	messageHandler := NewMessageHandler(deps.MessageUC)
	statsHandler := NewStatsHandler(deps.StatsUC)
	companies := api.Group("/companies", session)
	companies.Post("/", admin, companyHandler.Create)
	companies.Get("/", admin, companyHandler.List)
	companies.Get("/code/:code", ownerOrAdmin, companyHandler.GetByCode)
	companies.Get("/:id", companyAccess, companyHandler.GetByID)
	companies.Patch("/:id", companyAccess, companyHandler.UpdateProfile)
	companies.Post("/:id/status", admin, companyAccess, companyHandler.TransitionStatus)
	companies.Post("/:id/plan", companyAccess, companyHandler.ChangePlan)
	companies.Get("/:id/usage", companyAccess, companyHandler.Usage)
	companies.Get("/:id/messages", companyAccess, messageHandler.ListByCompany)

	// Stats
	companies.Get("/:id/stats/distribution", companyAccess, statsHandler.Distribution)
	companies.Get("/:id/stats/status", companyAccess, statsHandler.StatusCounts)
	companies.Get("/:id/stats/growth", companyAccess,
		RequireCapability(entity.CapabilityGrowthMetrics, deps.Capabilities), statsHandler.Growth)
	companies.Get("/:id/stats/report.pdf", companyAccess,
		RequireCapability(entity.CapabilityReportsPDF, deps.Capabilities), statsHandler.ReportPDF)

	// Plans
	planHandler := NewPlanHandler(deps.PlanUC)
	plans := api.Group("/plans")
	plans.Get("/", planHandler.List)
	plans.Post("/", session, admin, planHandler.Create)
	plans.Get("/free-settings", session, admin, planHandler.GetFreeSettings)
	plans.Post("/free-settings", session, admin, planHandler.UpdateFreeSettings)

	// Messages (anónimo, con rate limiting por IP)
	messages := api.Group("/messages")
	messages.Post("/", RateLimit("submit", deps.Limiter, deps.Metrics), messageHandler.Submit)
	messages.Get("/:id", RateLimit("lookup", deps.Limiter, deps.Metrics), messageHandler.Lookup)
	messages.Post("/:id/status", session, ownerOrAdmin, messageHandler.UpdateStatus)

	// Admin
	adminGroup := api.Group("/admin", session, admin)
	adminGroup.Get("/messages", messageHandler.ListAll)
	adminGroup.Get("/stats", statsHandler.CompanyTotals)
}
