package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/carevillage/admin-api/docs"
	"github.com/carevillage/admin-api/internal/api/handler"
	"github.com/carevillage/admin-api/internal/api/middleware"
	"github.com/carevillage/admin-api/internal/core/domain"
	"github.com/carevillage/admin-api/internal/core/ports"
)

// Services bundles the use cases exposed over HTTP.
type Services struct {
	Accounts   ports.AccountService
	Counselors ports.CounselorService
	Meetings   ports.MeetingService
	Payouts    ports.PayoutService
	Interviews ports.InterviewService
	Calendar   ports.CalendarService
	Reports    ports.ReportService
	Audit      ports.AuditService
	Auth       ports.AuthService
}

// Deps holds everything NewRouter needs. Mongo and Redis may be nil when
// the memory store runs or caching is off; readiness then reports them as
// disabled. A nil Registry means the Prometheus default registry.
type Deps struct {
	Services  Services
	JWTSecret string
	Allowlist domain.Allowlist
	RateLimit float64
	Mongo     *mongo.Database
	Redis     *redis.Client
	Registry  *prometheus.Registry
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "carevillage_admin",
		Subsystem:  "http",
		Registerer: registerer,
	}))

	// --- Health probes and tooling (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	limiter := middleware.RateLimit(deps.RateLimit)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Services.Auth)
	e.POST("/auth/login", authHandler.Login, limiter)

	// --- Admin API ---
	v1 := e.Group("/v1",
		limiter,
		middleware.Auth(deps.JWTSecret),
		middleware.AdminOnly(deps.Allowlist, deps.Logger),
	)

	accounts := handler.NewAccountHandler(deps.Services.Accounts)
	v1.GET("/users", accounts.List)
	v1.POST("/users", accounts.Create)
	v1.PUT("/users/:id", accounts.Update)
	v1.POST("/users/:id/toggle-active", accounts.ToggleActive)

	counselors := handler.NewCounselorHandler(deps.Services.Counselors)
	v1.GET("/cvcs", counselors.List)
	v1.POST("/cvcs", counselors.Create)
	v1.POST("/cvcs/:id/approve", counselors.Approve)
	v1.POST("/cvcs/:id/reject", counselors.Reject)
	v1.POST("/cvcs/:id/suspend", counselors.Suspend)
	v1.POST("/cvcs/:id/reinstate", counselors.Reinstate)
	v1.PUT("/cvcs/:id/status", counselors.UpdateStatus)

	meetings := handler.NewMeetingHandler(deps.Services.Meetings)
	v1.GET("/meetings", meetings.List)
	v1.POST("/meetings", meetings.Create)
	v1.PUT("/meetings/:id/status", meetings.UpdateStatus)

	payouts := handler.NewPayoutHandler(deps.Services.Payouts)
	v1.GET("/payouts", payouts.List)
	v1.POST("/payouts", payouts.Create)
	v1.POST("/payouts/batch", payouts.Batch)
	v1.PUT("/payouts/:id/status", payouts.UpdateStatus)

	interviews := handler.NewInterviewHandler(deps.Services.Interviews)
	v1.POST("/interviews", interviews.Schedule)

	calendar := handler.NewCalendarHandler(deps.Services.Calendar)
	v1.GET("/calendar", calendar.Events)

	reports := handler.NewReportHandler(deps.Services.Reports)
	v1.GET("/stats", reports.Stats)
	v1.GET("/financials", reports.Financials)

	audit := handler.NewAuditHandler(deps.Services.Audit)
	v1.GET("/audit", audit.List)

	return e
}
