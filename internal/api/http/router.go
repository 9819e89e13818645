package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkin-service/internal/api/http/handlers"
	"github.com/spec-kit/checkin-service/internal/auth"
	"github.com/spec-kit/checkin-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Staff          *handlers.StaffHandler
	Registrations  *handlers.RegistrationsHandler
	Scans          *handlers.ScansHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/staff/register", cfg.Staff.Register)
	authGroup.Post("/staff/login", cfg.Staff.Login)
	authGroup.Post("/password/reset/request", cfg.Staff.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Staff.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireRole(), cfg.Staff.ChangePassword)

	// Attendee intake is public; everything else requires a staff session.
	app.Post("/registrations", cfg.Registrations.Create)

	staffOnly := app.Group("", cfg.AuthMiddleware.Handle)
	staffOnly.Get("/registrations", auth.RequireRole(), cfg.Registrations.List)
	staffOnly.Get("/registrations/:id/credential", auth.RequireRole(), cfg.Registrations.Credential)

	staffOnly.Post("/scans", auth.RequireRole(domain.StaffRoleScanner, domain.StaffRoleAdmin), cfg.Scans.Scan)

	reports := staffOnly.Group("/reports", auth.RequireRole())
	reports.Get("/overview", cfg.Reports.Overview)
	reports.Get("/days/:day", cfg.Reports.Day)
	reports.Get("/days/:day/export", cfg.Reports.ExportDay)
	reports.Get("/attendees/:id", cfg.Reports.History)
}
