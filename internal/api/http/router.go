package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/propos/maintenance-engine/internal/api/http/handlers"
	"github.com/propos/maintenance-engine/internal/auth"
	"github.com/propos/maintenance-engine/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Technicians    *handlers.TechniciansHandler
	Insights       *handlers.InsightsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	tickets := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)

	technicians := app.Group("/technicians", cfg.AuthMiddleware.Handle, auth.RequireStaff())
	technicians.Get("", cfg.Technicians.ListTechnicians)

	insights := app.Group("/insights", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleOwner, domain.RoleManager, domain.RoleAgent))
	insights.Get("/summary", cfg.Insights.Summary)
}
