package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-sla/internal/api/http/handlers"
	"github.com/spec-kit/maintenance-sla/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	SLA            *handlers.SLAHandler
	Pause          *handlers.PauseHandler
	Sweep          *handlers.SweepHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets")
	tickets.Get("/:id/sla", cfg.SLA.GetTicketSLA)
	tickets.Get("/:id/pauses", cfg.Pause.History)

	pauseRoles := auth.RequireRole(
		auth.RoleTechnician,
		auth.RoleBranchManager,
		auth.RoleMaintenanceManager,
		auth.RoleAdmin,
	)
	tickets.Post("/:id/pause", pauseRoles, cfg.Pause.Pause)
	tickets.Post("/:id/resume", pauseRoles, cfg.Pause.Resume)

	sweep := api.Group("/sweep", auth.RequireRole(auth.RoleMaintenanceManager, auth.RoleAdmin))
	sweep.Post("/run", cfg.Sweep.Run)
	sweep.Get("/last", cfg.Sweep.Last)
}
