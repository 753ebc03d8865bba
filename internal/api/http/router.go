package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskops/service-desk/internal/api/http/handlers"
	"github.com/deskops/service-desk/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Requests       *handlers.RequestsHandler
	StaffRequests  *handlers.StaffRequestsHandler
	Dashboard      *handlers.DashboardHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/users/register", cfg.AuthMiddleware.Handle, auth.RequireStaff(), cfg.Users.Register)

	authed := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	authed.Get("/profile", cfg.Users.GetProfile)
	authed.Put("/profile", cfg.Users.UpdateProfile)

	authed.Post("/requests", cfg.Requests.Submit)
	authed.Get("/requests", cfg.Requests.ListMine)
	authed.Get("/requests/:id", cfg.Requests.Get)

	authed.Get("/dashboard", cfg.Dashboard.Overview)

	staff := authed.Group("/staff", auth.RequireStaff())
	staff.Get("/requests", cfg.StaffRequests.List)
	staff.Get("/requests/:id", cfg.StaffRequests.Get)
	staff.Patch("/requests/:id/status", cfg.StaffRequests.TransitionStatus)
	staff.Post("/requests/:id/steps", cfg.StaffRequests.AddStep)
	staff.Put("/requests/:id/steps", cfg.StaffRequests.ReplaceSteps)
	staff.Delete("/requests/:id/steps/:stepID", cfg.StaffRequests.DeleteStep)
}
