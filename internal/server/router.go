package server

import (
	"github.com/gofiber/fiber/v2"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *HealthHandler
	Auth   *AuthHandler
	Users  *UsersHandler
	Orders *OrdersHandler
	Guard  *Guard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.Guard.Handle)
	protected.Post("/auth/logout", cfg.Auth.Logout)
	protected.Get("/users/:id", cfg.Users.GetProfile)
	protected.Post("/orders", cfg.Orders.Create)
}
