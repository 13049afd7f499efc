package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Buyers         *handlers.BuyersHandler
	Sellers        *handlers.SellersHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Registration, login, session renewal and
// reads are public; /home and every mutation require the owning account.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/health/metrics", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"data": cfg.Metrics.Snapshot()})
		})
	}

	authenticated := cfg.AuthMiddleware.Handle

	app.Post("/login", cfg.Auth.Login)
	app.Post("/token/refresh", cfg.Auth.Refresh)
	app.Post("/logout", cfg.Auth.Logout)
	app.Get("/home", authenticated, cfg.Auth.Home)

	app.Post("/register/buyer", cfg.Buyers.Register)
	buyers := app.Group("/buyer")
	buyers.Get("/read/:id", cfg.Buyers.Read)
	buyers.Put("/update/:id", authenticated, auth.RequireOwner(domain.RoleBuyer), cfg.Buyers.Update)
	buyers.Delete("/delete/:id", authenticated, auth.RequireOwner(domain.RoleBuyer), cfg.Buyers.Delete)

	app.Post("/register/seller", cfg.Sellers.Register)
	sellers := app.Group("/seller")
	sellers.Get("/read/:id", cfg.Sellers.Read)
	sellers.Put("/update/:id", authenticated, auth.RequireOwner(domain.RoleSeller), cfg.Sellers.Update)
	sellers.Delete("/delete/:id", authenticated, auth.RequireOwner(domain.RoleSeller), cfg.Sellers.Delete)
}
