package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/hospital-service/internal/api/http/handlers"
	"github.com/spec-kit/hospital-service/internal/auth"
	"github.com/spec-kit/hospital-service/internal/domain"
	"github.com/spec-kit/hospital-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Person        *handlers.PersonHandler
	Authenticator *auth.Authenticator
	Metrics       *observability.Metrics
}

// Route declares one endpoint and its access requirement. Non-public routes
// require a valid token; Roles further restricts them, and an empty Roles
// admits any authenticated caller.
type Route struct {
	Method  string
	Path    string
	Public  bool
	Roles   []domain.Role
	Handler fiber.Handler
}

// Routes returns the application's route table.
func Routes(cfg RouteConfig) []Route {
	admin := []domain.Role{domain.RoleAdmin}
	return []Route{
		{Method: fiber.MethodGet, Path: "/health/live", Public: true, Handler: cfg.Health.Live},
		{Method: fiber.MethodGet, Path: "/health/ready", Public: true, Handler: cfg.Health.Ready},

		{Method: fiber.MethodPost, Path: "/auth/register", Public: true, Handler: cfg.Auth.Register},
		{Method: fiber.MethodPost, Path: "/auth/login", Public: true, Handler: cfg.Auth.Login},
		{Method: fiber.MethodGet, Path: "/auth/profile", Handler: cfg.Auth.Profile},
		{Method: fiber.MethodPost, Path: "/auth/password/change", Handler: cfg.Auth.ChangePassword},

		{Method: fiber.MethodPost, Path: "/person", Roles: admin, Handler: cfg.Person.Create},
		{Method: fiber.MethodGet, Path: "/person", Handler: cfg.Person.List},
		{Method: fiber.MethodGet, Path: "/person/role/:role", Handler: cfg.Person.ListByRole},
		{Method: fiber.MethodGet, Path: "/person/:id", Handler: cfg.Person.Get},
		{Method: fiber.MethodPatch, Path: "/person/:id", Roles: admin, Handler: cfg.Person.Update},
		{Method: fiber.MethodDelete, Path: "/person/:id", Roles: admin, Handler: cfg.Person.Delete},
	}
}

// RegisterRoutes wires the route table onto app, chaining authentication and
// the role guard in front of every non-public handler.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	for _, route := range Routes(cfg) {
		chain := []fiber.Handler{}
		if !route.Public {
			chain = append(chain, cfg.Authenticator.Handle, auth.RequireRoles(route.Roles...))
		}
		chain = append(chain, route.Handler)
		app.Add(route.Method, route.Path, chain...)
	}

	if registry := cfg.Metrics.Registry(); registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	}
}
