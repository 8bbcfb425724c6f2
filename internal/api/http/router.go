package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/api/http/handlers"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/auth"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/authz"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Teams          *handlers.TeamsHandler
	Tickets        *handlers.TicketsHandler
	Taxonomy       *handlers.TaxonomyHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Every admin route carries the matrix
// check for its page and action; row-level refinements run in the services.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	api := app.Group("", cfg.AuthMiddleware.Handle)
	api.Post("/auth/logout", auth.RequireAuthenticated(), cfg.Auth.Logout)
	api.Post("/auth/password/change", auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	users := api.Group("/users")
	users.Get("", auth.RequirePermission(authz.PageUsers, authz.ActionView), cfg.Users.ListForPage(authz.PageUsers))
	users.Get("/:id", auth.RequirePermission(authz.PageUsers, authz.ActionView), cfg.Users.Get)
	users.Get("/:id/roles", auth.RequirePermission(authz.PageUsers, authz.ActionView), cfg.Users.Roles)
	users.Post("", auth.RequirePermission(authz.PageUsers, authz.ActionAdd), cfg.Users.Create)
	// User edits are decided row by row in the service (manager edits
	// agent-roled users and self, agent edits self), so the route only
	// requires an authenticated subject. Role changes stay matrix-gated.
	users.Put("/:id", auth.RequireAuthenticated(), cfg.Users.Update)
	users.Put("/:id/roles", auth.RequirePermission(authz.PageUsers, authz.ActionEdit), cfg.Users.UpdateRoles)
	users.Delete("/:id", auth.RequirePermission(authz.PageUsers, authz.ActionDelete), cfg.Users.Delete)

	api.Get("/managers", auth.RequirePermission(authz.PageManagers, authz.ActionView), cfg.Users.ListForPage(authz.PageManagers))
	api.Get("/agents", auth.RequirePermission(authz.PageAgents, authz.ActionView), cfg.Users.ListForPage(authz.PageAgents))

	teams := api.Group("/teams")
	teams.Get("", auth.RequirePermission(authz.PageTeams, authz.ActionView), cfg.Teams.List)
	teams.Get("/available-managers", auth.RequirePermission(authz.PageTeams, authz.ActionAdd), cfg.Teams.AvailableManagers)
	teams.Get("/available-agents", auth.RequirePermission(authz.PageTeams, authz.ActionAdd), cfg.Teams.AvailableAgents)
	teams.Get("/:id", auth.RequirePermission(authz.PageTeams, authz.ActionView), cfg.Teams.Get)
	teams.Post("", auth.RequirePermission(authz.PageTeams, authz.ActionAdd), cfg.Teams.Create)
	teams.Put("/:id", auth.RequirePermission(authz.PageTeams, authz.ActionEdit), cfg.Teams.Update)
	teams.Delete("/:id", auth.RequirePermission(authz.PageTeams, authz.ActionDelete), cfg.Teams.Delete)
	teams.Post("/:id/members", auth.RequirePermission(authz.PageTeams, authz.ActionEdit), cfg.Teams.AddMember)
	teams.Delete("/:id/members/:userId", auth.RequirePermission(authz.PageTeams, authz.ActionEdit), cfg.Teams.RemoveMember)

	// Ticket edits and deletions are decided row by row in the service
	// (admin overrides, manager team scope), so those routes only require
	// an authenticated subject.
	tickets := api.Group("/tickets")
	tickets.Get("", auth.RequirePermission(authz.PageTickets, authz.ActionView), cfg.Tickets.List)
	tickets.Get("/:id", auth.RequirePermission(authz.PageTickets, authz.ActionView), cfg.Tickets.Get)
	tickets.Post("", auth.RequirePermission(authz.PageTickets, authz.ActionAdd), cfg.Tickets.Create)
	tickets.Put("/:id", auth.RequireAuthenticated(), cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireAuthenticated(), cfg.Tickets.Delete)

	api.Get("/crafts", auth.RequireAuthenticated(), cfg.Taxonomy.ListCrafts)
	api.Post("/crafts", auth.RequirePermission(authz.PageTickets, authz.ActionAdd), cfg.Taxonomy.CreateCraft)
	api.Get("/specialties", auth.RequireAuthenticated(), cfg.Taxonomy.ListSpecialties)
	api.Post("/specialties", auth.RequirePermission(authz.PageTickets, authz.ActionAdd), cfg.Taxonomy.CreateSpecialty)

	reports := api.Group("/reports", auth.RequirePermission(authz.PageTickets, authz.ActionViewStats))
	reports.Post("/tickets", cfg.Reports.Tickets)
	reports.Post("/commissions", cfg.Reports.Commissions)
}
