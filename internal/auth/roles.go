package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arnoldrod969/fixtop-agent-manager-sub000/internal/authz"
	"github.com/arnoldrod969/fixtop-agent-manager-sub000/pkg/util"
)

// RequirePermission gates a route on the permission matrix. The UI asks the
// same question before rendering; this check is the authoritative one.
func RequirePermission(page authz.Page, action authz.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject, ok := SubjectFromContext(c)
		if !ok {
			return util.NewAuthFailed("authentication required")
		}
		if !authz.Allows(subject, page, action) {
			return util.NewForbidden("permission denied")
		}
		return c.Next()
	}
}

// RequireAuthenticated only checks that a subject is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SubjectFromContext(c); !ok {
			return util.NewAuthFailed("authentication required")
		}
		return c.Next()
	}
}
