package middleware

import (
	"github.com/gofiber/fiber/v2"

	"outpost/auth"
)

// RequireIdentity guards routes behind the identity session. While the
// session is still being restored it renders the waiting page; once
// settled, a missing identity redirects to the application root and a
// present one passes through unconditionally. Profile data (display
// name, avatar) is deliberately not waited on: it loads after
// navigation and must not block it.
func RequireIdentity(provider auth.Provider) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if provider.Loading() {
			return c.Status(fiber.StatusServiceUnavailable).Render("waiting", fiber.Map{})
		}

		user := provider.Current()
		if user == nil {
			return c.Redirect("/", fiber.StatusFound)
		}

		c.Locals("user", user)
		return c.Next()
	}
}
