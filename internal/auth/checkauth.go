package auth

import (
	"github.com/gofiber/fiber/v2"
	user "github.com/ssko7098/Harmonize/internal/models/user"
)

// CurrentUser pulls the authenticated user stashed by Protected. Nil if
// the handler runs outside the protected group.
func CurrentUser(c *fiber.Ctx) *user.User {
	u, _ := c.Locals("user").(*user.User)
	return u
}

// AdminOnly rejects everyone without the admin flag. Must run after
// Protected.
func AdminOnly(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil || !u.CanModerate() {
			opt.Logger.Warn(c.Context()).WithFields("path", c.Path()).Logs("Admin route denied")
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Admin access required",
			})
		}
		return c.Next()
	}
}

// VerifiedOnly rejects accounts that never confirmed their email. Must
// run after Protected.
func VerifiedOnly(opt Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := CurrentUser(c)
		if u == nil || !u.IsVerified {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Email verification required",
			})
		}
		return c.Next()
	}
}
