package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequirePermission returns a middleware that admits the request only when the
// named permission appears in the session's current-domain permission set. The
// check is computed from the embedded assertion alone; no store access.
func RequirePermission(requiredPermission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		assertion := SessionFromCtx(c)
		if assertion == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: session not found",
				"data":    nil,
			})
		}

		if !assertion.HasPermission(requiredPermission) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  false,
				"message": "You do not have permission to access this resource!",
				"data":    nil,
			})
		}

		return c.Next()
	}
}

// RequireRole returns a middleware that admits the request only when the
// active domain's role is one of the allowed names.
func RequireRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		assertion := SessionFromCtx(c)
		if assertion == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  false,
				"message": "Unauthorized: session not found",
				"data":    nil,
			})
		}

		if assertion.CurrentDomain != nil {
			for _, role := range allowedRoles {
				if assertion.CurrentDomain.RoleName == role {
					return c.Next()
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"status":  false,
			"message": "Your role is not allowed to access this resource!",
			"data":    nil,
		})
	}
}
