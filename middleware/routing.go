package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Entry handles the public entry route. Callers with a valid session are
// pointed at the tenant-scoped landing page, or at the selection view when no
// domain is resolved yet; everyone else is pointed at the login page.
func Entry(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		if assertion, err := ParseSessionToken(authHeader[len("Bearer "):]); err == nil {
			redirect := "/documents"
			if assertion.RequiresDomainSelection || assertion.CurrentDomain == nil {
				redirect = "/domains/select"
			}
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"status":  true,
				"message": "Welcome back.",
				"data":    fiber.Map{"redirect": redirect},
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":  true,
		"message": "Welcome to the documentation portal.",
		"data":    fiber.Map{"redirect": "/login"},
	})
}

// RequireDomainSelected forces users who have not resolved a current domain to
// the selection view before any tenant-scoped route.
func RequireDomainSelected(c *fiber.Ctx) error {
	assertion := SessionFromCtx(c)
	if assertion == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status":  false,
			"message": "Unauthorized: session not found",
			"data":    fiber.Map{"redirect": "/login"},
		})
	}

	if assertion.RequiresDomainSelection || assertion.CurrentDomain == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  false,
			"message": "Select a domain to continue.",
			"data":    fiber.Map{"redirect": "/domains/select"},
		})
	}

	return c.Next()
}

// RedirectIfDomainSelected keeps users with a resolved domain away from the
// selection view.
func RedirectIfDomainSelected(c *fiber.Ctx) error {
	assertion := SessionFromCtx(c)
	if assertion != nil && assertion.CurrentDomain != nil && !assertion.RequiresDomainSelection {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status":  false,
			"message": "Domain already selected.",
			"data":    fiber.Map{"redirect": "/documents"},
		})
	}
	return c.Next()
}
