package domainValidator

import (
	"docport/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CreateDomain validator middleware
func CreateDomain() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if len(strings.TrimSpace(reqData.Name)) < 2 {
			errors["name"] = "Domain name must be at least 2 characters long!"
		}
		if len(reqData.Name) > 64 {
			errors["name"] = "Domain name must be at most 64 characters long!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// SelectDomain validator middleware, shared by select and set-default
func SelectDomain() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			DomainID uint `json:"domainId"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.DomainID < 1 {
			errors["domainId"] = "Domain id is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}

// AddMember validator middleware
func AddMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UserID   uint   `json:"userId"`
			RoleName string `json:"roleName"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if reqData.UserID < 1 {
			errors["userId"] = "User id is required!"
		}
		if strings.TrimSpace(reqData.RoleName) == "" {
			errors["roleName"] = "Role name is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		return c.Next()
	}
}
