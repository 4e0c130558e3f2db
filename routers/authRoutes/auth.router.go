package authRoutes

import (
	authController "docport/controllers/auth"
	"docport/middleware"
	authValidator "docport/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), authController.Signup)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Post("/refresh", middleware.JWTMiddleware, authController.Refresh)
}
