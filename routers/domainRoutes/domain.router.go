package domainRoutes

import (
	domainController "docport/controllers/domain"
	"docport/database"
	"docport/middleware"
	domainValidator "docport/validators/domain"

	"github.com/gofiber/fiber/v2"
)

func SetupDomainRoutes(app *fiber.App) {
	domainGroup := app.Group("/domains")

	// Reachable while a current domain is still unselected
	domainGroup.Get("/mine", middleware.JWTMiddleware, domainController.MyMemberships)
	domainGroup.Get("/select", middleware.JWTMiddleware, middleware.RedirectIfDomainSelected, domainController.MyMemberships)
	domainGroup.Post("/select", domainValidator.SelectDomain(), middleware.JWTMiddleware, domainController.SelectDomain)
	domainGroup.Post("/default", domainValidator.SelectDomain(), middleware.JWTMiddleware, domainController.SetDefaultDomain)

	domainGroup.Get("/", middleware.JWTMiddleware, middleware.RequirePermission(database.PermDomainRead), domainController.ListDomains)
	domainGroup.Post("/", domainValidator.CreateDomain(), middleware.JWTMiddleware, middleware.RequirePermission(database.PermDomainCreate), domainController.CreateDomain)
	domainGroup.Delete("/:id", middleware.JWTMiddleware, middleware.RequirePermission(database.PermDomainDelete), domainController.DeleteDomain)

	domainGroup.Post("/:id/members", domainValidator.AddMember(), middleware.JWTMiddleware, middleware.RequirePermission(database.PermUserRead), domainController.AddMember)
	domainGroup.Delete("/:id/members/:userId", middleware.JWTMiddleware, middleware.RequirePermission(database.PermUserRead), domainController.RemoveMember)
}
