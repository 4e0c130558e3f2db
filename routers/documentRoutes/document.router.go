package documentRoutes

import (
	documentController "docport/controllers/document"
	"docport/database"
	"docport/middleware"
	documentValidator "docport/validators/document"

	"github.com/gofiber/fiber/v2"
)

func SetupDocumentRoutes(app *fiber.App) {
	docGroup := app.Group("/documents", middleware.JWTMiddleware, middleware.RequireDomainSelected)

	docGroup.Get("/", middleware.RequirePermission(database.PermDocRead), documentController.ListDocuments)
	docGroup.Post("/", documentValidator.CreateDocument(), middleware.RequirePermission(database.PermDocCreate), documentController.CreateDocument)
	docGroup.Put("/:id", documentValidator.UpdateDocument(), middleware.RequirePermission(database.PermDocUpdate), documentController.UpdateDocument)
	docGroup.Delete("/:id", middleware.RequirePermission(database.PermDocDelete), documentController.SoftDeleteDocument)
	docGroup.Post("/:id/restore", middleware.RequireRole(database.RoleDocAdmin, database.RoleSuperadmin), documentController.RestoreDocument)
	docGroup.Delete("/:id/purge", middleware.RequireRole(database.RoleDocAdmin, database.RoleSuperadmin), documentController.HardDeleteDocument)
}
