package documentController

import (
	"docport/contentstore"
	"docport/database"
	"docport/middleware"
	"docport/models"
	"log"

	"github.com/gofiber/fiber/v2"
)

// loadScoped fetches a document and verifies it is reachable from the
// caller's active domain. Holders of an all-domains doc_read grant bypass the
// domain check. Returns nil after writing the error response.
func loadScoped(c *fiber.Ctx, store *contentstore.Store, id string) *models.Document {
	assertion := middleware.SessionFromCtx(c)

	doc, err := store.Get(id)
	if err != nil {
		log.Printf("Error loading document %s: %v", id, err)
		middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load document!", nil)
		return nil
	}
	if doc == nil {
		middleware.JsonResponse(c, fiber.StatusNotFound, false, "Document not found!", nil)
		return nil
	}

	if assertion.PermissionScopedAllDomains(database.PermDocRead) {
		return doc
	}

	for _, domainID := range doc.Domains {
		if domainID == assertion.CurrentDomain.Domain.ID {
			return doc
		}
	}

	middleware.JsonResponse(c, fiber.StatusNotFound, false, "Document not found!", nil)
	return nil
}

func ListDocuments(c *fiber.Ctx) error {
	assertion := middleware.SessionFromCtx(c)

	store, err := contentstore.Get()
	if err != nil {
		log.Printf("Content store unavailable: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to list documents!", nil)
	}

	docs, err := store.List(
		assertion.CurrentDomain.Domain.ID,
		assertion.CurrentDomain.RoleName,
		assertion.PermissionScopedAllDomains(database.PermDocRead),
	)
	if err != nil {
		log.Printf("Error listing documents: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to list documents!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Documents fetched.", docs)
}

func CreateDocument(c *fiber.Ctx) error {
	assertion := middleware.SessionFromCtx(c)

	reqData := new(struct {
		Title   string   `json:"title"`
		Body    string   `json:"body"`
		Domains []uint   `json:"domains"`
		Roles   []string `json:"roles"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	store, err := contentstore.Get()
	if err != nil {
		log.Printf("Content store unavailable: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create document!", nil)
	}

	// A document with no explicit visibility lands in the creator's active
	// domain, readable by the creator's role and the admin roles.
	domains := reqData.Domains
	if len(domains) == 0 {
		domains = []uint{assertion.CurrentDomain.Domain.ID}
	}
	roles := reqData.Roles
	if len(roles) == 0 {
		roles = []string{assertion.CurrentDomain.RoleName, database.RoleDocAdmin, database.RoleSuperadmin}
	}

	doc, err := store.Create(models.Document{
		Title:     reqData.Title,
		Body:      reqData.Body,
		Domains:   domains,
		Roles:     roles,
		CreatedBy: assertion.UserID,
	})
	if err != nil {
		log.Printf("Error creating document: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create document!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Document created.", doc)
}

func UpdateDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document id!", nil)
	}

	reqData := new(struct {
		Title   *string   `json:"title"`
		Body    *string   `json:"body"`
		Domains *[]uint   `json:"domains"`
		Roles   *[]string `json:"roles"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	store, err := contentstore.Get()
	if err != nil {
		log.Printf("Content store unavailable: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update document!", nil)
	}

	if doc := loadScoped(c, store, id); doc == nil {
		return nil
	}

	fields := map[string]any{}
	if reqData.Title != nil {
		fields["title"] = *reqData.Title
	}
	if reqData.Body != nil {
		fields["body"] = *reqData.Body
	}
	if reqData.Domains != nil {
		fields["domains"] = *reqData.Domains
	}
	if reqData.Roles != nil {
		fields["roles"] = *reqData.Roles
	}

	doc, err := store.Update(id, fields)
	if err != nil {
		log.Printf("Error updating document %s: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update document!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document updated.", doc)
}

// SoftDeleteDocument marks a document deleted; the purge job removes it for
// good after the retention window, or RestoreDocument brings it back.
func SoftDeleteDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document id!", nil)
	}

	store, err := contentstore.Get()
	if err != nil {
		log.Printf("Content store unavailable: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete document!", nil)
	}

	if doc := loadScoped(c, store, id); doc == nil {
		return nil
	}

	doc, err := store.SoftDelete(id)
	if err != nil {
		log.Printf("Error deleting document %s: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete document!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document deleted.", doc)
}

func RestoreDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document id!", nil)
	}

	store, err := contentstore.Get()
	if err != nil {
		log.Printf("Content store unavailable: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to restore document!", nil)
	}

	if doc := loadScoped(c, store, id); doc == nil {
		return nil
	}

	doc, err := store.Restore(id)
	if err != nil {
		log.Printf("Error restoring document %s: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to restore document!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document restored.", doc)
}

func HardDeleteDocument(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid document id!", nil)
	}

	store, err := contentstore.Get()
	if err != nil {
		log.Printf("Content store unavailable: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to purge document!", nil)
	}

	if doc := loadScoped(c, store, id); doc == nil {
		return nil
	}

	if err := store.HardDelete(id); err != nil {
		log.Printf("Error purging document %s: %v", id, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to purge document!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Document purged.", nil)
}
