package domainController

import (
	"docport/database"
	"docport/middleware"
	"docport/models"
	"docport/session"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func ListDomains(c *fiber.Ctx) error {
	db := database.Database.Db

	var domains []models.Domain
	if err := db.Order("id asc").Find(&domains).Error; err != nil {
		log.Printf("Error listing domains: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to list domains!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Domains fetched.", domains)
}

func CreateDomain(c *fiber.Ctx) error {
	reqData := new(struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if the domain name is taken
	if err := db.Where("name = ?", reqData.Name).First(&models.Domain{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Domain name is already taken!", nil)
	}

	newDomain := models.Domain{
		Name:        reqData.Name,
		Description: reqData.Description,
	}

	if err := db.Create(&newDomain).Error; err != nil {
		log.Printf("Error saving domain to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create domain!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Domain created successfully.", newDomain)
}

// DeleteDomain removes a domain for good. It is rejected while any membership
// still references the domain.
func DeleteDomain(c *fiber.Ctx) error {
	domainID, err := c.ParamsInt("id")
	if err != nil || domainID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid domain id!", nil)
	}

	db := database.Database.Db

	var domain models.Domain
	if err := db.First(&domain, domainID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Domain not found!", nil)
		}
		log.Printf("Error loading domain %d: %v", domainID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete domain!", nil)
	}

	var memberCount int64
	if err := db.Model(&models.UserDomain{}).
		Where("domain_id = ?", domain.ID).
		Count(&memberCount).Error; err != nil {
		log.Printf("Error counting memberships for domain %d: %v", domain.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete domain!", nil)
	}

	if memberCount > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Domain still has members and cannot be deleted!", nil)
	}

	if err := db.Unscoped().Delete(&domain).Error; err != nil {
		log.Printf("Error deleting domain %d: %v", domain.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete domain!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Domain deleted.", nil)
}

// MyMemberships feeds the domain-selection view.
func MyMemberships(c *fiber.Ctx) error {
	assertion := middleware.SessionFromCtx(c)
	if assertion == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: session not found", nil)
	}

	db := database.Database.Db

	var memberships []models.UserDomain
	if err := db.Preload("Domain").Preload("Role").
		Where("user_id = ?", assertion.UserID).
		Order("id asc").
		Find(&memberships).Error; err != nil {
		log.Printf("Error listing memberships for user %d: %v", assertion.UserID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to list memberships!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Memberships fetched.", memberships)
}

// reissueSession rebuilds the assertion from live data and signs a fresh token
// so the caller can replace its stale copy in the same round trip.
func reissueSession(c *fiber.Ctx, db *gorm.DB, userID uint, message string) error {
	assertion, err := session.BuildAssertion(db, userID)
	if err != nil {
		log.Printf("Error rebuilding session for user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update session!", nil)
	}

	token, err := middleware.GenerateJWT(assertion)
	if err != nil {
		log.Printf("Error signing session token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"token":   token,
		"session": assertion,
	})
}

// SelectDomain makes one of the caller's memberships the current domain.
// Selection persists, so a later refresh or login lands on the same domain the
// client is showing.
func SelectDomain(c *fiber.Ctx) error {
	assertion := middleware.SessionFromCtx(c)
	if assertion == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: session not found", nil)
	}

	reqData := new(struct {
		DomainID uint `json:"domainId"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var membership models.UserDomain
	err := db.Where("user_id = ? AND domain_id = ?", assertion.UserID, reqData.DomainID).
		First(&membership).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not a member of this domain!", nil)
		}
		log.Printf("Error loading membership for user %d: %v", assertion.UserID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to select domain!", nil)
	}

	if err := db.Model(&models.User{}).
		Where("id = ?", assertion.UserID).
		Update("current_user_domain_id", membership.ID).Error; err != nil {
		log.Printf("Error persisting current membership for user %d: %v", assertion.UserID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to select domain!", nil)
	}

	return reissueSession(c, db, assertion.UserID, "Domain selected.")
}

// SetDefaultDomain flags one membership as the user's default and makes it
// current as well, keeping the persisted state and the session in step.
func SetDefaultDomain(c *fiber.Ctx) error {
	assertion := middleware.SessionFromCtx(c)
	if assertion == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: session not found", nil)
	}

	reqData := new(struct {
		DomainID uint `json:"domainId"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var membership models.UserDomain
	err := db.Where("user_id = ? AND domain_id = ?", assertion.UserID, reqData.DomainID).
		First(&membership).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not a member of this domain!", nil)
		}
		log.Printf("Error loading membership for user %d: %v", assertion.UserID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to set default domain!", nil)
	}

	// Only one membership per user may carry the default flag
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.UserDomain{}).
			Where("user_id = ? AND id <> ?", assertion.UserID, membership.ID).
			Update("is_default", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.UserDomain{}).
			Where("id = ?", membership.ID).
			Update("is_default", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", assertion.UserID).
			Update("current_user_domain_id", membership.ID).Error
	})
	if err != nil {
		log.Printf("Error setting default membership for user %d: %v", assertion.UserID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to set default domain!", nil)
	}

	return reissueSession(c, db, assertion.UserID, "Default domain set.")
}

// AddMember grants a user a membership in a domain with the named role. The
// member's own cached session stays stale until they refresh.
func AddMember(c *fiber.Ctx) error {
	domainID, err := c.ParamsInt("id")
	if err != nil || domainID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid domain id!", nil)
	}

	reqData := new(struct {
		UserID   uint   `json:"userId"`
		RoleName string `json:"roleName"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	var domain models.Domain
	if err := db.First(&domain, domainID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Domain not found!", nil)
	}

	var user models.User
	if err := db.First(&user, reqData.UserID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var role models.Role
	if err := db.Where("name = ?", reqData.RoleName).First(&role).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Role not found!", nil)
	}

	if err := db.Where("user_id = ? AND domain_id = ?", user.ID, domain.ID).
		First(&models.UserDomain{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User is already a member of this domain!", nil)
	}

	membership := models.UserDomain{
		UserID:   user.ID,
		DomainID: domain.ID,
		RoleID:   role.ID,
	}

	if err := db.Create(&membership).Error; err != nil {
		log.Printf("Error creating membership: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add member!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Member added.", membership)
}

// RemoveMember revokes a user's membership in a domain and clears the user's
// current-membership reference when it pointed at the removed row.
func RemoveMember(c *fiber.Ctx) error {
	domainID, err := c.ParamsInt("id")
	if err != nil || domainID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid domain id!", nil)
	}

	userID, err := c.ParamsInt("userId")
	if err != nil || userID < 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var membership models.UserDomain
	if err := db.Where("user_id = ? AND domain_id = ?", userID, domainID).
		First(&membership).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Membership not found!", nil)
		}
		log.Printf("Error loading membership: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove member!", nil)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("id = ? AND current_user_domain_id = ?", membership.UserID, membership.ID).
			Update("current_user_domain_id", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&membership).Error
	})
	if err != nil {
		log.Printf("Error removing membership %d: %v", membership.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove member!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Member removed.", nil)
}
