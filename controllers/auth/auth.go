package authController

import (
	"docport/config"
	"docport/database"
	"docport/middleware"
	"docport/models"
	"docport/session"
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash is compared against when the username is unknown so the failure
// path costs the same as a wrong password and the response cannot distinguish
// the two.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func Signup(c *fiber.Ctx) error {
	reqData := new(struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Avatar   string `json:"avatar"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	db := database.Database.Db

	// Check if username already exists
	if err := db.Where("username = ?", reqData.Username).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username is already registered!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Username: reqData.Username,
		Avatar:   reqData.Avatar,
		Password: string(hashedPassword),
	}

	// New users start with zero memberships and must be granted one by an
	// admin before any tenant-scoped route admits them.
	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign up user!", nil)
	}

	newUser.Password = ""
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", newUser)
}

func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Username string `json:"username"`
		Password string `json:"password"`
		DomainID *uint  `json:"domainId"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	result := db.Where("username = ?", reqData.Username).First(&user)
	if result.Error != nil {
		// Burn a hash comparison so unknown users are indistinguishable
		// from wrong passwords.
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(reqData.Password))
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// An explicitly requested domain becomes the current membership before
	// the assertion is built. Selection persists.
	if reqData.DomainID != nil {
		var membership models.UserDomain
		err := db.Where("user_id = ? AND domain_id = ?", user.ID, *reqData.DomainID).
			First(&membership).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You are not a member of the requested domain!", nil)
			}
			log.Printf("Error loading membership for user %d: %v", user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to log in!", nil)
		}
		if err := db.Model(&user).Update("current_user_domain_id", membership.ID).Error; err != nil {
			log.Printf("Error persisting current membership for user %d: %v", user.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to log in!", nil)
		}
	}

	assertion, err := session.BuildAssertion(db, user.ID)
	if err != nil {
		log.Printf("Error building session for user %d: %v", user.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to log in!", nil)
	}

	token, err := middleware.GenerateJWT(assertion)
	if err != nil {
		log.Printf("Error signing session token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to log in!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"token":   token,
		"session": assertion,
	})
}

// Refresh recomputes the session assertion from live identity data without a
// new credential check. Callers invoke it after any mutation that could
// invalidate cached permissions and replace their stored token with the result.
func Refresh(c *fiber.Ctx) error {
	current := middleware.SessionFromCtx(c)
	if current == nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized: session not found", nil)
	}

	db := database.Database.Db

	assertion, err := session.BuildAssertion(db, current.UserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unknown user.", nil)
		}
		log.Printf("Error refreshing session for user %d: %v", current.UserID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh session!", nil)
	}

	token, err := middleware.GenerateJWT(assertion)
	if err != nil {
		log.Printf("Error signing session token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh session!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session refreshed.", fiber.Map{
		"token":   token,
		"session": assertion,
	})
}
