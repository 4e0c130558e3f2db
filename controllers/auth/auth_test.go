package authController

import (
	"bytes"
	"docport/config"
	"docport/database"
	"docport/middleware"
	"docport/models"
	authValidator "docport/validators/auth"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: 4}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	require.NoError(t, database.SeedReferenceData(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/auth/signup", authValidator.Signup(), Signup)
	app.Post("/auth/login", authValidator.Login(), Login)
	app.Post("/auth/refresh", middleware.JWTMiddleware, Refresh)

	// Gated probe routes for the scenario tests
	ok := func(c *fiber.Ctx) error { return middleware.JsonResponse(c, fiber.StatusOK, true, "ok", nil) }
	app.Get("/probe/read", middleware.JWTMiddleware, middleware.RequirePermission(database.PermDocRead), ok)
	app.Get("/probe/create", middleware.JWTMiddleware, middleware.RequirePermission(database.PermDocCreate), ok)

	return app
}

func seedUser(t *testing.T, username, password string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	require.NoError(t, err)

	user := models.User{Username: username, Password: string(hash)}
	require.NoError(t, database.Database.Db.Create(&user).Error)
	return user
}

func seedMembership(t *testing.T, user models.User, domainName, roleName string, isDefault bool) models.UserDomain {
	t.Helper()
	db := database.Database.Db

	var domain models.Domain
	require.NoError(t, db.Where(models.Domain{Name: domainName}).FirstOrCreate(&domain).Error)

	var role models.Role
	require.NoError(t, db.Where("name = ?", roleName).First(&role).Error)

	membership := models.UserDomain{UserID: user.ID, DomainID: domain.ID, RoleID: role.ID, IsDefault: isDefault}
	require.NoError(t, db.Create(&membership).Error)
	return membership
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any, token string) (int, []byte) {
	t.Helper()

	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func getStatus(t *testing.T, app *fiber.App, path, token string) int {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

type loginEnvelope struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Token   string          `json:"token"`
		Session json.RawMessage `json:"session"`
	} `json:"data"`
}

type sessionView struct {
	UserID                  uint   `json:"userId"`
	Username                string `json:"username"`
	RequiresDomainSelection bool   `json:"requiresDomainSelection"`
	CurrentDomain           *struct {
		Domain struct {
			ID   uint   `json:"id"`
			Name string `json:"name"`
		} `json:"domain"`
		RoleName    string `json:"roleName"`
		Permissions []struct {
			Name            string `json:"name"`
			ScopeAllDomains bool   `json:"scopeAllDomains"`
		} `json:"permissions"`
	} `json:"currentDomain"`
}

func login(t *testing.T, app *fiber.App, username, password string) (string, sessionView, json.RawMessage) {
	t.Helper()

	status, body := postJSON(t, app, "/auth/login", fiber.Map{
		"username": username,
		"password": password,
	}, "")
	require.Equal(t, fiber.StatusOK, status, "login failed: %s", body)

	var envelope loginEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))

	var view sessionView
	require.NoError(t, json.Unmarshal(envelope.Data.Session, &view))
	return envelope.Data.Token, view, envelope.Data.Session
}

func TestSignupAndDuplicate(t *testing.T) {
	app := setupApp(t)

	status, _ := postJSON(t, app, "/auth/signup", fiber.Map{
		"username": "newcomer",
		"password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusCreated, status)

	status, _ = postJSON(t, app, "/auth/signup", fiber.Map{
		"username": "newcomer",
		"password": "password123",
	}, "")
	assert.Equal(t, fiber.StatusConflict, status)
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	app := setupApp(t)

	status, _ := postJSON(t, app, "/auth/signup", fiber.Map{
		"username": "newcomer",
		"password": "short",
	}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "known", "password123")

	unknownStatus, unknownBody := postJSON(t, app, "/auth/login", fiber.Map{
		"username": "nobody",
		"password": "password123",
	}, "")
	wrongStatus, wrongBody := postJSON(t, app, "/auth/login", fiber.Map{
		"username": "known",
		"password": "wrongpassword",
	}, "")

	assert.Equal(t, fiber.StatusUnauthorized, unknownStatus)
	assert.Equal(t, fiber.StatusUnauthorized, wrongStatus)
	assert.Equal(t, unknownBody, wrongBody)
}

func TestLoginZeroMembershipsRequiresSelection(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "loner", "password123")

	_, view, _ := login(t, app, "loner", "password123")
	assert.True(t, view.RequiresDomainSelection)
	assert.Nil(t, view.CurrentDomain)
}

func TestLoginEditorScenario(t *testing.T) {
	app := setupApp(t)
	user := seedUser(t, "editor1", "password123")
	seedMembership(t, user, "option1", database.RoleEditor, false)

	token, view, _ := login(t, app, "editor1", "password123")

	assert.False(t, view.RequiresDomainSelection)
	require.NotNil(t, view.CurrentDomain)
	assert.Equal(t, "option1", view.CurrentDomain.Domain.Name)
	assert.Equal(t, database.RoleEditor, view.CurrentDomain.RoleName)
	require.Len(t, view.CurrentDomain.Permissions, 1)
	assert.Equal(t, database.PermDocRead, view.CurrentDomain.Permissions[0].Name)

	// doc_read admitted, doc_create forbidden
	assert.Equal(t, fiber.StatusOK, getStatus(t, app, "/probe/read", token))
	assert.Equal(t, fiber.StatusForbidden, getStatus(t, app, "/probe/create", token))
}

func TestLoginPrefersDefaultMembership(t *testing.T) {
	app := setupApp(t)
	user := seedUser(t, "twohomes", "password123")
	seedMembership(t, user, "option1", database.RoleEditor, true)
	seedMembership(t, user, "option2", database.RoleDocAdmin, false)

	_, view, _ := login(t, app, "twohomes", "password123")
	require.NotNil(t, view.CurrentDomain)
	assert.Equal(t, "option1", view.CurrentDomain.Domain.Name)
}

func TestLoginWithRequestedDomain(t *testing.T) {
	app := setupApp(t)
	user := seedUser(t, "picky", "password123")
	seedMembership(t, user, "option1", database.RoleEditor, true)
	membership2 := seedMembership(t, user, "option2", database.RoleDocAdmin, false)

	status, body := postJSON(t, app, "/auth/login", fiber.Map{
		"username": "picky",
		"password": "password123",
		"domainId": membership2.DomainID,
	}, "")
	require.Equal(t, fiber.StatusOK, status)

	var envelope loginEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	var view sessionView
	require.NoError(t, json.Unmarshal(envelope.Data.Session, &view))

	require.NotNil(t, view.CurrentDomain)
	assert.Equal(t, "option2", view.CurrentDomain.Domain.Name)
	assert.Equal(t, database.RoleDocAdmin, view.CurrentDomain.RoleName)
}

func TestLoginWithForeignDomainRejected(t *testing.T) {
	app := setupApp(t)
	seedUser(t, "outsider", "password123")

	var domain models.Domain
	require.NoError(t, database.Database.Db.
		Where(models.Domain{Name: "private"}).FirstOrCreate(&domain).Error)

	status, _ := postJSON(t, app, "/auth/login", fiber.Map{
		"username": "outsider",
		"password": "password123",
		"domainId": domain.ID,
	}, "")
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRefreshMatchesLogin(t *testing.T) {
	app := setupApp(t)
	user := seedUser(t, "steady", "password123")
	seedMembership(t, user, "option1", database.RoleDocAdmin, true)

	token, _, loginSession := login(t, app, "steady", "password123")

	refresh := func() json.RawMessage {
		status, body := postJSON(t, app, "/auth/refresh", fiber.Map{}, token)
		require.Equal(t, fiber.StatusOK, status)
		var envelope loginEnvelope
		require.NoError(t, json.Unmarshal(body, &envelope))
		return envelope.Data.Session
	}

	first := refresh()
	second := refresh()

	currentDomain := func(raw json.RawMessage) json.RawMessage {
		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &m))
		return m["currentDomain"]
	}

	assert.JSONEq(t, string(currentDomain(loginSession)), string(currentDomain(first)))
	assert.Equal(t, currentDomain(first), currentDomain(second))
}

func TestRefreshPicksUpRoleChange(t *testing.T) {
	app := setupApp(t)
	user := seedUser(t, "promoted", "password123")
	membership := seedMembership(t, user, "option1", database.RoleEditor, true)

	token, view, _ := login(t, app, "promoted", "password123")
	require.NotNil(t, view.CurrentDomain)
	require.Len(t, view.CurrentDomain.Permissions, 1)

	var docAdmin models.Role
	require.NoError(t, database.Database.Db.Where("name = ?", database.RoleDocAdmin).First(&docAdmin).Error)
	require.NoError(t, database.Database.Db.Model(&membership).Update("role_id", docAdmin.ID).Error)

	status, body := postJSON(t, app, "/auth/refresh", fiber.Map{}, token)
	require.Equal(t, fiber.StatusOK, status)

	var envelope loginEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	var refreshed sessionView
	require.NoError(t, json.Unmarshal(envelope.Data.Session, &refreshed))

	require.NotNil(t, refreshed.CurrentDomain)
	assert.Equal(t, database.RoleDocAdmin, refreshed.CurrentDomain.RoleName)
	assert.Len(t, refreshed.CurrentDomain.Permissions, 4)
}
