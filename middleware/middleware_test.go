package middleware

import (
	"docport/config"
	"docport/session"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
}

func editorAssertion() *session.Assertion {
	return &session.Assertion{
		UserID:   1,
		Username: "editor1",
		Memberships: []session.MembershipInfo{
			{MembershipID: 1, Domain: session.DomainInfo{ID: 1, Name: "option1"}, RoleName: "editor"},
		},
		CurrentDomain: &session.CurrentDomain{
			MembershipID: 1,
			Domain:       session.DomainInfo{ID: 1, Name: "option1"},
			RoleName:     "editor",
			Permissions:  []session.PermissionGrant{{Name: "doc_read"}},
		},
	}
}

func unselectedAssertion() *session.Assertion {
	return &session.Assertion{
		UserID:                  2,
		Username:                "loner",
		RequiresDomainSelection: true,
	}
}

func newGuardedApp() *fiber.App {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	}

	app.Get("/read", JWTMiddleware, RequireDomainSelected, RequirePermission("doc_read"), ok)
	app.Get("/create", JWTMiddleware, RequireDomainSelected, RequirePermission("doc_create"), ok)
	app.Get("/admin", JWTMiddleware, RequireDomainSelected, RequireRole("doc_admin", "superadmin"), ok)
	app.Get("/select", JWTMiddleware, RedirectIfDomainSelected, ok)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path, token string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestJWTMiddlewareMissingToken(t *testing.T) {
	app := newGuardedApp()

	status, body := doRequest(t, app, "/read", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, false, body["status"])
}

func TestJWTMiddlewareGarbageToken(t *testing.T) {
	app := newGuardedApp()

	status, _ := doRequest(t, app, "/read", "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestJWTMiddlewareWrongKey(t *testing.T) {
	app := newGuardedApp()

	config.AppConfig.JWTKey = "other-secret"
	token, err := GenerateJWT(editorAssertion())
	require.NoError(t, err)
	config.AppConfig.JWTKey = "test-secret"

	status, _ := doRequest(t, app, "/read", token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRequirePermissionAdmitted(t *testing.T) {
	app := newGuardedApp()

	token, err := GenerateJWT(editorAssertion())
	require.NoError(t, err)

	status, body := doRequest(t, app, "/read", token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["status"])
}

func TestRequirePermissionRejected(t *testing.T) {
	app := newGuardedApp()

	token, err := GenerateJWT(editorAssertion())
	require.NoError(t, err)

	// editor holds doc_read only
	status, _ := doRequest(t, app, "/create", token)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRequireRoleRejectsEditor(t *testing.T) {
	app := newGuardedApp()

	token, err := GenerateJWT(editorAssertion())
	require.NoError(t, err)

	status, _ := doRequest(t, app, "/admin", token)
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestRequireRoleAdmitsDocAdmin(t *testing.T) {
	app := newGuardedApp()

	assertion := editorAssertion()
	assertion.CurrentDomain.RoleName = "doc_admin"
	token, err := GenerateJWT(assertion)
	require.NoError(t, err)

	status, _ := doRequest(t, app, "/admin", token)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequireDomainSelectedForcesSelection(t *testing.T) {
	app := newGuardedApp()

	token, err := GenerateJWT(unselectedAssertion())
	require.NoError(t, err)

	status, body := doRequest(t, app, "/read", token)
	assert.Equal(t, fiber.StatusConflict, status)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/domains/select", data["redirect"])
}

func TestRedirectIfDomainSelected(t *testing.T) {
	app := newGuardedApp()

	// Unselected users reach the selection view
	token, err := GenerateJWT(unselectedAssertion())
	require.NoError(t, err)
	status, _ := doRequest(t, app, "/select", token)
	assert.Equal(t, fiber.StatusOK, status)

	// Resolved users are redirected away from it
	token, err = GenerateJWT(editorAssertion())
	require.NoError(t, err)
	status, body := doRequest(t, app, "/select", token)
	assert.Equal(t, fiber.StatusConflict, status)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "/documents", data["redirect"])
}

func TestEntryRedirects(t *testing.T) {
	app := fiber.New()
	app.Get("/", Entry)

	redirectOf := func(token string) string {
		status, body := doRequest(t, app, "/", token)
		require.Equal(t, fiber.StatusOK, status)
		data, ok := body["data"].(map[string]any)
		require.True(t, ok)
		redirect, _ := data["redirect"].(string)
		return redirect
	}

	assert.Equal(t, "/login", redirectOf(""))

	token, err := GenerateJWT(editorAssertion())
	require.NoError(t, err)
	assert.Equal(t, "/documents", redirectOf(token))

	token, err = GenerateJWT(unselectedAssertion())
	require.NoError(t, err)
	assert.Equal(t, "/domains/select", redirectOf(token))
}

func TestTokenRoundTripPreservesAssertion(t *testing.T) {
	app := fiber.New()
	app.Get("/whoami", JWTMiddleware, func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", SessionFromCtx(c))
	})

	token, err := GenerateJWT(editorAssertion())
	require.NoError(t, err)

	status, body := doRequest(t, app, "/whoami", token)
	require.Equal(t, fiber.StatusOK, status)

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "editor1", data["username"])

	current, ok := data["currentDomain"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "editor", current["roleName"])
}
