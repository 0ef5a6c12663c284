package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roamline/roamline/internal/pkg/env"
)

func adminTestApp(t *testing.T, token string) *fiber.App {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.MinCost)
	require.NoError(t, err)

	env.Env = map[string]string{"ADMIN_TOKEN_HASH": string(hash)}
	t.Cleanup(func() { env.Env = nil })

	app := fiber.New()
	app.Get("/admin/ping", AdminAuthMiddleware(), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})
	return app
}

func TestAdminAuthAcceptsValidBearerToken(t *testing.T) {
	app := adminTestApp(t, "s3cret")

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminAuthAcceptsHeaderToken(t *testing.T) {
	app := adminTestApp(t, "s3cret")

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("X-Admin-Token", "s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminAuthRejectsWrongToken(t *testing.T) {
	app := adminTestApp(t, "s3cret")

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer guess")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	app := adminTestApp(t, "s3cret")

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminAuthFailsClosedWithoutHash(t *testing.T) {
	app := adminTestApp(t, "s3cret")
	env.Env = map[string]string{}

	req := httptest.NewRequest("GET", "/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer s3cret")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
