package middleware

import (
	"net/http/httptest"
	"testing"

	icuser "github.com/TorbenVoss/MemberFox/internal/pkg/usercontext"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestApp(loggedIn, admin bool) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(icuser.KeyFromProtected, loggedIn)
		c.Locals(icuser.KeyIsAdmin, admin)
		return c.Next()
	})
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/protected", RequireAuth, ok)
	app.Get("/admin", RequireAdmin, ok)
	app.Get("/api/billing", RequireAPISessionAuth, ok)
	return app
}

func TestRequireAuth(t *testing.T) {
	app := newAuthTestApp(false, false)
	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	app = newAuthTestApp(true, false)
	resp, err = app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAdmin(t *testing.T) {
	app := newAuthTestApp(true, false)
	resp, err := app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	app = newAuthTestApp(true, true)
	resp, err = app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireAPISessionAuthReturnsJSON401(t *testing.T) {
	app := newAuthTestApp(false, false)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/billing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Location"), "API guard must not redirect")

	app = newAuthTestApp(true, false)
	resp, err = app.Test(httptest.NewRequest("GET", "/api/billing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
