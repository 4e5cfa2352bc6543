package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/casesync/casesync/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// withClaims plants a verified-token local the way the JWT middleware
// does, so the role gate can be tested in isolation.
func withClaims(claims jwt.MapClaims) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: claims})
		return c.Next()
	}
}

func newRoleTestApp(claims jwt.MapClaims, roles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{}
	if claims != nil {
		handlers = append(handlers, withClaims(claims))
	}
	handlers = append(handlers, RequireRole(roles...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/gated", handlers...)
	return app
}

func TestRequireRoleAllows(t *testing.T) {
	app := newRoleTestApp(jwt.MapClaims{
		"sub": "7", "username": "casey", "role": models.RoleCaseManager,
	}, models.RoleCaseManager, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest("GET", "/gated", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestRequireRoleForbidsWrongRole(t *testing.T) {
	app := newRoleTestApp(jwt.MapClaims{
		"sub": "7", "username": "casey", "role": models.RoleCaseManager,
	}, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest("GET", "/gated", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
}

func TestRequireRoleRejectsMissingSession(t *testing.T) {
	app := newRoleTestApp(nil, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest("GET", "/gated", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}

func TestRequireRoleRejectsMalformedSubject(t *testing.T) {
	app := newRoleTestApp(jwt.MapClaims{
		"sub": "not-a-number", "role": models.RoleAdmin,
	}, models.RoleAdmin)

	resp, err := app.Test(httptest.NewRequest("GET", "/gated", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
