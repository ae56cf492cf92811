package http_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provgso/requisition-api/internal/domain/entity"
	httpiface "github.com/provgso/requisition-api/internal/interfaces/http"
	"github.com/provgso/requisition-api/pkg/jwt"
)

func protectedApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", httpiface.AuthMiddleware(secret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"actor_id": httpiface.GetActorID(c),
			"role":     httpiface.GetRole(c),
		})
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req, err := http.NewRequest("GET", "/whoami", nil)
	require.NoError(t, err)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	app := protectedApp(testSecret)
	tok, err := jwt.Generate(testSecret, "officer-cruz", entity.RoleSupplyOfficer, "requisition-api-test", 5)
	require.NoError(t, err)

	resp := whoami(t, app, "Bearer "+tok)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var body struct {
		ActorID string `json:"actor_id"`
		Role    string `json:"role"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "officer-cruz", body.ActorID)
	assert.Equal(t, entity.RoleSupplyOfficer, body.Role)
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	app := protectedApp(testSecret)
	valid, err := jwt.Generate(testSecret, "alice", entity.RoleStaff, "requisition-api-test", 5)
	require.NoError(t, err)
	foreign, err := jwt.Generate("another-secret", "alice", entity.RoleStaff, "requisition-api-test", 5)
	require.NoError(t, err)
	expired, err := jwt.Generate(testSecret, "alice", entity.RoleStaff, "requisition-api-test", -5)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", "MISSING_TOKEN"},
		{"not bearer", "Basic abc123", "INVALID_TOKEN"},
		{"empty token", "Bearer ", "MISSING_TOKEN"},
		{"garbage token", "Bearer not-a-jwt", "INVALID_TOKEN"},
		{"wrong secret", "Bearer " + foreign, "INVALID_TOKEN"},
		{"expired", "Bearer " + expired, "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := whoami(t, app, tc.header)
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, tc.code, errorCode(t, resp))
		})
	}

	t.Run("case insensitive scheme", func(t *testing.T) {
		resp := whoami(t, app, "bearer "+valid)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		resp.Body.Close()
	})
}
