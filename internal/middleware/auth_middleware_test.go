package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-cdms-inventory/internal/config"
	"go-cdms-inventory/internal/model"
	"go-cdms-inventory/internal/repository"
	"go-cdms-inventory/internal/response"
	"go-cdms-inventory/internal/service"
	"go-cdms-inventory/internal/testutil"
	"go-cdms-inventory/pkg/jwt"
	"go-cdms-inventory/pkg/logger"
)

func TestRequireAuthAndRoles(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := jwt.NewManager(config.JWTConfig{Secret: "mw-secret", ExpiresIn: time.Hour})
	auth := service.NewAuthService(repository.NewUserRepo(db), tokens, nil, logger.Discard())

	auditor := testutil.CreateUser(t, db, "auditor", model.RoleAuditor)
	operator := testutil.CreateUser(t, db, "operator", model.RoleWarehouseOperator)
	tokenFor := func(u *model.User) string {
		token, err := tokens.GenerateToken(u.ID, u.Username, u.Role.String())
		require.NoError(t, err)
		return token
	}

	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(logger.Discard(), false)})
	app.Get("/audit", RequireAuth(auth), RequireRoles(auth, model.RoleAdmin, model.RoleAuditor), func(c *fiber.Ctx) error {
		return c.SendString(CurrentUser(c).Username)
	})

	tests := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"missing header", "", 401, "Access token not found"},
		{"wrong scheme", "Basic abc", 401, "Invalid token"},
		{"garbage token", "Bearer abc.def.ghi", 401, "Invalid token"},
		{"role not allowed", "Bearer " + tokenFor(operator), 403, "Unauthorized access"},
		{"allowed", "bearer " + tokenFor(auditor), 200, "auditor"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/audit", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)
			assert.Contains(t, string(body), tt.body)
		})
	}
}

func TestRequireAuthDropsPasswordHash(t *testing.T) {
	db := testutil.NewDB(t)
	tokens := jwt.NewManager(config.JWTConfig{Secret: "mw-secret", ExpiresIn: time.Hour})
	auth := service.NewAuthService(repository.NewUserRepo(db), tokens, nil, logger.Discard())

	user := testutil.CreateUser(t, db, "customs", model.RoleCustoms)
	token, err := tokens.GenerateToken(user.ID, user.Username, user.Role.String())
	require.NoError(t, err)

	var seen *model.User
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler(logger.Discard(), false)})
	app.Get("/", RequireAuth(auth), func(c *fiber.Ctx) error {
		seen = CurrentUser(c)
		return c.SendStatus(204)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, 204, resp.StatusCode)

	require.NotNil(t, seen)
	assert.Equal(t, user.ID, seen.ID)
	assert.Equal(t, model.RoleCustoms, seen.Role)
	assert.Empty(t, seen.Password)
}

func TestCurrentUserOnPublicRoute(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		assert.Nil(t, CurrentUser(c))
		return c.SendStatus(204)
	})
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
