package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"partnerdesk-backend/internal/config"
	"partnerdesk-backend/internal/database"
	"partnerdesk-backend/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		HTTPPort:    "0",
		JWTSecret:   strings.Repeat("s", 32),
		CORSOrigins: "http://localhost",
		ImportDir:   t.TempDir(),
	}
	return server.New(db, cfg)
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/api/auth/register-admin", map[string]string{
		"name": "Admin", "email": "admin@example.com", "password": "secret-password",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Only the first admin may bootstrap itself.
	resp = postJSON(t, app, "/api/auth/register-admin", map[string]string{
		"name": "Second", "email": "second@example.com", "password": "secret-password",
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "admin@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postJSON(t, app, "/api/auth/login", map[string]string{
		"email": "admin@example.com", "password": "secret-password",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
	}
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &login))
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	meResp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)

	var me map[string]any
	b, err = io.ReadAll(meResp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, &me))
	assert.Equal(t, "admin@example.com", me["email"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/audit-logs", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
