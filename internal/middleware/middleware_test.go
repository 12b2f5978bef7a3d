package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/officedesk/internal/config"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/database/dbtest"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/models"
	"github.com/ahmetcoskunkizilkaya/officedesk/internal/org"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCfg = &config.Config{
	JWTSecret:     "test-secret",
	SessionCookie: "officedesk_session",
	AdminToken:    "admin-token",
	AdminPhones:   "1111111111, 2222222222",
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testCfg.JWTSecret))
	require.NoError(t, err)
	return s
}

func newApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	all := append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"org": org.GetOrgID(c)})
	})
	app.Get("/", all...)
	return app
}

func body(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestSessionRequired(t *testing.T) {
	app := newApp(SessionRequired(testCfg))
	token := sign(t, jwt.MapClaims{"sub": "u1"})

	t.Run("missing", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Contains(t, body(t, resp)["error"], "Unauthorized")
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("bearer scheme is case insensitive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "bearer "+token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("header without scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: testCfg.SessionCookie, Value: token})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("expired", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+sign(t, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Minute).Unix()}))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestOrgContext(t *testing.T) {
	app := newApp(SessionRequired(testCfg), OrgContext(org.Defaults()))

	tests := []struct {
		name    string
		claims  jwt.MapClaims
		header  string
		status  int
		wantOrg string
	}{
		{"claim wins", jwt.MapClaims{"sub": "u1", "org_id": org.SecondaryID}, org.DefaultID, http.StatusOK, org.SecondaryID},
		{"header", jwt.MapClaims{"sub": "u1"}, org.SecondaryID, http.StatusOK, org.SecondaryID},
		{"default", jwt.MapClaims{"sub": "u1"}, "", http.StatusOK, org.DefaultID},
		{"unknown claim falls through", jwt.MapClaims{"sub": "u1", "org_id": "gone"}, "", http.StatusOK, org.DefaultID},
		{"unknown header", jwt.MapClaims{"sub": "u1"}, "nowhere", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+sign(t, tt.claims))
			if tt.header != "" {
				req.Header.Set("X-Org-ID", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.wantOrg != "" {
				assert.Equal(t, tt.wantOrg, body(t, resp)["org"])
			}
		})
	}
}

func TestAdminRequired(t *testing.T) {
	db := dbtest.Open(t, &models.User{})
	require.NoError(t, db.Create(&models.User{ID: "boss", Phone: "3333333333", Name: "Boss", Role: models.RoleAdmin, OrgID: "office", Password: "x"}).Error)
	require.NoError(t, db.Create(&models.User{ID: "pa", Phone: "4444444444", Name: "PA", Role: models.RoleStaff, OrgID: "office", Password: "x"}).Error)

	app := fiber.New()
	app.Get("/token", AdminRequired(db, testCfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })
	app.Get("/", SessionRequired(testCfg), AdminRequired(db, testCfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/token", nil)
	req.Header.Set("X-Admin-Token", "admin-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/token", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	tests := []struct {
		name   string
		claims jwt.MapClaims
		status int
	}{
		{"listed phone", jwt.MapClaims{"sub": "someone", "phone": "2222222222"}, http.StatusOK},
		{"admin role in db", jwt.MapClaims{"sub": "boss", "phone": "3333333333"}, http.StatusOK},
		{"staff", jwt.MapClaims{"sub": "pa", "phone": "4444444444"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+sign(t, tt.claims))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestFeatureRequired(t *testing.T) {
	registry := org.Defaults()
	app := newApp(OrgContext(registry), FeatureRequired(registry, "import"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Org-ID", org.SecondaryID)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body(t, resp)["error"], "import")
}

func TestAdminSession_TokenSkipsSession(t *testing.T) {
	db := dbtest.Open(t, &models.User{})
	app := fiber.New()
	app.Get("/", AdminSession(testCfg), AdminRequired(db, testCfg), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Admin-Token", "admin-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Admin-Token", "wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
