package routes_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rewearhq/rewear/app/models"
	"github.com/rewearhq/rewear/app/routes"
	"github.com/rewearhq/rewear/pkg/database"
	"github.com/rewearhq/rewear/pkg/router"
	"github.com/rewearhq/rewear/pkg/testkit"
	"github.com/rewearhq/rewear/pkg/ws"
)

type envelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Category{},
		&models.Item{}, &models.ItemImage{}, &models.ItemTag{},
		&models.Swap{}, &models.PointsTransaction{},
		&models.Redemption{}, &models.Message{},
	))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
	})

	r := router.New()
	routes.RegisterAPI(r, ws.NewHub())
	return r.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func signup(t *testing.T, h http.Handler, email string) string {
	t.Helper()
	rec, env := doJSON(t, h, http.MethodPost, "/api/users", "", map[string]string{
		"full_name": "Route Tester",
		"email":     email,
		"password":  "long-enough-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)
	rec, env := doJSON(t, h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
}

func TestSignupAndDuplicate(t *testing.T) {
	h := newTestServer(t)

	signup(t, h, "route@example.com")

	rec, env := doJSON(t, h, http.MethodPost, "/api/users", "", map[string]string{
		"full_name": "Route Tester",
		"email":     "route@example.com",
		"password":  "long-enough-pass",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already registered", env.Message)
}

func TestSignupValidation(t *testing.T) {
	h := newTestServer(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/users", "", map[string]string{
		"full_name": "X",
		"email":     "not-an-email",
		"password":  "short",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
}

func TestLoginRoundTrip(t *testing.T) {
	h := newTestServer(t)
	signup(t, h, "login@example.com")

	rec, _ := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "long-enough-pass",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "login@example.com",
		"password": "wrong-password!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newTestServer(t)

	rec, _ := doJSON(t, h, http.MethodGet, "/api/swaps", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doJSON(t, h, http.MethodPost, "/api/items", "bogus.jwt.token", map[string]string{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The public catalog stays open.
	rec, _ = doJSON(t, h, http.MethodGet, "/api/items", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireRole(t *testing.T) {
	h := newTestServer(t)
	token := signup(t, h, "plain@example.com")

	rec, _ := doJSON(t, h, http.MethodPost, "/api/categories", token, map[string]string{
		"name": "Outerwear",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = doJSON(t, h, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestItemLifecycleOverHTTP(t *testing.T) {
	h := newTestServer(t)
	token := signup(t, h, "lister@example.com")

	rec, env := doJSON(t, h, http.MethodPost, "/api/items", token, map[string]interface{}{
		"title":       "Corduroy Trousers",
		"description": "Brown, size M",
		"condition":   "Good",
		"point_cost":  18,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.Item
	require.NoError(t, json.Unmarshal(env.Data, &item))
	assert.False(t, item.IsApproved)

	// Unapproved items 404 for other users (and anonymous readers).
	rec, _ = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/items/%d", item.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// The lister sees their own pending listing.
	rec, _ = doJSON(t, h, http.MethodGet, "/api/items/mine", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGraphQLCatalogQuery(t *testing.T) {
	h := newTestServer(t)

	rec, _ := doJSON(t, h, http.MethodPost, "/api/graphql", "", map[string]string{
		"query": `{ categories { id name } }`,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "categories")
}

// The fixtures directory holds scenario files for the surface that needs
// no seeded data. Anything stateful stays in the handler tests above.
func TestScenarioFixtures(t *testing.T) {
	testkit.RunDir(t, newTestServer(t), "fixtures")
}
