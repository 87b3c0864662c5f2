package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rescatefresco/rescate-fresco/internal/cache"
	"github.com/rescatefresco/rescate-fresco/internal/config"
	"github.com/rescatefresco/rescate-fresco/internal/routes"
	"github.com/rescatefresco/rescate-fresco/internal/testutil"
)

// testEnv levanta el router completo sobre SQLite y miniredis.
type testEnv struct {
	router *gin.Engine
	testDB *testutil.TestDatabase
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	testDB := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { testDB.Teardown(t) })

	_, redisClient := testutil.SetupTestRedis(t)

	cfg := &config.Config{
		Env:       "test",
		JWTSecret: "test-secret",
	}

	r := gin.New()
	routes.RegisterRoutes(r, routes.Deps{
		DB:      testDB.DB,
		Cfg:     cfg,
		Catalog: cache.NewCatalog(redisClient),
		Log:     zap.NewNop(),
	})

	return &testEnv{router: r, testDB: testDB}
}

func (e *testEnv) request(
	t *testing.T,
	method, path, token string,
	body any,
) *httptest.ResponseRecorder {
	t.Helper()

	var buf io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// registerStore crea una tienda vía la API y devuelve su token.
func (e *testEnv) registerStore(t *testing.T, email, storeName string) string {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":      email,
		"password":   "secret123",
		"role":       "tienda",
		"store_name": storeName,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode(t, w)["token"].(string)
}

func (e *testEnv) registerConsumer(t *testing.T, email, name string) string {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "secret123",
		"role":     "consumidor",
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return decode(t, w)["token"].(string)
}

// createLot publica un lote con la tienda autenticada y devuelve su id.
func (e *testEnv) createLot(t *testing.T, token, name string) uint {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/lotes", token, gin.H{
		"name":           name,
		"category":       "frutas",
		"quantity":       5,
		"unit":           "kg",
		"original_price": 100,
		"rescue_price":   40,
		"expires_on":     tomorrow(),
		"pickup_window":  "10:00-13:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	return uint(decode(t, w)["id"].(float64))
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func lotPath(id uint, action string) string {
	if action == "" {
		return fmt.Sprintf("/api/lotes/%d", id)
	}
	return fmt.Sprintf("/api/lotes/%d/%s", id, action)
}
