package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterStore(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":         "Tienda@Frescos.MX",
		"password":      "secret123",
		"role":          "tienda",
		"store_name":    "Frutería La Central",
		"store_address": "Av. Central 123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.NotEmpty(t, body["token"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "tienda@frescos.mx", user["email"])
	assert.Equal(t, "tienda", user["role"])
	assert.Equal(t, "Frutería La Central", user["display_name"])
}

func TestRegisterConsumerRequiresName(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "ana@correo.mx",
		"password": "secret123",
		"role":     "consumidor",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_name", decode(t, w)["error"])
}

func TestRegisterStoreRequiresStoreName(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "tienda@frescos.mx",
		"password": "secret123",
		"role":     "tienda",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing_store_name", decode(t, w)["error"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := setupEnv(t)
	env.registerConsumer(t, "ana@correo.mx", "Ana")

	w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "ANA@correo.mx",
		"password": "secret123",
		"role":     "consumidor",
		"name":     "Ana",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email_already_exists", decode(t, w)["error"])
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "ana@correo.mx",
		"password": "secret123",
		"role":     "admin",
		"name":     "Ana",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	env := setupEnv(t)
	env.registerConsumer(t, "ana@correo.mx", "Ana")

	w := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ana@correo.mx",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, decode(t, w)["token"])
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupEnv(t)
	env.registerConsumer(t, "ana@correo.mx", "Ana")

	w := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "ana@correo.mx",
		"password": "otra-cosa",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid_credentials", decode(t, w)["error"])
}

func TestLoginUnknownEmail(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nadie@correo.mx",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupEnv(t)

	w := env.request(t, http.MethodPost, "/api/reservas", "", gin.H{"lote_id": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/reservas", "no-es-un-jwt", gin.H{"lote_id": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleSeparation(t *testing.T) {
	env := setupEnv(t)
	storeToken := env.registerStore(t, "tienda@frescos.mx", "La Central")
	consumerToken := env.registerConsumer(t, "ana@correo.mx", "Ana")

	// Un consumidor no publica lotes.
	w := env.request(t, http.MethodPost, "/api/lotes", consumerToken, gin.H{})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Una tienda no reserva.
	w = env.request(t, http.MethodPost, "/api/reservas", storeToken, gin.H{"lote_id": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
