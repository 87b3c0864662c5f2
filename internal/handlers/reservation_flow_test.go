package handlers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Recorre el ciclo completo: publicar, reservar, pagar, código y retiro.
func TestReservationFlow(t *testing.T) {
	env := setupEnv(t)

	storeToken := env.registerStore(t, "tienda@frescos.mx", "Frutería La Central")
	anaToken := env.registerConsumer(t, "ana@correo.mx", "Ana")
	luisToken := env.registerConsumer(t, "luis@correo.mx", "Luis")

	lotID := env.createLot(t, storeToken, "Caja de manzanas")

	// El catálogo público lo lista con su tienda.
	w := env.request(t, http.MethodGet, "/api/lotes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Caja de manzanas")
	assert.Contains(t, w.Body.String(), "Frutería La Central")

	// Ana reserva.
	w = env.request(t, http.MethodPost, "/api/reservas", anaToken, gin.H{"lote_id": lotID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decode(t, w)
	assert.EqualValues(t, lotID, body["reservation_id"])
	assert.NotEmpty(t, body["hold_expires_at"])

	// Luis llega tarde: conflicto, no 404.
	w = env.request(t, http.MethodPost, "/api/reservas", luisToken, gin.H{"lote_id": lotID})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "lot_not_available", decode(t, w)["error"])

	// La tienda ya no puede editar el lote reservado.
	w = env.request(t, http.MethodPut, lotPath(lotID, ""), storeToken, gin.H{
		"rescue_price": 30,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "lot_locked", decode(t, w)["error"])

	// Luis tampoco puede pagar la reserva de Ana.
	w = env.request(t, http.MethodPost, lotPath(lotID, "pagar"), luisToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Ana paga dentro del hold.
	w = env.request(t, http.MethodPost, lotPath(lotID, "pagar"), anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	paid := decode(t, w)
	assert.Equal(t, "pagado", paid["state"])
	assert.NotEmpty(t, paid["pickup_deadline"])

	// Código de retiro: seis caracteres, estable entre llamadas.
	w = env.request(t, http.MethodPost, lotPath(lotID, "codigo-retiro"), anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	code := decode(t, w)["pickup_code"].(string)
	assert.Len(t, code, 6)

	w = env.request(t, http.MethodPost, lotPath(lotID, "codigo-retiro"), anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, code, decode(t, w)["pickup_code"])

	// La tienda rechaza un código equivocado y acepta el bueno.
	w = env.request(t, http.MethodPost, lotPath(lotID, "retirar"), storeToken, gin.H{
		"code": "NOPE99",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_pickup_code", decode(t, w)["error"])

	w = env.request(t, http.MethodPost, lotPath(lotID, "retirar"), storeToken, gin.H{
		"code": code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "retirado", decode(t, w)["state"])

	// Las reservas de Ana incluyen el lote retirado.
	w = env.request(t, http.MethodGet, "/api/reservas", anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.EqualValues(t, 1, list["total"])
}

func TestReserveUnknownLot(t *testing.T) {
	env := setupEnv(t)
	token := env.registerConsumer(t, "ana@correo.mx", "Ana")

	w := env.request(t, http.MethodPost, "/api/reservas", token, gin.H{"lote_id": 999})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "lot_not_found", decode(t, w)["error"])
}

func TestCreateLotValidation(t *testing.T) {
	env := setupEnv(t)
	token := env.registerStore(t, "tienda@frescos.mx", "La Central")

	base := gin.H{
		"name":           "Pan de ayer",
		"category":       "panaderia",
		"quantity":       3,
		"unit":           "unidades",
		"original_price": 60,
		"rescue_price":   20,
		"expires_on":     tomorrow(),
		"pickup_window":  "17:00-20:00",
	}

	post := func(mutate func(gin.H)) *decodedResponse {
		body := gin.H{}
		for k, v := range base {
			body[k] = v
		}
		mutate(body)

		w := env.request(t, http.MethodPost, "/api/lotes", token, body)
		return &decodedResponse{code: w.Code, body: decode(t, w)}
	}

	res := post(func(b gin.H) { b["category"] = "electronica" })
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "invalid_category", res.body["error"])

	res = post(func(b gin.H) { b["unit"] = "cajas" })
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "invalid_unit", res.body["error"])

	res = post(func(b gin.H) { b["rescue_price"] = 80 })
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "invalid_rescue_price", res.body["error"])

	res = post(func(b gin.H) { b["expires_on"] = "2020-01-01" })
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "expires_in_the_past", res.body["error"])

	res = post(func(b gin.H) { b["pickup_window"] = "20:00-17:00" })
	assert.Equal(t, http.StatusBadRequest, res.code)
	assert.Equal(t, "invalid_pickup_window", res.body["error"])
}

type decodedResponse struct {
	code int
	body map[string]any
}

func TestDonateFlow(t *testing.T) {
	env := setupEnv(t)
	token := env.registerStore(t, "tienda@frescos.mx", "La Central")
	lotID := env.createLot(t, token, "Verduras del día")

	w := env.request(t, http.MethodPost, lotPath(lotID, "donar"), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "donado", decode(t, w)["state"])

	// Donar dos veces no procede.
	w = env.request(t, http.MethodPost, lotPath(lotID, "donar"), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStoreMetrics(t *testing.T) {
	env := setupEnv(t)
	storeToken := env.registerStore(t, "tienda@frescos.mx", "La Central")
	anaToken := env.registerConsumer(t, "ana@correo.mx", "Ana")

	paidID := env.createLot(t, storeToken, "Caja de manzanas")
	env.createLot(t, storeToken, "Pan de ayer")

	w := env.request(t, http.MethodPost, "/api/reservas", anaToken, gin.H{"lote_id": paidID})
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.request(t, http.MethodPost, lotPath(paidID, "pagar"), anaToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.request(t, http.MethodGet, "/api/tienda/me/metrics", storeToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	metrics := decode(t, w)
	assert.EqualValues(t, 2, metrics["total_lots"])
	assert.EqualValues(t, 40, metrics["revenue"])
	assert.EqualValues(t, 5, metrics["rescued_kg"])

	byState := metrics["by_state"].(map[string]any)
	assert.EqualValues(t, 1, byState["pagado"])
	assert.EqualValues(t, 1, byState["disponible"])
}
