package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rescatefresco/rescate-fresco/internal/audit"
	"github.com/rescatefresco/rescate-fresco/internal/cache"
	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/middleware"
	"github.com/rescatefresco/rescate-fresco/internal/models"
	"github.com/rescatefresco/rescate-fresco/internal/timezone"
	uclot "github.com/rescatefresco/rescate-fresco/internal/usecase/lot"
	"github.com/rescatefresco/rescate-fresco/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type LotHandler struct {
	db      *gorm.DB
	repo    domain.Repository
	catalog *cache.Catalog
	audit   *audit.Dispatcher

	getUC     *uclot.GetLot
	confirmUC *uclot.ConfirmPickup
	donateUC  *uclot.DonateLot
}

func NewLotHandler(
	db *gorm.DB,
	repo domain.Repository,
	catalog *cache.Catalog,
	auditDispatcher *audit.Dispatcher,
	getUC *uclot.GetLot,
	confirmUC *uclot.ConfirmPickup,
	donateUC *uclot.DonateLot,
) *LotHandler {
	return &LotHandler{
		db:        db,
		repo:      repo,
		catalog:   catalog,
		audit:     auditDispatcher,
		getUC:     getUC,
		confirmUC: confirmUC,
		donateUC:  donateUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateLotRequest struct {
	Name           string   `json:"name" binding:"required"`
	Category       string   `json:"category" binding:"required"`
	Description    string   `json:"description"`
	Quantity       float64  `json:"quantity" binding:"required,gt=0"`
	Unit           string   `json:"unit" binding:"required"`
	OriginalPrice  float64  `json:"original_price" binding:"required,gt=0"`
	RescuePrice    float64  `json:"rescue_price" binding:"required,gt=0"`
	ExpiresOn      string   `json:"expires_on" binding:"required"` // YYYY-MM-DD
	PickupWindow   string   `json:"pickup_window" binding:"required"`
	PickupLocation string   `json:"pickup_location"`
	Photos         []string `json:"photos"`
}

type UpdateLotRequest struct {
	Name           *string  `json:"name,omitempty"`
	Category       *string  `json:"category,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Quantity       *float64 `json:"quantity,omitempty"`
	Unit           *string  `json:"unit,omitempty"`
	OriginalPrice  *float64 `json:"original_price,omitempty"`
	RescuePrice    *float64 `json:"rescue_price,omitempty"`
	ExpiresOn      *string  `json:"expires_on,omitempty"`
	PickupWindow   *string  `json:"pickup_window,omitempty"`
	PickupLocation *string  `json:"pickup_location,omitempty"`
}

type ConfirmPickupRequest struct {
	Code string `json:"code" binding:"required"`
}

// ======================================================
// LIST (public, cached)
// ======================================================

func (h *LotHandler) List(c *gin.Context) {
	query := strings.ToLower(strings.TrimSpace(c.Query("query")))
	category := strings.ToLower(strings.TrimSpace(c.Query("categoria")))
	expiresAfterStr := strings.TrimSpace(c.Query("vence_despues"))

	filters := domain.Filters{
		Query:    query,
		Category: category,
	}

	if expiresAfterStr != "" {
		after, err := time.ParseInLocation(
			"2006-01-02",
			expiresAfterStr,
			timezone.Location(timezone.DefaultTimezone),
		)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
			return
		}
		filters.ExpiresAfter = &after
	}

	ctx := c.Request.Context()
	key := h.catalog.Key(ctx, cache.FilterKey(query, category, expiresAfterStr))

	var lots []models.Lot
	if h.catalog.Get(ctx, key, &lots) {
		c.JSON(http.StatusOK, lots)
		return
	}

	lots, err := h.repo.ListAvailable(ctx, filters)
	if err != nil {
		httperr.Internal(c, "failed_to_list_lots", "Error al listar lotes.")
		return
	}

	h.catalog.Set(ctx, key, lots)

	c.JSON(http.StatusOK, lots)
}

// ======================================================
// GET (lazy hold release)
// ======================================================

func (h *LotHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Id inválido.")
		return
	}

	l, err := h.getUC.Execute(c.Request.Context(), id)
	if err != nil {
		if httperr.IsBusiness(err, "lot_not_found") {
			httperr.NotFound(c, "lot_not_found", "Lote no encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_lot", "Error al obtener el lote.")
		return
	}

	c.JSON(http.StatusOK, l)
}

// ======================================================
// CREATE (tienda)
// ======================================================

func (h *LotHandler) Create(c *gin.Context) {
	storeID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	category := strings.ToLower(strings.TrimSpace(req.Category))
	unit := strings.ToLower(strings.TrimSpace(req.Unit))

	if !validators.IsValidCategory(category) {
		httperr.BadRequest(c, "invalid_category", "Categoría inválida.")
		return
	}
	if !validators.IsValidUnit(unit) {
		httperr.BadRequest(c, "invalid_unit", "Unidad inválida.")
		return
	}

	expiresOn, err := time.ParseInLocation(
		"2006-01-02",
		req.ExpiresOn,
		timezone.Location(timezone.DefaultTimezone),
	)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha de caducidad inválida.")
		return
	}

	l := models.Lot{
		StoreID:        storeID,
		Name:           req.Name,
		Category:       category,
		Description:    req.Description,
		Quantity:       req.Quantity,
		Unit:           unit,
		OriginalPrice:  req.OriginalPrice,
		RescuePrice:    req.RescuePrice,
		ExpiresOn:      expiresOn,
		PickupWindow:   strings.TrimSpace(req.PickupWindow),
		PickupLocation: req.PickupLocation,
		Photos:         models.PhotoURLs(req.Photos),
		State:          string(domain.InitialState()),
	}

	if err := domain.ValidateNew(&l, timezone.Now()); err != nil {
		mapBusinessError(c, err)
		return
	}

	if err := h.repo.CreateLot(c.Request.Context(), &l); err != nil {
		httperr.Internal(c, "failed_to_create_lot", "Error al crear el lote.")
		return
	}

	h.catalog.Invalidate(c.Request.Context())

	h.audit.Dispatch(audit.Event{
		StoreID:  storeID,
		UserID:   &storeID,
		Action:   "lot_created",
		Entity:   "lot",
		EntityID: &l.ID,
	})

	c.JSON(http.StatusCreated, l)
}

// ======================================================
// UPDATE (tienda, sólo disponible)
// ======================================================

func (h *LotHandler) Update(c *gin.Context) {
	storeID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var l models.Lot
	if err := h.db.
		Where("id = ? AND store_id = ?", id, storeID).
		First(&l).Error; err != nil {

		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "lot_not_found", "Lote no encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_lot", "Error al obtener el lote.")
		return
	}

	if err := domain.CanUpdate(domain.State(l.State)); err != nil {
		httperr.Conflict(c, "lot_locked", "El lote ya no se puede editar.")
		return
	}

	var req UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if req.Name != nil {
		l.Name = *req.Name
	}
	if req.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*req.Category))
		if !validators.IsValidCategory(category) {
			httperr.BadRequest(c, "invalid_category", "Categoría inválida.")
			return
		}
		l.Category = category
	}
	if req.Description != nil {
		l.Description = *req.Description
	}
	if req.Quantity != nil {
		l.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		unit := strings.ToLower(strings.TrimSpace(*req.Unit))
		if !validators.IsValidUnit(unit) {
			httperr.BadRequest(c, "invalid_unit", "Unidad inválida.")
			return
		}
		l.Unit = unit
	}
	if req.OriginalPrice != nil {
		l.OriginalPrice = *req.OriginalPrice
	}
	if req.RescuePrice != nil {
		l.RescuePrice = *req.RescuePrice
	}
	if req.ExpiresOn != nil {
		expiresOn, err := time.ParseInLocation(
			"2006-01-02",
			*req.ExpiresOn,
			timezone.Location(timezone.DefaultTimezone),
		)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Fecha de caducidad inválida.")
			return
		}
		l.ExpiresOn = expiresOn
	}
	if req.PickupWindow != nil {
		l.PickupWindow = strings.TrimSpace(*req.PickupWindow)
	}
	if req.PickupLocation != nil {
		l.PickupLocation = *req.PickupLocation
	}

	if err := domain.ValidateNew(&l, timezone.Now()); err != nil {
		mapBusinessError(c, err)
		return
	}

	ok, err := h.repo.SaveLotIfAvailable(c.Request.Context(), &l)
	if err != nil {
		httperr.Internal(c, "failed_to_update_lot", "Error al actualizar el lote.")
		return
	}
	if !ok {
		// Una reserva pudo llegar entre la lectura y la escritura.
		httperr.Conflict(c, "lot_locked", "El lote ya no se puede editar.")
		return
	}

	h.catalog.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, l)
}

// ======================================================
// DELETE (tienda)
// ======================================================

func (h *LotHandler) Delete(c *gin.Context) {
	storeID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Id inválido.")
		return
	}

	deleted, err := h.repo.DeleteLot(c.Request.Context(), id, storeID)
	if err != nil {
		httperr.Internal(c, "failed_to_delete_lot", "Error al eliminar el lote.")
		return
	}
	if !deleted {
		httperr.NotFound(c, "lot_not_found", "Lote no encontrado.")
		return
	}

	h.catalog.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// CONFIRM PICKUP (tienda)
// ======================================================

func (h *LotHandler) ConfirmPickup(c *gin.Context) {
	storeID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Id inválido.")
		return
	}

	var req ConfirmPickupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	l, err := h.confirmUC.Execute(
		c.Request.Context(),
		id,
		storeID,
		strings.ToUpper(strings.TrimSpace(req.Code)),
	)
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, l)
}

// ======================================================
// DONATE (tienda)
// ======================================================

func (h *LotHandler) Donate(c *gin.Context) {
	storeID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Id inválido.")
		return
	}

	l, err := h.donateUC.Execute(c.Request.Context(), id, storeID)
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	h.catalog.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, l)
}

// ======================================================
// HELPERS
// ======================================================

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	return uint(id), err
}

// mapBusinessError traduce los códigos del dominio a respuestas HTTP.
func mapBusinessError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "lot_not_found"):
		httperr.NotFound(c, "lot_not_found", "Lote no encontrado.")
	case httperr.IsBusiness(err, "lot_not_available"):
		httperr.Conflict(c, "lot_not_available", "El lote ya no está disponible.")
	case httperr.IsBusiness(err, "lot_not_reserved"):
		httperr.BadRequest(c, "lot_not_reserved", "El lote no está reservado.")
	case httperr.IsBusiness(err, "hold_expired"):
		httperr.BadRequest(c, "hold_expired", "La reserva caducó, vuelve a reservar.")
	case httperr.IsBusiness(err, "lot_not_paid"):
		httperr.BadRequest(c, "lot_not_paid", "El lote no está pagado.")
	case httperr.IsBusiness(err, "invalid_pickup_code"):
		httperr.BadRequest(c, "invalid_pickup_code", "Código de retiro incorrecto.")
	case httperr.IsBusiness(err, "invalid_pickup_window"):
		httperr.BadRequest(c, "invalid_pickup_window", "Ventana de retiro inválida.")
	case httperr.IsBusiness(err, "invalid_quantity"):
		httperr.BadRequest(c, "invalid_quantity", "La cantidad debe ser positiva.")
	case httperr.IsBusiness(err, "invalid_rescue_price"):
		httperr.BadRequest(c, "invalid_rescue_price", "El precio de rescate debe ser menor al original.")
	case httperr.IsBusiness(err, "expires_in_the_past"):
		httperr.BadRequest(c, "expires_in_the_past", "La fecha de caducidad ya pasó.")
	case httperr.IsBusiness(err, "invalid_state"):
		httperr.Conflict(c, "invalid_state", "El estado del lote no permite la operación.")
	default:
		httperr.Internal(c, "internal_error", "Error interno.")
	}
}
