package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rescatefresco/rescate-fresco/internal/cache"
	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/httpresp"
	"github.com/rescatefresco/rescate-fresco/internal/middleware"
	uclot "github.com/rescatefresco/rescate-fresco/internal/usecase/lot"
)

// ======================================================
// HANDLER
// ======================================================

// El id de reserva es el id del lote: reservar devuelve el lote tomado.

type ReservationHandler struct {
	repo    domain.Repository
	catalog *cache.Catalog

	reserveUC *uclot.ReserveLot
	payUC     *uclot.PayLot
	codeUC    *uclot.IssuePickupCode
}

func NewReservationHandler(
	repo domain.Repository,
	catalog *cache.Catalog,
	reserveUC *uclot.ReserveLot,
	payUC *uclot.PayLot,
	codeUC *uclot.IssuePickupCode,
) *ReservationHandler {
	return &ReservationHandler{
		repo:      repo,
		catalog:   catalog,
		reserveUC: reserveUC,
		payUC:     payUC,
		codeUC:    codeUC,
	}
}

type CreateReservationRequest struct {
	LotID uint `json:"lote_id" binding:"required"`
}

// ======================================================
// RESERVE
// ======================================================

func (h *ReservationHandler) Create(c *gin.Context) {
	consumerID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	l, err := h.reserveUC.Execute(c.Request.Context(), req.LotID, consumerID)
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	h.catalog.Invalidate(c.Request.Context())

	c.JSON(http.StatusCreated, gin.H{
		"reservation_id":  l.ID,
		"lot":             l,
		"hold_expires_at": l.HoldExpiresAt,
	})
}

// ======================================================
// LIST (reservas del consumidor)
// ======================================================

func (h *ReservationHandler) List(c *gin.Context) {
	consumerID := c.MustGet(middleware.ContextUserID).(uint)

	lots, err := h.repo.ListByConsumer(c.Request.Context(), consumerID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_reservations", "Error al listar reservas.")
		return
	}

	httpresp.List(c, lots)
}

// ======================================================
// PAY
// ======================================================

func (h *ReservationHandler) Pay(c *gin.Context) {
	consumerID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Id inválido.")
		return
	}

	l, err := h.payUC.Execute(c.Request.Context(), uclot.PayLotInput{
		LotID:      id,
		ConsumerID: consumerID,
	})
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	h.catalog.Invalidate(c.Request.Context())

	c.JSON(http.StatusOK, l)
}

// ======================================================
// PICKUP CODE
// ======================================================

func (h *ReservationHandler) IssueCode(c *gin.Context) {
	consumerID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Id inválido.")
		return
	}

	l, err := h.codeUC.Execute(c.Request.Context(), id, consumerID)
	if err != nil {
		mapBusinessError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"lot_id":          l.ID,
		"pickup_code":     l.PickupCode,
		"pickup_deadline": l.PickupDeadline,
	})
}
