package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/httpresp"
	"github.com/rescatefresco/rescate-fresco/internal/middleware"
	"github.com/rescatefresco/rescate-fresco/internal/models"
)

type StoreHandler struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewStoreHandler(db *gorm.DB, repo domain.Repository) *StoreHandler {
	return &StoreHandler{db: db, repo: repo}
}

// ======================================================
// ME
// ======================================================

func (h *StoreHandler) Me(c *gin.Context) {
	storeID := c.MustGet(middleware.ContextUserID).(uint)

	store, err := h.repo.GetStore(c.Request.Context(), storeID)
	if err != nil {
		httperr.NotFound(c, "store_not_found", "Tienda no encontrada.")
		return
	}

	c.JSON(http.StatusOK, store)
}

// ======================================================
// MY LOTS (todos los estados)
// ======================================================

func (h *StoreHandler) MyLots(c *gin.Context) {
	storeID := c.MustGet(middleware.ContextUserID).(uint)

	state := domain.State(c.Query("estado"))

	lots, err := h.repo.ListByStore(c.Request.Context(), storeID, state)
	if err != nil {
		httperr.Internal(c, "failed_to_list_lots", "Error al listar lotes.")
		return
	}

	httpresp.List(c, lots)
}

// ======================================================
// METRICS (panel de la tienda)
// ======================================================

type stateCount struct {
	State string `json:"state"`
	Count int64  `json:"count"`
}

func (h *StoreHandler) Metrics(c *gin.Context) {
	storeID := c.MustGet(middleware.ContextUserID).(uint)

	var byState []stateCount
	if err := h.db.
		Model(&models.Lot{}).
		Select("state, COUNT(*) as count").
		Where("store_id = ?", storeID).
		Group("state").
		Find(&byState).Error; err != nil {

		httperr.Internal(c, "metrics_failed", "Error al calcular métricas.")
		return
	}

	counts := map[string]int64{}
	var total int64
	for _, sc := range byState {
		counts[sc.State] = sc.Count
		total += sc.Count
	}

	// Ingresos: lotes cobrados (pagados o ya retirados).
	var revenue float64
	h.db.
		Model(&models.Lot{}).
		Select("COALESCE(SUM(rescue_price), 0)").
		Where("store_id = ? AND state IN ?", storeID, []string{
			string(domain.StatePagado),
			string(domain.StateRetirado),
		}).
		Scan(&revenue)

	// Kilos rescatados: todo lo que no terminó vencido.
	var rescuedKg float64
	h.db.
		Model(&models.Lot{}).
		Select("COALESCE(SUM(quantity), 0)").
		Where("store_id = ? AND unit = ? AND state IN ?", storeID, "kg", []string{
			string(domain.StatePagado),
			string(domain.StateRetirado),
			string(domain.StateDonado),
		}).
		Scan(&rescuedKg)

	c.JSON(http.StatusOK, gin.H{
		"total_lots": total,
		"by_state":   counts,
		"revenue":    revenue,
		"rescued_kg": rescuedKg,
	})
}
