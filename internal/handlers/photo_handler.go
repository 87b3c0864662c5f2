package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/middleware"
	"github.com/rescatefresco/rescate-fresco/internal/models"
	"github.com/rescatefresco/rescate-fresco/internal/storage"
)

const maxPhotoBytes = 10 << 20 // 10 MB por archivo

type PhotoHandler struct {
	db     *gorm.DB
	photos *storage.PhotoStore
	log    *zap.Logger
}

func NewPhotoHandler(db *gorm.DB, photos *storage.PhotoStore, log *zap.Logger) *PhotoHandler {
	return &PhotoHandler{db: db, photos: photos, log: log}
}

// Upload recibe una foto multipart, la convierte a WebP y la agrega al
// final de la lista de fotos del lote.
func (h *PhotoHandler) Upload(c *gin.Context) {
	storeID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Id inválido.")
		return
	}

	var l models.Lot
	if err := h.db.
		Where("id = ? AND store_id = ?", id, storeID).
		First(&l).Error; err != nil {

		httperr.NotFound(c, "lot_not_found", "Lote no encontrado.")
		return
	}

	if err := domain.CanUpdate(domain.State(l.State)); err != nil {
		httperr.Conflict(c, "lot_locked", "El lote ya no se puede editar.")
		return
	}

	fileHeader, err := c.FormFile("foto")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Falta el archivo 'foto'.")
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		httperr.BadRequest(c, "file_too_large", "La foto supera el tamaño máximo.")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "upload_failed", "Error al leer la foto.")
		return
	}
	defer f.Close()

	webpData, err := storage.ProcessPhoto(f)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "La imagen no se pudo procesar.")
		return
	}

	url, err := h.photos.UploadLotPhoto(c.Request.Context(), l.ID, webpData)
	if err != nil {
		h.log.Error("photo upload failed", zap.Uint("lot_id", l.ID), zap.Error(err))
		httperr.Internal(c, "upload_failed", "Error al subir la foto.")
		return
	}

	l.Photos = append(l.Photos, url)
	if err := h.db.Model(&models.Lot{}).
		Where("id = ?", l.ID).
		Update("photos", l.Photos).Error; err != nil {

		httperr.Internal(c, "upload_failed", "Error al guardar la foto.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"url":    url,
		"photos": l.Photos,
	})
}
