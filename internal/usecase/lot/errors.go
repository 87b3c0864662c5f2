package lot

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rescatefresco/rescate-fresco/internal/httperr"
)

// getLotErr separa el lote inexistente de una falla real de base: sólo el
// primero debe terminar en 404.
func getLotErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness("lot_not_found")
	}
	return err
}
