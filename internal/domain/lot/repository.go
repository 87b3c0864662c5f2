package lot

import (
	"context"
	"time"

	"github.com/rescatefresco/rescate-fresco/internal/models"
)

type Filters struct {
	Query        string
	Category     string
	ExpiresAfter *time.Time
}

type Repository interface {
	// -------- Lot (read) --------
	GetLot(
		ctx context.Context,
		id uint,
	) (*models.Lot, error)

	ListAvailable(
		ctx context.Context,
		f Filters,
	) ([]models.Lot, error)

	// ListByStore devuelve los lotes de la tienda, opcionalmente filtrados
	// por estado (state vacío = todos).
	ListByStore(
		ctx context.Context,
		storeID uint,
		state State,
	) ([]models.Lot, error)

	ListByConsumer(
		ctx context.Context,
		consumerID uint,
	) ([]models.Lot, error)

	// -------- Lot (write) --------
	CreateLot(
		ctx context.Context,
		l *models.Lot,
	) error

	// SaveLotIfAvailable persiste los campos editables sólo si el lote sigue
	// disponible en base. Devuelve false si una reserva llegó en medio.
	SaveLotIfAvailable(
		ctx context.Context,
		l *models.Lot,
	) (bool, error)

	// SaveLotFromState persiste el lote sólo si su estado en base sigue
	// siendo `from`. Devuelve false si otro request ganó la carrera.
	SaveLotFromState(
		ctx context.Context,
		l *models.Lot,
		from State,
	) (bool, error)

	DeleteLot(
		ctx context.Context,
		lotID uint,
		storeID uint,
	) (bool, error)

	// -------- Hold lifecycle (conditional updates) --------
	TryReserve(
		ctx context.Context,
		lotID uint,
		consumerID uint,
		holdUntil time.Time,
	) (bool, error)

	ReleaseLapsedHold(
		ctx context.Context,
		lotID uint,
		now time.Time,
	) (bool, error)

	// -------- Pickup codes --------
	PickupCodeInUse(
		ctx context.Context,
		code string,
	) (bool, error)

	// -------- Sweep --------
	ExpireLots(
		ctx context.Context,
		before time.Time,
	) (int64, error)

	// -------- Store --------
	GetStore(
		ctx context.Context,
		id uint,
	) (*models.User, error)
}
