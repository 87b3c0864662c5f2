package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/models"
)

type LotGormRepository struct {
	db *gorm.DB
}

func NewLotGormRepository(db *gorm.DB) *LotGormRepository {
	return &LotGormRepository{db: db}
}

// --------------------------------------------------
// Lot (read)
// --------------------------------------------------

func (r *LotGormRepository) GetLot(
	ctx context.Context,
	id uint,
) (*models.Lot, error) {

	var l models.Lot
	if err := r.db.WithContext(ctx).
		Preload("Store").
		First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LotGormRepository) ListAvailable(
	ctx context.Context,
	f domain.Filters,
) ([]models.Lot, error) {

	q := r.db.WithContext(ctx).
		Preload("Store").
		Where("state IN ?", []string{
			string(domain.StateDisponible),
			string(domain.StateReservado),
		})

	if f.Query != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+f.Query+"%")
	}

	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}

	if f.ExpiresAfter != nil {
		q = q.Where("expires_on >= ?", *f.ExpiresAfter)
	}

	var lots []models.Lot
	if err := q.Order("expires_on ASC").Find(&lots).Error; err != nil {
		return nil, err
	}

	return lots, nil
}

func (r *LotGormRepository) ListByStore(
	ctx context.Context,
	storeID uint,
	state domain.State,
) ([]models.Lot, error) {

	q := r.db.WithContext(ctx).Where("store_id = ?", storeID)

	if state != "" {
		q = q.Where("state = ?", string(state))
	}

	var lots []models.Lot
	if err := q.Order("created_at DESC").Find(&lots).Error; err != nil {
		return nil, err
	}

	return lots, nil
}

func (r *LotGormRepository) ListByConsumer(
	ctx context.Context,
	consumerID uint,
) ([]models.Lot, error) {

	var lots []models.Lot
	if err := r.db.WithContext(ctx).
		Preload("Store").
		Where(
			"reserved_by_id = ? AND state IN ?",
			consumerID,
			[]string{
				string(domain.StateReservado),
				string(domain.StatePagado),
				string(domain.StateRetirado),
			},
		).
		Order("updated_at DESC").
		Find(&lots).Error; err != nil {
		return nil, err
	}

	return lots, nil
}

// --------------------------------------------------
// Lot (write)
// --------------------------------------------------

func (r *LotGormRepository) CreateLot(
	ctx context.Context,
	l *models.Lot,
) error {
	return r.db.WithContext(ctx).Create(l).Error
}

// SaveLotIfAvailable escribe la edición con el mismo UPDATE condicional que
// el resto de las transiciones: si el lote ya no está disponible no afecta
// filas y la reserva vigente queda intacta.
func (r *LotGormRepository) SaveLotIfAvailable(
	ctx context.Context,
	l *models.Lot,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where("id = ? AND state = ?", l.ID, string(domain.StateDisponible)).
		Updates(map[string]any{
			"name":            l.Name,
			"category":        l.Category,
			"description":     l.Description,
			"quantity":        l.Quantity,
			"unit":            l.Unit,
			"original_price":  l.OriginalPrice,
			"rescue_price":    l.RescuePrice,
			"expires_on":      l.ExpiresOn,
			"pickup_window":   l.PickupWindow,
			"pickup_location": l.PickupLocation,
		})

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *LotGormRepository) SaveLotFromState(
	ctx context.Context,
	l *models.Lot,
	from domain.State,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where("id = ? AND state = ?", l.ID, string(from)).
		Updates(map[string]any{
			"state":           l.State,
			"reserved_by_id":  l.ReservedByID,
			"hold_expires_at": l.HoldExpiresAt,
			"pickup_deadline": l.PickupDeadline,
			"pickup_code":     l.PickupCode,
			"payment_ref":     l.PaymentRef,
		})

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *LotGormRepository) DeleteLot(
	ctx context.Context,
	lotID uint,
	storeID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", lotID, storeID).
		Delete(&models.Lot{})

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// --------------------------------------------------
// Hold lifecycle
// --------------------------------------------------

// TryReserve toma el lote con un solo UPDATE condicional: si el estado ya
// no es disponible no afecta filas y la reserva falla sin efectos.
func (r *LotGormRepository) TryReserve(
	ctx context.Context,
	lotID uint,
	consumerID uint,
	holdUntil time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where("id = ? AND state = ?", lotID, string(domain.StateDisponible)).
		Updates(map[string]any{
			"state":           string(domain.StateReservado),
			"reserved_by_id":  consumerID,
			"hold_expires_at": holdUntil,
		})

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

func (r *LotGormRepository) ReleaseLapsedHold(
	ctx context.Context,
	lotID uint,
	now time.Time,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where(
			"id = ? AND state = ? AND hold_expires_at < ?",
			lotID, string(domain.StateReservado), now,
		).
		Updates(map[string]any{
			"state":           string(domain.StateDisponible),
			"reserved_by_id":  nil,
			"hold_expires_at": nil,
		})

	if res.Error != nil {
		return false, res.Error
	}

	return res.RowsAffected > 0, nil
}

// --------------------------------------------------
// Pickup codes
// --------------------------------------------------

func (r *LotGormRepository) PickupCodeInUse(
	ctx context.Context,
	code string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where("pickup_code = ? AND state = ?", code, string(domain.StatePagado)).
		Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

// --------------------------------------------------
// Sweep
// --------------------------------------------------

func (r *LotGormRepository) ExpireLots(
	ctx context.Context,
	before time.Time,
) (int64, error) {

	states := make([]string, 0, 2)
	for _, s := range domain.SweepStates() {
		states = append(states, string(s))
	}

	res := r.db.WithContext(ctx).
		Model(&models.Lot{}).
		Where("expires_on < ? AND state IN ?", before, states).
		Updates(map[string]any{
			"state":           string(domain.StateVencido),
			"reserved_by_id":  nil,
			"hold_expires_at": nil,
		})

	if res.Error != nil {
		return 0, res.Error
	}

	return res.RowsAffected, nil
}

// --------------------------------------------------
// Store
// --------------------------------------------------

func (r *LotGormRepository) GetStore(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var store models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleTienda).
		First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Compile-time check
var _ domain.Repository = (*LotGormRepository)(nil)
