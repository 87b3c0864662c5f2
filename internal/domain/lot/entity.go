package lot

import (
	"time"

	"github.com/rescatefresco/rescate-fresco/internal/httperr"
	"github.com/rescatefresco/rescate-fresco/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// HoldLapsed indica si la reserva de un lote ya caducó.
func HoldLapsed(l *models.Lot, now time.Time) bool {
	return State(l.State) == StateReservado &&
		l.HoldExpiresAt != nil &&
		l.HoldExpiresAt.Before(now)
}

// ReleaseHold devuelve un lote reservado a disponible.
func ReleaseHold(l *models.Lot) {
	l.State = string(StateDisponible)
	l.ReservedByID = nil
	l.HoldExpiresAt = nil
}

// Pay marca el lote como pagado y fija la fecha límite de retiro a partir
// del final de la ventana de retiro, sobre la fecha de hoy.
func Pay(l *models.Lot, now time.Time) error {
	if err := CanPay(State(l.State)); err != nil {
		return err
	}

	deadline, err := PickupDeadline(l.PickupWindow, now)
	if err != nil {
		return httperr.ErrBusiness("invalid_pickup_window")
	}

	l.State = string(StatePagado)
	l.HoldExpiresAt = nil
	l.PickupDeadline = &deadline
	return nil
}

// ConfirmPickup cierra el ciclo: el comprador presentó el código en tienda.
func ConfirmPickup(l *models.Lot, code string) error {
	if err := CanConfirmPickup(State(l.State)); err != nil {
		return err
	}
	if l.PickupCode == "" || l.PickupCode != code {
		return httperr.ErrBusiness("invalid_pickup_code")
	}

	l.State = string(StateRetirado)
	return nil
}

func Donate(l *models.Lot) error {
	if err := CanDonate(State(l.State)); err != nil {
		return err
	}

	l.State = string(StateDonado)
	l.ReservedByID = nil
	l.HoldExpiresAt = nil
	return nil
}

// ===============================
// Creation rules
// ===============================

func ValidateNew(l *models.Lot, today time.Time) error {
	if l.Quantity <= 0 {
		return httperr.ErrBusiness("invalid_quantity")
	}
	if l.RescuePrice <= 0 || l.RescuePrice >= l.OriginalPrice {
		return httperr.ErrBusiness("invalid_rescue_price")
	}

	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	if l.ExpiresOn.Before(day) {
		return httperr.ErrBusiness("expires_in_the_past")
	}

	if _, _, err := ParsePickupWindow(l.PickupWindow); err != nil {
		return httperr.ErrBusiness("invalid_pickup_window")
	}

	return nil
}
