package lot

import "github.com/rescatefresco/rescate-fresco/internal/httperr"

// ===============================
// Lot State
// ===============================

// Conjunto canónico en minúsculas. El histórico mezclaba mayúsculas
// ("Disponible"/"Reservado") entre capas; aquí hay un solo juego de valores.
type State string

const (
	StateDisponible State = "disponible"
	StateReservado  State = "reservado"
	StatePagado     State = "pagado"
	StateRetirado   State = "retirado"
	StateVencido    State = "vencido"
	StateDonado     State = "donado"
)

const HoldDuration = 15 // minutos

// ===============================
// Validations
// ===============================

func CanReserve(current State) error {
	if current != StateDisponible {
		return httperr.ErrBusiness("lot_not_available")
	}
	return nil
}

func CanPay(current State) error {
	if current != StateReservado {
		return httperr.ErrBusiness("lot_not_reserved")
	}
	return nil
}

func CanIssuePickupCode(current State) error {
	if current != StatePagado {
		return httperr.ErrBusiness("lot_not_paid")
	}
	return nil
}

func CanConfirmPickup(current State) error {
	if current != StatePagado {
		return httperr.ErrBusiness("lot_not_paid")
	}
	return nil
}

// Una tienda puede donar lotes que no se vendieron: siguen disponibles
// o ya vencieron.
func CanDonate(current State) error {
	if current != StateDisponible && current != StateVencido {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanUpdate(current State) error {
	if current != StateDisponible {
		return httperr.ErrBusiness("lot_locked")
	}
	return nil
}

func InitialState() State {
	return StateDisponible
}

// SweepStates son los únicos estados que el barrido diario puede marcar
// como vencidos. Un lote pagado nunca se pisa.
func SweepStates() []State {
	return []State{StateDisponible, StateReservado}
}
