package lot_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	lot "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/httperr"
)

func TestCanReserve(t *testing.T) {
	assert.NoError(t, lot.CanReserve(lot.StateDisponible))

	for _, s := range []lot.State{
		lot.StateReservado,
		lot.StatePagado,
		lot.StateRetirado,
		lot.StateVencido,
		lot.StateDonado,
	} {
		err := lot.CanReserve(s)
		assert.True(t, httperr.IsBusiness(err, "lot_not_available"), "state %s", s)
	}
}

func TestCanPay(t *testing.T) {
	assert.NoError(t, lot.CanPay(lot.StateReservado))

	for _, s := range []lot.State{
		lot.StateDisponible,
		lot.StatePagado,
		lot.StateVencido,
	} {
		err := lot.CanPay(s)
		assert.True(t, httperr.IsBusiness(err, "lot_not_reserved"), "state %s", s)
	}
}

func TestCanIssuePickupCode(t *testing.T) {
	assert.NoError(t, lot.CanIssuePickupCode(lot.StatePagado))
	assert.Error(t, lot.CanIssuePickupCode(lot.StateDisponible))
	assert.Error(t, lot.CanIssuePickupCode(lot.StateReservado))
}

func TestCanDonate(t *testing.T) {
	assert.NoError(t, lot.CanDonate(lot.StateDisponible))
	assert.NoError(t, lot.CanDonate(lot.StateVencido))
	assert.Error(t, lot.CanDonate(lot.StateReservado))
	assert.Error(t, lot.CanDonate(lot.StatePagado))
}

func TestSweepStatesExcludePaid(t *testing.T) {
	states := lot.SweepStates()

	assert.Contains(t, states, lot.StateDisponible)
	assert.Contains(t, states, lot.StateReservado)
	assert.NotContains(t, states, lot.StatePagado)
	assert.NotContains(t, states, lot.StateRetirado)
}
