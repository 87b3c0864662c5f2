package lot_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lot "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
)

func TestParsePickupWindow(t *testing.T) {
	start, end, err := lot.ParsePickupWindow("10:00-13:00")
	require.NoError(t, err)
	assert.Equal(t, 10, start.Hour())
	assert.Equal(t, 13, end.Hour())

	_, _, err = lot.ParsePickupWindow("10:00")
	assert.Error(t, err)

	_, _, err = lot.ParsePickupWindow("13:00-10:00")
	assert.Error(t, err)

	_, _, err = lot.ParsePickupWindow("25:00-26:00")
	assert.Error(t, err)
}

func TestPickupWindowToleratesSpaces(t *testing.T) {
	_, end, err := lot.ParsePickupWindow(" 09:30 - 18:45 ")
	require.NoError(t, err)
	assert.Equal(t, 18, end.Hour())
	assert.Equal(t, 45, end.Minute())
}

func TestPickupDeadline(t *testing.T) {
	now := time.Date(2026, 3, 14, 11, 22, 33, 0, time.UTC)

	deadline, err := lot.PickupDeadline("10:00-13:00", now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 14, 13, 0, 0, 0, time.UTC), deadline)
}
