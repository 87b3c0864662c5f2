package lot_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lot "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
)

func TestNewPickupCode(t *testing.T) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := lot.NewPickupCode()
		require.NoError(t, err)

		assert.Len(t, code, lot.PickupCodeLength)
		assert.Equal(t, strings.ToUpper(code), code)
		for _, ch := range code {
			assert.Contains(t, alphabet, string(ch))
		}

		seen[code] = true
	}

	// 50 códigos sobre un espacio de 32^6 no deberían chocar.
	assert.Greater(t, len(seen), 45)
}
