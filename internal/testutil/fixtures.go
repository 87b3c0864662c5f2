package testutil

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/rescatefresco/rescate-fresco/internal/domain/lot"
	"github.com/rescatefresco/rescate-fresco/internal/models"
)

func NewStore(email, storeName string) *models.User {
	return &models.User{
		Email:        email,
		PasswordHash: mustHash("secret123"),
		Role:         models.RoleTienda,
		StoreName:    storeName,
		StoreAddress: "Av. Central 123",
	}
}

func NewConsumer(email, name string) *models.User {
	return &models.User{
		Email:        email,
		PasswordHash: mustHash("secret123"),
		Role:         models.RoleConsumidor,
		Name:         name,
	}
}

// NewLot crea un lote disponible que caduca mañana.
func NewLot(storeID uint, name string) *models.Lot {
	return &models.Lot{
		StoreID:        storeID,
		Name:           name,
		Category:       "frutas",
		Description:    "caja surtida",
		Quantity:       5,
		Unit:           "kg",
		OriginalPrice:  100,
		RescuePrice:    40,
		ExpiresOn:      time.Now().AddDate(0, 0, 1),
		PickupWindow:   "10:00-13:00",
		PickupLocation: "Mostrador principal",
		State:          string(domain.StateDisponible),
	}
}

func mustHash(pw string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(h)
}
