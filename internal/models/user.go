package models

import "time"

const (
	RoleConsumidor = "consumidor"
	RoleTienda     = "tienda"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Role         string `gorm:"size:20;not null" json:"role"`

	// Name para consumidores, StoreName/StoreAddress para tiendas.
	Name         string `gorm:"size:100" json:"name"`
	StoreName    string `gorm:"size:100" json:"store_name"`
	StoreAddress string `gorm:"size:255" json:"store_address"`
	Phone        string `gorm:"size:20" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName resuelve el nombre visible según el rol.
func (u *User) DisplayName() string {
	if u.Role == RoleTienda {
		return u.StoreName
	}
	return u.Name
}
