package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// PhotoURLs se persiste como JSON para mantener el orden de las fotos.
type PhotoURLs []string

func (p PhotoURLs) Value() (driver.Value, error) {
	if p == nil {
		p = PhotoURLs{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *PhotoURLs) Scan(value any) error {
	if value == nil {
		*p = PhotoURLs{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported type for PhotoURLs")
	}
}

type Lot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	StoreID uint `gorm:"index;not null" json:"store_id"`
	Store   User `gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"store"`

	Name        string  `gorm:"size:100;not null" json:"name"`
	Category    string  `gorm:"size:30;not null" json:"category"`
	Description string  `gorm:"size:500" json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `gorm:"size:20;not null" json:"unit"`

	OriginalPrice float64 `json:"original_price"`
	RescuePrice   float64 `json:"rescue_price"`

	ExpiresOn      time.Time `json:"expires_on"`
	PickupWindow   string    `gorm:"size:20" json:"pickup_window"` // "HH:MM-HH:MM"
	PickupLocation string    `gorm:"size:255" json:"pickup_location"`
	Photos         PhotoURLs `gorm:"type:text" json:"photos"`

	State string `gorm:"size:20;default:'disponible';index" json:"state"`

	ReservedByID   *uint      `gorm:"index" json:"reserved_by_id"`
	HoldExpiresAt  *time.Time `json:"hold_expires_at"`
	PickupDeadline *time.Time `json:"pickup_deadline"`
	PickupCode     string     `gorm:"size:10" json:"pickup_code,omitempty"`
	PaymentRef     string     `gorm:"size:50" json:"payment_ref,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
