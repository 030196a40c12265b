package models

import (
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	"github.com/google/uuid"
)

// Payment records one hosted checkout session opened for a rental.
type Payment struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	RentalID    uuid.UUID           `gorm:"column:rental_id;type:uuid;not null;index"`
	SessionID   string              `gorm:"column:session_id;not null;uniqueIndex"`
	SessionURL  string              `gorm:"column:session_url;not null"`
	AmountCents int64               `gorm:"column:amount_cents;not null"`
	Currency    string              `gorm:"column:currency;not null;default:usd"`
	Type        enums.PaymentType   `gorm:"column:type;type:text;not null"`
	Status      enums.PaymentStatus `gorm:"column:status;type:text;not null"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
