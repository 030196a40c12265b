package models

import (
	"time"

	"github.com/google/uuid"
)

// Rental reserves one vehicle unit for a user. ReturnedAt is nil while active.
type Rental struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RentalAt   time.Time  `gorm:"column:rental_at;not null"`
	DueAt      time.Time  `gorm:"column:due_at;not null;index"`
	ReturnedAt *time.Time `gorm:"column:returned_at"`
	VehicleID  uuid.UUID  `gorm:"column:vehicle_id;type:uuid;not null;index"`
	UserID     uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// IsActive reports whether the rental has not been returned yet.
func (r Rental) IsActive() bool {
	return r.ReturnedAt == nil
}
