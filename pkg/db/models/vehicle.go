package models

import (
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Vehicle is a fleet model with a pool of interchangeable units.
type Vehicle struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey"`
	Model          string            `gorm:"column:model;not null"`
	Brand          string            `gorm:"column:brand;not null"`
	Type           enums.VehicleType `gorm:"column:type;type:text;not null"`
	AvailableUnits int               `gorm:"column:available_units;not null;default:0"`
	DailyFee       decimal.Decimal   `gorm:"column:daily_fee;type:numeric(10,2);not null"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
