package vehicles

import (
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VehicleDTO is the API shape of a vehicle.
type VehicleDTO struct {
	ID             uuid.UUID         `json:"id"`
	Model          string            `json:"model"`
	Brand          string            `json:"brand"`
	Type           enums.VehicleType `json:"type"`
	AvailableUnits int               `json:"available_units"`
	DailyFee       decimal.Decimal   `json:"daily_fee"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ListResult is one page of vehicles.
type ListResult struct {
	Vehicles   []VehicleDTO `json:"vehicles"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// CreateInput holds the validated payload to register a vehicle.
type CreateInput struct {
	Model          string
	Brand          string
	Type           enums.VehicleType
	AvailableUnits int
	DailyFee       decimal.Decimal
}

// UpdateInput holds optional mutations; nil fields are left unchanged.
type UpdateInput struct {
	Model          *string
	Brand          *string
	Type           *enums.VehicleType
	AvailableUnits *int
	DailyFee       *decimal.Decimal
}

func toDTO(v *models.Vehicle) *VehicleDTO {
	if v == nil {
		return nil
	}
	return &VehicleDTO{
		ID:             v.ID,
		Model:          v.Model,
		Brand:          v.Brand,
		Type:           v.Type,
		AvailableUnits: v.AvailableUnits,
		DailyFee:       v.DailyFee,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
