package rentals

import (
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/google/uuid"
)

// RentalDTO is the API shape of a rental.
type RentalDTO struct {
	ID         uuid.UUID  `json:"id"`
	RentalAt   time.Time  `json:"rental_at"`
	DueAt      time.Time  `json:"due_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
	VehicleID  uuid.UUID  `json:"vehicle_id"`
	UserID     uuid.UUID  `json:"user_id"`
	Active     bool       `json:"active"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateInput carries a new rental request.
type CreateInput struct {
	VehicleID uuid.UUID
	UserID    uuid.UUID
	RentalAt  time.Time
	DueAt     time.Time
}

// ReturnResult reports the returned rental and the vehicle stock afterwards.
type ReturnResult struct {
	Rental         RentalDTO `json:"rental"`
	AvailableUnits int       `json:"available_units"`
}

func toDTO(r *models.Rental) RentalDTO {
	return RentalDTO{
		ID:         r.ID,
		RentalAt:   r.RentalAt,
		DueAt:      r.DueAt,
		ReturnedAt: r.ReturnedAt,
		VehicleID:  r.VehicleID,
		UserID:     r.UserID,
		Active:     r.IsActive(),
		CreatedAt:  r.CreatedAt,
	}
}
