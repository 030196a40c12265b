package rentals

import (
	"context"
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the rentals table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, rental *models.Rental) (*models.Rental, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rental, error)
	ListByUser(ctx context.Context, userID uuid.UUID, active bool) ([]models.Rental, error)
	MarkReturned(ctx context.Context, id uuid.UUID, at time.Time) (int64, error)
	FindOverdue(ctx context.Context, cutoff time.Time) ([]models.Rental, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type inventoryLedger interface {
	Reserve(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) error
	Release(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) (int, error)
	Available(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) (int, error)
}
