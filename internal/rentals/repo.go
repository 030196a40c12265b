package rentals

import (
	"context"
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a rentals repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, rental *models.Rental) (*models.Rental, error) {
	if err := r.db.WithContext(ctx).Create(rental).Error; err != nil {
		return nil, err
	}
	return rental, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Rental, error) {
	var rental models.Rental
	if err := r.db.WithContext(ctx).First(&rental, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, active bool) ([]models.Rental, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if active {
		query = query.Where("returned_at IS NULL")
	} else {
		query = query.Where("returned_at IS NOT NULL")
	}

	var rows []models.Rental
	err := query.
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// MarkReturned stamps returned_at only while it is still NULL and reports
// how many rows changed.
func (r *repository) MarkReturned(ctx context.Context, id uuid.UUID, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Rental{}).
		Where("id = ? AND returned_at IS NULL", id).
		Updates(map[string]any{
			"returned_at": at,
			"updated_at":  at,
		})
	return res.RowsAffected, res.Error
}

// FindOverdue lists active rentals due at or before cutoff, oldest due first.
func (r *repository) FindOverdue(ctx context.Context, cutoff time.Time) ([]models.Rental, error) {
	var rows []models.Rental
	err := r.db.WithContext(ctx).
		Where("returned_at IS NULL AND due_at <= ?", cutoff).
		Order("due_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
