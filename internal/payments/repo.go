package payments

import (
	"context"
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles payment persistence.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error)
	TransitionStatus(ctx context.Context, sessionID string, from, to enums.PaymentStatus, at time.Time) (int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a payments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repository) FindBySessionID(ctx context.Context, sessionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).First(&payment, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// TransitionStatus moves a payment from one status to another and reports how
// many rows changed; zero means another writer got there first.
func (r *repository) TransitionStatus(ctx context.Context, sessionID string, from, to enums.PaymentStatus, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("session_id = ? AND status = ?", sessionID, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": at,
		})
	return res.RowsAffected, res.Error
}

// ListByUser returns payments for every rental owned by userID, newest first.
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Payment, error) {
	var rows []models.Payment
	err := r.db.WithContext(ctx).
		Joins("JOIN rentals ON rentals.id = payments.rental_id").
		Where("rentals.user_id = ?", userID).
		Order("payments.created_at DESC").
		Order("payments.id DESC").
		Find(&rows).Error
	return rows, err
}
