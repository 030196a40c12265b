package vehicles

import (
	"context"
	"errors"
	"time"

	"github.com/Oleksa-32/car-sharing-app/internal/repo"
	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/Oleksa-32/car-sharing-app/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles vehicle persistence.
type Repository struct {
	repo.Base
}

// NewRepository binds a vehicles repository to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository that runs on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{Base: r.Bind(tx)}
}

func (r *Repository) Create(ctx context.Context, vehicle *models.Vehicle) (*models.Vehicle, error) {
	if err := r.DB(ctx).Create(vehicle).Error; err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	if err := r.DB(ctx).First(&vehicle, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// FindByIDs loads the vehicles matching ids keyed by id.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Vehicle, error) {
	out := make(map[uuid.UUID]models.Vehicle, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Vehicle
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// Exists reports whether a vehicle row is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.DB(ctx).Model(&models.Vehicle{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List returns vehicles ordered by created_at, id after the cursor.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Vehicle, *pagination.Cursor, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, nil, err
	}

	query := r.DB(ctx).Model(&models.Vehicle{})
	if cursor != nil {
		query = query.Where("(created_at > ?) OR (created_at = ? AND id > ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Vehicle
	if err := query.
		Order("created_at ASC").
		Order("id ASC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	page, next := pagination.Trim(rows, params.Limit, func(v models.Vehicle) pagination.Cursor {
		return pagination.Cursor{CreatedAt: v.CreatedAt, ID: v.ID}
	})
	return page, next, nil
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now().UTC()
	res := r.DB(ctx).Model(&models.Vehicle{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Vehicle{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountActiveRentals counts rentals of the vehicle that have not been returned.
func (r *Repository) CountActiveRentals(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.Rental{}).
		Where("vehicle_id = ? AND returned_at IS NULL", id).
		Count(&count).Error
	return count, err
}

// DecrementUnits removes one unit only while stock remains. The returned count
// is the number of rows changed (0 or 1).
func (r *Repository) DecrementUnits(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).Exec(`
		UPDATE vehicles
		SET available_units = available_units - 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND available_units > 0
	`, id)
	return res.RowsAffected, res.Error
}

// IncrementUnits adds one unit back to the pool.
func (r *Repository) IncrementUnits(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.DB(ctx).Exec(`
		UPDATE vehicles
		SET available_units = available_units + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, id)
	return res.RowsAffected, res.Error
}

// AvailableUnits reads the current stock level.
func (r *Repository) AvailableUnits(ctx context.Context, id uuid.UUID) (int, error) {
	var units int
	err := r.DB(ctx).
		Model(&models.Vehicle{}).
		Select("available_units").
		Where("id = ?", id).
		Scan(&units).Error
	return units, err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
