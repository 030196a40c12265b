package vehicles

import (
	"context"
	"fmt"
	"strings"

	"github.com/Oleksa-32/car-sharing-app/pkg/db"
	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/Oleksa-32/car-sharing-app/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes fleet management operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*VehicleDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*VehicleDTO, error)
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*VehicleDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService constructs the fleet service.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*VehicleDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	vehicle := &models.Vehicle{
		Model:          strings.TrimSpace(input.Model),
		Brand:          strings.TrimSpace(input.Brand),
		Type:           input.Type,
		AvailableUnits: input.AvailableUnits,
		DailyFee:       input.DailyFee.Round(2),
	}
	created, err := s.repo.Create(ctx, vehicle)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert vehicle")
	}
	return toDTO(created), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*VehicleDTO, error) {
	vehicle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, vehicleNotFound(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	return toDTO(vehicle), nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	rows, next, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vehicles")
	}
	result := &ListResult{Vehicles: make([]VehicleDTO, 0, len(rows))}
	for i := range rows {
		result.Vehicles = append(result.Vehicles, *toDTO(&rows[i]))
	}
	if next != nil {
		result.NextCursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*VehicleDTO, error) {
	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		if isNotFound(err) {
			return nil, vehicleNotFound(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update vehicle")
	}
	return s.Get(ctx, id)
}

// Delete removes a vehicle that no rental points at.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		active, err := txRepo.CountActiveRentals(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active rentals")
		}
		if active > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("vehicle %s has %d active rentals", id, active))
		}
		if err := txRepo.Delete(ctx, id); err != nil {
			if isNotFound(err) {
				return vehicleNotFound(id)
			}
			if db.IsForeignKeyViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("vehicle %s is referenced by rental history", id))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vehicle")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return err
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete vehicle")
	}
	return nil
}

func validateCreate(input CreateInput) error {
	if strings.TrimSpace(input.Model) == "" || strings.TrimSpace(input.Brand) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "model and brand are required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid vehicle type %q", input.Type))
	}
	if input.AvailableUnits < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "available_units must be >= 0")
	}
	if !input.DailyFee.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "daily_fee must be > 0")
	}
	return nil
}

func buildUpdates(input UpdateInput) (map[string]any, error) {
	updates := map[string]any{}
	if input.Model != nil {
		if strings.TrimSpace(*input.Model) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "model cannot be empty")
		}
		updates["model"] = strings.TrimSpace(*input.Model)
	}
	if input.Brand != nil {
		if strings.TrimSpace(*input.Brand) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand cannot be empty")
		}
		updates["brand"] = strings.TrimSpace(*input.Brand)
	}
	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid vehicle type %q", *input.Type))
		}
		updates["type"] = *input.Type
	}
	if input.AvailableUnits != nil {
		if *input.AvailableUnits < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "available_units must be >= 0")
		}
		updates["available_units"] = *input.AvailableUnits
	}
	if input.DailyFee != nil {
		if !input.DailyFee.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "daily_fee must be > 0")
		}
		updates["daily_fee"] = input.DailyFee.Round(2)
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}
	return updates, nil
}
