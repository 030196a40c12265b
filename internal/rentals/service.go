package rentals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Oleksa-32/car-sharing-app/internal/notify"
	"github.com/Oleksa-32/car-sharing-app/internal/users"
	"github.com/Oleksa-32/car-sharing-app/internal/vehicles"
	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service manages the rental lifecycle: open a rental against available
// stock, look it up, list it, and return it.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*RentalDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*RentalDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID, active bool) ([]RentalDTO, error)
	Return(ctx context.Context, id uuid.UUID) (*ReturnResult, error)
}

// ServiceParams wires the rental service dependencies.
type ServiceParams struct {
	Repo     Repository
	Vehicles *vehicles.Repository
	Users    *users.Repository
	Ledger   inventoryLedger
	Tx       txRunner
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.FleetMetrics
	Now      func() time.Time
}

type service struct {
	repo     Repository
	vehicles *vehicles.Repository
	users    *users.Repository
	ledger   inventoryLedger
	tx       txRunner
	notifier notify.Notifier
	logg     *logger.Logger
	metrics  *metrics.FleetMetrics
	now      func() time.Time
}

// NewService constructs the rental lifecycle manager.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("rental repository required")
	}
	if params.Vehicles == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:     params.Repo,
		vehicles: params.Vehicles,
		users:    params.Users,
		ledger:   params.Ledger,
		tx:       params.Tx,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
		now:      now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*RentalDTO, error) {
	if err := validateCreate(input); err != nil {
		return nil, err
	}

	var (
		rental    *models.Rental
		user      *models.User
		vehicle   *models.Vehicle
		remaining int
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		vehicle, err = s.vehicles.WithTx(tx).FindByID(ctx, input.VehicleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("vehicle %s not found", input.VehicleID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
		}
		user, err = s.users.WithTx(tx).FindByID(ctx, input.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("user %s not found", input.UserID))
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}

		if err := s.ledger.Reserve(ctx, tx, vehicle.ID); err != nil {
			return err
		}

		rental, err = s.repo.WithTx(tx).Create(ctx, &models.Rental{
			RentalAt:  input.RentalAt.UTC(),
			DueAt:     input.DueAt.UTC(),
			VehicleID: vehicle.ID,
			UserID:    user.ID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert rental")
		}

		remaining, err = s.ledger.Available(ctx, tx, vehicle.ID)
		return err
	})
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeOutOfStock) {
			s.metrics.RentalEvent("out_of_stock")
		}
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create rental")
	}

	s.metrics.RentalEvent("created")
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"rental_id":  rental.ID.String(),
		"vehicle_id": vehicle.ID.String(),
		"user_id":    user.ID.String(),
		"remaining":  remaining,
	})
	s.logg.Info(logCtx, "rental.created")
	s.notify(logCtx, createdMessage(rental, user, vehicle, remaining))

	dto := toDTO(rental)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*RentalDTO, error) {
	rental, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, rentalNotFound(id)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rental")
	}
	dto := toDTO(rental)
	return &dto, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, active bool) ([]RentalDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID, active)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rentals")
	}
	out := make([]RentalDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

// Return closes an active rental and puts its unit back into stock. Only the
// caller that flips returned_at from NULL releases inventory.
func (s *service) Return(ctx context.Context, id uuid.UUID) (*ReturnResult, error) {
	returnedAt := s.now().UTC()

	var (
		rental  *models.Rental
		user    *models.User
		vehicle *models.Vehicle
		units   int
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		var err error
		rental, err = txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return rentalNotFound(id)
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rental")
		}
		if !rental.IsActive() {
			return alreadyReturned(id)
		}

		changed, err := txRepo.MarkReturned(ctx, id, returnedAt)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark rental returned")
		}
		if changed == 0 {
			return alreadyReturned(id)
		}
		rental.ReturnedAt = &returnedAt

		units, err = s.ledger.Release(ctx, tx, rental.VehicleID)
		if err != nil {
			return err
		}

		vehicle, err = s.vehicles.WithTx(tx).FindByID(ctx, rental.VehicleID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
		}
		user, err = s.users.WithTx(tx).FindByID(ctx, rental.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "return rental")
	}

	s.metrics.RentalEvent("returned")
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"rental_id":       rental.ID.String(),
		"vehicle_id":      rental.VehicleID.String(),
		"available_units": units,
	})
	s.logg.Info(logCtx, "rental.returned")
	s.notify(logCtx, returnedMessage(rental, user, vehicle, returnedAt, units))

	return &ReturnResult{Rental: toDTO(rental), AvailableUnits: units}, nil
}

func (s *service) notify(ctx context.Context, text string) {
	if err := s.notifier.Send(ctx, text); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("rental notification failed: %v", err))
	}
}

func validateCreate(input CreateInput) error {
	if input.VehicleID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "vehicle_id is required")
	}
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}
	if input.RentalAt.IsZero() || input.DueAt.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "rental_at and due_at are required")
	}
	if !input.DueAt.After(input.RentalAt) {
		return pkgerrors.New(pkgerrors.CodeValidation, "due_at must be after rental_at")
	}
	return nil
}

func rentalNotFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("rental %s not found", id))
}

func alreadyReturned(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeAlreadyReturned, fmt.Sprintf("rental %s already returned", id))
}
