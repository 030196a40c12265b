// Package checkout prices rentals in minor currency units.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const day = 24 * time.Hour

var minorUnitsPerMajor = decimal.NewFromInt(100)

type rentalLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rental, error)
}

type vehicleLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

// Calculator computes the amount owed for a rental under a payment type.
type Calculator struct {
	rentals        rentalLoader
	vehicles       vehicleLoader
	fineMultiplier decimal.Decimal
	now            func() time.Time
}

// NewCalculator builds a calculator with the configured fine multiplier.
func NewCalculator(rentals rentalLoader, vehicles vehicleLoader, fineMultiplier decimal.Decimal, now func() time.Time) (*Calculator, error) {
	if rentals == nil {
		return nil, fmt.Errorf("rental repository required")
	}
	if vehicles == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	if !fineMultiplier.IsPositive() {
		return nil, fmt.Errorf("fine multiplier must be greater than zero")
	}
	if now == nil {
		now = time.Now
	}
	return &Calculator{
		rentals:        rentals,
		vehicles:       vehicles,
		fineMultiplier: fineMultiplier,
		now:            now,
	}, nil
}

// CalculateAmount resolves the rental and its vehicle and prices it.
func (c *Calculator) CalculateAmount(ctx context.Context, rentalID uuid.UUID, kind enums.PaymentType) (int64, error) {
	rental, err := c.rentals.FindByID(ctx, rentalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("rental %s not found", rentalID))
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load rental")
	}
	vehicle, err := c.vehicles.FindByID(ctx, rental.VehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("vehicle %s not found", rental.VehicleID))
		}
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}

	switch kind {
	case enums.PaymentTypeRental:
		return RentalAmount(vehicle.DailyFee, rental.RentalAt, rental.DueAt), nil
	case enums.PaymentTypeFine:
		return FineAmount(vehicle.DailyFee, rental.DueAt, c.now(), c.fineMultiplier), nil
	default:
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported payment type %q", kind))
	}
}

// RentalAmount charges every started day of the scheduled window.
func RentalAmount(dailyFee decimal.Decimal, rentalAt, dueAt time.Time) int64 {
	days := BillableDays(rentalAt, dueAt)
	return toMinorUnits(dailyFee.Mul(decimal.NewFromInt(days)))
}

// FineAmount charges whole days past due, at least one, scaled by the multiplier.
func FineAmount(dailyFee decimal.Decimal, dueAt, now time.Time, multiplier decimal.Decimal) int64 {
	days := OverdueDays(dueAt, now)
	if days < 1 {
		days = 1
	}
	return toMinorUnits(dailyFee.Mul(decimal.NewFromInt(days)).Mul(multiplier))
}

// BillableDays rounds the rental window up to whole days.
func BillableDays(rentalAt, dueAt time.Time) int64 {
	window := dueAt.Sub(rentalAt)
	if window <= 0 {
		return 0
	}
	days := int64(window / day)
	if window%day != 0 {
		days++
	}
	return days
}

// OverdueDays counts complete days elapsed since dueAt; zero when not yet due.
func OverdueDays(dueAt, now time.Time) int64 {
	late := now.Sub(dueAt)
	if late <= 0 {
		return 0
	}
	return int64(late / day)
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(minorUnitsPerMajor).IntPart()
}
