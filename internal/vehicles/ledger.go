package vehicles

import (
	"context"
	"fmt"

	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ledger owns the available-units counter of each vehicle. Every method runs on
// the caller's transaction so the stock change commits or rolls back together
// with the rental row that caused it.
type Ledger struct {
	repo *Repository
}

// NewLedger constructs the inventory ledger.
func NewLedger(repo *Repository) (*Ledger, error) {
	if repo == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	return &Ledger{repo: repo}, nil
}

// Reserve takes one unit out of the pool. Concurrent callers racing for the
// last unit are serialized by the conditional update: exactly one of them
// observes a changed row.
func (l *Ledger) Reserve(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "transaction required for inventory reserve")
	}
	txRepo := l.repo.WithTx(tx)

	affected, err := txRepo.DecrementUnits(ctx, vehicleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve inventory")
	}
	if affected == 1 {
		return nil
	}

	exists, err := txRepo.Exists(ctx, vehicleID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicle")
	}
	if !exists {
		return vehicleNotFound(vehicleID)
	}
	return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("vehicle %s has no available units", vehicleID)).
		WithDetails(map[string]any{"vehicle_id": vehicleID.String()})
}

// Release returns one unit to the pool and reports the new count.
func (l *Ledger) Release(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) (int, error) {
	if tx == nil {
		return 0, pkgerrors.New(pkgerrors.CodeInternal, "transaction required for inventory release")
	}
	txRepo := l.repo.WithTx(tx)

	affected, err := txRepo.IncrementUnits(ctx, vehicleID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release inventory")
	}
	if affected == 0 {
		return 0, vehicleNotFound(vehicleID)
	}
	return l.Available(ctx, tx, vehicleID)
}

// Available reads the stock level as seen by tx.
func (l *Ledger) Available(ctx context.Context, tx *gorm.DB, vehicleID uuid.UUID) (int, error) {
	units, err := l.repo.WithTx(tx).AvailableUnits(ctx, vehicleID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read inventory")
	}
	return units, nil
}

func vehicleNotFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("vehicle %s not found", id))
}
