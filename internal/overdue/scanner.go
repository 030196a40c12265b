// Package overdue reports active rentals that are due by the end of today.
package overdue

import (
	"context"
	"fmt"
	"time"

	"github.com/Oleksa-32/car-sharing-app/internal/checkout"
	"github.com/Oleksa-32/car-sharing-app/internal/notify"
	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/metrics"
	"github.com/google/uuid"
)

type rentalFinder interface {
	FindOverdue(ctx context.Context, cutoff time.Time) ([]models.Rental, error)
}

type userLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
}

type vehicleLookup interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Vehicle, error)
}

// Entry describes one overdue rental.
type Entry struct {
	RentalID    uuid.UUID
	DueAt       time.Time
	Renter      string
	Vehicle     string
	DaysOverdue int64
}

// Report summarizes a single scan.
type Report struct {
	Cutoff    time.Time
	Entries   []Entry
	Messages  []string
	Delivered int
}

// ScannerParams wires the scanner dependencies.
type ScannerParams struct {
	Rentals  rentalFinder
	Users    userLookup
	Vehicles vehicleLookup
	Notifier notify.Notifier
	Logger   *logger.Logger
	Metrics  *metrics.FleetMetrics
	Location *time.Location
}

// Scanner finds overdue rentals and posts one message per rental, or a
// single all-clear message when there are none. It never mutates rentals.
type Scanner struct {
	rentals  rentalFinder
	users    userLookup
	vehicles vehicleLookup
	notifier notify.Notifier
	logg     *logger.Logger
	metrics  *metrics.FleetMetrics
	loc      *time.Location
}

// NewScanner builds an overdue scanner.
func NewScanner(params ScannerParams) (*Scanner, error) {
	if params.Rentals == nil {
		return nil, fmt.Errorf("rental repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user repository required")
	}
	if params.Vehicles == nil {
		return nil, fmt.Errorf("vehicle repository required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Scanner{
		rentals:  params.Rentals,
		users:    params.Users,
		vehicles: params.Vehicles,
		notifier: params.Notifier,
		logg:     params.Logger,
		metrics:  params.Metrics,
		loc:      loc,
	}, nil
}

// Cutoff returns the start of the day after now in loc.
func Cutoff(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	startOfDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return startOfDay.AddDate(0, 0, 1)
}

// Scan runs one pass against now.
func (s *Scanner) Scan(ctx context.Context, now time.Time) (*Report, error) {
	cutoff := Cutoff(now, s.loc)
	rows, err := s.rentals.FindOverdue(ctx, cutoff.UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find overdue rentals")
	}

	report := &Report{Cutoff: cutoff}
	s.metrics.SetOverdue(len(rows))
	ctx = s.logg.WithFields(ctx, map[string]any{
		"event":   "overdue.scan",
		"cutoff":  cutoff.Format(time.RFC3339),
		"overdue": len(rows),
	})

	if len(rows) == 0 {
		report.Messages = []string{allClearMessage}
		report.Delivered = s.send(ctx, allClearMessage)
		s.logg.Info(ctx, "overdue scan found nothing")
		return report, nil
	}

	users, vehicles, err := s.resolve(ctx, rows)
	if err != nil {
		return nil, err
	}

	for _, rental := range rows {
		user := users[rental.UserID]
		vehicle := vehicles[rental.VehicleID]
		entry := Entry{
			RentalID:    rental.ID,
			DueAt:       rental.DueAt,
			Renter:      user.FullName(),
			Vehicle:     fmt.Sprintf("%s %s", vehicle.Brand, vehicle.Model),
			DaysOverdue: checkout.OverdueDays(rental.DueAt, now),
		}
		text := entryMessage(entry, s.loc)
		report.Entries = append(report.Entries, entry)
		report.Messages = append(report.Messages, text)
		report.Delivered += s.send(ctx, text)
	}

	s.logg.Info(ctx, fmt.Sprintf("overdue scan reported %d rentals", len(rows)))
	return report, nil
}

func (s *Scanner) resolve(ctx context.Context, rows []models.Rental) (map[uuid.UUID]models.User, map[uuid.UUID]models.Vehicle, error) {
	userIDs := make([]uuid.UUID, 0, len(rows))
	vehicleIDs := make([]uuid.UUID, 0, len(rows))
	for _, rental := range rows {
		userIDs = append(userIDs, rental.UserID)
		vehicleIDs = append(vehicleIDs, rental.VehicleID)
	}
	users, err := s.users.FindByIDs(ctx, userIDs)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load renters")
	}
	vehicles, err := s.vehicles.FindByIDs(ctx, vehicleIDs)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vehicles")
	}
	return users, vehicles, nil
}

func (s *Scanner) send(ctx context.Context, text string) int {
	if err := s.notifier.Send(ctx, text); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("overdue notification failed: %v", err))
		return 0
	}
	return 1
}
