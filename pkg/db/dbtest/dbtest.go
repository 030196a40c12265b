// Package dbtest opens isolated in-memory SQLite databases shaped like the
// production schema and seeds them with fixtures.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/db"
	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	"github.com/Oleksa-32/car-sharing-app/pkg/migrate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New returns a client bound to a private in-memory database. A single
// connection serializes writers the way row locks would on Postgres.
func New(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	client := db.FromConn(conn)
	require.NoError(t, migrate.AutoMigrateModels(client))
	return client
}

// SeedUser inserts a customer with the given names.
func SeedUser(t *testing.T, client *db.Client, first, last string) *models.User {
	t.Helper()
	user := &models.User{
		Email:     fmt.Sprintf("%s.%s@example.com", uuid.NewString()[:8], first),
		FirstName: first,
		LastName:  last,
		Role:      enums.RoleCustomer,
	}
	require.NoError(t, client.DB().Create(user).Error)
	return user
}

// SeedVehicle inserts a sedan with the given stock and daily fee.
func SeedVehicle(t *testing.T, client *db.Client, brand, model string, units int, dailyFee string) *models.Vehicle {
	t.Helper()
	vehicle := &models.Vehicle{
		Brand:          brand,
		Model:          model,
		Type:           enums.VehicleTypeSedan,
		AvailableUnits: units,
		DailyFee:       decimal.RequireFromString(dailyFee),
	}
	require.NoError(t, client.DB().Create(vehicle).Error)
	return vehicle
}

// SeedRental inserts a rental row directly, bypassing inventory.
func SeedRental(t *testing.T, client *db.Client, userID, vehicleID uuid.UUID, rentalAt, dueAt time.Time, returnedAt *time.Time) *models.Rental {
	t.Helper()
	rental := &models.Rental{
		RentalAt:   rentalAt.UTC(),
		DueAt:      dueAt.UTC(),
		ReturnedAt: returnedAt,
		VehicleID:  vehicleID,
		UserID:     userID,
	}
	require.NoError(t, client.DB().Create(rental).Error)
	return rental
}

// Units reads the current available units for a vehicle.
func Units(t *testing.T, client *db.Client, vehicleID uuid.UUID) int {
	t.Helper()
	var vehicle models.Vehicle
	require.NoError(t, client.DB().First(&vehicle, "id = ?", vehicleID).Error)
	return vehicle.AvailableUnits
}
