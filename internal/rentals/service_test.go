package rentals

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Oleksa-32/car-sharing-app/internal/users"
	"github.com/Oleksa-32/car-sharing-app/internal/vehicles"
	"github.com/Oleksa-32/car-sharing-app/pkg/db"
	"github.com/Oleksa-32/car-sharing-app/pkg/db/dbtest"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) Send(_ context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, text)
	return n.err
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

var fixedNow = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *db.Client, *recordingNotifier) {
	t.Helper()
	client := dbtest.New(t)
	vehicleRepo := vehicles.NewRepository(client.DB())
	ledger, err := vehicles.NewLedger(vehicleRepo)
	require.NoError(t, err)
	notifier := &recordingNotifier{}

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(client.DB()),
		Vehicles: vehicleRepo,
		Users:    users.NewRepository(client.DB()),
		Ledger:   ledger,
		Tx:       client,
		Notifier: notifier,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}}),
		Now:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc, client, notifier
}

func createInput(vehicleID, userID uuid.UUID) CreateInput {
	return CreateInput{
		VehicleID: vehicleID,
		UserID:    userID,
		RentalAt:  fixedNow,
		DueAt:     fixedNow.Add(3 * 24 * time.Hour),
	}
}

func TestCreateReservesUnitAndNotifies(t *testing.T) {
	svc, client, notifier := newTestService(t)
	vehicle := dbtest.SeedVehicle(t, client, "Toyota", "Yaris", 2, "50.00")
	user := dbtest.SeedUser(t, client, "Ada", "Lovelace")

	rental, err := svc.Create(context.Background(), createInput(vehicle.ID, user.ID))
	require.NoError(t, err)
	assert.True(t, rental.Active)
	assert.Nil(t, rental.ReturnedAt)
	assert.Equal(t, vehicle.ID, rental.VehicleID)
	assert.Equal(t, 1, dbtest.Units(t, client, vehicle.ID))

	msgs := notifier.Messages()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "New rental created")
	assert.Contains(t, msgs[0], "Ada Lovelace")
	assert.Contains(t, msgs[0], "Toyota Yaris")
	assert.Contains(t, msgs[0], "Remaining units: 1")
}

func TestCreateOutOfStockLeavesNoRental(t *testing.T) {
	svc, client, notifier := newTestService(t)
	vehicle := dbtest.SeedVehicle(t, client, "Toyota", "Yaris", 0, "50.00")
	user := dbtest.SeedUser(t, client, "Ada", "Lovelace")

	_, err := svc.Create(context.Background(), createInput(vehicle.ID, user.ID))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeOutOfStock))
	assert.Equal(t, 0, dbtest.Units(t, client, vehicle.ID))
	assert.Empty(t, notifier.Messages())

	list, err := svc.ListForUser(context.Background(), user.ID, true)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateUnknownVehicleOrUser(t *testing.T) {
	svc, client, _ := newTestService(t)
	vehicle := dbtest.SeedVehicle(t, client, "Toyota", "Yaris", 1, "50.00")
	user := dbtest.SeedUser(t, client, "Ada", "Lovelace")

	_, err := svc.Create(context.Background(), createInput(uuid.New(), user.ID))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.Contains(t, err.Error(), "vehicle")

	_, err = svc.Create(context.Background(), createInput(vehicle.ID, uuid.New()))
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	assert.Contains(t, err.Error(), "user")
	assert.Equal(t, 1, dbtest.Units(t, client, vehicle.ID))
}

func TestCreateRejectsInvalidWindow(t *testing.T) {
	svc, client, _ := newTestService(t)
	vehicle := dbtest.SeedVehicle(t, client, "Toyota", "Yaris", 1, "50.00")
	user := dbtest.SeedUser(t, client, "Ada", "Lovelace")

	input := createInput(vehicle.ID, user.ID)
	input.DueAt = input.RentalAt
	_, err := svc.Create(context.Background(), input)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestCreateConcurrentLastUnit(t *testing.T) {
	svc, client, _ := newTestService(t)
	vehicle := dbtest.SeedVehicle(t, client, "Toyota", "Yaris", 1, "50.00")

	const renters = 10
	userIDs := make([]uuid.UUID, renters)
	for i := range userIDs {
		userIDs[i] = dbtest.SeedUser(t, client, "Renter", uuid.NewString()[:6]).ID
	}

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		succeeded  int
		outOfStock int
		other      []error
	)
	for i := 0; i < renters; i++ {
		wg.Add(1)
		go func(userID uuid.UUID) {
			defer wg.Done()
			_, err := svc.Create(context.Background(), createInput(vehicle.ID, userID))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case pkgerrors.Is(err, pkgerrors.CodeOutOfStock):
				outOfStock++
			default:
				other = append(other, err)
			}
		}(userIDs[i])
	}
	wg.Wait()

	require.Empty(t, other)
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, renters-1, outOfStock)
	assert.Equal(t, 0, dbtest.Units(t, client, vehicle.ID))
}

func TestReturnRoundTripRestoresInventory(t *testing.T) {
	svc, client, notifier := newTestService(t)
	vehicle := dbtest.SeedVehicle(t, client, "Skoda", "Octavia", 3, "45.00")
	user := dbtest.SeedUser(t, client, "Linus", "Torvalds")
	ctx := context.Background()

	rental, err := svc.Create(ctx, createInput(vehicle.ID, user.ID))
	require.NoError(t, err)
	assert.Equal(t, 2, dbtest.Units(t, client, vehicle.ID))

	result, err := svc.Return(ctx, rental.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, result.AvailableUnits)
	assert.Equal(t, 3, dbtest.Units(t, client, vehicle.ID))
	require.NotNil(t, result.Rental.ReturnedAt)
	assert.True(t, result.Rental.ReturnedAt.Equal(fixedNow))
	assert.False(t, result.Rental.Active)

	msgs := notifier.Messages()
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[1], "Rental returned")
	assert.Contains(t, msgs[1], "Available units: 3")

	stored, err := svc.Get(ctx, rental.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ReturnedAt)
	assert.True(t, stored.ReturnedAt.Equal(fixedNow))
}

func TestReturnTwiceFailsWithoutDoubleRelease(t *testing.T) {
	svc, client, notifier := newTestService(t)
	vehicle := dbtest.SeedVehicle(t, client, "Skoda", "Fabia", 1, "30.00")
	user := dbtest.SeedUser(t, client, "Ken", "Thompson")
	ctx := context.Background()

	rental, err := svc.Create(ctx, createInput(vehicle.ID, user.ID))
	require.NoError(t, err)
	_, err = svc.Return(ctx, rental.ID)
	require.NoError(t, err)

	_, err = svc.Return(ctx, rental.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAlreadyReturned))
	assert.Equal(t, 1, dbtest.Units(t, client, vehicle.ID))
	assert.Len(t, notifier.Messages(), 2)
}

func TestReturnUnknownRental(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Return(context.Background(), uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestGetUnknownRental(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
}

func TestListForUserFiltersByActive(t *testing.T) {
	svc, client, _ := newTestService(t)
	vehicle := dbtest.SeedVehicle(t, client, "VW", "Golf", 5, "40.00")
	user := dbtest.SeedUser(t, client, "Rob", "Pike")
	other := dbtest.SeedUser(t, client, "Russ", "Cox")
	ctx := context.Background()

	first, err := svc.Create(ctx, createInput(vehicle.ID, user.ID))
	require.NoError(t, err)
	second, err := svc.Create(ctx, createInput(vehicle.ID, user.ID))
	require.NoError(t, err)
	_, err = svc.Create(ctx, createInput(vehicle.ID, other.ID))
	require.NoError(t, err)
	_, err = svc.Return(ctx, first.ID)
	require.NoError(t, err)

	active, err := svc.ListForUser(ctx, user.ID, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.ID, active[0].ID)

	returned, err := svc.ListForUser(ctx, user.ID, false)
	require.NoError(t, err)
	require.Len(t, returned, 1)
	assert.Equal(t, first.ID, returned[0].ID)
}

func TestNotificationFailureDoesNotFailCreate(t *testing.T) {
	svc, client, notifier := newTestService(t)
	notifier.err = errors.New("telegram down")
	vehicle := dbtest.SeedVehicle(t, client, "VW", "Polo", 1, "25.00")
	user := dbtest.SeedUser(t, client, "Dennis", "Ritchie")

	_, err := svc.Create(context.Background(), createInput(vehicle.ID, user.ID))
	require.NoError(t, err)
	assert.Equal(t, 0, dbtest.Units(t, client, vehicle.ID))
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)
}
