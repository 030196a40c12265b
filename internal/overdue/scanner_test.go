package overdue

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Oleksa-32/car-sharing-app/internal/rentals"
	"github.com/Oleksa-32/car-sharing-app/internal/users"
	"github.com/Oleksa-32/car-sharing-app/internal/vehicles"
	"github.com/Oleksa-32/car-sharing-app/pkg/db"
	"github.com/Oleksa-32/car-sharing-app/pkg/db/dbtest"
	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
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

var scanNow = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

func newScanner(t *testing.T, client *db.Client, notifier *recordingNotifier, reg prometheus.Registerer) *Scanner {
	t.Helper()
	scanner, err := NewScanner(ScannerParams{
		Rentals:  rentals.NewRepository(client.DB()),
		Users:    users.NewRepository(client.DB()),
		Vehicles: vehicles.NewRepository(client.DB()),
		Notifier: notifier,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}}),
		Metrics:  metrics.NewFleetMetrics(reg),
	})
	require.NoError(t, err)
	return scanner
}

func TestCutoffIsStartOfTomorrow(t *testing.T) {
	got := Cutoff(time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC), got)

	kyiv := time.FixedZone("EEST", 3*60*60)
	got = Cutoff(time.Date(2025, 6, 10, 22, 30, 0, 0, time.UTC), kyiv)
	assert.Equal(t, time.Date(2025, 6, 12, 0, 0, 0, 0, kyiv), got)
}

func TestScanAllClear(t *testing.T) {
	client := dbtest.New(t)
	vehicle := dbtest.SeedVehicle(t, client, "Kia", "Rio", 1, "40.00")
	user := dbtest.SeedUser(t, client, "Ada", "Lovelace")
	dbtest.SeedRental(t, client, user.ID, vehicle.ID, scanNow, scanNow.Add(72*time.Hour), nil)

	notifier := &recordingNotifier{}
	report, err := newScanner(t, client, notifier, nil).Scan(context.Background(), scanNow)
	require.NoError(t, err)

	assert.Empty(t, report.Entries)
	require.Len(t, notifier.messages, 1)
	assert.Equal(t, allClearMessage, notifier.messages[0])
	assert.Equal(t, 1, report.Delivered)
}

func TestScanReportsEachOverdueRental(t *testing.T) {
	client := dbtest.New(t)
	vehicle := dbtest.SeedVehicle(t, client, "Toyota", "Camry", 3, "50.00")
	ada := dbtest.SeedUser(t, client, "Ada", "Lovelace")
	grace := dbtest.SeedUser(t, client, "Grace", "Hopper")
	returned := scanNow.Add(-time.Hour)

	late := dbtest.SeedRental(t, client, ada.ID, vehicle.ID, scanNow.Add(-120*time.Hour), scanNow.Add(-50*time.Hour), nil)
	dueToday := dbtest.SeedRental(t, client, grace.ID, vehicle.ID, scanNow.Add(-24*time.Hour), scanNow.Add(6*time.Hour), nil)
	dbtest.SeedRental(t, client, grace.ID, vehicle.ID, scanNow.Add(-96*time.Hour), scanNow.Add(-72*time.Hour), &returned)
	dbtest.SeedRental(t, client, ada.ID, vehicle.ID, scanNow, scanNow.Add(48*time.Hour), nil)

	notifier := &recordingNotifier{}
	reg := prometheus.NewRegistry()
	report, err := newScanner(t, client, notifier, reg).Scan(context.Background(), scanNow)
	require.NoError(t, err)

	require.Len(t, report.Entries, 2)
	assert.Equal(t, late.ID, report.Entries[0].RentalID)
	assert.Equal(t, int64(2), report.Entries[0].DaysOverdue)
	assert.Equal(t, "Ada Lovelace", report.Entries[0].Renter)
	assert.Equal(t, "Toyota Camry", report.Entries[0].Vehicle)
	assert.Equal(t, dueToday.ID, report.Entries[1].RentalID)
	assert.Equal(t, int64(0), report.Entries[1].DaysOverdue)

	require.Len(t, notifier.messages, 2)
	assert.Contains(t, notifier.messages[0], late.ID.String())
	assert.Contains(t, notifier.messages[0], "Days overdue: 2")
	assert.Contains(t, notifier.messages[1], "Grace Hopper")

	families, err := reg.Gather()
	require.NoError(t, err)
	var gauge *dto.MetricFamily
	for _, family := range families {
		if family.GetName() == "carsharing_overdue_rentals" {
			gauge = family
		}
	}
	require.NotNil(t, gauge)
	assert.Equal(t, float64(2), gauge.GetMetric()[0].GetGauge().GetValue())
}

func TestScanDoesNotMutateRentals(t *testing.T) {
	client := dbtest.New(t)
	vehicle := dbtest.SeedVehicle(t, client, "Toyota", "Camry", 1, "50.00")
	user := dbtest.SeedUser(t, client, "Ada", "Lovelace")
	rental := dbtest.SeedRental(t, client, user.ID, vehicle.ID, scanNow.Add(-72*time.Hour), scanNow.Add(-48*time.Hour), nil)

	_, err := newScanner(t, client, &recordingNotifier{}, nil).Scan(context.Background(), scanNow)
	require.NoError(t, err)

	var stored models.Rental
	require.NoError(t, client.DB().First(&stored, "id = ?", rental.ID).Error)
	assert.Nil(t, stored.ReturnedAt)
	assert.Equal(t, 1, dbtest.Units(t, client, vehicle.ID))
}

func TestScanToleratesNotifierFailure(t *testing.T) {
	client := dbtest.New(t)
	vehicle := dbtest.SeedVehicle(t, client, "Toyota", "Camry", 1, "50.00")
	user := dbtest.SeedUser(t, client, "Ada", "Lovelace")
	dbtest.SeedRental(t, client, user.ID, vehicle.ID, scanNow.Add(-72*time.Hour), scanNow.Add(-48*time.Hour), nil)

	notifier := &recordingNotifier{err: errors.New("telegram down")}
	report, err := newScanner(t, client, notifier, nil).Scan(context.Background(), scanNow)
	require.NoError(t, err)
	assert.Len(t, report.Entries, 1)
	assert.Equal(t, 0, report.Delivered)
}
