package migrate

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Oleksa-32/car-sharing-app/pkg/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func readMigration(t *testing.T, suffix string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", "*_"+suffix+".sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no %s migration file found", suffix)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestVehiclesMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_vehicles")
	checks := []string{
		"CREATE TABLE IF NOT EXISTS vehicles",
		"CHECK (available_units >= 0)",
		"CHECK (daily_fee > 0)",
		"DROP TABLE IF EXISTS vehicles",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestRentalsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_rentals")
	checks := []string{
		"CREATE TABLE IF NOT EXISTS rentals",
		"CHECK (due_at > rental_at)",
		"FOREIGN KEY (vehicle_id) REFERENCES vehicles(id)",
		"WHERE returned_at IS NULL",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestPaymentsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "create_payments")
	checks := []string{
		"CONSTRAINT payments_session_id_key UNIQUE (session_id)",
		"CHECK (amount_cents >= 0)",
		"CHECK (status IN ('open', 'paid', 'canceled'))",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestEmbeddedMatchesDisk(t *testing.T) {
	embeddedNames, err := fs.Glob(embedded, "migrations/*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	diskNames, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob disk: %v", err)
	}
	if len(embeddedNames) != len(diskNames) {
		t.Fatalf("embedded %d migrations, disk has %d", len(embeddedNames), len(diskNames))
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Vehicle Color!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(path, "_add_vehicle_color.sql") {
		t.Fatalf("unexpected path %q", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
}

func TestAutoMigrateModels(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	client := db.FromConn(conn)
	if err := AutoMigrateModels(client); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	for _, table := range []string{"users", "vehicles", "rentals", "payments"} {
		if !conn.Migrator().HasTable(table) {
			t.Errorf("expected table %s", table)
		}
	}
}
