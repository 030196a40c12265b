package enums

import "testing"

func TestParseVehicleType(t *testing.T) {
	got, err := ParseVehicleType(" SUV ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != VehicleTypeSUV {
		t.Fatalf("expected suv, got %s", got)
	}
	if _, err := ParseVehicleType("truck"); err == nil {
		t.Fatal("expected unknown vehicle type to fail")
	}
}

func TestParsePaymentType(t *testing.T) {
	got, err := ParsePaymentType("FINE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != PaymentTypeFine {
		t.Fatalf("expected fine, got %s", got)
	}
	if PaymentType("deposit").IsValid() {
		t.Fatal("deposit is not a payment type")
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	if PaymentStatusOpen.IsTerminal() {
		t.Fatal("open is not terminal")
	}
	if !PaymentStatusPaid.IsTerminal() || !PaymentStatusCanceled.IsTerminal() {
		t.Fatal("paid and canceled are terminal")
	}
	if _, err := ParsePaymentStatus("refunded"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestParseRole(t *testing.T) {
	got, err := ParseRole("Manager")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != RoleManager {
		t.Fatalf("expected manager, got %s", got)
	}
	if Role("admin").IsValid() {
		t.Fatal("admin is not a role")
	}
}
