package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestFleetMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFleetMetrics(reg)

	m.RentalEvent("created")
	m.RentalEvent("created")
	m.PaymentEvent("fine", "paid")
	m.Notification("telegram", false)
	m.SetOverdue(3)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "carsharing_rental_events_total", "event", "created"); err != nil {
		t.Fatalf("fetch rentals: %v", err)
	} else if got != 2 {
		t.Fatalf("expected created=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "carsharing_payment_events_total", "status", "paid"); err != nil {
		t.Fatalf("fetch payments: %v", err)
	} else if got != 1 {
		t.Fatalf("expected paid=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "carsharing_notifications_total", "result", "error"); err != nil {
		t.Fatalf("fetch notifications: %v", err)
	} else if got != 1 {
		t.Fatalf("expected error=1, got %f", got)
	}

	overdue := findMetricFamily(mfs, "carsharing_overdue_rentals")
	if overdue == nil || overdue.GetMetric()[0].GetGauge().GetValue() != 3 {
		t.Fatalf("expected overdue gauge 3")
	}
}

func TestFleetMetricsNilSafe(t *testing.T) {
	var m *FleetMetrics
	m.RentalEvent("created")
	m.PaymentEvent("rental", "open")
	m.Notification("log", true)
	m.SetOverdue(1)

	unregistered := NewFleetMetrics(nil)
	unregistered.RentalEvent("created")
}
