package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// FleetMetrics counts rental, payment and notification outcomes. A nil
// receiver records nothing.
type FleetMetrics struct {
	rentals       *prometheus.CounterVec
	payments      *prometheus.CounterVec
	notifications *prometheus.CounterVec
	overdue       prometheus.Gauge
}

// NewFleetMetrics registers the fleet metrics on the provided registerer.
func NewFleetMetrics(reg prometheus.Registerer) *FleetMetrics {
	if reg == nil {
		return &FleetMetrics{}
	}
	rentals := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rental_events_total",
		Help:      "Rental lifecycle outcomes by event.",
	}, []string{"event"})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_events_total",
		Help:      "Payment session transitions by type and status.",
	}, []string{"type", "status"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Notification deliveries by sink and result.",
	}, []string{"sink", "result"})
	overdue := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "overdue_rentals",
		Help:      "Active rentals found overdue by the last scan.",
	})
	reg.MustRegister(rentals, payments, notifications, overdue)
	return &FleetMetrics{
		rentals:       rentals,
		payments:      payments,
		notifications: notifications,
		overdue:       overdue,
	}
}

// RentalEvent counts created, returned, out_of_stock and similar outcomes.
func (m *FleetMetrics) RentalEvent(event string) {
	if m == nil || m.rentals == nil {
		return
	}
	m.rentals.WithLabelValues(normalizeLabel(event)).Inc()
}

func (m *FleetMetrics) PaymentEvent(paymentType, status string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(paymentType), normalizeLabel(status)).Inc()
}

func (m *FleetMetrics) Notification(sink string, ok bool) {
	if m == nil || m.notifications == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.notifications.WithLabelValues(normalizeLabel(sink), result).Inc()
}

func (m *FleetMetrics) SetOverdue(count int) {
	if m == nil || m.overdue == nil {
		return
	}
	m.overdue.Set(float64(count))
}
