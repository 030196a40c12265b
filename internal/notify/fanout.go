package notify

import (
	"context"
	"fmt"

	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/metrics"
	"go.uber.org/multierr"
)

// Sink is a named delivery target.
type Sink struct {
	Name     string
	Notifier Notifier
}

// Fanout delivers each message to every sink. A failing sink does not stop the
// others; the combined error is returned after all sinks ran.
type Fanout struct {
	sinks   []Sink
	logg    *logger.Logger
	metrics *metrics.FleetMetrics
}

func NewFanout(logg *logger.Logger, m *metrics.FleetMetrics, sinks ...Sink) (*Fanout, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	filtered := make([]Sink, 0, len(sinks))
	for _, sink := range sinks {
		if sink.Notifier == nil {
			continue
		}
		filtered = append(filtered, sink)
	}
	if len(filtered) == 0 {
		return nil, fmt.Errorf("at least one notification sink required")
	}
	return &Fanout{sinks: filtered, logg: logg, metrics: m}, nil
}

func (f *Fanout) Send(ctx context.Context, text string) error {
	var errs error
	for _, sink := range f.sinks {
		err := sink.Notifier.Send(ctx, text)
		f.metrics.Notification(sink.Name, err == nil)
		if err != nil {
			f.logg.Warn(f.logg.WithField(ctx, "sink", sink.Name), fmt.Sprintf("notification delivery failed: %v", err))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", sink.Name, err))
		}
	}
	return errs
}

// SinkNames lists the configured sinks in delivery order.
func (f *Fanout) SinkNames() []string {
	names := make([]string, 0, len(f.sinks))
	for _, sink := range f.sinks {
		names = append(names, sink.Name)
	}
	return names
}
