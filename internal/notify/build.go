package notify

import (
	"context"

	pubsub "cloud.google.com/go/pubsub/v2"
	"github.com/Oleksa-32/car-sharing-app/pkg/config"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/metrics"
)

const (
	SinkTelegram = "telegram"
	SinkPubSub   = "pubsub"
	SinkLog      = "log"
)

// FromConfig assembles the fan-out: the log sink always, Telegram when the bot
// is configured, Pub/Sub when a publisher is supplied.
func FromConfig(ctx context.Context, cfg config.TelegramConfig, publisher *pubsub.Publisher, logg *logger.Logger, m *metrics.FleetMetrics) (*Fanout, error) {
	sinks := []Sink{{Name: SinkLog, Notifier: NewLogSender(logg)}}

	if cfg.Enabled() {
		telegram, err := NewTelegramSender(cfg, nil)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, Sink{Name: SinkTelegram, Notifier: telegram})
	} else {
		logg.Warn(ctx, "telegram notifications disabled: bot token or chat id missing")
	}

	if publisher != nil {
		ps, err := NewPubSubSender(publisher)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, Sink{Name: SinkPubSub, Notifier: ps})
	}

	return NewFanout(logg, m, sinks...)
}
