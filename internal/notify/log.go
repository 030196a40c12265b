package notify

import (
	"context"

	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
)

// LogSender writes notifications to the structured log. Used in dev and as the
// fallback when no chat channel is configured.
type LogSender struct {
	logg *logger.Logger
}

func NewLogSender(logg *logger.Logger) *LogSender {
	return &LogSender{logg: logg}
}

func (l *LogSender) Send(ctx context.Context, text string) error {
	if l.logg == nil {
		return nil
	}
	l.logg.Info(l.logg.WithField(ctx, "notification", text), "notification.sent")
	return nil
}
