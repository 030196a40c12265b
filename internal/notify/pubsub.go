package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsub "cloud.google.com/go/pubsub/v2"
)

// PubSubSender mirrors notifications onto a Pub/Sub topic for downstream consumers.
type PubSubSender struct {
	publish func(ctx context.Context, msg *pubsub.Message) error
	now     func() time.Time
}

type notificationEnvelope struct {
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// NewPubSubSender wraps a topic publisher and waits for the server ack on each send.
func NewPubSubSender(publisher *pubsub.Publisher) (*PubSubSender, error) {
	if publisher == nil {
		return nil, fmt.Errorf("pubsub publisher required")
	}
	return &PubSubSender{
		publish: func(ctx context.Context, msg *pubsub.Message) error {
			_, err := publisher.Publish(ctx, msg).Get(ctx)
			return err
		},
		now: time.Now,
	}, nil
}

func (p *PubSubSender) Send(ctx context.Context, text string) error {
	data, err := json.Marshal(notificationEnvelope{Text: text, SentAt: p.now().UTC()})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	msg := &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"kind": "notification"},
	}
	if err := p.publish(ctx, msg); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	return nil
}
