package stripewebhook

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Oleksa-32/car-sharing-app/internal/payments"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/stripe/stripe-go/v84"
)

type paymentConfirmer interface {
	ConfirmSuccess(ctx context.Context, sessionID string) (*payments.PaymentDTO, error)
	ConfirmCancel(ctx context.Context, sessionID string) (*payments.PaymentDTO, error)
}

type ServiceParams struct {
	Payments paymentConfirmer
	Logger   *logger.Logger
}

// Service settles checkout sessions from Stripe events. It runs the same
// transitions as the browser redirect endpoints, so whichever arrives first
// wins and the other is a no-op.
type Service struct {
	payments paymentConfirmer
	logg     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment service required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{payments: params.Payments, logg: params.Logger}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event payload missing")
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"stripe_event_id":   event.ID,
		"stripe_event_type": string(event.Type),
	})

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		sessionID, err := checkoutSessionID(event)
		if err != nil {
			return err
		}
		_, err = s.payments.ConfirmSuccess(ctx, sessionID)
		return ignoreUnknownSession(err)
	case stripe.EventTypeCheckoutSessionExpired:
		sessionID, err := checkoutSessionID(event)
		if err != nil {
			return err
		}
		_, err = s.payments.ConfirmCancel(ctx, sessionID)
		return ignoreUnknownSession(err)
	default:
		s.logg.Debug(ctx, "stripe event ignored")
		return nil
	}
}

func checkoutSessionID(event *stripe.Event) (string, error) {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session")
	}
	if cs.ID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("event %s has no checkout session id", event.ID))
	}
	return cs.ID, nil
}

// Sessions opened outside this service (or already purged) are acknowledged
// so Stripe stops retrying them.
func ignoreUnknownSession(err error) error {
	if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		return nil
	}
	return err
}
