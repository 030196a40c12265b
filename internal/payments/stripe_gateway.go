package payments

import (
	"context"
	"errors"

	pkgstripe "github.com/Oleksa-32/car-sharing-app/pkg/stripe"
	"github.com/stripe/stripe-go/v84"
)

type sessionAPI interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type stripeGateway struct {
	sessions sessionAPI
}

// NewStripeGateway adapts the Stripe checkout-session API to Gateway.
func NewStripeGateway(client *pkgstripe.Client) (Gateway, error) {
	if client == nil || client.CheckoutSessions() == nil {
		return nil, errors.New("stripe client required")
	}
	return &stripeGateway{sessions: client.CheckoutSessions()}, nil
}

func (g *stripeGateway) OpenCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(req.Currency),
					UnitAmount: stripe.Int64(req.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Label),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx

	cs, err := g.sessions.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSession{ID: cs.ID, URL: cs.URL}, nil
}

func (g *stripeGateway) SessionStatus(ctx context.Context, sessionID string) (string, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	cs, err := g.sessions.Get(sessionID, params)
	if err != nil {
		return "", err
	}
	return string(cs.PaymentStatus), nil
}
