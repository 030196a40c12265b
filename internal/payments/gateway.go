package payments

import "context"

// StatusPaid is the only gateway status treated as a successful payment.
const StatusPaid = "paid"

// CheckoutRequest describes a single-line hosted checkout.
type CheckoutRequest struct {
	AmountCents int64
	Currency    string
	Label       string
	SuccessURL  string
	CancelURL   string
}

// CheckoutSession is the gateway handle returned for a new checkout.
type CheckoutSession struct {
	ID  string
	URL string
}

// Gateway opens hosted checkout sessions and reports their payment status.
type Gateway interface {
	OpenCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	SessionStatus(ctx context.Context, sessionID string) (string, error)
}
