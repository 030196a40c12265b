// Package notify delivers short operator messages about rentals, payments and
// overdue vehicles. Delivery is best-effort: callers log failures and move on.
package notify

import "context"

// Notifier sends one plain-text message.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, text string) error

func (f NotifierFunc) Send(ctx context.Context, text string) error {
	return f(ctx, text)
}
