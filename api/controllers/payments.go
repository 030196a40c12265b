package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/Oleksa-32/car-sharing-app/api/responses"
	"github.com/Oleksa-32/car-sharing-app/api/validators"
	paymentsvc "github.com/Oleksa-32/car-sharing-app/internal/payments"
	rentalsvc "github.com/Oleksa-32/car-sharing-app/internal/rentals"
	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
)

// Stripe substitutes this placeholder with the session id on redirect.
const checkoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"

type createPaymentRequest struct {
	RentalID uuid.UUID         `json:"rental_id" validate:"required"`
	Type     enums.PaymentType `json:"type" validate:"required,oneof=rental fine"`
}

// RedirectURLs builds the success/cancel URLs the gateway redirects to.
type RedirectURLs struct {
	Success string
	Cancel  string
}

// NewRedirectURLs derives the redirect targets from the public base URL.
func NewRedirectURLs(publicURL string) (RedirectURLs, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(publicURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return RedirectURLs{}, pkgerrors.New(pkgerrors.CodeValidation, "public url must be absolute")
	}
	build := func(path string) string {
		return base.String() + path + "?session_id=" + checkoutSessionPlaceholder
	}
	return RedirectURLs{
		Success: build("/api/v1/payments/success"),
		Cancel:  build("/api/v1/payments/cancel"),
	}, nil
}

func ListPayments(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		userID, err := resolveUserScope(r, actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payments, err := svc.ListForUser(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payments)
	}
}

// CreatePayment opens a checkout session for a rental the caller owns.
func CreatePayment(svc paymentsvc.Service, rentals rentalsvc.Service, urls RedirectURLs, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || rentals == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		actor, err := requireActor(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createPaymentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rental, err := rentals.Get(r.Context(), payload.RentalID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := ensureOwnerOrManager(actor, rental.UserID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		payment, err := svc.CreateSession(r.Context(), paymentsvc.CreateSessionInput{
			RentalID:   payload.RentalID,
			Type:       payload.Type,
			SuccessURL: urls.Success,
			CancelURL:  urls.Cancel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// PaymentSuccess is the gateway's success redirect target.
func PaymentSuccess(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		sessionID, err := validators.RequireQueryString(r, "session_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.ConfirmSuccess(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}

// PaymentCancel is the gateway's cancel redirect target.
func PaymentCancel(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}
		sessionID, err := validators.RequireQueryString(r, "session_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payment, err := svc.ConfirmCancel(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, payment)
	}
}
