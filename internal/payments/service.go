package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Oleksa-32/car-sharing-app/internal/notify"
	"github.com/Oleksa-32/car-sharing-app/pkg/db"
	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	pkgerrors "github.com/Oleksa-32/car-sharing-app/pkg/errors"
	"github.com/Oleksa-32/car-sharing-app/pkg/logger"
	"github.com/Oleksa-32/car-sharing-app/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultCurrency = "usd"

// Service opens checkout sessions for rentals and settles them.
type Service interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*PaymentDTO, error)
	ConfirmSuccess(ctx context.Context, sessionID string) (*PaymentDTO, error)
	ConfirmCancel(ctx context.Context, sessionID string) (*PaymentDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]PaymentDTO, error)
}

type amountCalculator interface {
	CalculateAmount(ctx context.Context, rentalID uuid.UUID, kind enums.PaymentType) (int64, error)
}

type rentalLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Rental, error)
}

type vehicleLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

type userLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams wires the payment service dependencies.
type ServiceParams struct {
	Repo       Repository
	Calculator amountCalculator
	Gateway    Gateway
	Rentals    rentalLoader
	Vehicles   vehicleLoader
	Users      userLoader
	Notifier   notify.Notifier
	Logger     *logger.Logger
	Metrics    *metrics.FleetMetrics
	Currency   string
	Now        func() time.Time
}

type service struct {
	repo       Repository
	calculator amountCalculator
	gateway    Gateway
	rentals    rentalLoader
	vehicles   vehicleLoader
	users      userLoader
	notifier   notify.Notifier
	logg       *logger.Logger
	metrics    *metrics.FleetMetrics
	currency   string
	now        func() time.Time
}

// NewService constructs the payment session manager.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("payment repository required")
	}
	if params.Calculator == nil {
		return nil, fmt.Errorf("amount calculator required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Rentals == nil || params.Vehicles == nil || params.Users == nil {
		return nil, fmt.Errorf("rental, vehicle and user repositories required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	currency := strings.ToLower(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:       params.Repo,
		calculator: params.Calculator,
		gateway:    params.Gateway,
		rentals:    params.Rentals,
		vehicles:   params.Vehicles,
		users:      params.Users,
		notifier:   params.Notifier,
		logg:       params.Logger,
		metrics:    params.Metrics,
		currency:   currency,
		now:        now,
	}, nil
}

// CreateSession prices the rental, opens a gateway checkout and records it as
// OPEN. Nothing is persisted when the gateway call fails.
func (s *service) CreateSession(ctx context.Context, input CreateSessionInput) (*PaymentDTO, error) {
	if input.RentalID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rental_id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment type %q", input.Type))
	}
	if input.SuccessURL == "" || input.CancelURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "success and cancel urls are required")
	}

	amount, err := s.calculator.CalculateAmount(ctx, input.RentalID, input.Type)
	if err != nil {
		return nil, err
	}

	checkout, err := s.gateway.OpenCheckoutSession(ctx, CheckoutRequest{
		AmountCents: amount,
		Currency:    s.currency,
		Label:       lineItemLabel(input.Type),
		SuccessURL:  input.SuccessURL,
		CancelURL:   input.CancelURL,
	})
	if err != nil {
		s.metrics.PaymentEvent(input.Type.String(), "gateway_error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open checkout session")
	}

	payment := &models.Payment{
		RentalID:    input.RentalID,
		SessionID:   checkout.ID,
		SessionURL:  checkout.URL,
		AmountCents: amount,
		Currency:    s.currency,
		Type:        input.Type,
		Status:      enums.PaymentStatusOpen,
	}
	if err := s.repo.Create(ctx, payment); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("checkout session %s already recorded", checkout.ID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert payment")
	}

	s.metrics.PaymentEvent(payment.Type.String(), payment.Status.String())
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"payment_id":   payment.ID.String(),
		"rental_id":    payment.RentalID.String(),
		"session_id":   payment.SessionID,
		"amount_cents": payment.AmountCents,
		"type":         payment.Type.String(),
	})
	s.logg.Info(logCtx, "payment.session_opened")

	dto := toDTO(payment)
	return &dto, nil
}

// ConfirmSuccess marks an OPEN payment PAID once the gateway reports it paid.
// Repeated confirmations are no-ops and notify at most once.
func (s *service) ConfirmSuccess(ctx context.Context, sessionID string) (*PaymentDTO, error) {
	payment, err := s.findBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	switch payment.Status {
	case enums.PaymentStatusPaid:
		return dtoPtr(payment), nil
	case enums.PaymentStatusCanceled:
		return nil, invalidTransition(sessionID, payment.Status, enums.PaymentStatusPaid)
	}

	status, err := s.gateway.SessionStatus(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retrieve checkout session")
	}
	if status != StatusPaid {
		return dtoPtr(payment), nil
	}

	changed, err := s.repo.TransitionStatus(ctx, sessionID, enums.PaymentStatusOpen, enums.PaymentStatusPaid, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark payment paid")
	}
	if changed == 0 {
		return s.settledConcurrently(ctx, sessionID, enums.PaymentStatusPaid)
	}
	payment.Status = enums.PaymentStatusPaid

	s.metrics.PaymentEvent(payment.Type.String(), payment.Status.String())
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"payment_id": payment.ID.String(),
		"rental_id":  payment.RentalID.String(),
		"session_id": sessionID,
	})
	s.logg.Info(logCtx, "payment.paid")
	s.notifyPaid(logCtx, payment)

	return dtoPtr(payment), nil
}

// ConfirmCancel marks an OPEN payment CANCELED. Cancelling twice is a no-op.
func (s *service) ConfirmCancel(ctx context.Context, sessionID string) (*PaymentDTO, error) {
	payment, err := s.findBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	switch payment.Status {
	case enums.PaymentStatusCanceled:
		return dtoPtr(payment), nil
	case enums.PaymentStatusPaid:
		return nil, invalidTransition(sessionID, payment.Status, enums.PaymentStatusCanceled)
	}

	changed, err := s.repo.TransitionStatus(ctx, sessionID, enums.PaymentStatusOpen, enums.PaymentStatusCanceled, s.now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark payment canceled")
	}
	if changed == 0 {
		return s.settledConcurrently(ctx, sessionID, enums.PaymentStatusCanceled)
	}
	payment.Status = enums.PaymentStatusCanceled

	s.metrics.PaymentEvent(payment.Type.String(), payment.Status.String())
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"payment_id": payment.ID.String(),
		"session_id": sessionID,
	})
	s.logg.Info(logCtx, "payment.canceled")

	return dtoPtr(payment), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]PaymentDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	out := make([]PaymentDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) findBySession(ctx context.Context, sessionID string) (*models.Payment, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session_id is required")
	}
	payment, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("payment session %s not found", sessionID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	return payment, nil
}

// settledConcurrently resolves a lost compare-and-set: the row left OPEN
// between our read and our write.
func (s *service) settledConcurrently(ctx context.Context, sessionID string, want enums.PaymentStatus) (*PaymentDTO, error) {
	payment, err := s.findBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if payment.Status == want {
		return dtoPtr(payment), nil
	}
	return nil, invalidTransition(sessionID, payment.Status, want)
}

func (s *service) notifyPaid(ctx context.Context, payment *models.Payment) {
	text, err := s.paidMessage(ctx, payment)
	if err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("payment notification skipped: %v", err))
		return
	}
	if err := s.notifier.Send(ctx, text); err != nil {
		s.logg.Warn(ctx, fmt.Sprintf("payment notification failed: %v", err))
	}
}

func (s *service) paidMessage(ctx context.Context, payment *models.Payment) (string, error) {
	rental, err := s.rentals.FindByID(ctx, payment.RentalID)
	if err != nil {
		return "", fmt.Errorf("load rental: %w", err)
	}
	user, err := s.users.FindByID(ctx, rental.UserID)
	if err != nil {
		return "", fmt.Errorf("load user: %w", err)
	}
	vehicle, err := s.vehicles.FindByID(ctx, rental.VehicleID)
	if err != nil {
		return "", fmt.Errorf("load vehicle: %w", err)
	}
	return paidMessage(payment, user, vehicle), nil
}

func invalidTransition(sessionID string, from, to enums.PaymentStatus) error {
	return pkgerrors.New(
		pkgerrors.CodeStateConflict,
		fmt.Sprintf("payment session %s is %s and cannot become %s", sessionID, from, to),
	)
}

func dtoPtr(p *models.Payment) *PaymentDTO {
	dto := toDTO(p)
	return &dto
}
