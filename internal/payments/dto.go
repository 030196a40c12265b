package payments

import (
	"time"

	"github.com/Oleksa-32/car-sharing-app/pkg/db/models"
	"github.com/Oleksa-32/car-sharing-app/pkg/enums"
	"github.com/google/uuid"
)

// PaymentDTO is the API shape of a payment.
type PaymentDTO struct {
	ID          uuid.UUID           `json:"id"`
	RentalID    uuid.UUID           `json:"rental_id"`
	SessionID   string              `json:"session_id"`
	SessionURL  string              `json:"session_url"`
	AmountCents int64               `json:"amount_cents"`
	Currency    string              `json:"currency"`
	Type        enums.PaymentType   `json:"type"`
	Status      enums.PaymentStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
}

// CreateSessionInput requests a checkout for a rental.
type CreateSessionInput struct {
	RentalID   uuid.UUID
	Type       enums.PaymentType
	SuccessURL string
	CancelURL  string
}

func toDTO(p *models.Payment) PaymentDTO {
	return PaymentDTO{
		ID:          p.ID,
		RentalID:    p.RentalID,
		SessionID:   p.SessionID,
		SessionURL:  p.SessionURL,
		AmountCents: p.AmountCents,
		Currency:    p.Currency,
		Type:        p.Type,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

func lineItemLabel(kind enums.PaymentType) string {
	if kind == enums.PaymentTypeFine {
		return "Rental Fine"
	}
	return "Rental Fee"
}
