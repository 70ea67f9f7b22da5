package payments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/MyResellApp/MyResell/pkg/enums"
)

// PaymentDTO is the transport shape for a payment record.
type PaymentDTO struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"user_id"`
	SubscriptionID uuid.UUID           `json:"subscription_id"`
	PlanID         uuid.UUID           `json:"plan_id"`
	Amount         decimal.Decimal     `json:"amount"`
	Currency       string              `json:"currency"`
	PaymentMethod  enums.PaymentMethod `json:"payment_method"`
	TransactionID  string              `json:"transaction_id"`
	Status         enums.PaymentStatus `json:"status"`
	CreatedAt      time.Time           `json:"created_at"`
}

func FromModel(p *models.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	return &PaymentDTO{
		ID:             p.ID,
		UserID:         p.UserID,
		SubscriptionID: p.SubscriptionID,
		PlanID:         p.PlanID,
		Amount:         p.Amount,
		Currency:       p.Currency,
		PaymentMethod:  p.PaymentMethod,
		TransactionID:  p.TransactionID,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
	}
}
