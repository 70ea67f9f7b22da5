package checkout

import (
	"github.com/google/uuid"

	"github.com/MyResellApp/MyResell/internal/payments"
	"github.com/MyResellApp/MyResell/internal/subscriptions"
	"github.com/MyResellApp/MyResell/pkg/enums"
)

// Status is the orchestrator's view of a checkout attempt.
type Status string

const (
	// StatusPaymentInProgress means the buyer was handed to the provider and
	// the outcome will arrive on the success or cancel entry points.
	StatusPaymentInProgress Status = "payment_in_progress"
	// StatusSucceeded means settlement completed and the records are durable.
	StatusSucceeded Status = "succeeded"
	// StatusCancelled means the buyer backed out; nothing was written.
	StatusCancelled Status = "cancelled"
)

// BeginRequest starts a checkout for the authenticated buyer.
type BeginRequest struct {
	PlanID        uuid.UUID           `json:"plan_id" validate:"required"`
	PaymentMethod enums.PaymentMethod `json:"payment_method" validate:"required"`
}

// BeginResponse reports where the checkout went. RedirectURL is set for
// hosted providers; Result is set when settlement completed inline.
type BeginResponse struct {
	Status        Status              `json:"status"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	RedirectURL   string              `json:"redirect_url,omitempty"`
	Result        *SettlementResult   `json:"result,omitempty"`
}

// SettlementResult carries the records written by a successful settlement.
type SettlementResult struct {
	Subscription *subscriptions.SubscriptionDTO `json:"subscription"`
	Payment      *payments.PaymentDTO           `json:"payment"`
	// AlreadySettled is true when the provider reference had been recorded
	// before this call; the stored records are returned unchanged.
	AlreadySettled bool `json:"already_settled,omitempty"`
}

// ConfirmResponse is returned from the success entry point.
type ConfirmResponse struct {
	Status Status            `json:"status"`
	Result *SettlementResult `json:"result,omitempty"`
}

// CancelResponse is returned from the cancel entry point.
type CancelResponse struct {
	Status Status `json:"status"`
}
