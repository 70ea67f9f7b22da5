package subscriptions

import (
	"time"

	"github.com/google/uuid"

	"github.com/MyResellApp/MyResell/internal/plans"
	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/MyResellApp/MyResell/pkg/enums"
)

// SubscriptionDTO is the transport shape for a subscription row.
type SubscriptionDTO struct {
	ID          uuid.UUID                `json:"id"`
	UserID      uuid.UUID                `json:"user_id"`
	PlanID      uuid.UUID                `json:"plan_id"`
	Status      enums.SubscriptionStatus `json:"status"`
	StartDate   time.Time                `json:"start_date"`
	EndDate     *time.Time               `json:"end_date,omitempty"`
	ProviderRef string                   `json:"provider_ref,omitempty"`
	Plan        *plans.PlanDTO           `json:"plan,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

func FromModel(s *models.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:          s.ID,
		UserID:      s.UserID,
		PlanID:      s.PlanID,
		Status:      s.Status,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		ProviderRef: s.ProviderRef,
		Plan:        plans.FromModel(s.Plan),
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
