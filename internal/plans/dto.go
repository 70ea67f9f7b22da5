package plans

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/MyResellApp/MyResell/pkg/db/models"
)

// PlanDTO is the catalog shape returned to clients.
type PlanDTO struct {
	ID            uuid.UUID       `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	Features      []string        `json:"features"`
	StripePriceID *string         `json:"stripe_price_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// CreatePlanDTO holds the fields required to persist a new plan.
type CreatePlanDTO struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	Currency      string
	Features      []string
	StripePriceID *string
}

// UpdatePlanDTO carries partial plan updates.
type UpdatePlanDTO struct {
	Name          *string
	Description   *string
	Price         *decimal.Decimal
	Currency      *string
	Features      *[]string
	StripePriceID *string
}

func FromModel(p *models.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		Currency:      p.Currency,
		Features:      append([]string(nil), p.Features...),
		StripePriceID: p.StripePriceID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (c CreatePlanDTO) ToModel() *models.Plan {
	currency := c.Currency
	if currency == "" {
		currency = "usd"
	}
	return &models.Plan{
		Name:          c.Name,
		Description:   c.Description,
		Price:         c.Price,
		Currency:      currency,
		Features:      pq.StringArray(append([]string(nil), c.Features...)),
		StripePriceID: c.StripePriceID,
	}
}
