package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MyResellApp/MyResell/internal/products"
	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/MyResellApp/MyResell/pkg/enums"
)

// OrderDTO is the transport shape for an order row.
type OrderDTO struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"user_id"`
	ProductID uuid.UUID            `json:"product_id"`
	Qty       int                  `json:"qty"`
	Total     decimal.Decimal      `json:"total"`
	Status    enums.OrderStatus    `json:"status"`
	Product   *products.ProductDTO `json:"product,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// CreateOrderDTO holds the buyer's inputs for placing an order.
type CreateOrderDTO struct {
	ProductID uuid.UUID
	Qty       int
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	return &OrderDTO{
		ID:        o.ID,
		UserID:    o.UserID,
		ProductID: o.ProductID,
		Qty:       o.Qty,
		Total:     o.Total,
		Status:    o.Status,
		Product:   products.FromModel(o.Product),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
