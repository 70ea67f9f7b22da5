package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MyResellApp/MyResell/pkg/db/models"
)

// ProductDTO is the storefront shape for a catalog product.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    *string         `json:"image_url,omitempty"`
	SupplierURL *string         `json:"supplier_url,omitempty"`
	InStock     bool            `json:"in_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateProductDTO holds the fields required to persist a new product.
type CreateProductDTO struct {
	Name        string
	Description string
	Category    string
	Price       decimal.Decimal
	ImageURL    *string
	SupplierURL *string
	InStock     *bool
}

// UpdateProductDTO carries partial product updates.
type UpdateProductDTO struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	ImageURL    *string
	SupplierURL *string
	InStock     *bool
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		SupplierURL: p.SupplierURL,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (c CreateProductDTO) ToModel() *models.Product {
	inStock := true
	if c.InStock != nil {
		inStock = *c.InStock
	}
	return &models.Product{
		Name:        c.Name,
		Description: c.Description,
		Category:    c.Category,
		Price:       c.Price,
		ImageURL:    c.ImageURL,
		SupplierURL: c.SupplierURL,
		InStock:     inStock,
	}
}
