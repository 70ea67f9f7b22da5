package products

import (
	"context"

	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/MyResellApp/MyResell/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListQuery filters the product listing.
type ListQuery struct {
	Category string
	Limit    int
	Cursor   *pagination.Cursor
}

// Repository exposes product catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a products repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns products newest first, optionally filtered by category and cursor.
func (r *Repository) List(ctx context.Context, query ListQuery) ([]models.Product, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(query.Limit)

	q := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit)
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.Cursor != nil {
		q = q.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID,
		)
	}

	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	pageSize := pagination.NormalizeLimit(query.Limit)
	if len(rows) <= pageSize {
		return rows, nil, nil
	}

	rows = rows[:pageSize]
	last := rows[len(rows)-1]
	next := &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	return rows, next, nil
}

// FindByID loads a product by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// Create inserts a new product and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateProductDTO) (*models.Product, error) {
	product := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies the provided changes and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, dto UpdateProductDTO) (*models.Product, error) {
	updates := map[string]any{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Category != nil {
		updates["category"] = *dto.Category
	}
	if dto.Price != nil {
		updates["price"] = *dto.Price
	}
	if dto.ImageURL != nil {
		updates["image_url"] = *dto.ImageURL
	}
	if dto.SupplierURL != nil {
		updates["supplier_url"] = *dto.SupplierURL
	}
	if dto.InStock != nil {
		updates["in_stock"] = *dto.InStock
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
