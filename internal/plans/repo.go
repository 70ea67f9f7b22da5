package plans

import (
	"context"

	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Repository exposes plan catalog persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a plans repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the full catalog ordered by price, cheapest first.
func (r *Repository) List(ctx context.Context) ([]models.Plan, error) {
	var rows []models.Plan
	if err := r.db.WithContext(ctx).Order("price ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByID loads a plan by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	var plan models.Plan
	if err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// Create inserts a new plan and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreatePlanDTO) (*models.Plan, error) {
	plan := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return nil, err
	}
	return plan, nil
}

// Update applies the provided changes and returns the fresh row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, dto UpdatePlanDTO) (*models.Plan, error) {
	updates := map[string]any{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.Price != nil {
		updates["price"] = *dto.Price
	}
	if dto.Currency != nil {
		updates["currency"] = *dto.Currency
	}
	if dto.Features != nil {
		updates["features"] = pq.StringArray(append([]string(nil), (*dto.Features)...))
	}
	if dto.StripePriceID != nil {
		updates["stripe_price_id"] = *dto.StripePriceID
	}
	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.Plan{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes the plan row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Plan{}, "id = ?", id).Error
}
