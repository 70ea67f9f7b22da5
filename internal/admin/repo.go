package admin

import (
	"context"
	"errors"

	"github.com/MyResellApp/MyResell/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads the admin allow-list.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an admin repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// IsAdmin reports whether the user appears on the allow-list.
// Absence is not an error; lookup failures are returned so callers can fail closed.
func (r *Repository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var row models.AdminUser
	err := r.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Grant adds the user to the allow-list.
func (r *Repository) Grant(ctx context.Context, userID uuid.UUID, note *string) error {
	return r.db.WithContext(ctx).Create(&models.AdminUser{UserID: userID, Note: note}).Error
}

// Revoke removes the user from the allow-list.
func (r *Repository) Revoke(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.AdminUser{}, "user_id = ?", userID).Error
}
