package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminUser is the administrator allow-list. Membership is checked per
// request; absence or a failed lookup both read as "not admin".
type AdminUser struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Note      *string   `gorm:"column:note"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
