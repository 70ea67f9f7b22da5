package models

import (
	"time"

	"github.com/MyResellApp/MyResell/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subscription is a time-bounded grant of a plan to a user. At most one row
// per user should be active at a time; the checkout flow deactivates prior
// active rows before inserting a new one.
type Subscription struct {
	ID        uuid.UUID                `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	PlanID    uuid.UUID                `gorm:"column:plan_id;type:uuid;not null"`
	Status    enums.SubscriptionStatus `gorm:"column:status;not null;default:'active'"`
	StartDate time.Time                `gorm:"column:start_date;not null;autoCreateTime"`
	EndDate   *time.Time               `gorm:"column:end_date"`
	// ProviderRef carries the external payment provider's subscription or
	// transaction reference for this activation.
	ProviderRef string    `gorm:"column:provider_ref;not null;default:''"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Plan *Plan `gorm:"foreignKey:PlanID"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
