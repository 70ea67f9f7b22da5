package models

import (
	"time"

	"github.com/MyResellApp/MyResell/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is an append-only ledger entry settling one subscription
// activation. Rows are created once per successful checkout attempt and
// never mutated afterward.
type Payment struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID           `gorm:"column:user_id;type:uuid;not null;index"`
	SubscriptionID uuid.UUID           `gorm:"column:subscription_id;type:uuid;not null"`
	PlanID         uuid.UUID           `gorm:"column:plan_id;type:uuid;not null"`
	Amount         decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Currency       string              `gorm:"column:currency;not null;default:'usd'"`
	PaymentMethod  enums.PaymentMethod `gorm:"column:payment_method;not null"`
	TransactionID  string              `gorm:"column:transaction_id;not null;uniqueIndex"`
	Status         enums.PaymentStatus `gorm:"column:status;not null"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
