package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountCode is a store credit with a decreasing balance. A redemption that
// exhausts the balance (within a cent) deletes the row outright; no zero
// balance terminal state is ever persisted.
type DiscountCode struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Code          string          `gorm:"column:code;uniqueIndex;not null"`
	CustomerEmail string          `gorm:"column:customer_email;not null;index"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	ExpiresAt     time.Time       `gorm:"column:expires_at;not null"`
	IsUsed        bool            `gorm:"column:is_used;not null;default:false"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *DiscountCode) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
