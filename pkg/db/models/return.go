package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Return references an original order and snapshots its financial outcome at
// creation time. Exactly one of RefundAmount, CreditAmount and
// AdditionalPayment is non-zero (or all are, for an even exchange); they are
// never recomputed after insert.
type Return struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"column:order_id;type:uuid;not null;index"`
	CustomerEmail     *string         `gorm:"column:customer_email"`
	Reason            *string         `gorm:"column:reason"`
	ReturnValue       decimal.Decimal `gorm:"column:return_value;type:numeric(12,2);not null"`
	ExchangeValue     decimal.Decimal `gorm:"column:exchange_value;type:numeric(12,2);not null"`
	RefundAmount      decimal.Decimal `gorm:"column:refund_amount;type:numeric(12,2);not null"`
	CreditAmount      decimal.Decimal `gorm:"column:credit_amount;type:numeric(12,2);not null"`
	AdditionalPayment decimal.Decimal `gorm:"column:additional_payment;type:numeric(12,2);not null"`
	Items             []ReturnItem    `gorm:"foreignKey:ReturnID"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (r *Return) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
