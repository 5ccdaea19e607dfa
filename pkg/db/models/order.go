package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is the root of a sale. Item-driven stock effects fire exactly once at
// creation; later edits to order metadata never re-trigger them.
type Order struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	CustomerName  string          `gorm:"column:customer_name;not null"`
	CustomerEmail *string         `gorm:"column:customer_email"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount;type:numeric(12,2);not null"`
	Notes         *string         `gorm:"column:notes"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
