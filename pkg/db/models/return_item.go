package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReturnItem carries one returned line from the original order, with an
// optional exchange product. Quantity never exceeds the originally ordered
// quantity for the product. Rows survive product deletion.
type ReturnItem struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ReturnID          uuid.UUID       `gorm:"column:return_id;type:uuid;not null;index"`
	ProductID         uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	ProductName       string          `gorm:"column:product_name;not null"`
	SKU               string          `gorm:"column:sku;not null"`
	UnitPrice         decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity          int             `gorm:"column:quantity;not null"`
	ExchangeProductID *uuid.UUID      `gorm:"column:exchange_product_id;type:uuid"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (i *ReturnItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
