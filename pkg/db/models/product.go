package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is the canonical catalog record. StockQuantity is the authoritative
// on-hand count; it never goes negative (decrements clamp to zero).
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	SKU           string           `gorm:"column:sku;uniqueIndex;not null"`
	ProductName   string           `gorm:"column:product_name;not null"`
	Category      string           `gorm:"column:category;not null"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	CostPrice     *decimal.Decimal `gorm:"column:cost_price;type:numeric(12,2)"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns the primary key in-process so the Postgres and SQLite
// drivers behave identically.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
