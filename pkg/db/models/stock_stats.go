package models

import (
	"time"

	"github.com/google/uuid"
)

// StockStats caches per-product counters for fast reporting. It is not a
// source of truth: Available is resynchronized to the product's live
// stock_quantity on bulk reads, and the whole row is reconstructable from the
// movement ledger plus product state.
type StockStats struct {
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;primaryKey"`
	Available int       `gorm:"column:available;not null;default:0"`
	Sold      int       `gorm:"column:sold;not null;default:0"`
	Returned  int       `gorm:"column:returned;not null;default:0"`
	Purchased int       `gorm:"column:purchased;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StockStats) TableName() string { return "stock_stats" }
