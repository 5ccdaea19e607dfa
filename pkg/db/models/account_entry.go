package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/enums"
)

// AccountEntry is an append-only financial ledger row. Fiscal period columns
// are derived from the creation time so reporting can bucket without date
// math. Rows are never mutated and survive product deletion.
type AccountEntry struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	TransactionType enums.TransactionType `gorm:"column:transaction_type;not null;index"`
	ProductID       *uuid.UUID            `gorm:"column:product_id;type:uuid"`
	Description     *string               `gorm:"column:description"`
	Revenue         decimal.Decimal       `gorm:"column:revenue;type:numeric(12,2);not null"`
	Cost            decimal.Decimal       `gorm:"column:cost;type:numeric(12,2);not null"`
	Profit          decimal.Decimal       `gorm:"column:profit;type:numeric(12,2);not null"`
	FiscalYear      int                   `gorm:"column:fiscal_year;not null;index"`
	FiscalMonth     int                   `gorm:"column:fiscal_month;not null"`
	FiscalQuarter   int                   `gorm:"column:fiscal_quarter;not null"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (e *AccountEntry) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
