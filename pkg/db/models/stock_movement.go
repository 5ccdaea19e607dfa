package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/enums"
)

// StockMovement is one immutable ledger entry describing a single inventory
// change event. Rows are never updated or deleted, and survive product
// deletion. For `adjustment` movements Quantity records the absolute target
// quantity, not a delta; replays must account for that.
type StockMovement struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index"`
	Type      enums.MovementType `gorm:"column:type;not null"`
	Quantity  int                `gorm:"column:quantity;not null"`
	Reason    string             `gorm:"column:reason;not null"`
	Notes     *string            `gorm:"column:notes"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
}

func (m *StockMovement) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
