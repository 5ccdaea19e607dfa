package accounting

import (
	"context"

	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
)

// ListFilter narrows account entry reads. Nil fields match everything.
type ListFilter struct {
	FiscalYear    *int
	FiscalMonth   *int
	FiscalQuarter *int
	Type          *enums.TransactionType
}

// Repository manages persistence for account entries. Entries are append
// only; there are no update or delete operations.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.AccountEntry) error
	List(ctx context.Context, filter ListFilter) ([]models.AccountEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an accounting repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.AccountEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.AccountEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.AccountEntry{})
	if filter.FiscalYear != nil {
		query = query.Where("fiscal_year = ?", *filter.FiscalYear)
	}
	if filter.FiscalMonth != nil {
		query = query.Where("fiscal_month = ?", *filter.FiscalMonth)
	}
	if filter.FiscalQuarter != nil {
		query = query.Where("fiscal_quarter = ?", *filter.FiscalQuarter)
	}
	if filter.Type != nil {
		query = query.Where("transaction_type = ?", *filter.Type)
	}

	var entries []models.AccountEntry
	if err := query.Order("created_at ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
