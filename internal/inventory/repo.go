package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/pagination"
)

// Repository manages persistence for stock movements and stats.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// CompareAndSwapQuantity updates the product's stock only when the row
	// still holds expectedQty. It reports whether the swap landed.
	CompareAndSwapQuantity(ctx context.Context, id uuid.UUID, expectedQty, newQty int) (bool, error)

	CreateMovement(ctx context.Context, movement *models.StockMovement) error
	ListMovements(ctx context.Context, productID *uuid.UUID, params pagination.Params) ([]models.StockMovement, error)

	CreateStats(ctx context.Context, stats *models.StockStats) error
	GetStats(ctx context.Context, productID uuid.UUID) (*models.StockStats, error)
	SaveStats(ctx context.Context, stats *models.StockStats) error
	DeleteStats(ctx context.Context, productID uuid.UUID) error
	ListStats(ctx context.Context) ([]StatsWithProduct, error)
}

// StatsWithProduct pairs a stats row with the live product fields the bulk
// read reconciles against.
type StatsWithProduct struct {
	Stats    models.StockStats
	Product  models.Product
	HasStats bool
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns an inventory repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CompareAndSwapQuantity(ctx context.Context, id uuid.UUID, expectedQty, newQty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity = ?", id, expectedQty).
		Update("stock_quantity", newQty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *repository) ListMovements(ctx context.Context, productID *uuid.UUID, params pagination.Params) ([]models.StockMovement, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovement{})
	if productID != nil {
		query = query.Where("product_id = ?", *productID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var movements []models.StockMovement
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *repository) CreateStats(ctx context.Context, stats *models.StockStats) error {
	return r.db.WithContext(ctx).Create(stats).Error
}

func (r *repository) GetStats(ctx context.Context, productID uuid.UUID) (*models.StockStats, error) {
	var stats models.StockStats
	if err := r.db.WithContext(ctx).First(&stats, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *repository) SaveStats(ctx context.Context, stats *models.StockStats) error {
	return r.db.WithContext(ctx).Save(stats).Error
}

func (r *repository) DeleteStats(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.StockStats{}, "product_id = ?", productID).Error
}

func (r *repository) ListStats(ctx context.Context) ([]StatsWithProduct, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Order("product_name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}

	var statsRows []models.StockStats
	if err := r.db.WithContext(ctx).Find(&statsRows).Error; err != nil {
		return nil, err
	}
	byProduct := make(map[uuid.UUID]models.StockStats, len(statsRows))
	for _, row := range statsRows {
		byProduct[row.ProductID] = row
	}

	out := make([]StatsWithProduct, 0, len(products))
	for _, product := range products {
		entry := StatsWithProduct{Product: product}
		if stats, ok := byProduct[product.ID]; ok {
			entry.Stats = stats
			entry.HasStats = true
		} else {
			entry.Stats = models.StockStats{ProductID: product.ID}
		}
		out = append(out, entry)
	}
	return out, nil
}
