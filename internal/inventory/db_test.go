package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/config"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/db/models"
)

func setupInventoryTestDB(t *testing.T) (*db.Client, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, conn.AutoMigrate(
		&models.Product{},
		&models.StockMovement{},
		&models.StockStats{},
	))

	return db.NewFromConn(conn, config.DriverSQLite), conn
}

func mustCreateProduct(t *testing.T, conn *gorm.DB, sku string, qty int) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:           sku,
		ProductName:   "Widget " + sku,
		Category:      "hardware",
		Price:         decimal.NewFromInt(50),
		StockQuantity: qty,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func mustGetProduct(t *testing.T, conn *gorm.DB, product *models.Product) *models.Product {
	t.Helper()
	var fetched models.Product
	require.NoError(t, conn.First(&fetched, "id = ?", product.ID).Error)
	return &fetched
}

func mustGetStats(t *testing.T, conn *gorm.DB, product *models.Product) *models.StockStats {
	t.Helper()
	var stats models.StockStats
	require.NoError(t, conn.First(&stats, "product_id = ?", product.ID).Error)
	return &stats
}
