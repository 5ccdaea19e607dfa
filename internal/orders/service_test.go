package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/internal/inventory"
	"github.com/luphonix/retailops-backend/pkg/config"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
)

func setupOrderService(t *testing.T) (Service, *gorm.DB) {
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
		&models.Order{},
		&models.OrderItem{},
	))

	client := db.NewFromConn(conn, config.DriverSQLite)
	invRepo := inventory.NewRepository(conn)
	engine, err := inventory.NewEngine(client, invRepo, nil)
	require.NoError(t, err)

	svc, err := NewService(NewRepository(conn), client, engine, invRepo, nil)
	require.NoError(t, err)
	return svc, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, sku string, price int64, qty int) *models.Product {
	t.Helper()
	product := &models.Product{
		SKU:           sku,
		ProductName:   "Product " + sku,
		Category:      "general",
		Price:         decimal.NewFromInt(price),
		StockQuantity: qty,
	}
	require.NoError(t, conn.Create(product).Error)
	return product
}

func TestCreateOrderSnapshotsAndDecrementsStock(t *testing.T) {
	svc, conn := setupOrderService(t)
	ctx := context.Background()

	mug := seedProduct(t, conn, "MUG", 25, 10)
	pan := seedProduct(t, conn, "PAN", 40, 4)

	order, err := svc.CreateOrder(ctx, CreateOrderInput{
		CustomerName: "Dana",
		Items: []OrderItemInput{
			{ProductID: mug.ID, Quantity: 2},
			{ProductID: pan.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(90)), "total = %s", order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Product MUG", order.Items[0].ProductName)
	assert.True(t, order.Items[0].Subtotal.Equal(decimal.NewFromInt(50)))

	var fetchedMug models.Product
	require.NoError(t, conn.First(&fetchedMug, "id = ?", mug.ID).Error)
	assert.Equal(t, 8, fetchedMug.StockQuantity)

	var fetchedPan models.Product
	require.NoError(t, conn.First(&fetchedPan, "id = ?", pan.ID).Error)
	assert.Equal(t, 3, fetchedPan.StockQuantity)

	var movements []models.StockMovement
	require.NoError(t, conn.Order("created_at ASC").Find(&movements).Error)
	require.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, enums.MovementTypeOut, m.Type)
		assert.Equal(t, enums.MovementReasonSale.String(), m.Reason)
	}

	var stats models.StockStats
	require.NoError(t, conn.First(&stats, "product_id = ?", mug.ID).Error)
	assert.Equal(t, 2, stats.Sold)
	assert.Equal(t, 8, stats.Available)
}

func TestCreateOrderOversellClampsAtZero(t *testing.T) {
	svc, conn := setupOrderService(t)

	product := seedProduct(t, conn, "LOW", 10, 3)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName: "Sam",
		Items:        []OrderItemInput{{ProductID: product.ID, Quantity: 5}},
	})
	require.NoError(t, err)

	var fetched models.Product
	require.NoError(t, conn.First(&fetched, "id = ?", product.ID).Error)
	assert.Equal(t, 0, fetched.StockQuantity)

	var stats models.StockStats
	require.NoError(t, conn.First(&stats, "product_id = ?", product.ID).Error)
	assert.Equal(t, 5, stats.Sold)
}

func TestCreateOrderUnknownProductRejectedBeforePersisting(t *testing.T) {
	svc, conn := setupOrderService(t)

	known := seedProduct(t, conn, "KNOWN", 10, 5)

	_, err := svc.CreateOrder(context.Background(), CreateOrderInput{
		CustomerName: "Lee",
		Items: []OrderItemInput{
			{ProductID: known.ID, Quantity: 1},
			{ProductID: uuid.New(), Quantity: 1},
		},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	// Snapshot happens before any write, so nothing was persisted or mutated.
	var orders int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var fetched models.Product
	require.NoError(t, conn.First(&fetched, "id = ?", known.ID).Error)
	assert.Equal(t, 5, fetched.StockQuantity)
}

func TestCreateOrderValidation(t *testing.T) {
	svc, conn := setupOrderService(t)
	product := seedProduct(t, conn, "VAL", 10, 5)

	cases := []struct {
		name  string
		input CreateOrderInput
	}{
		{"missing customer", CreateOrderInput{Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}}}},
		{"no items", CreateOrderInput{CustomerName: "Pat"}},
		{"zero quantity", CreateOrderInput{CustomerName: "Pat", Items: []OrderItemInput{{ProductID: product.ID, Quantity: 0}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

func TestGetOrderPreloadsItems(t *testing.T) {
	svc, conn := setupOrderService(t)
	ctx := context.Background()

	product := seedProduct(t, conn, "GET", 15, 9)
	created, err := svc.CreateOrder(ctx, CreateOrderInput{
		CustomerName: "Ria",
		Items:        []OrderItemInput{{ProductID: product.ID, Quantity: 3}},
	})
	require.NoError(t, err)

	fetched, err := svc.GetOrder(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Items, 1)
	assert.Equal(t, product.ID, fetched.Items[0].ProductID)
	assert.True(t, fetched.TotalAmount.Equal(decimal.NewFromInt(45)))

	_, err = svc.GetOrder(ctx, uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
