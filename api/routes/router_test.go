package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/internal/accounting"
	"github.com/luphonix/retailops-backend/internal/discounts"
	"github.com/luphonix/retailops-backend/internal/inventory"
	"github.com/luphonix/retailops-backend/internal/notifications"
	"github.com/luphonix/retailops-backend/internal/orders"
	"github.com/luphonix/retailops-backend/internal/products"
	"github.com/luphonix/retailops-backend/internal/returns"
	"github.com/luphonix/retailops-backend/pkg/config"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func setupRouter(t *testing.T) http.Handler {
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
		&models.Return{},
		&models.ReturnItem{},
		&models.DiscountCode{},
		&models.AccountEntry{},
	))

	dbClient := db.NewFromConn(conn, config.DriverSQLite)
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	invRepo := inventory.NewRepository(conn)
	engine, err := inventory.NewEngine(dbClient, invRepo, nil)
	require.NoError(t, err)
	statsService, err := inventory.NewStatsService(invRepo)
	require.NoError(t, err)
	movementService, err := inventory.NewMovementService(engine, invRepo)
	require.NoError(t, err)

	accountingService, err := accounting.NewService(accounting.NewRepository(conn))
	require.NoError(t, err)

	productService, err := products.NewService(products.NewRepository(conn), dbClient, engine, invRepo, accountingService)
	require.NoError(t, err)

	orderService, err := orders.NewService(orders.NewRepository(conn), dbClient, engine, invRepo, logg)
	require.NoError(t, err)

	discountService, err := discounts.NewService(discounts.NewRepository(conn), config.CreditsConfig{})
	require.NoError(t, err)

	notifier, err := notifications.NewLogNotifier(logg)
	require.NoError(t, err)

	returnService, err := returns.NewService(
		returns.NewRepository(conn),
		dbClient,
		engine,
		orders.NewRepository(conn),
		invRepo,
		discountService,
		notifier,
		logg,
	)
	require.NoError(t, err)

	cfg := &config.Config{App: config.AppConfig{Env: "test", Port: "0"}}

	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		nil,
		nil,
		productService,
		orderService,
		returnService,
		discountService,
		movementService,
		statsService,
		accountingService,
	)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealth(t *testing.T) {
	handler := setupRouter(t)

	rec := doJSON(t, handler, http.MethodGet, "/health/live", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-RetailOps-Env"))
	assert.Contains(t, rec.Body.String(), `"status":"live"`)

	rec = doJSON(t, handler, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"database":"ok"`)
	assert.Contains(t, rec.Body.String(), `"redis":"skipped"`)
}

func TestRouterProductLifecycle(t *testing.T) {
	handler := setupRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", map[string]any{
		"sku":            "SKU-R1",
		"product_name":   "Router Widget",
		"category":       "hardware",
		"price":          "19.99",
		"stock_quantity": 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.Data.ID)
	assert.Equal(t, 5, created.Data.StockQuantity)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SKU-R1")

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/products/%s", created.Data.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/inventory/stats/%s", created.Data.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Purchased":5`)
}

func TestRouterOrderDecreasesStock(t *testing.T) {
	handler := setupRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", map[string]any{
		"sku":            "SKU-R2",
		"product_name":   "Order Widget",
		"category":       "hardware",
		"price":          "10.00",
		"stock_quantity": 8,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_name": "Ada",
		"items": []map[string]any{
			{"product_id": created.Data.ID.String(), "quantity": 3},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/products/%s", created.Data.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched struct {
		Data models.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, 5, fetched.Data.StockQuantity)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/inventory/movements", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sale"`)
}

func TestRouterDiscountExpiry(t *testing.T) {
	handler := setupRouter(t)

	custom := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := doJSON(t, handler, http.MethodPost, "/api/v1/discounts", map[string]any{
		"customer_email": "casey@example.com",
		"amount":         "25.00",
		"expires_at":     custom.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data models.DiscountCode `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Data.ExpiresAt.Equal(custom), "custom expiry honored")

	rec = doJSON(t, handler, http.MethodPost, "/api/v1/discounts", map[string]any{
		"customer_email": "casey@example.com",
		"amount":         "10.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.WithinDuration(t, time.Now().AddDate(0, 0, 90), created.Data.ExpiresAt, time.Minute)
}

func TestRouterValidationErrors(t *testing.T) {
	handler := setupRouter(t)

	rec := doJSON(t, handler, http.MethodPost, "/api/v1/products", map[string]any{
		"product_name": "No SKU",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/products/not-a-uuid", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, handler, http.MethodGet, "/api/v1/discounts", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "customer_email")
}
