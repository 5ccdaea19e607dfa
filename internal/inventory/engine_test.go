package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
)

func TestEngineApplySale(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	ctx := context.Background()
	product := mustCreateProduct(t, conn, "SKU-1", 10)
	require.NoError(t, engine.InitializeStats(ctx, product.ID, 10))

	result, err := engine.Apply(ctx, ApplyInput{
		ProductID: product.ID,
		Delta:     Decrease(4),
		Reason:    enums.MovementReasonSale,
		Bucket:    BucketSold,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, result.NewQuantity)
	assert.Equal(t, enums.MovementTypeOut, result.Movement.Type)
	assert.Equal(t, 4, result.Movement.Quantity)

	fetched := mustGetProduct(t, conn, product)
	assert.Equal(t, 6, fetched.StockQuantity)

	stats := mustGetStats(t, conn, product)
	assert.Equal(t, 4, stats.Sold)
	assert.Equal(t, 6, stats.Available)
	assert.Equal(t, 10, stats.Purchased)
}

func TestEngineApplySaleClampsAtZero(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	ctx := context.Background()
	product := mustCreateProduct(t, conn, "SKU-2", 5)
	require.NoError(t, engine.InitializeStats(ctx, product.ID, 5))

	result, err := engine.Apply(ctx, ApplyInput{
		ProductID: product.ID,
		Delta:     Decrease(8),
		Reason:    enums.MovementReasonSale,
		Bucket:    BucketSold,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.NewQuantity)

	// The ledger records the requested quantity, not the clamped delta.
	assert.Equal(t, 8, result.Movement.Quantity)

	stats := mustGetStats(t, conn, product)
	assert.Equal(t, 8, stats.Sold)
	assert.Equal(t, 0, stats.Available)
}

func TestEngineApplyReturnUncapped(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	ctx := context.Background()
	product := mustCreateProduct(t, conn, "SKU-3", 2)
	require.NoError(t, engine.InitializeStats(ctx, product.ID, 2))

	result, err := engine.Apply(ctx, ApplyInput{
		ProductID: product.ID,
		Delta:     Increase(3),
		Reason:    enums.MovementReasonReturn,
		Bucket:    BucketReturned,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, result.NewQuantity)
	assert.Equal(t, enums.MovementTypeIn, result.Movement.Type)

	stats := mustGetStats(t, conn, product)
	assert.Equal(t, 3, stats.Returned)
	assert.Equal(t, 5, stats.Available)
	assert.Equal(t, 0, stats.Sold)
}

func TestEngineApplyAdjustmentIsAbsolute(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	ctx := context.Background()
	product := mustCreateProduct(t, conn, "SKU-4", 40)
	require.NoError(t, engine.InitializeStats(ctx, product.ID, 40))

	result, err := engine.Apply(ctx, ApplyInput{
		ProductID: product.ID,
		Delta:     SetTo(12),
		Reason:    enums.MovementReasonPhysicalCount,
		Bucket:    BucketNone,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, result.NewQuantity)
	assert.Equal(t, enums.MovementTypeAdjustment, result.Movement.Type)
	assert.Equal(t, 12, result.Movement.Quantity)

	stats := mustGetStats(t, conn, product)
	assert.Equal(t, 12, stats.Available)
	assert.Equal(t, 0, stats.Sold)
	assert.Equal(t, 0, stats.Returned)
	assert.Equal(t, 40, stats.Purchased)
}

func TestEngineApplyMissingProduct(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	_, err = engine.Apply(context.Background(), ApplyInput{
		ProductID: uuid.New(),
		Delta:     Decrease(1),
		Reason:    enums.MovementReasonSale,
		Bucket:    BucketSold,
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	var count int64
	require.NoError(t, conn.Model(&models.StockMovement{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEngineApplyCreatesStatsWhenMissing(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	ctx := context.Background()
	product := mustCreateProduct(t, conn, "SKU-5", 3)

	_, err = engine.Apply(ctx, ApplyInput{
		ProductID: product.ID,
		Delta:     Increase(2),
		Reason:    enums.MovementReasonPurchase,
		Bucket:    BucketPurchased,
	})
	require.NoError(t, err)

	stats := mustGetStats(t, conn, product)
	assert.Equal(t, 2, stats.Purchased)
	assert.Equal(t, 5, stats.Available)
}

func TestEngineInitializeStatsDoesNotLedger(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	ctx := context.Background()
	product := mustCreateProduct(t, conn, "SKU-6", 15)
	require.NoError(t, engine.InitializeStats(ctx, product.ID, 15))

	stats := mustGetStats(t, conn, product)
	assert.Equal(t, 15, stats.Available)
	assert.Equal(t, 15, stats.Purchased)
	assert.Equal(t, 0, stats.Sold)
	assert.Equal(t, 0, stats.Returned)

	var count int64
	require.NoError(t, conn.Model(&models.StockMovement{}).Count(&count).Error)
	assert.Zero(t, count)
}

// contendedRepository wraps a real repository and reports a lost swap for the
// first failSwaps attempts, standing in for a concurrent writer landing on the
// product row between the read and the conditional update.
type contendedRepository struct {
	Repository
	failSwaps *int
}

func (r *contendedRepository) WithTx(tx *gorm.DB) Repository {
	return &contendedRepository{Repository: r.Repository.WithTx(tx), failSwaps: r.failSwaps}
}

func (r *contendedRepository) CompareAndSwapQuantity(ctx context.Context, id uuid.UUID, expectedQty, newQty int) (bool, error) {
	if *r.failSwaps > 0 {
		*r.failSwaps--
		return false, nil
	}
	return r.Repository.CompareAndSwapQuantity(ctx, id, expectedQty, newQty)
}

func TestEngineApplyRetriesLostSwap(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	failSwaps := 1
	repo := &contendedRepository{Repository: NewRepository(conn), failSwaps: &failSwaps}
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	ctx := context.Background()
	product := mustCreateProduct(t, conn, "SKU-8", 10)
	require.NoError(t, engine.InitializeStats(ctx, product.ID, 10))

	result, err := engine.Apply(ctx, ApplyInput{
		ProductID: product.ID,
		Delta:     Decrease(4),
		Reason:    enums.MovementReasonSale,
		Bucket:    BucketSold,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, result.NewQuantity)
	assert.Zero(t, failSwaps, "lost swap consumed before the successful attempt")

	fetched := mustGetProduct(t, conn, product)
	assert.Equal(t, 6, fetched.StockQuantity)

	var count int64
	require.NoError(t, conn.Model(&models.StockMovement{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEngineApplyContentionExhausted(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	failSwaps := casMaxAttempts
	repo := &contendedRepository{Repository: NewRepository(conn), failSwaps: &failSwaps}
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	ctx := context.Background()
	product := mustCreateProduct(t, conn, "SKU-9", 10)
	require.NoError(t, engine.InitializeStats(ctx, product.ID, 10))

	_, err = engine.Apply(ctx, ApplyInput{
		ProductID: product.ID,
		Delta:     Decrease(4),
		Reason:    enums.MovementReasonSale,
		Bucket:    BucketSold,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())

	fetched := mustGetProduct(t, conn, product)
	assert.Equal(t, 10, fetched.StockQuantity)

	var count int64
	require.NoError(t, conn.Model(&models.StockMovement{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestEngineApplyRejectsInvalidInput(t *testing.T) {
	client, conn := setupInventoryTestDB(t)
	repo := NewRepository(conn)
	engine, err := NewEngine(client, repo, nil)
	require.NoError(t, err)

	product := mustCreateProduct(t, conn, "SKU-7", 5)

	_, err = engine.Apply(context.Background(), ApplyInput{
		ProductID: product.ID,
		Delta:     Decrease(0),
		Reason:    enums.MovementReasonSale,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = engine.Apply(context.Background(), ApplyInput{
		ProductID: product.ID,
		Delta:     Decrease(1),
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
