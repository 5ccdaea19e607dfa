package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/metrics"
)

// casMaxAttempts bounds the retry loop around the conditional stock update.
const casMaxAttempts = 3

// errStaleRead marks a lost write race on the product row; the engine
// re-reads and retries.
var errStaleRead = errors.New("stock quantity changed since read")

// Bucket names the stats counter a mutation increments alongside the
// available count.
type Bucket string

const (
	BucketNone      Bucket = ""
	BucketSold      Bucket = "sold"
	BucketReturned  Bucket = "returned"
	BucketPurchased Bucket = "purchased"
)

// ApplyInput describes one stock mutation: what changes, why, and which
// stats counter tracks it.
type ApplyInput struct {
	ProductID uuid.UUID
	Delta     StockDelta
	Reason    enums.MovementReason
	Notes     *string
	Bucket    Bucket
}

// ApplyResult reports the ledgered movement and the product's new stock level.
type ApplyResult struct {
	Movement    *models.StockMovement
	NewQuantity int
}

// Engine is the single write path for product stock. Every mutation lands a
// movement row and a stats update in the same transaction as the quantity
// change.
type Engine interface {
	Apply(ctx context.Context, input ApplyInput) (*ApplyResult, error)
	InitializeStats(ctx context.Context, productID uuid.UUID, initialQty int) error
}

type engine struct {
	dbClient *db.Client
	repo     Repository
	metrics  *metrics.InventoryMetrics
}

// NewEngine wires the stock mutation engine.
func NewEngine(dbClient *db.Client, repo Repository, m *metrics.InventoryMetrics) (Engine, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &engine{dbClient: dbClient, repo: repo, metrics: m}, nil
}

// Apply runs read -> resolve -> conditional write -> ledger -> stats as one
// transaction. A lost race on the quantity column retries with a fresh read,
// up to casMaxAttempts.
func (e *engine) Apply(ctx context.Context, input ApplyInput) (*ApplyResult, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := input.Delta.Validate(); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "movement reason is required")
	}

	for attempt := 0; attempt < casMaxAttempts; attempt++ {
		result, err := e.applyOnce(ctx, input)
		if errors.Is(err, errStaleRead) {
			e.metrics.IncCASRetry()
			continue
		}
		if err != nil {
			e.metrics.IncFailed(input.Reason.String())
			return nil, err
		}
		e.metrics.IncApplied(input.Reason.String())
		return result, nil
	}

	e.metrics.IncFailed(input.Reason.String())
	return nil, pkgerrors.New(pkgerrors.CodeDependency, "stock update contention, retries exhausted")
}

func (e *engine) applyOnce(ctx context.Context, input ApplyInput) (*ApplyResult, error) {
	product, err := e.repo.FindProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	newQty := input.Delta.Resolve(product.StockQuantity)

	movement := &models.StockMovement{
		ProductID: input.ProductID,
		Type:      input.Delta.MovementType(),
		Quantity:  input.Delta.LedgerQuantity(),
		Reason:    input.Reason.String(),
		Notes:     input.Notes,
	}

	if err := e.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := e.repo.WithTx(tx)

		swapped, err := txRepo.CompareAndSwapQuantity(ctx, input.ProductID, product.StockQuantity, newQty)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update stock quantity")
		}
		if !swapped {
			return errStaleRead
		}

		if err := txRepo.CreateMovement(ctx, movement); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock movement")
		}

		return bumpStats(ctx, txRepo, input.ProductID, input.Bucket, input.Delta.LedgerQuantity(), newQty)
	}); err != nil {
		return nil, err
	}

	return &ApplyResult{Movement: movement, NewQuantity: newQty}, nil
}

// bumpStats increments the requested counter and pins available to the new
// quantity, creating the row when the product predates stats tracking.
func bumpStats(ctx context.Context, repo Repository, productID uuid.UUID, bucket Bucket, qty, newQty int) error {
	stats, err := repo.GetStats(ctx, productID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock stats")
		}
		stats = &models.StockStats{ProductID: productID}
		if err := repo.CreateStats(ctx, stats); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock stats")
		}
	}

	switch bucket {
	case BucketSold:
		stats.Sold += qty
	case BucketReturned:
		stats.Returned += qty
	case BucketPurchased:
		stats.Purchased += qty
	}
	stats.Available = newQty

	if err := repo.SaveStats(ctx, stats); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save stock stats")
	}
	return nil
}

// InitializeStats seeds the stats row for a freshly created product. The
// opening quantity is recorded as purchased but deliberately not ledgered as
// a movement.
func (e *engine) InitializeStats(ctx context.Context, productID uuid.UUID, initialQty int) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if initialQty < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "initial quantity must be >= 0")
	}

	stats := &models.StockStats{
		ProductID: productID,
		Available: initialQty,
		Purchased: initialQty,
	}
	if err := e.repo.CreateStats(ctx, stats); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock stats")
	}
	return nil
}
