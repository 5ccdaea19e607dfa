package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/internal/inventory"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/logger"
	"github.com/luphonix/retailops-backend/pkg/pagination"
)

// Service exposes order capture and reads.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error)
}

// CreateOrderInput is the validated payload for a new order.
type CreateOrderInput struct {
	CustomerName  string
	CustomerEmail *string
	Notes         *string
	Items         []OrderItemInput
}

// OrderItemInput selects a product and quantity to sell.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// ListOrdersInput pages through order history.
type ListOrdersInput struct {
	Limit  int
	Cursor string
}

// OrderListResult is one page of orders plus the next cursor.
type OrderListResult struct {
	Orders     []models.Order
	NextCursor *string
}

type productLoader interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     Repository
	dbClient *db.Client
	engine   inventory.Engine
	products productLoader
	log      *logger.Logger
}

// NewService wires the order service.
func NewService(repo Repository, dbClient *db.Client, engine inventory.Engine, products productLoader, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if engine == nil {
		return nil, fmt.Errorf("inventory engine required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, dbClient: dbClient, engine: engine, products: products, log: log}, nil
}

// CreateOrder snapshots the selected products into order items, persists the
// order atomically, then decrements stock one item at a time. Stock effects
// are sequential and are not rolled back if a later item fails; the order
// row itself is already committed by then.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one item")
	}
	for i, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: product id is required", i))
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("item %d: quantity must be positive", i))
		}
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		product, err := s.products.FindProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}

		subtotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotal)
		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.ProductName,
			SKU:         product.SKU,
			UnitPrice:   product.Price,
			Quantity:    item.Quantity,
			Subtotal:    subtotal,
		})
	}

	order := &models.Order{
		CustomerName:  input.CustomerName,
		CustomerEmail: input.CustomerEmail,
		Notes:         input.Notes,
		TotalAmount:   total,
		Items:         items,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert order")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	octx := ctx
	if s.log != nil {
		octx = s.log.WithOrderID(ctx, order.ID.String())
	}
	for _, item := range order.Items {
		if _, err := s.engine.Apply(octx, inventory.ApplyInput{
			ProductID: item.ProductID,
			Delta:     inventory.Decrease(item.Quantity),
			Reason:    enums.MovementReasonSale,
			Bucket:    inventory.BucketSold,
		}); err != nil {
			if s.log != nil {
				s.log.Error(octx, "stock decrement failed mid-order, earlier items already applied", err)
			}
			return nil, err
		}
	}

	return order, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*OrderListResult, error) {
	list, err := s.repo.List(ctx, pagination.Params{Limit: input.Limit, Cursor: input.Cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	result := &OrderListResult{Orders: list}
	if len(list) > limit {
		result.Orders = list[:limit]
		last := result.Orders[limit-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &cursor
	}
	return result, nil
}
