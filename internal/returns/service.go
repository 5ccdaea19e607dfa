package returns

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/internal/discounts"
	"github.com/luphonix/retailops-backend/internal/inventory"
	"github.com/luphonix/retailops-backend/internal/notifications"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/logger"
	"github.com/luphonix/retailops-backend/pkg/pagination"
)

// Service exposes return intake and reads.
type Service interface {
	CreateReturn(ctx context.Context, input CreateReturnInput) (*models.Return, error)
	GetReturn(ctx context.Context, id uuid.UUID) (*models.Return, error)
	ListReturns(ctx context.Context, input ListReturnsInput) (*ReturnListResult, error)
}

// CreateReturnInput selects order lines to take back, with optional
// per-line exchange products.
type CreateReturnInput struct {
	OrderID       uuid.UUID
	CustomerEmail *string
	Reason        *string
	Items         []ReturnItemInput
}

// ReturnItemInput is one returned line.
type ReturnItemInput struct {
	ProductID         uuid.UUID
	Quantity          int
	ExchangeProductID *uuid.UUID
}

// ListReturnsInput pages through return history.
type ListReturnsInput struct {
	Limit  int
	Cursor string
}

// ReturnListResult is one page of returns plus the next cursor.
type ReturnListResult struct {
	Returns    []models.Return
	NextCursor *string
}

type orderLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
}

type productLoader interface {
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type creditMinter interface {
	Create(ctx context.Context, input discounts.CreateInput) (*models.DiscountCode, error)
}

type service struct {
	repo     Repository
	dbClient *db.Client
	engine   inventory.Engine
	orders   orderLoader
	products productLoader
	credits  creditMinter
	notifier notifications.Notifier
	log      *logger.Logger
}

// NewService wires the return service.
func NewService(
	repo Repository,
	dbClient *db.Client,
	engine inventory.Engine,
	orders orderLoader,
	products productLoader,
	credits creditMinter,
	notifier notifications.Notifier,
	log *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("return repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if engine == nil {
		return nil, fmt.Errorf("inventory engine required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order loader required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if credits == nil {
		return nil, fmt.Errorf("credit minter required")
	}
	return &service{
		repo:     repo,
		dbClient: dbClient,
		engine:   engine,
		orders:   orders,
		products: products,
		credits:  credits,
		notifier: notifier,
		log:      log,
	}, nil
}

// CreateReturn validates the selected lines against the original order,
// settles the payout, persists the return, restocks each line, and then
// mints store credit and notifies the customer on a best-effort basis.
func (s *service) CreateReturn(ctx context.Context, input CreateReturnInput) (*models.Return, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return requires at least one item")
	}

	order, err := s.orders.FindByID(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}

	orderedByProduct := make(map[uuid.UUID]models.OrderItem, len(order.Items))
	for _, item := range order.Items {
		orderedByProduct[item.ProductID] = item
	}

	returnValue := decimal.Zero
	exchangeValue := decimal.Zero
	items := make([]models.ReturnItem, 0, len(input.Items))
	// Quantities are capped per product across all lines, so duplicate lines
	// for one product cannot return more than was ordered.
	requested := make(map[uuid.UUID]int, len(input.Items))
	for i, item := range input.Items {
		ordered, ok := orderedByProduct[item.ProductID]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: product %s is not on the order", i, item.ProductID))
		}
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: quantity must be positive", i))
		}
		requested[item.ProductID] += item.Quantity
		if requested[item.ProductID] > ordered.Quantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("item %d: total quantity %d exceeds ordered %d", i, requested[item.ProductID], ordered.Quantity))
		}

		qty := decimal.NewFromInt(int64(item.Quantity))
		returnValue = returnValue.Add(ordered.UnitPrice.Mul(qty))

		if item.ExchangeProductID != nil {
			exchange, err := s.products.FindProduct(ctx, *item.ExchangeProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, pkgerrors.New(pkgerrors.CodeNotFound,
						fmt.Sprintf("exchange product %s not found", *item.ExchangeProductID))
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load exchange product")
			}
			exchangeValue = exchangeValue.Add(exchange.Price.Mul(qty))
		}

		items = append(items, models.ReturnItem{
			ProductID:         ordered.ProductID,
			ProductName:       ordered.ProductName,
			SKU:               ordered.SKU,
			UnitPrice:         ordered.UnitPrice,
			Quantity:          item.Quantity,
			ExchangeProductID: item.ExchangeProductID,
		})
	}

	if returnValue.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return has zero total value")
	}

	settlement := Settle(returnValue, exchangeValue)

	ret := &models.Return{
		OrderID:           order.ID,
		CustomerEmail:     input.CustomerEmail,
		Reason:            input.Reason,
		ReturnValue:       settlement.ReturnValue,
		ExchangeValue:     settlement.ExchangeValue,
		RefundAmount:      settlement.RefundAmount,
		CreditAmount:      settlement.CreditAmount,
		AdditionalPayment: settlement.AdditionalPayment,
		Items:             items,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, ret); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert return")
		}
		return nil
	}); err != nil {
		return nil, err
	}

	rctx := ctx
	if s.log != nil {
		rctx = s.log.WithField(ctx, "return_id", ret.ID.String())
	}
	for _, item := range ret.Items {
		if _, err := s.engine.Apply(rctx, inventory.ApplyInput{
			ProductID: item.ProductID,
			Delta:     inventory.Increase(item.Quantity),
			Reason:    enums.MovementReasonReturn,
			Bucket:    inventory.BucketReturned,
		}); err != nil {
			if s.log != nil {
				s.log.Error(rctx, "restock failed mid-return, earlier items already applied", err)
			}
			return nil, err
		}
	}

	s.settleCredit(rctx, ret)

	return ret, nil
}

// settleCredit mints the store credit and notifies the customer. Both are
// best effort: failures are logged and the return stands.
func (s *service) settleCredit(ctx context.Context, ret *models.Return) {
	if !ret.CreditAmount.IsPositive() || ret.CustomerEmail == nil || *ret.CustomerEmail == "" {
		return
	}

	code, err := s.credits.Create(ctx, discounts.CreateInput{
		CustomerEmail: *ret.CustomerEmail,
		Amount:        ret.CreditAmount,
	})
	if err != nil {
		if s.log != nil {
			s.log.Error(ctx, "store credit mint failed, return stands without a code", err)
		}
		return
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyCreditIssued(ctx, notifications.CreditIssued{
		CustomerEmail: *ret.CustomerEmail,
		Code:          code.Code,
		Amount:        code.Amount,
		ReturnID:      ret.ID.String(),
	}); err != nil && s.log != nil {
		s.log.Error(ctx, "credit notification failed", err)
	}
}

func (s *service) GetReturn(ctx context.Context, id uuid.UUID) (*models.Return, error) {
	ret, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "return not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load return")
	}
	return ret, nil
}

func (s *service) ListReturns(ctx context.Context, input ListReturnsInput) (*ReturnListResult, error) {
	list, err := s.repo.List(ctx, pagination.Params{Limit: input.Limit, Cursor: input.Cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list returns")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	result := &ReturnListResult{Returns: list}
	if len(list) > limit {
		result.Returns = list[:limit]
		last := result.Returns[limit-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &cursor
	}
	return result, nil
}
