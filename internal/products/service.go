package products

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/internal/accounting"
	"github.com/luphonix/retailops-backend/internal/inventory"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/pagination"
)

// Service exposes catalog management operations.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU           string
	ProductName   string
	Category      string
	Price         decimal.Decimal
	CostPrice     *decimal.Decimal
	StockQuantity int
}

// UpdateProductInput carries optional metadata mutations. Stock quantity is
// deliberately absent; stock changes go through movements.
type UpdateProductInput struct {
	SKU         *string
	ProductName *string
	Category    *string
	Price       *decimal.Decimal
	CostPrice   *decimal.Decimal
}

// ListProductsInput pages through the catalog.
type ListProductsInput struct {
	Limit  int
	Cursor string
}

// ProductListResult is one catalog page plus the next cursor.
type ProductListResult struct {
	Products   []models.Product
	NextCursor *string
}

type entryRecorder interface {
	RecordEntry(ctx context.Context, input accounting.RecordEntryInput) (*models.AccountEntry, error)
}

type service struct {
	repo       Repository
	dbClient   *db.Client
	engine     inventory.Engine
	invRepo    inventory.Repository
	accounting entryRecorder
}

// NewService constructs a product service instance.
func NewService(repo Repository, dbClient *db.Client, engine inventory.Engine, invRepo inventory.Repository, accounting entryRecorder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if engine == nil {
		return nil, fmt.Errorf("inventory engine required")
	}
	if invRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if accounting == nil {
		return nil, fmt.Errorf("accounting service required")
	}
	return &service{
		repo:       repo,
		dbClient:   dbClient,
		engine:     engine,
		invRepo:    invRepo,
		accounting: accounting,
	}, nil
}

// CreateProduct inserts the product, seeds its stats row, and when a cost
// price is known records the projected margin on the opening stock.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if input.SKU == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if input.ProductName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be >= 0")
	}
	if input.CostPrice != nil && input.CostPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost price must be >= 0")
	}
	if input.StockQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must be >= 0")
	}

	product := &models.Product{
		SKU:           input.SKU,
		ProductName:   input.ProductName,
		Category:      input.Category,
		Price:         input.Price,
		CostPrice:     input.CostPrice,
		StockQuantity: input.StockQuantity,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("sku %q already exists", input.SKU))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	if err := s.engine.InitializeStats(ctx, product.ID, input.StockQuantity); err != nil {
		return nil, err
	}

	if input.CostPrice != nil {
		qty := decimal.NewFromInt(int64(input.StockQuantity))
		description := fmt.Sprintf("opening stock for %s", product.ProductName)
		if _, err := s.accounting.RecordEntry(ctx, accounting.RecordEntryInput{
			Type:        enums.TransactionTypePurchase,
			ProductID:   &product.ID,
			Description: &description,
			Revenue:     input.Price.Mul(qty),
			Cost:        input.CostPrice.Mul(qty),
		}); err != nil {
			return nil, err
		}
	}

	return product, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	list, err := s.repo.List(ctx, pagination.Params{Limit: input.Limit, Cursor: input.Cursor})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	result := &ProductListResult{Products: list}
	if len(list) > limit {
		result.Products = list[:limit]
		last := result.Products[limit-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &cursor
	}
	return result, nil
}

// UpdateProduct mutates catalog metadata only. Stock quantity never changes
// here; the mutation engine owns it.
func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.SKU != nil {
		if *input.SKU == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku cannot be empty")
		}
		product.SKU = *input.SKU
	}
	if input.ProductName != nil {
		if *input.ProductName == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.ProductName = *input.ProductName
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be >= 0")
		}
		product.Price = *input.Price
	}
	if input.CostPrice != nil {
		if input.CostPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost price must be >= 0")
		}
		product.CostPrice = input.CostPrice
	}

	if err := s.repo.Save(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("sku %q already exists", product.SKU))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return product, nil
}

// DeleteProduct removes the product and its stats row. Movement, order,
// return, and account history referencing the product stays behind.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		removed, err := s.repo.WithTx(tx).Delete(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
		}
		if !removed {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if err := s.invRepo.WithTx(tx).DeleteStats(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete stock stats")
		}
		return nil
	})
}
