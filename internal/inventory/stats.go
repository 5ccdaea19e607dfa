package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/db/models"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
)

// StatsService reads and patches the per-product stock counters.
type StatsService interface {
	// GetAll returns stats for every product ordered by product name. Rows
	// are created on the fly for products that lack one, and Available is
	// reconciled to the live stock quantity before returning.
	GetAll(ctx context.Context) ([]models.StockStats, error)
	// GetByProduct is a plain point read of the cache. It returns nil when
	// no row exists and performs no reconciliation, so Available may lag
	// the product.
	GetByProduct(ctx context.Context, productID uuid.UUID) (*models.StockStats, error)
	Update(ctx context.Context, productID uuid.UUID, input UpdateStatsInput) (*models.StockStats, error)
}

// UpdateStatsInput carries the counter fields to merge; nil fields are left
// untouched.
type UpdateStatsInput struct {
	Available *int
	Sold      *int
	Returned  *int
	Purchased *int
}

type statsService struct {
	repo Repository
}

// NewStatsService wires the stock stats service.
func NewStatsService(repo Repository) (StatsService, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &statsService{repo: repo}, nil
}

func (s *statsService) GetAll(ctx context.Context) ([]models.StockStats, error) {
	entries, err := s.repo.ListStats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock stats")
	}

	out := make([]models.StockStats, 0, len(entries))
	for _, entry := range entries {
		stats := entry.Stats
		if !entry.HasStats {
			stats.Available = entry.Product.StockQuantity
			if err := s.repo.CreateStats(ctx, &stats); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock stats")
			}
		} else if stats.Available != entry.Product.StockQuantity {
			stats.Available = entry.Product.StockQuantity
			if err := s.repo.SaveStats(ctx, &stats); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save stock stats")
			}
		}
		out = append(out, stats)
	}
	return out, nil
}

func (s *statsService) GetByProduct(ctx context.Context, productID uuid.UUID) (*models.StockStats, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	stats, err := s.repo.GetStats(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock stats")
	}
	return stats, nil
}

func (s *statsService) Update(ctx context.Context, productID uuid.UUID, input UpdateStatsInput) (*models.StockStats, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	stats, err := s.repo.GetStats(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "stock stats not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock stats")
	}

	if input.Available != nil {
		stats.Available = *input.Available
	}
	if input.Sold != nil {
		stats.Sold = *input.Sold
	}
	if input.Returned != nil {
		stats.Returned = *input.Returned
	}
	if input.Purchased != nil {
		stats.Purchased = *input.Purchased
	}

	if err := s.repo.SaveStats(ctx, stats); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save stock stats")
	}
	return stats, nil
}
