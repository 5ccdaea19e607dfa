package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/pagination"
)

// MovementService exposes manual stock movements and ledger reads.
type MovementService interface {
	CreateMovement(ctx context.Context, input CreateMovementInput) (*models.StockMovement, error)
	ListMovements(ctx context.Context, input ListMovementsInput) (*MovementListResult, error)
}

// CreateMovementInput is the validated payload for a manual stock movement.
type CreateMovementInput struct {
	ProductID uuid.UUID
	Type      enums.MovementType
	Quantity  int
	Reason    enums.MovementReason
	Notes     *string
}

// ListMovementsInput filters the movement ledger.
type ListMovementsInput struct {
	ProductID *uuid.UUID
	Limit     int
	Cursor    string
}

// MovementListResult is one page of ledger rows plus the next cursor.
type MovementListResult struct {
	Movements  []models.StockMovement
	NextCursor *string
}

type movementService struct {
	engine Engine
	repo   Repository
}

// NewMovementService wires the manual movement service on top of the engine.
func NewMovementService(engine Engine, repo Repository) (MovementService, error) {
	if engine == nil {
		return nil, fmt.Errorf("inventory engine required")
	}
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &movementService{engine: engine, repo: repo}, nil
}

func (s *movementService) CreateMovement(ctx context.Context, input CreateMovementInput) (*models.StockMovement, error) {
	delta, err := FromMovementType(input.Type, input.Quantity)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.Reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}

	// Only purchases feed the purchased counter; any other reason just
	// repins available.
	bucket := BucketNone
	if input.Reason == enums.MovementReasonPurchase {
		bucket = BucketPurchased
	}

	result, err := s.engine.Apply(ctx, ApplyInput{
		ProductID: input.ProductID,
		Delta:     delta,
		Reason:    input.Reason,
		Notes:     input.Notes,
		Bucket:    bucket,
	})
	if err != nil {
		return nil, err
	}
	return result.Movement, nil
}

func (s *movementService) ListMovements(ctx context.Context, input ListMovementsInput) (*MovementListResult, error) {
	movements, err := s.repo.ListMovements(ctx, input.ProductID, pagination.Params{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock movements")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	result := &MovementListResult{Movements: movements}
	if len(movements) > limit {
		result.Movements = movements[:limit]
		last := result.Movements[limit-1]
		cursor := pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
		result.NextCursor = &cursor
	}
	return result, nil
}
