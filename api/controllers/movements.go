package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/luphonix/retailops-backend/api/responses"
	"github.com/luphonix/retailops-backend/api/validators"
	"github.com/luphonix/retailops-backend/internal/inventory"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/logger"
)

type createMovementRequest struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Type      string  `json:"type" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Reason    string  `json:"reason" validate:"required"`
	Notes     *string `json:"notes,omitempty"`
}

// MovementCreate records a manual stock movement through the mutation engine.
// Adjustments pass the absolute target quantity, in/out pass a delta.
func MovementCreate(svc inventory.MovementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "movement service unavailable"))
			return
		}

		var payload createMovementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		movementType, err := enums.ParseMovementType(strings.TrimSpace(payload.Type))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid movement type"))
			return
		}

		movement, err := svc.CreateMovement(r.Context(), inventory.CreateMovementInput{
			ProductID: productID,
			Type:      movementType,
			Quantity:  payload.Quantity,
			Reason:    enums.MovementReason(strings.TrimSpace(payload.Reason)),
			Notes:     payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, movement)
	}
}

// MovementList pages through the stock ledger, optionally scoped to one
// product via the product_id query parameter.
func MovementList(svc inventory.MovementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, cursor, err := validators.ParseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := inventory.ListMovementsInput{Limit: limit, Cursor: cursor}
		if raw := strings.TrimSpace(r.URL.Query().Get("product_id")); raw != "" {
			productID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			input.ProductID = &productID
		}

		result, err := svc.ListMovements(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"movements":   result.Movements,
			"next_cursor": result.NextCursor,
		})
	}
}
