package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/luphonix/retailops-backend/api/responses"
	"github.com/luphonix/retailops-backend/api/validators"
	ordersvc "github.com/luphonix/retailops-backend/internal/orders"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/logger"
)

type createOrderRequest struct {
	CustomerName  string                   `json:"customer_name" validate:"required"`
	CustomerEmail *string                  `json:"customer_email,omitempty" validate:"omitempty,email"`
	Notes         *string                  `json:"notes,omitempty"`
	Items         []createOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type createOrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// OrderCreate captures a sale and decrements stock per line item.
func OrderCreate(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items := make([]ordersvc.OrderItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			items = append(items, ordersvc.OrderItemInput{ProductID: productID, Quantity: item.Quantity})
		}

		order, err := svc.CreateOrder(r.Context(), ordersvc.CreateOrderInput{
			CustomerName:  payload.CustomerName,
			CustomerEmail: payload.CustomerEmail,
			Notes:         payload.Notes,
			Items:         items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func OrderList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, cursor, err := validators.ParseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListOrders(r.Context(), ordersvc.ListOrdersInput{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"orders":      result.Orders,
			"next_cursor": result.NextCursor,
		})
	}
}
