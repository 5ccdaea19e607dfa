package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/luphonix/retailops-backend/api/responses"
	"github.com/luphonix/retailops-backend/api/validators"
	returnsvc "github.com/luphonix/retailops-backend/internal/returns"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/logger"
)

type createReturnRequest struct {
	OrderID       string                    `json:"order_id" validate:"required,uuid"`
	CustomerEmail *string                   `json:"customer_email,omitempty" validate:"omitempty,email"`
	Reason        *string                   `json:"reason,omitempty"`
	Items         []createReturnItemRequest `json:"items" validate:"required,min=1,dive"`
}

type createReturnItemRequest struct {
	ProductID         string  `json:"product_id" validate:"required,uuid"`
	Quantity          int     `json:"quantity" validate:"required,min=1"`
	ExchangeProductID *string `json:"exchange_product_id,omitempty" validate:"omitempty,uuid"`
}

// ReturnCreate takes back order lines, restocks them and settles the
// difference as refund, store credit or additional payment.
func ReturnCreate(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "return service unavailable"))
			return
		}

		var payload createReturnRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := uuid.Parse(payload.OrderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		items := make([]returnsvc.ReturnItemInput, 0, len(payload.Items))
		for _, item := range payload.Items {
			productID, err := uuid.Parse(item.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			out := returnsvc.ReturnItemInput{ProductID: productID, Quantity: item.Quantity}
			if item.ExchangeProductID != nil {
				exchangeID, err := uuid.Parse(*item.ExchangeProductID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid exchange product id"))
					return
				}
				out.ExchangeProductID = &exchangeID
			}
			items = append(items, out)
		}

		ret, err := svc.CreateReturn(r.Context(), returnsvc.CreateReturnInput{
			OrderID:       orderID,
			CustomerEmail: payload.CustomerEmail,
			Reason:        payload.Reason,
			Items:         items,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ret)
	}
}

func ReturnDetail(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "returnId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ret, err := svc.GetReturn(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, ret)
	}
}

func ReturnList(svc returnsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, cursor, err := validators.ParseListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListReturns(r.Context(), returnsvc.ListReturnsInput{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"returns":     result.Returns,
			"next_cursor": result.NextCursor,
		})
	}
}
