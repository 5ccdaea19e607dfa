package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luphonix/retailops-backend/api/responses"
	"github.com/luphonix/retailops-backend/api/validators"
	discountsvc "github.com/luphonix/retailops-backend/internal/discounts"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/logger"
)

type createDiscountRequest struct {
	CustomerEmail string          `json:"customer_email" validate:"required,email"`
	Amount        decimal.Decimal `json:"amount"`
	// Omitted expires_at falls back to the configured expiry window.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// DiscountCreate mints a store-credit code directly, outside the return flow.
func DiscountCreate(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "discount service unavailable"))
			return
		}

		var payload createDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := discountsvc.CreateInput{
			CustomerEmail: payload.CustomerEmail,
			Amount:        payload.Amount,
		}
		if payload.ExpiresAt != nil {
			input.ExpiresAt = *payload.ExpiresAt
		}

		code, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, code)
	}
}

type redeemDiscountRequest struct {
	Code   string          `json:"code" validate:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// DiscountRedeem applies part or all of a code's balance against a purchase.
func DiscountRedeem(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload redeemDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Redeem(r.Context(), strings.TrimSpace(payload.Code), payload.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"outcome":           result.Outcome,
			"amount_applied":    result.AmountApplied,
			"remaining_balance": result.RemainingBalance,
		})
	}
}

// DiscountList returns a customer's outstanding credits.
func DiscountList(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := strings.TrimSpace(r.URL.Query().Get("customer_email"))
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "customer_email query parameter required"))
			return
		}

		codes, err := svc.ListByCustomer(r.Context(), email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"discount_codes": codes})
	}
}

func DiscountDelete(svc discountsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "discountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		removed, err := svc.Delete(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !removed {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
