package controllers

import (
	"net/http"

	"github.com/luphonix/retailops-backend/api/responses"
	"github.com/luphonix/retailops-backend/api/validators"
	"github.com/luphonix/retailops-backend/internal/inventory"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/logger"
)

// StatsList returns the reconciled stock counters for every product.
func StatsList(svc inventory.StatsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		stats, err := svc.GetAll(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"stats": stats})
	}
}

// StatsDetail is a plain point read of the cache, so Available may lag the
// product until the next bulk read reconciles it.
func StatsDetail(svc inventory.StatsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.GetByProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if stats == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "stock stats not found"))
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

type updateStatsRequest struct {
	Available *int `json:"available,omitempty" validate:"omitempty,min=0"`
	Sold      *int `json:"sold,omitempty" validate:"omitempty,min=0"`
	Returned  *int `json:"returned,omitempty" validate:"omitempty,min=0"`
	Purchased *int `json:"purchased,omitempty" validate:"omitempty,min=0"`
}

// StatsUpdate overrides cached counters directly, for corrections after a
// physical count.
func StatsUpdate(svc inventory.StatsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := parseUUIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Update(r.Context(), productID, inventory.UpdateStatsInput{
			Available: payload.Available,
			Sold:      payload.Sold,
			Returned:  payload.Returned,
			Purchased: payload.Purchased,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}
