package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luphonix/retailops-backend/api/responses"
	"github.com/luphonix/retailops-backend/api/validators"
	"github.com/luphonix/retailops-backend/internal/accounting"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
	"github.com/luphonix/retailops-backend/pkg/logger"
)

type recordEntryRequest struct {
	Type        string          `json:"type" validate:"required"`
	ProductID   *string         `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Description *string         `json:"description,omitempty"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	OccurredAt  *time.Time      `json:"occurred_at,omitempty"`
}

// EntryCreate records a manual ledger entry, for direct income or
// adjustments that have no triggering order.
func EntryCreate(svc accounting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "accounting service unavailable"))
			return
		}

		var payload recordEntryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		txType, err := enums.ParseTransactionType(strings.TrimSpace(payload.Type))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type"))
			return
		}

		input := accounting.RecordEntryInput{
			Type:        txType,
			Description: payload.Description,
			Revenue:     payload.Revenue,
			Cost:        payload.Cost,
		}
		if payload.ProductID != nil {
			productID, err := uuid.Parse(*payload.ProductID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
				return
			}
			input.ProductID = &productID
		}
		if payload.OccurredAt != nil {
			input.OccurredAt = *payload.OccurredAt
		}

		entry, err := svc.RecordEntry(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

// EntryList filters the account ledger by fiscal period and type.
func EntryList(svc accounting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := parseEntryFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.ListEntries(r.Context(), *input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"entries": entries})
	}
}

// ProfitLoss rolls revenue, cost and profit up over the selected fiscal
// period, broken out by transaction type.
func ProfitLoss(svc accounting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := validators.ParseQueryInt(r, "fiscal_year", 0, 1, 9999)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		month, err := validators.ParseQueryIntPtr(r, "fiscal_month", 1, 12)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quarter, err := validators.ParseQueryIntPtr(r, "fiscal_quarter", 1, 4)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.ProfitLossSummary(r.Context(), accounting.SummaryInput{
			FiscalYear:    year,
			FiscalMonth:   month,
			FiscalQuarter: quarter,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

func parseEntryFilter(r *http.Request) (*accounting.ListEntriesInput, error) {
	year, err := validators.ParseQueryIntPtr(r, "fiscal_year", 1, 9999)
	if err != nil {
		return nil, err
	}
	month, err := validators.ParseQueryIntPtr(r, "fiscal_month", 1, 12)
	if err != nil {
		return nil, err
	}
	quarter, err := validators.ParseQueryIntPtr(r, "fiscal_quarter", 1, 4)
	if err != nil {
		return nil, err
	}

	input := &accounting.ListEntriesInput{
		FiscalYear:    year,
		FiscalMonth:   month,
		FiscalQuarter: quarter,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		txType, err := enums.ParseTransactionType(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid transaction type")
		}
		input.Type = &txType
	}
	return input, nil
}
