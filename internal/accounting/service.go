package accounting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
)

// Service records and reports on the financial ledger.
type Service interface {
	RecordEntry(ctx context.Context, input RecordEntryInput) (*models.AccountEntry, error)
	ListEntries(ctx context.Context, input ListEntriesInput) ([]models.AccountEntry, error)
	ProfitLossSummary(ctx context.Context, input SummaryInput) (*Summary, error)
}

// RecordEntryInput captures one immutable financial event. Profit is derived,
// never supplied.
type RecordEntryInput struct {
	Type        enums.TransactionType
	ProductID   *uuid.UUID
	Description *string
	Revenue     decimal.Decimal
	Cost        decimal.Decimal
	// OccurredAt defaults to now; fiscal period columns derive from it.
	OccurredAt time.Time
}

// ListEntriesInput filters ledger reads by fiscal period and type.
type ListEntriesInput struct {
	FiscalYear    *int
	FiscalMonth   *int
	FiscalQuarter *int
	Type          *enums.TransactionType
}

// SummaryInput scopes a profit/loss rollup.
type SummaryInput struct {
	FiscalYear    int
	FiscalMonth   *int
	FiscalQuarter *int
}

// Summary is the profit/loss rollup over the selected period.
type Summary struct {
	FiscalYear int                 `json:"fiscal_year"`
	Revenue    decimal.Decimal     `json:"revenue"`
	Cost       decimal.Decimal     `json:"cost"`
	Profit     decimal.Decimal     `json:"profit"`
	EntryCount int                 `json:"entry_count"`
	ByType     map[string]TypeLine `json:"by_type"`
}

// TypeLine is the per-transaction-type slice of a summary.
type TypeLine struct {
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
	Count   int             `json:"count"`
}

type service struct {
	repo Repository
}

// NewService wires the accounting service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounting repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordEntry(ctx context.Context, input RecordEntryInput) (*models.AccountEntry, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.Type))
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	year, month, _ := occurredAt.Date()
	entry := &models.AccountEntry{
		TransactionType: input.Type,
		ProductID:       input.ProductID,
		Description:     input.Description,
		Revenue:         input.Revenue,
		Cost:            input.Cost,
		Profit:          input.Revenue.Sub(input.Cost),
		FiscalYear:      year,
		FiscalMonth:     int(month),
		FiscalQuarter:   (int(month)-1)/3 + 1,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert account entry")
	}
	return entry, nil
}

func (s *service) ListEntries(ctx context.Context, input ListEntriesInput) ([]models.AccountEntry, error) {
	entries, err := s.repo.List(ctx, ListFilter{
		FiscalYear:    input.FiscalYear,
		FiscalMonth:   input.FiscalMonth,
		FiscalQuarter: input.FiscalQuarter,
		Type:          input.Type,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list account entries")
	}
	return entries, nil
}

func (s *service) ProfitLossSummary(ctx context.Context, input SummaryInput) (*Summary, error) {
	if input.FiscalYear <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fiscal year is required")
	}

	entries, err := s.repo.List(ctx, ListFilter{
		FiscalYear:    &input.FiscalYear,
		FiscalMonth:   input.FiscalMonth,
		FiscalQuarter: input.FiscalQuarter,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list account entries")
	}

	summary := &Summary{
		FiscalYear: input.FiscalYear,
		Revenue:    decimal.Zero,
		Cost:       decimal.Zero,
		Profit:     decimal.Zero,
		ByType:     map[string]TypeLine{},
	}
	for _, entry := range entries {
		summary.Revenue = summary.Revenue.Add(entry.Revenue)
		summary.Cost = summary.Cost.Add(entry.Cost)
		summary.Profit = summary.Profit.Add(entry.Profit)
		summary.EntryCount++

		line := summary.ByType[string(entry.TransactionType)]
		line.Revenue = line.Revenue.Add(entry.Revenue)
		line.Cost = line.Cost.Add(entry.Cost)
		line.Profit = line.Profit.Add(entry.Profit)
		line.Count++
		summary.ByType[string(entry.TransactionType)] = line
	}
	return summary, nil
}
