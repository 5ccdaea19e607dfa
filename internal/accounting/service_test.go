package accounting

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/db/models"
	"github.com/luphonix/retailops-backend/pkg/enums"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
)

type fakeRepository struct {
	created []*models.AccountEntry
	listFn  func(ctx context.Context, filter ListFilter) ([]models.AccountEntry, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, entry *models.AccountEntry) error {
	f.created = append(f.created, entry)
	return nil
}

func (f *fakeRepository) List(ctx context.Context, filter ListFilter) ([]models.AccountEntry, error) {
	if f.listFn != nil {
		return f.listFn(ctx, filter)
	}
	return nil, nil
}

func TestRecordEntryDerivesFiscalPeriod(t *testing.T) {
	repo := &fakeRepository{}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("unexpected service error: %v", err)
	}

	occurred := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)
	entry, err := svc.RecordEntry(context.Background(), RecordEntryInput{
		Type:       enums.TransactionTypePurchase,
		Revenue:    decimal.NewFromInt(500),
		Cost:       decimal.NewFromInt(300),
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("RecordEntry error: %v", err)
	}

	if entry.FiscalYear != 2026 || entry.FiscalMonth != 8 || entry.FiscalQuarter != 3 {
		t.Fatalf("unexpected fiscal period: %d-%d Q%d", entry.FiscalYear, entry.FiscalMonth, entry.FiscalQuarter)
	}
	if !entry.Profit.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("profit = %s, want 200", entry.Profit)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one created entry, got %d", len(repo.created))
	}
}

func TestRecordEntryNegativeProfit(t *testing.T) {
	repo := &fakeRepository{}
	svc, _ := NewService(repo)

	entry, err := svc.RecordEntry(context.Background(), RecordEntryInput{
		Type:    enums.TransactionTypePurchase,
		Revenue: decimal.NewFromInt(200),
		Cost:    decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("RecordEntry error: %v", err)
	}
	if !entry.Profit.Equal(decimal.NewFromInt(-100)) {
		t.Fatalf("profit = %s, want -100", entry.Profit)
	}
}

func TestRecordEntryRejectsInvalidType(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	_, err := svc.RecordEntry(context.Background(), RecordEntryInput{Type: "gift"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestProfitLossSummaryRollsUpByType(t *testing.T) {
	repo := &fakeRepository{
		listFn: func(ctx context.Context, filter ListFilter) ([]models.AccountEntry, error) {
			if filter.FiscalYear == nil || *filter.FiscalYear != 2026 {
				t.Fatalf("expected year filter 2026, got %v", filter.FiscalYear)
			}
			return []models.AccountEntry{
				{
					TransactionType: enums.TransactionTypeSale,
					Revenue:         decimal.NewFromInt(100),
					Cost:            decimal.NewFromInt(40),
					Profit:          decimal.NewFromInt(60),
				},
				{
					TransactionType: enums.TransactionTypeSale,
					Revenue:         decimal.NewFromInt(50),
					Cost:            decimal.NewFromInt(20),
					Profit:          decimal.NewFromInt(30),
				},
				{
					TransactionType: enums.TransactionTypeRefund,
					Revenue:         decimal.NewFromInt(-30),
					Cost:            decimal.Zero,
					Profit:          decimal.NewFromInt(-30),
				},
			}, nil
		},
	}
	svc, _ := NewService(repo)

	summary, err := svc.ProfitLossSummary(context.Background(), SummaryInput{FiscalYear: 2026})
	if err != nil {
		t.Fatalf("ProfitLossSummary error: %v", err)
	}
	if summary.EntryCount != 3 {
		t.Fatalf("entry count = %d, want 3", summary.EntryCount)
	}
	if !summary.Revenue.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("revenue = %s, want 120", summary.Revenue)
	}
	if !summary.Profit.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("profit = %s, want 60", summary.Profit)
	}

	sales := summary.ByType[string(enums.TransactionTypeSale)]
	if sales.Count != 2 || !sales.Profit.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("unexpected sale line: %+v", sales)
	}
}

func TestProfitLossSummaryRequiresYear(t *testing.T) {
	svc, _ := NewService(&fakeRepository{})

	_, err := svc.ProfitLossSummary(context.Background(), SummaryInput{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
