package discounts

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/luphonix/retailops-backend/pkg/config"
	"github.com/luphonix/retailops-backend/pkg/db"
	"github.com/luphonix/retailops-backend/pkg/db/models"
	pkgerrors "github.com/luphonix/retailops-backend/pkg/errors"
)

// fullRedemptionEpsilon absorbs sub-cent residue: a balance that would drop
// to a cent or less is treated as fully spent and the code is removed.
var fullRedemptionEpsilon = decimal.RequireFromString("0.01")

// RedeemOutcome distinguishes the two successful redemption results.
type RedeemOutcome string

const (
	OutcomeFullyRedeemed     RedeemOutcome = "fully_redeemed"
	OutcomePartiallyRedeemed RedeemOutcome = "partially_redeemed"
)

// RedeemResult reports what a redemption did to the code.
type RedeemResult struct {
	Outcome          RedeemOutcome
	AmountApplied    decimal.Decimal
	RemainingBalance decimal.Decimal
}

// Service manages store-credit codes.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.DiscountCode, error)
	Redeem(ctx context.Context, code string, amount decimal.Decimal) (*RedeemResult, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListByCustomer(ctx context.Context, customerEmail string) ([]models.DiscountCode, error)
}

// CreateInput mints one store-credit code. A zero ExpiresAt falls back to the
// configured expiry window.
type CreateInput struct {
	CustomerEmail string
	Amount        decimal.Decimal
	ExpiresAt     time.Time
}

type service struct {
	repo Repository
	cfg  config.CreditsConfig
}

// NewService wires the discount code service.
func NewService(repo Repository, cfg config.CreditsConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("discount repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// Create mints a fresh code. Multiple outstanding credits for the same
// customer are allowed.
func (s *service) Create(ctx context.Context, input CreateInput) (*models.DiscountCode, error) {
	if input.CustomerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be positive")
	}

	expiresAt := input.ExpiresAt
	if expiresAt.IsZero() {
		days := s.cfg.ExpiryDays
		if days <= 0 {
			days = 90
		}
		expiresAt = time.Now().UTC().AddDate(0, 0, days)
	}

	// Collisions on the random suffix are vanishingly rare but the unique
	// index makes them loud, so retry a couple of times.
	for attempt := 0; attempt < 3; attempt++ {
		code, err := s.mintCode()
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint code")
		}

		row := &models.DiscountCode{
			Code:          code,
			CustomerEmail: input.CustomerEmail,
			Amount:        input.Amount.Round(2),
			ExpiresAt:     expiresAt,
		}
		if err := s.repo.Create(ctx, row); err != nil {
			if db.IsUniqueViolation(err) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert discount code")
		}
		return row, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "could not mint a unique code")
}

// Redeem draws amount down from the code's balance. Draining the balance to
// within a cent removes the code entirely; no zero-balance row survives.
func (s *service) Redeem(ctx context.Context, code string, amount decimal.Decimal) (*RedeemResult, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	row, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount code not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load discount code")
	}

	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redemption amount must be positive")
	}
	if amount.GreaterThan(row.Amount) {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance,
			fmt.Sprintf("requested %s exceeds balance %s", amount.StringFixed(2), row.Amount.StringFixed(2)))
	}

	remaining := row.Amount.Sub(amount)
	if remaining.LessThanOrEqual(fullRedemptionEpsilon) {
		if _, err := s.repo.DeleteByID(ctx, row.ID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete discount code")
		}
		return &RedeemResult{
			Outcome:          OutcomeFullyRedeemed,
			AmountApplied:    amount,
			RemainingBalance: decimal.Zero,
		}, nil
	}

	row.Amount = remaining.Round(2)
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update discount code")
	}
	return &RedeemResult{
		Outcome:          OutcomePartiallyRedeemed,
		AmountApplied:    amount,
		RemainingBalance: row.Amount,
	}, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	removed, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete discount code")
	}
	return removed, nil
}

func (s *service) ListByCustomer(ctx context.Context, customerEmail string) ([]models.DiscountCode, error) {
	if customerEmail == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer email is required")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list discount codes")
	}
	return rows, nil
}

const codeCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

func (s *service) mintCode() (string, error) {
	prefix := s.cfg.CodePrefix
	if prefix == "" {
		prefix = "RC"
	}

	buf := make([]byte, 10)
	max := big.NewInt(int64(len(codeCharset)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeCharset[n.Int64()]
	}
	return fmt.Sprintf("%s-%s", prefix, buf), nil
}
