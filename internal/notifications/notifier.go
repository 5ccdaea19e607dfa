package notifications

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/luphonix/retailops-backend/pkg/logger"
)

// CreditIssued describes a freshly minted store credit to announce to the
// customer.
type CreditIssued struct {
	CustomerEmail string
	Code          string
	Amount        decimal.Decimal
	ReturnID      string
}

// Notifier delivers customer-facing messages. Callers treat delivery as best
// effort; a failed send never fails the business operation that triggered it.
type Notifier interface {
	NotifyCreditIssued(ctx context.Context, event CreditIssued) error
}

// LogNotifier writes notifications to the structured log instead of an email
// provider. It is the default wiring until an outbound channel exists.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier builds a log-backed notifier.
func NewLogNotifier(log *logger.Logger) (*LogNotifier, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &LogNotifier{log: log}, nil
}

func (n *LogNotifier) NotifyCreditIssued(ctx context.Context, event CreditIssued) error {
	lctx := n.log.WithFields(ctx, map[string]any{
		"customer_email": event.CustomerEmail,
		"credit_code":    event.Code,
		"credit_amount":  event.Amount.StringFixed(2),
		"return_id":      event.ReturnID,
	})
	n.log.Info(lctx, "store credit issued")
	return nil
}
