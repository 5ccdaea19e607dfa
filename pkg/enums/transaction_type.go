package enums

import "fmt"

// TransactionType describes the allowed values for the `transaction_type`
// column in account_entries.
type TransactionType string

const (
	TransactionTypeSale         TransactionType = "sale"
	TransactionTypePurchase     TransactionType = "purchase"
	TransactionTypeReturn       TransactionType = "return"
	TransactionTypeRefund       TransactionType = "refund"
	TransactionTypeAdjustment   TransactionType = "adjustment"
	TransactionTypeDirectIncome TransactionType = "direct_income"
)

var validTransactionTypes = []TransactionType{
	TransactionTypeSale,
	TransactionTypePurchase,
	TransactionTypeReturn,
	TransactionTypeRefund,
	TransactionTypeAdjustment,
	TransactionTypeDirectIncome,
}

// IsValid reports whether the value matches the canonical transaction type enum.
func (tr TransactionType) IsValid() bool {
	for _, candidate := range validTransactionTypes {
		if candidate == tr {
			return true
		}
	}
	return false
}

// ParseTransactionType converts the raw string to TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	for _, candidate := range validTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction type %q", value)
}
