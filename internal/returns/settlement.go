package returns

import "github.com/shopspring/decimal"

// Settlement is the financial outcome of a return. At most one of
// RefundAmount, CreditAmount and AdditionalPayment is non-zero; an even
// exchange leaves all three at zero.
type Settlement struct {
	ReturnValue       decimal.Decimal
	ExchangeValue     decimal.Decimal
	RefundAmount      decimal.Decimal
	CreditAmount      decimal.Decimal
	AdditionalPayment decimal.Decimal
}

// Settle decides how a return pays out. No exchange means a straight refund.
// With an exchange, the difference becomes store credit (return worth more)
// or an additional payment due (exchange worth more).
func Settle(returnValue, exchangeValue decimal.Decimal) Settlement {
	s := Settlement{
		ReturnValue:       returnValue,
		ExchangeValue:     exchangeValue,
		RefundAmount:      decimal.Zero,
		CreditAmount:      decimal.Zero,
		AdditionalPayment: decimal.Zero,
	}

	if exchangeValue.IsZero() {
		s.RefundAmount = returnValue
		return s
	}

	difference := returnValue.Sub(exchangeValue)
	switch {
	case difference.IsPositive():
		s.CreditAmount = difference
	case difference.IsNegative():
		s.AdditionalPayment = difference.Neg()
	}
	return s
}
