package enums

// MovementReason labels why a stock movement happened. The column is free
// text so ad-hoc reasons survive, but these are the values the engine and
// stats cache key off.
type MovementReason string

const (
	MovementReasonSale          MovementReason = "sale"
	MovementReasonReturn        MovementReason = "return"
	MovementReasonPurchase      MovementReason = "purchase"
	MovementReasonPhysicalCount MovementReason = "physical-count"
	MovementReasonCorrection    MovementReason = "correction"
)

func (m MovementReason) String() string {
	return string(m)
}
