package inventory

import (
	"fmt"

	"github.com/luphonix/retailops-backend/pkg/enums"
)

type deltaKind int

const (
	deltaIncrease deltaKind = iota + 1
	deltaDecrease
	deltaSetTo
)

// StockDelta is a tagged quantity change. The tag fixes how the quantity is
// interpreted: Increase and Decrease are relative, SetTo is an absolute
// target. This keeps the "quantity means a delta except for adjustments"
// rule out of caller code.
type StockDelta struct {
	kind deltaKind
	qty  int
}

// Increase adds qty to the current stock level.
func Increase(qty int) StockDelta {
	return StockDelta{kind: deltaIncrease, qty: qty}
}

// Decrease removes qty from the current stock level, clamping at zero.
func Decrease(qty int) StockDelta {
	return StockDelta{kind: deltaDecrease, qty: qty}
}

// SetTo replaces the current stock level with qty (clamped at zero).
func SetTo(qty int) StockDelta {
	return StockDelta{kind: deltaSetTo, qty: qty}
}

// Validate rejects zero-value and negative-quantity deltas.
func (d StockDelta) Validate() error {
	switch d.kind {
	case deltaIncrease, deltaDecrease:
		if d.qty <= 0 {
			return fmt.Errorf("quantity must be positive, got %d", d.qty)
		}
	case deltaSetTo:
		if d.qty < 0 {
			return fmt.Errorf("target quantity must be >= 0, got %d", d.qty)
		}
	default:
		return fmt.Errorf("uninitialized stock delta")
	}
	return nil
}

// Resolve computes the new stock level from the current one. The result is
// never negative.
func (d StockDelta) Resolve(current int) int {
	var next int
	switch d.kind {
	case deltaIncrease:
		next = current + d.qty
	case deltaDecrease:
		next = current - d.qty
	case deltaSetTo:
		next = d.qty
	}
	if next < 0 {
		next = 0
	}
	return next
}

// MovementType maps the delta onto the ledger's movement type column.
func (d StockDelta) MovementType() enums.MovementType {
	switch d.kind {
	case deltaIncrease:
		return enums.MovementTypeIn
	case deltaDecrease:
		return enums.MovementTypeOut
	default:
		return enums.MovementTypeAdjustment
	}
}

// LedgerQuantity is the quantity recorded on the movement row. It is the
// caller-supplied value verbatim: a delta for in/out, the absolute target for
// adjustments. Replaying history must honor that asymmetry.
func (d StockDelta) LedgerQuantity() int {
	return d.qty
}

// FromMovementType builds the delta matching a raw movement type and
// quantity, as submitted by manual stock movement callers.
func FromMovementType(t enums.MovementType, qty int) (StockDelta, error) {
	switch t {
	case enums.MovementTypeIn:
		return Increase(qty), nil
	case enums.MovementTypeOut:
		return Decrease(qty), nil
	case enums.MovementTypeAdjustment:
		return SetTo(qty), nil
	default:
		return StockDelta{}, fmt.Errorf("invalid movement type %q", t)
	}
}
