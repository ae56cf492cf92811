// Package ledger holds the reservation arithmetic for inventory counters
// (domain service, no I/O). Invariants after every successful operation:
//
//	physicalQty >= 0
//	pendingQty  >= 0
//	physicalQty - pendingQty >= 0
//
// Callers are responsible for serializing access per item (row lock or mutex)
// and for persisting the mutated item in the same transaction.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/provgso/requisition-api/internal/domain"
	"github.com/provgso/requisition-api/internal/domain/entity"
)

// Reserve places a soft hold of qty on the item: pendingQty += qty.
// Fails with ErrInsufficientAvailability when qty exceeds the available count.
func Reserve(item *entity.InventoryItem, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if qty.GreaterThan(item.Available()) {
		return domain.ErrInsufficientAvailability
	}
	item.PendingQty = item.PendingQty.Add(qty)
	return nil
}

// Commit converts a reservation into a physical deduction: pendingQty loses the
// originally reserved amount, physicalQty loses the actual amount the verifier
// authorized. The two can legitimately differ (partial fulfillment). An upward
// adjustment may draw on the line's own reservation plus currently unreserved
// stock, never on other requests' holds; otherwise available would go negative.
func Commit(item *entity.InventoryItem, reservedQty, actualQty decimal.Decimal) error {
	if !reservedQty.IsPositive() || actualQty.IsNegative() {
		return domain.ErrInvalidInput
	}
	if reservedQty.GreaterThan(item.PendingQty) {
		return domain.ErrInvalidInput
	}
	unreserved := item.PhysicalQty.Sub(item.PendingQty.Sub(reservedQty))
	if actualQty.GreaterThan(unreserved) {
		return domain.ErrInsufficientPhysicalStock
	}
	item.PendingQty = item.PendingQty.Sub(reservedQty)
	item.PhysicalQty = item.PhysicalQty.Sub(actualQty)
	return nil
}

// Release returns a reservation without touching physicalQty: pendingQty -= qty.
// Used when a requisition is rejected before verification.
func Release(item *entity.InventoryItem, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return domain.ErrInvalidInput
	}
	if qty.GreaterThan(item.PendingQty) {
		return domain.ErrInvalidInput
	}
	item.PendingQty = item.PendingQty.Sub(qty)
	return nil
}
