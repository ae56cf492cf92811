package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem is a stock item of the provincial supply office.
// PhysicalQty is stock physically on hand; PendingQty is the total still reserved
// by non-terminal requisitions. Both counters are mutated only through the ledger.
type InventoryItem struct {
	ID           string
	Name         string
	Unit         string // display unit of measure (ream, box, piece, ...)
	PhysicalQty  decimal.Decimal
	PendingQty   decimal.Decimal
	ReorderPoint decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Available is the quantity that can still be safely reserved.
func (i *InventoryItem) Available() decimal.Decimal {
	return i.PhysicalQty.Sub(i.PendingQty)
}

// LowStock reports whether the item has fallen below its reorder point.
func (i *InventoryItem) LowStock() bool {
	return i.Available().LessThan(i.ReorderPoint)
}
