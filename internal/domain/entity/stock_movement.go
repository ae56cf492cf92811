package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement types. Every ledger mutation is journaled with one of these.
const (
	MovementTypeRESERVE = "RESERVE" // pendingQty += qty (submission)
	MovementTypeCOMMIT  = "COMMIT"  // pendingQty -= reserved, physicalQty -= actual (verification)
	MovementTypeRELEASE = "RELEASE" // pendingQty -= qty (rejection before verification)
)

// StockMovement is one append-only journal entry for an item. Quantity is the
// signed delta applied to the counter the movement type touches: positive for
// RESERVE (pending up), negative for COMMIT (physical down) and RELEASE
// (pending down).
type StockMovement struct {
	ID        string
	RequestID string
	ItemID    string
	Type      string
	Quantity  decimal.Decimal
	CreatedAt time.Time
	CreatedBy string
}
