package requisition

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

// Supply permissions checked by the gateway before any transition runs.
const (
	PermissionRequest   = "supply.request"   // submit, receive
	PermissionInventory = "supply.inventory" // verify, issue, reject, item management
	PermissionApprove   = "supply.approve"   // approve
)

// TxRunner executes fn inside a storage transaction, handing it repositories
// bound to that transaction. Either everything fn does is persisted or nothing
// is; this is what keeps ledger counters and request state from splitting.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemRepository,
		requests repository.RequestRepository,
		movements repository.MovementRepository,
	) error) error
}

// Authorizer is the external capability check collaborator. It must fail
// closed: any error or unknown actor means "no".
type Authorizer interface {
	Check(ctx context.Context, actorID, permission string) bool
}

// Signatories are the resolved actors printed on a requisition and issue slip.
// Zero-value entries mean the corresponding transition has not happened yet.
type Signatories struct {
	RequestedBy entity.Actor
	ApprovedBy  entity.Actor
	IssuedBy    entity.Actor
	ReceivedBy  entity.Actor
}

// SlipRenderer produces the printable requisition and issue slip for a request
// snapshot. Rendering details (layout, typography) live behind this port.
type SlipRenderer interface {
	RenderSlip(ctx context.Context, req *entity.SupplyRequest, signatories Signatories) ([]byte, error)
}

// AvailabilityCache is an optional read-side snapshot of per-item availability.
// Writes are best effort; the store remains the source of truth.
type AvailabilityCache interface {
	SetAvailability(ctx context.Context, itemID string, available decimal.Decimal) error
	GetAvailability(ctx context.Context, itemID string) (decimal.Decimal, bool, error)
}
