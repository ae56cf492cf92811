package requisition

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/provgso/requisition-api/internal/domain"
	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

// Gateway is the only entry point allowed to invoke workflow transitions. It
// checks the actor's capability first (fails closed), then delegates, and also
// serves the read-only projections consumed by presentation layers.
type Gateway struct {
	authz     Authorizer
	workflow  *Workflow
	items     repository.ItemRepository
	requests  repository.RequestRepository
	movements repository.MovementRepository
	cache     AvailabilityCache // optional, may be nil
}

// NewGateway builds the gateway. cache may be nil.
func NewGateway(
	authz Authorizer,
	workflow *Workflow,
	items repository.ItemRepository,
	requests repository.RequestRepository,
	movements repository.MovementRepository,
	cache AvailabilityCache,
) *Gateway {
	return &Gateway{
		authz:     authz,
		workflow:  workflow,
		items:     items,
		requests:  requests,
		movements: movements,
		cache:     cache,
	}
}

func (g *Gateway) allowed(ctx context.Context, actorID, permission string) bool {
	if actorID == "" {
		return false
	}
	return g.authz.Check(ctx, actorID, permission)
}

// Submit files a new requisition on behalf of actorID.
func (g *Gateway) Submit(ctx context.Context, actorID, purpose string, items []LineInput) (*entity.SupplyRequest, error) {
	if !g.allowed(ctx, actorID, PermissionRequest) {
		return nil, domain.ErrPermissionDenied
	}
	return g.workflow.Submit(ctx, SubmitInput{
		RequesterID: actorID,
		Purpose:     purpose,
		Items:       items,
	})
}

// Verify locks in (possibly adjusted) quantities and commits the reservations.
func (g *Gateway) Verify(ctx context.Context, actorID, requestID string, adjusted []LineInput) (*entity.SupplyRequest, error) {
	if !g.allowed(ctx, actorID, PermissionInventory) {
		return nil, domain.ErrPermissionDenied
	}
	return g.workflow.Verify(ctx, requestID, actorID, adjusted)
}

// Approve authorizes release of the committed quantities.
func (g *Gateway) Approve(ctx context.Context, actorID, requestID string) error {
	if !g.allowed(ctx, actorID, PermissionApprove) {
		return domain.ErrPermissionDenied
	}
	return g.workflow.Approve(ctx, requestID, actorID)
}

// Issue hands the stock out.
func (g *Gateway) Issue(ctx context.Context, actorID, requestID string) error {
	if !g.allowed(ctx, actorID, PermissionInventory) {
		return domain.ErrPermissionDenied
	}
	return g.workflow.Issue(ctx, requestID, actorID)
}

// Receive confirms receipt and closes the requisition.
func (g *Gateway) Receive(ctx context.Context, actorID, requestID string) error {
	if !g.allowed(ctx, actorID, PermissionRequest) {
		return domain.ErrPermissionDenied
	}
	return g.workflow.Receive(ctx, requestID, actorID)
}

// Reject terminates the requisition, releasing any uncommitted reservation.
func (g *Gateway) Reject(ctx context.Context, actorID, requestID string) error {
	if !g.allowed(ctx, actorID, PermissionInventory) {
		return domain.ErrPermissionDenied
	}
	return g.workflow.Reject(ctx, requestID, actorID)
}

// GetRequest returns one requisition by ID.
func (g *Gateway) GetRequest(ctx context.Context, requestID string) (*entity.SupplyRequest, error) {
	return g.requests.Get(ctx, requestID)
}

// ListRequests returns requisitions matching the filter.
func (g *Gateway) ListRequests(ctx context.Context, filter repository.RequestFilter) ([]*entity.SupplyRequest, error) {
	return g.requests.List(ctx, filter)
}

// MyRequests is the "requests where requesterId == me" projection.
func (g *Gateway) MyRequests(ctx context.Context, actorID string) ([]*entity.SupplyRequest, error) {
	return g.requests.List(ctx, repository.RequestFilter{RequesterID: actorID})
}

// ListItems returns the catalog with current counters.
func (g *Gateway) ListItems(ctx context.Context) ([]*entity.InventoryItem, error) {
	return g.items.List(ctx)
}

// ItemAvailability answers cache-first and falls back to the store. A cache
// miss or failure is not an error; the store is authoritative.
func (g *Gateway) ItemAvailability(ctx context.Context, itemID string) (decimal.Decimal, error) {
	if g.cache != nil {
		available, ok, err := g.cache.GetAvailability(ctx, itemID)
		if err != nil {
			log.Warn().Err(err).Str("item_id", itemID).Msg("availability cache read failed")
		} else if ok {
			return available, nil
		}
	}
	item, err := g.items.Get(ctx, itemID)
	if err != nil {
		return decimal.Zero, err
	}
	return item.Available(), nil
}

// ItemMovements returns the journal for an item, newest first.
func (g *Gateway) ItemMovements(ctx context.Context, itemID string) ([]*entity.StockMovement, error) {
	if _, err := g.items.Get(ctx, itemID); err != nil {
		return nil, err
	}
	return g.movements.ListByItem(ctx, itemID)
}

// CreateItemInput is the payload for registering a new stock item.
type CreateItemInput struct {
	Name         string
	Unit         string
	PhysicalQty  decimal.Decimal
	ReorderPoint decimal.Decimal
}

// CreateItem registers a stock item (inventory management capability).
func (g *Gateway) CreateItem(ctx context.Context, actorID string, in CreateItemInput) (*entity.InventoryItem, error) {
	if !g.allowed(ctx, actorID, PermissionInventory) {
		return nil, domain.ErrPermissionDenied
	}
	if in.Name == "" || in.Unit == "" || in.PhysicalQty.IsNegative() || in.ReorderPoint.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	item := &entity.InventoryItem{
		ID:           uuid.New().String(),
		Name:         in.Name,
		Unit:         in.Unit,
		PhysicalQty:  in.PhysicalQty,
		PendingQty:   decimal.Zero,
		ReorderPoint: in.ReorderPoint,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := g.items.Create(ctx, item); err != nil {
		return nil, err
	}
	if g.cache != nil {
		if err := g.cache.SetAvailability(ctx, item.ID, item.Available()); err != nil {
			log.Warn().Err(err).Str("item_id", item.ID).Msg("availability cache refresh failed")
		}
	}
	return item, nil
}
