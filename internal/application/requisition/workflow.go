package requisition

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/provgso/requisition-api/internal/domain"
	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/ledger"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

// Workflow drives a requisition through its lifecycle. Every transition runs
// inside a single transaction: the status change, the ledger counter mutation
// and the journal entry all commit together or not at all. The status is
// re-read under lock at the start of each transition and checked against the
// expected source state, so a stale caller gets ErrInvalidTransition instead
// of corrupting counters.
type Workflow struct {
	tx    TxRunner
	cache AvailabilityCache // optional, may be nil
}

// NewWorkflow builds the workflow engine. cache may be nil.
func NewWorkflow(tx TxRunner, cache AvailabilityCache) *Workflow {
	return &Workflow{tx: tx, cache: cache}
}

// LineInput is one requested (or adjusted) quantity for an item.
type LineInput struct {
	ItemID string
	Qty    decimal.Decimal
}

// SubmitInput is the payload for a new requisition.
type SubmitInput struct {
	RequesterID string
	Purpose     string
	Items       []LineInput
}

// Submit creates a requisition in ForVerification and reserves every requested
// quantity. All-or-nothing: if any line lacks availability, no reservation is
// kept.
func (w *Workflow) Submit(ctx context.Context, in SubmitInput) (*entity.SupplyRequest, error) {
	if in.RequesterID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	seen := make(map[string]bool, len(in.Items))
	for _, line := range in.Items {
		if line.ItemID == "" || !line.Qty.IsPositive() || seen[line.ItemID] {
			return nil, domain.ErrInvalidInput
		}
		seen[line.ItemID] = true
	}

	now := time.Now()
	req := &entity.SupplyRequest{
		ID:          uuid.New().String(),
		Purpose:     in.Purpose,
		RequesterID: in.RequesterID,
		Status:      entity.StatusForVerification,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var touched []*entity.InventoryItem
	err := w.tx.Run(ctx, func(
		items repository.ItemRepository,
		requests repository.RequestRepository,
		movements repository.MovementRepository,
	) error {
		for _, line := range in.Items {
			item, err := items.GetForUpdate(ctx, line.ItemID)
			if err != nil {
				return err
			}
			if err := ledger.Reserve(item, line.Qty); err != nil {
				return err
			}
			item.UpdatedAt = now
			if err := items.Upsert(ctx, item); err != nil {
				return err
			}
			if err := movements.Create(ctx, &entity.StockMovement{
				RequestID: req.ID,
				ItemID:    item.ID,
				Type:      entity.MovementTypeRESERVE,
				Quantity:  line.Qty,
				CreatedAt: now,
				CreatedBy: in.RequesterID,
			}); err != nil {
				return err
			}
			req.LineItems = append(req.LineItems, entity.RequestLineItem{
				ItemID:       item.ID,
				Name:         item.Name,
				Unit:         item.Unit,
				RequestedQty: line.Qty,
				Qty:          line.Qty,
			})
			touched = append(touched, item)
		}
		return requests.Save(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	w.refreshCache(ctx, touched)
	return req, nil
}

// Verify commits every line's reservation into a physical deduction and moves
// the request to AwaitingApproval. adjusted may change working quantities
// before the commit; afterwards they are frozen. The deduction uses the
// adjusted quantity, the pending release uses the originally reserved one.
func (w *Workflow) Verify(ctx context.Context, requestID, verifierID string, adjusted []LineInput) (*entity.SupplyRequest, error) {
	if verifierID == "" {
		return nil, domain.ErrInvalidInput
	}
	var req *entity.SupplyRequest
	var touched []*entity.InventoryItem
	now := time.Now()

	err := w.tx.Run(ctx, func(
		items repository.ItemRepository,
		requests repository.RequestRepository,
		movements repository.MovementRepository,
	) error {
		var err error
		req, err = requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != entity.StatusForVerification {
			return domain.ErrInvalidTransition
		}
		for _, adj := range adjusted {
			line := req.Line(adj.ItemID)
			if line == nil || adj.Qty.IsNegative() {
				return domain.ErrInvalidInput
			}
			line.Qty = adj.Qty
		}
		for i := range req.LineItems {
			line := &req.LineItems[i]
			item, err := items.GetForUpdate(ctx, line.ItemID)
			if err != nil {
				return err
			}
			if line.Qty.GreaterThan(line.RequestedQty) {
				// Upstream policy: adjusting above the original request is
				// allowed as long as unreserved stock covers it, but worth noting.
				log.Warn().
					Str("request_id", req.ID).
					Str("item_id", item.ID).
					Str("requested", line.RequestedQty.String()).
					Str("adjusted", line.Qty.String()).
					Msg("verification adjusted quantity above original request")
			}
			if err := ledger.Commit(item, line.RequestedQty, line.Qty); err != nil {
				return err
			}
			item.UpdatedAt = now
			if err := items.Upsert(ctx, item); err != nil {
				return err
			}
			if err := movements.Create(ctx, &entity.StockMovement{
				RequestID: req.ID,
				ItemID:    item.ID,
				Type:      entity.MovementTypeCOMMIT,
				Quantity:  line.Qty.Neg(),
				CreatedAt: now,
				CreatedBy: verifierID,
			}); err != nil {
				return err
			}
			touched = append(touched, item)
		}
		req.Status = entity.StatusAwaitingApproval
		req.UpdatedAt = now
		return requests.Save(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	w.refreshCache(ctx, touched)
	return req, nil
}

// Approve moves AwaitingApproval -> ForIssuance and records the approver.
func (w *Workflow) Approve(ctx context.Context, requestID, approverID string) error {
	return w.advance(ctx, requestID, entity.StatusAwaitingApproval, entity.StatusForIssuance,
		func(req *entity.SupplyRequest) { req.ApproverID = approverID }, approverID)
}

// Issue moves ForIssuance -> ToReceive and records the issuer.
func (w *Workflow) Issue(ctx context.Context, requestID, issuerID string) error {
	return w.advance(ctx, requestID, entity.StatusForIssuance, entity.StatusToReceive,
		func(req *entity.SupplyRequest) { req.IssuerID = issuerID }, issuerID)
}

// Receive moves ToReceive -> History and records the receiver.
func (w *Workflow) Receive(ctx context.Context, requestID, receiverID string) error {
	return w.advance(ctx, requestID, entity.StatusToReceive, entity.StatusHistory,
		func(req *entity.SupplyRequest) { req.ReceiverID = receiverID }, receiverID)
}

// advance performs a ledger-neutral transition with a compare-and-set on the
// source status. Quantities were already committed at verification.
func (w *Workflow) advance(
	ctx context.Context,
	requestID string,
	from, to entity.Status,
	record func(*entity.SupplyRequest),
	actorID string,
) error {
	if actorID == "" {
		return domain.ErrInvalidInput
	}
	return w.tx.Run(ctx, func(
		_ repository.ItemRepository,
		requests repository.RequestRepository,
		_ repository.MovementRepository,
	) error {
		req, err := requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != from || !from.CanTransitionTo(to) {
			return domain.ErrInvalidTransition
		}
		record(req)
		req.Status = to
		req.UpdatedAt = time.Now()
		return requests.Save(ctx, req)
	})
}

// Reject terminates a requisition. While still ForVerification the reservation
// has not been committed, so it is released in full; from later states the
// quantities were already deducted and the ledger is left alone. Rejected is
// permanently terminal: a second Reject yields ErrInvalidTransition.
func (w *Workflow) Reject(ctx context.Context, requestID, actorID string) error {
	if actorID == "" {
		return domain.ErrInvalidInput
	}
	var touched []*entity.InventoryItem
	now := time.Now()

	err := w.tx.Run(ctx, func(
		items repository.ItemRepository,
		requests repository.RequestRepository,
		movements repository.MovementRepository,
	) error {
		req, err := requests.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if !req.Status.CanTransitionTo(entity.StatusRejected) {
			return domain.ErrInvalidTransition
		}
		if req.Status == entity.StatusForVerification {
			for i := range req.LineItems {
				line := &req.LineItems[i]
				item, err := items.GetForUpdate(ctx, line.ItemID)
				if err != nil {
					return err
				}
				if err := ledger.Release(item, line.RequestedQty); err != nil {
					return err
				}
				item.UpdatedAt = now
				if err := items.Upsert(ctx, item); err != nil {
					return err
				}
				if err := movements.Create(ctx, &entity.StockMovement{
					RequestID: req.ID,
					ItemID:    item.ID,
					Type:      entity.MovementTypeRELEASE,
					Quantity:  line.RequestedQty.Neg(),
					CreatedAt: now,
					CreatedBy: actorID,
				}); err != nil {
					return err
				}
				touched = append(touched, item)
			}
		}
		req.Status = entity.StatusRejected
		req.UpdatedAt = now
		return requests.Save(ctx, req)
	})
	if err != nil {
		return err
	}
	w.refreshCache(ctx, touched)
	return nil
}

// refreshCache pushes availability snapshots after a committed transaction.
// Failures are logged, never surfaced: the cache is a read optimization.
func (w *Workflow) refreshCache(ctx context.Context, items []*entity.InventoryItem) {
	if w.cache == nil {
		return
	}
	for _, item := range items {
		if err := w.cache.SetAvailability(ctx, item.ID, item.Available()); err != nil {
			log.Warn().Err(err).Str("item_id", item.ID).Msg("availability cache refresh failed")
		}
	}
}
