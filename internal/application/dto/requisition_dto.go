package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/provgso/requisition-api/internal/domain/entity"
)

// LineItemInput is one requested (or adjusted) quantity.
type LineItemInput struct {
	ItemID string          `json:"item_id"`
	Qty    decimal.Decimal `json:"qty"`
}

// SubmitRequest is the body of POST /api/requisitions.
type SubmitRequest struct {
	Purpose string          `json:"purpose"`
	Items   []LineItemInput `json:"items"`
}

// VerifyRequest is the body of POST /api/requisitions/:id/verify. Items is
// optional; omitted lines keep their requested quantity.
type VerifyRequest struct {
	Items []LineItemInput `json:"items"`
}

// LineItemResponse is one line of a requisition as served to clients.
type LineItemResponse struct {
	ItemID       string          `json:"item_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	RequestedQty decimal.Decimal `json:"requested_qty"`
	Qty          decimal.Decimal `json:"qty"`
}

// RequisitionResponse is a full requisition snapshot.
type RequisitionResponse struct {
	ID          string             `json:"id"`
	Purpose     string             `json:"purpose"`
	RequesterID string             `json:"requester_id"`
	Status      string             `json:"status"`
	ApproverID  string             `json:"approver_id,omitempty"`
	IssuerID    string             `json:"issuer_id,omitempty"`
	ReceiverID  string             `json:"receiver_id,omitempty"`
	LineItems   []LineItemResponse `json:"line_items"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// FromRequest maps the entity to its response shape.
func FromRequest(req *entity.SupplyRequest) RequisitionResponse {
	out := RequisitionResponse{
		ID:          req.ID,
		Purpose:     req.Purpose,
		RequesterID: req.RequesterID,
		Status:      req.Status.String(),
		ApproverID:  req.ApproverID,
		IssuerID:    req.IssuerID,
		ReceiverID:  req.ReceiverID,
		CreatedAt:   req.CreatedAt,
		UpdatedAt:   req.UpdatedAt,
	}
	for _, line := range req.LineItems {
		out.LineItems = append(out.LineItems, LineItemResponse{
			ItemID:       line.ItemID,
			Name:         line.Name,
			Unit:         line.Unit,
			RequestedQty: line.RequestedQty,
			Qty:          line.Qty,
		})
	}
	return out
}

// CreateItemRequest is the body of POST /api/items.
type CreateItemRequest struct {
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	PhysicalQty  decimal.Decimal `json:"physical_qty"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
}

// ItemResponse is a stock item with derived availability.
type ItemResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	PhysicalQty  decimal.Decimal `json:"physical_qty"`
	PendingQty   decimal.Decimal `json:"pending_qty"`
	Available    decimal.Decimal `json:"available"`
	ReorderPoint decimal.Decimal `json:"reorder_point"`
	LowStock     bool            `json:"low_stock"`
}

// FromItem maps the entity to its response shape.
func FromItem(item *entity.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		Name:         item.Name,
		Unit:         item.Unit,
		PhysicalQty:  item.PhysicalQty,
		PendingQty:   item.PendingQty,
		Available:    item.Available(),
		ReorderPoint: item.ReorderPoint,
		LowStock:     item.LowStock(),
	}
}

// MovementResponse is one journal entry.
type MovementResponse struct {
	ID        string          `json:"id"`
	RequestID string          `json:"request_id"`
	ItemID    string          `json:"item_id"`
	Type      string          `json:"type"`
	Quantity  decimal.Decimal `json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
	CreatedBy string          `json:"created_by,omitempty"`
}

// FromMovement maps the entity to its response shape.
func FromMovement(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:        m.ID,
		RequestID: m.RequestID,
		ItemID:    m.ItemID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}
