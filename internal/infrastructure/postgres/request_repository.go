package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/provgso/requisition-api/internal/domain"
	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo is the PostgreSQL supply request store (usable with pool or tx).
// Requests live in supply_requests; lines in supply_request_items, replaced
// wholesale on save (a request exclusively owns its lines).
type RequestRepo struct {
	q Querier
}

// NewRequestRepository builds the adapter. Pass a pool or a tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

const requestColumns = `id, purpose, requester_id, status, approver_id, issuer_id, receiver_id, created_at, updated_at`

// Save upserts the request row and rewrites its line items.
func (r *RequestRepo) Save(ctx context.Context, req *entity.SupplyRequest) error {
	query := `
		INSERT INTO supply_requests (id, purpose, requester_id, status, approver_id, issuer_id, receiver_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET status = EXCLUDED.status,
		              approver_id = EXCLUDED.approver_id,
		              issuer_id = EXCLUDED.issuer_id,
		              receiver_id = EXCLUDED.receiver_id,
		              updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.Purpose, req.RequesterID, req.Status.String(),
		nullable(req.ApproverID), nullable(req.IssuerID), nullable(req.ReceiverID),
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save request: %w", err)
	}

	if _, err := r.q.Exec(ctx, `DELETE FROM supply_request_items WHERE request_id = $1`, req.ID); err != nil {
		return fmt.Errorf("clear request items: %w", err)
	}
	for i, line := range req.LineItems {
		_, err := r.q.Exec(ctx, `
			INSERT INTO supply_request_items (request_id, position, item_id, name, unit, requested_qty, qty)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			req.ID, i, line.ItemID, line.Name, line.Unit, line.RequestedQty, line.Qty,
		)
		if err != nil {
			return fmt.Errorf("save request item: %w", err)
		}
	}
	return nil
}

// Get returns the request with its line items.
func (r *RequestRepo) Get(ctx context.Context, id string) (*entity.SupplyRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM supply_requests WHERE id = $1`
	return r.fetch(ctx, query, id)
}

// GetForUpdate returns the request and locks its row so concurrent transitions
// on the same request are serialized.
func (r *RequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.SupplyRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM supply_requests WHERE id = $1 FOR UPDATE`
	return r.fetch(ctx, query, id)
}

func (r *RequestRepo) fetch(ctx context.Context, query, id string) (*entity.SupplyRequest, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// List returns requests matching the filter, newest first.
func (r *RequestRepo) List(ctx context.Context, filter repository.RequestFilter) ([]*entity.SupplyRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM supply_requests WHERE 1=1`
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status.String())
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.RequesterID != "" {
		args = append(args, filter.RequesterID)
		query += fmt.Sprintf(" AND requester_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	defer rows.Close()

	var out []*entity.SupplyRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, req := range out {
		if err := r.loadLines(ctx, req); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func scanRequest(row pgx.Row) (*entity.SupplyRequest, error) {
	var req entity.SupplyRequest
	var status string
	var approver, issuer, receiver *string
	err := row.Scan(
		&req.ID, &req.Purpose, &req.RequesterID, &status,
		&approver, &issuer, &receiver,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan request: %w", err)
	}
	req.Status = entity.Status(status)
	req.ApproverID = deref(approver)
	req.IssuerID = deref(issuer)
	req.ReceiverID = deref(receiver)
	return &req, nil
}

func (r *RequestRepo) loadLines(ctx context.Context, req *entity.SupplyRequest) error {
	rows, err := r.q.Query(ctx, `
		SELECT item_id, name, unit, requested_qty, qty
		FROM supply_request_items WHERE request_id = $1 ORDER BY position`, req.ID)
	if err != nil {
		return fmt.Errorf("load request items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line entity.RequestLineItem
		if err := rows.Scan(&line.ItemID, &line.Name, &line.Unit, &line.RequestedQty, &line.Qty); err != nil {
			return fmt.Errorf("scan request item: %w", err)
		}
		req.LineItems = append(req.LineItems, line)
	}
	return rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
