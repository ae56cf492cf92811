package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo is the PostgreSQL journal adapter (usable with pool or tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository builds the adapter. Pass a pool or a tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create appends one journal entry.
func (r *MovementRepo) Create(ctx context.Context, movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (id, request_id, item_id, type, quantity, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		movement.ID, movement.RequestID, movement.ItemID, movement.Type,
		movement.Quantity, movement.CreatedAt, nullable(movement.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByItem returns the journal for an item, newest first.
func (r *MovementRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, request_id, item_id, type, quantity, created_at, COALESCE(created_by, '')
		FROM stock_movements WHERE item_id = $1 ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.RequestID, &m.ItemID, &m.Type, &m.Quantity, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
