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

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo is the PostgreSQL item store (usable with pool or tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository builds the adapter. Pass a pool or a tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, name, unit, physical_qty, pending_qty, reorder_point, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var item entity.InventoryItem
	err := row.Scan(
		&item.ID, &item.Name, &item.Unit,
		&item.PhysicalQty, &item.PendingQty, &item.ReorderPoint,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	return &item, nil
}

// Get returns the item by ID.
func (r *ItemRepo) Get(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1`
	return scanItem(r.q.QueryRow(ctx, query, id))
}

// GetForUpdate returns the item and locks its row (SELECT FOR UPDATE) so
// concurrent ledger mutations on the same item are serialized.
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items WHERE id = $1 FOR UPDATE`
	return scanItem(r.q.QueryRow(ctx, query, id))
}

// Create inserts a new item; a duplicate ID maps to ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, name, unit, physical_qty, pending_qty, reorder_point, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Unit,
		item.PhysicalQty, item.PendingQty, item.ReorderPoint,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// Upsert writes the item's counters back.
func (r *ItemRepo) Upsert(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (id, name, unit, physical_qty, pending_qty, reorder_point, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (id)
		DO UPDATE SET physical_qty = EXCLUDED.physical_qty,
		              pending_qty = EXCLUDED.pending_qty,
		              reorder_point = EXCLUDED.reorder_point,
		              updated_at = now()`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Unit,
		item.PhysicalQty, item.PendingQty, item.ReorderPoint,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

// List returns every item ordered by name.
func (r *ItemRepo) List(ctx context.Context) ([]*entity.InventoryItem, error) {
	query := `SELECT ` + itemColumns + ` FROM inventory_items ORDER BY name`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*entity.InventoryItem
	for rows.Next() {
		var item entity.InventoryItem
		if err := rows.Scan(
			&item.ID, &item.Name, &item.Unit,
			&item.PhysicalQty, &item.PendingQty, &item.ReorderPoint,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}
