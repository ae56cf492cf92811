package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/provgso/requisition-api/internal/application/requisition"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

var _ requisition.TxRunner = (*TxRunner)(nil)

// txTimeout bounds every workflow transaction so a stuck connection reports
// failure instead of blocking the caller; the compare-and-set discipline makes
// a retry safe.
const txTimeout = 10 * time.Second

// TxRunner executes callbacks inside a PostgreSQL transaction.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner builds the runner over the pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run begins a transaction, executes fn with tx-bound repositories, and
// commits on success or rolls back on any error.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.ItemRepository,
	requests repository.RequestRepository,
	movements repository.MovementRepository,
) error) error {
	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	items := NewItemRepository(tx)
	requests := NewRequestRepository(tx)
	movements := NewMovementRepository(tx)

	if err := fn(items, requests, movements); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
