package repository

import (
	"context"

	"github.com/provgso/requisition-api/internal/domain/entity"
)

// MovementRepository is the port for the append-only stock movement journal.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByItem(ctx context.Context, itemID string) ([]*entity.StockMovement, error)
}
