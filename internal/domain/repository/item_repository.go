package repository

import (
	"context"

	"github.com/provgso/requisition-api/internal/domain/entity"
)

// ItemRepository is the port for the inventory item store (DIP).
// GetForUpdate must lock the item against concurrent mutation for the duration
// of the enclosing transaction (SELECT FOR UPDATE or equivalent).
type ItemRepository interface {
	Get(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	Create(ctx context.Context, item *entity.InventoryItem) error
	Upsert(ctx context.Context, item *entity.InventoryItem) error
	List(ctx context.Context) ([]*entity.InventoryItem, error)
}
