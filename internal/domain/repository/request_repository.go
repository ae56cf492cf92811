package repository

import (
	"context"

	"github.com/provgso/requisition-api/internal/domain/entity"
)

// RequestFilter narrows List results. Zero values mean "no constraint".
type RequestFilter struct {
	Status      entity.Status
	RequesterID string
}

// RequestRepository is the port for the supply request store.
// GetForUpdate must lock the request row so that concurrent transitions on the
// same request are serialized by the enclosing transaction.
type RequestRepository interface {
	Save(ctx context.Context, req *entity.SupplyRequest) error
	Get(ctx context.Context, id string) (*entity.SupplyRequest, error)
	GetForUpdate(ctx context.Context, id string) (*entity.SupplyRequest, error)
	List(ctx context.Context, filter RequestFilter) ([]*entity.SupplyRequest, error)
}
