package repository

import (
	"context"

	"github.com/provgso/requisition-api/internal/domain/entity"
)

// ActorRepository is the port for the actor directory.
type ActorRepository interface {
	Get(ctx context.Context, id string) (*entity.Actor, error)
	Upsert(ctx context.Context, actor *entity.Actor) error
}
