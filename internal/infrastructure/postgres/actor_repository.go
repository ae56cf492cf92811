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

var _ repository.ActorRepository = (*ActorRepo)(nil)

// ActorRepo is the PostgreSQL actor directory adapter.
type ActorRepo struct {
	q Querier
}

// NewActorRepository builds the adapter. Pass a pool or a tx (Querier).
func NewActorRepository(q Querier) *ActorRepo {
	return &ActorRepo{q: q}
}

// Get returns the actor by ID.
func (r *ActorRepo) Get(ctx context.Context, id string) (*entity.Actor, error) {
	query := `SELECT id, name, position, role FROM actors WHERE id = $1`
	var a entity.Actor
	err := r.q.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Position, &a.Role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get actor: %w", err)
	}
	return &a, nil
}

// Upsert writes the actor record.
func (r *ActorRepo) Upsert(ctx context.Context, actor *entity.Actor) error {
	query := `
		INSERT INTO actors (id, name, position, role)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, position = EXCLUDED.position, role = EXCLUDED.role`
	_, err := r.q.Exec(ctx, query, actor.ID, actor.Name, actor.Position, actor.Role)
	if err != nil {
		return fmt.Errorf("upsert actor: %w", err)
	}
	return nil
}
