// Package memory backs the repository ports with an in-process store. A single
// mutex serializes every operation, and transactions run against a deep copy
// that only replaces the live data on success, giving the same all-or-nothing
// guarantee as the PostgreSQL TxRunner. Used by tests and standalone runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/provgso/requisition-api/internal/application/requisition"
	"github.com/provgso/requisition-api/internal/domain"
	"github.com/provgso/requisition-api/internal/domain/entity"
	"github.com/provgso/requisition-api/internal/domain/repository"
)

var _ requisition.TxRunner = (*Store)(nil)

type data struct {
	items     map[string]entity.InventoryItem
	requests  map[string]entity.SupplyRequest
	movements []entity.StockMovement
	actors    map[string]entity.Actor
	seq       int
}

func newData() *data {
	return &data{
		items:    make(map[string]entity.InventoryItem),
		requests: make(map[string]entity.SupplyRequest),
		actors:   make(map[string]entity.Actor),
	}
}

func (d *data) clone() *data {
	c := &data{
		items:     make(map[string]entity.InventoryItem, len(d.items)),
		requests:  make(map[string]entity.SupplyRequest, len(d.requests)),
		movements: append([]entity.StockMovement(nil), d.movements...),
		actors:    make(map[string]entity.Actor, len(d.actors)),
		seq:       d.seq,
	}
	for k, v := range d.items {
		c.items[k] = v
	}
	for k, v := range d.requests {
		v.LineItems = append([]entity.RequestLineItem(nil), v.LineItems...)
		c.requests[k] = v
	}
	for k, v := range d.actors {
		c.actors[k] = v
	}
	return c
}

// Store is the shared in-memory state plus its TxRunner.
type Store struct {
	mu sync.Mutex
	d  *data
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{d: newData()}
}

// Run executes fn against a copy of the store and publishes the copy only if
// fn succeeds. The store mutex is held for the whole transaction, which also
// serializes per-item and per-request access.
func (s *Store) Run(_ context.Context, fn func(
	items repository.ItemRepository,
	requests repository.RequestRepository,
	movements repository.MovementRepository,
) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := s.d.clone()
	err := fn(&itemRepo{d: tx}, &requestRepo{d: tx}, &movementRepo{d: tx})
	if err != nil {
		return err
	}
	s.d = tx
	return nil
}

// Items returns a repository view that locks per operation.
func (s *Store) Items() repository.ItemRepository { return &itemRepo{s: s} }

// Requests returns a repository view that locks per operation.
func (s *Store) Requests() repository.RequestRepository { return &requestRepo{s: s} }

// Movements returns a repository view that locks per operation.
func (s *Store) Movements() repository.MovementRepository { return &movementRepo{s: s} }

// Actors returns a repository view that locks per operation.
func (s *Store) Actors() repository.ActorRepository { return &actorRepo{s: s} }

// repos carry either a live store (lock per call) or tx-bound data (already
// under the store lock).

type itemRepo struct {
	s *Store
	d *data
}

func (r *itemRepo) enter() (*data, func()) {
	if r.d != nil {
		return r.d, func() {}
	}
	r.s.mu.Lock()
	return r.s.d, r.s.mu.Unlock
}

func (r *itemRepo) Get(_ context.Context, id string) (*entity.InventoryItem, error) {
	d, done := r.enter()
	defer done()
	item, ok := d.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &item, nil
}

// GetForUpdate is identical to Get here: the store mutex already serializes.
func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.Get(ctx, id)
}

func (r *itemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	d, done := r.enter()
	defer done()
	if _, ok := d.items[item.ID]; ok {
		return domain.ErrDuplicate
	}
	d.items[item.ID] = *item
	return nil
}

func (r *itemRepo) Upsert(_ context.Context, item *entity.InventoryItem) error {
	d, done := r.enter()
	defer done()
	d.items[item.ID] = *item
	return nil
}

func (r *itemRepo) List(_ context.Context) ([]*entity.InventoryItem, error) {
	d, done := r.enter()
	defer done()
	out := make([]*entity.InventoryItem, 0, len(d.items))
	for id := range d.items {
		item := d.items[id]
		out = append(out, &item)
	}
	return out, nil
}

type requestRepo struct {
	s *Store
	d *data
}

func (r *requestRepo) enter() (*data, func()) {
	if r.d != nil {
		return r.d, func() {}
	}
	r.s.mu.Lock()
	return r.s.d, r.s.mu.Unlock
}

func copyRequest(req entity.SupplyRequest) *entity.SupplyRequest {
	req.LineItems = append([]entity.RequestLineItem(nil), req.LineItems...)
	return &req
}

func (r *requestRepo) Save(_ context.Context, req *entity.SupplyRequest) error {
	d, done := r.enter()
	defer done()
	d.requests[req.ID] = *copyRequest(*req)
	return nil
}

func (r *requestRepo) Get(_ context.Context, id string) (*entity.SupplyRequest, error) {
	d, done := r.enter()
	defer done()
	req, ok := d.requests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyRequest(req), nil
}

func (r *requestRepo) GetForUpdate(ctx context.Context, id string) (*entity.SupplyRequest, error) {
	return r.Get(ctx, id)
}

func (r *requestRepo) List(_ context.Context, filter repository.RequestFilter) ([]*entity.SupplyRequest, error) {
	d, done := r.enter()
	defer done()
	var out []*entity.SupplyRequest
	for id := range d.requests {
		req := d.requests[id]
		if filter.Status != "" && req.Status != filter.Status {
			continue
		}
		if filter.RequesterID != "" && req.RequesterID != filter.RequesterID {
			continue
		}
		out = append(out, copyRequest(req))
	}
	return out, nil
}

type movementRepo struct {
	s *Store
	d *data
}

func (r *movementRepo) enter() (*data, func()) {
	if r.d != nil {
		return r.d, func() {}
	}
	r.s.mu.Lock()
	return r.s.d, r.s.mu.Unlock
}

func (r *movementRepo) Create(_ context.Context, movement *entity.StockMovement) error {
	d, done := r.enter()
	defer done()
	if movement.ID == "" {
		d.seq++
		movement.ID = movementID(d.seq)
	}
	d.movements = append(d.movements, *movement)
	return nil
}

func (r *movementRepo) ListByItem(_ context.Context, itemID string) ([]*entity.StockMovement, error) {
	d, done := r.enter()
	defer done()
	var out []*entity.StockMovement
	for i := len(d.movements) - 1; i >= 0; i-- {
		if d.movements[i].ItemID == itemID {
			m := d.movements[i]
			out = append(out, &m)
		}
	}
	return out, nil
}

func movementID(seq int) string {
	return fmt.Sprintf("mov-%06d", seq)
}

type actorRepo struct {
	s *Store
}

func (r *actorRepo) Get(_ context.Context, id string) (*entity.Actor, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	actor, ok := r.s.d.actors[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &actor, nil
}

func (r *actorRepo) Upsert(_ context.Context, actor *entity.Actor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.d.actors[actor.ID] = *actor
	return nil
}
