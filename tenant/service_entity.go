package tenant

import (
	"context"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/kv"
)

// FindEntityByID returns a single entity by ID.
func (s *Service) FindEntityByID(ctx context.Context, id platform.ID) (*factoryd.Entity, error) {
	var e *factoryd.Entity
	err := s.store.View(ctx, func(tx kv.Tx) error {
		entity, err := s.store.GetEntity(ctx, tx, id)
		if err != nil {
			return err
		}
		e = entity
		return nil
	})
	if err != nil {
		return nil, err
	}

	return e, nil
}

// FindEntities returns the requested page of entities matching filter
// and the total count of matches.
func (s *Service) FindEntities(ctx context.Context, filter factoryd.EntityFilter, opts factoryd.FindOptions) ([]*factoryd.Entity, int, error) {
	var es []*factoryd.Entity
	err := s.store.View(ctx, func(tx kv.Tx) error {
		all, err := s.store.ListEntities(ctx, tx, filter)
		if err != nil {
			return err
		}
		es = all
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	total := len(es)
	lo, hi := windowBounds(total, opts)
	return es[lo:hi], total, nil
}

// CreateEntity creates a new entity and sets e.ID with the new
// identifier. The target factory must exist at creation time; the
// lookup and the insert share one transaction.
func (s *Service) CreateEntity(ctx context.Context, e *factoryd.Entity) error {
	if err := e.Valid(); err != nil {
		return err
	}

	return s.store.Update(ctx, func(tx kv.Tx) error {
		if _, err := s.store.GetFactory(ctx, tx, e.FactoryID); err != nil {
			return err
		}
		return s.store.CreateEntity(ctx, tx, e)
	})
}

// UpdateEntity updates a single entity with changeset and returns the
// new state.
func (s *Service) UpdateEntity(ctx context.Context, id platform.ID, upd factoryd.EntityUpdate) (*factoryd.Entity, error) {
	var e *factoryd.Entity
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		entity, err := s.store.UpdateEntity(ctx, tx, id, upd)
		if err != nil {
			return err
		}
		e = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteEntity removes an entity by ID.
func (s *Service) DeleteEntity(ctx context.Context, id platform.ID) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.DeleteEntity(ctx, tx, id)
	})
}
