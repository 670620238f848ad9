package tenant

import (
	"context"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
	"github.com/plantops/factoryd/kv"
)

// FindFactoryByID returns a single factory by ID.
func (s *Service) FindFactoryByID(ctx context.Context, id platform.ID) (*factoryd.Factory, error) {
	var f *factoryd.Factory
	err := s.store.View(ctx, func(tx kv.Tx) error {
		factory, err := s.store.GetFactory(ctx, tx, id)
		if err != nil {
			return err
		}
		f = factory
		return nil
	})
	if err != nil {
		return nil, err
	}

	return f, nil
}

// FindFactories returns the requested page of factories matching filter
// and the total count of matches.
func (s *Service) FindFactories(ctx context.Context, filter factoryd.FactoryFilter, opts factoryd.FindOptions) ([]*factoryd.Factory, int, error) {
	if filter.ID != nil {
		f, err := s.FindFactoryByID(ctx, *filter.ID)
		if err != nil {
			return nil, 0, err
		}
		fs := []*factoryd.Factory{f}
		lo, hi := windowBounds(len(fs), opts)
		return fs[lo:hi], len(fs), nil
	}

	var fs []*factoryd.Factory
	err := s.store.View(ctx, func(tx kv.Tx) error {
		all, err := s.store.ListFactories(ctx, tx)
		if err != nil {
			return err
		}
		fs = all
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	total := len(fs)
	lo, hi := windowBounds(total, opts)
	return fs[lo:hi], total, nil
}

// CreateFactory creates a new factory and sets f.ID with the new identifier.
func (s *Service) CreateFactory(ctx context.Context, f *factoryd.Factory) error {
	if err := f.Valid(); err != nil {
		return err
	}

	return s.store.Update(ctx, func(tx kv.Tx) error {
		return s.store.CreateFactory(ctx, tx, f)
	})
}

// UpdateFactory updates a single factory with changeset and returns the
// new state.
func (s *Service) UpdateFactory(ctx context.Context, id platform.ID, upd factoryd.FactoryUpdate) (*factoryd.Factory, error) {
	var f *factoryd.Factory
	err := s.store.Update(ctx, func(tx kv.Tx) error {
		factory, err := s.store.UpdateFactory(ctx, tx, id, upd)
		if err != nil {
			return err
		}
		f = factory
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFactory removes a factory by ID and its dependent resources:
// every entity owned by the factory is deleted with it, and every user
// scoped to it is detached, not deleted. The whole cascade runs inside
// one store transaction, so readers never observe a half-deleted
// factory.
func (s *Service) DeleteFactory(ctx context.Context, id platform.ID) error {
	return s.store.Update(ctx, func(tx kv.Tx) error {
		if err := s.store.DeleteFactory(ctx, tx, id); err != nil {
			return err
		}

		es, err := s.store.ListEntities(ctx, tx, factoryd.EntityFilter{FactoryID: &id})
		if err != nil {
			return err
		}
		for _, e := range es {
			if err := s.store.DeleteEntity(ctx, tx, e.ID); err != nil {
				return err
			}
		}

		us, err := s.store.ListUsers(ctx, tx, factoryd.UserFilter{FactoryID: &id})
		if err != nil {
			return err
		}
		for _, u := range us {
			if err := s.store.DetachUserFactory(ctx, tx, u.ID); err != nil {
				return err
			}
		}

		return nil
	})
}
