package authorizer

import (
	"context"

	"github.com/plantops/factoryd"
	factorydcontext "github.com/plantops/factoryd/context"
	"github.com/plantops/factoryd/kit/platform"
)

var _ factoryd.FactoryService = (*FactoryService)(nil)

// FactoryService wraps a factoryd.FactoryService and authorizes actions
// against it appropriately.
type FactoryService struct {
	s factoryd.FactoryService
}

// NewFactoryService constructs an instance of an authorizing factory service.
func NewFactoryService(s factoryd.FactoryService) *FactoryService {
	return &FactoryService{
		s: s,
	}
}

// FindFactoryByID checks to see if the authorizer on context has access
// to the factory and then returns it.
func (s *FactoryService) FindFactoryByID(ctx context.Context, id platform.ID) (*factoryd.Factory, error) {
	if _, err := authorizeForFactory(ctx, id); err != nil {
		return nil, err
	}

	return s.s.FindFactoryByID(ctx, id)
}

// FindFactories narrows the filter to the caller's own factory unless
// the caller is an admin, for whom the listing is global.
func (s *FactoryService) FindFactories(ctx context.Context, filter factoryd.FactoryFilter, opts factoryd.FindOptions) ([]*factoryd.Factory, int, error) {
	scope, err := factorydcontext.GetScope(ctx)
	if err != nil {
		return nil, 0, err
	}

	switch scope.Kind {
	case factoryd.AdminScope:
		return s.s.FindFactories(ctx, filter, opts)
	case factoryd.FactoryScope:
		if filter.ID != nil && *filter.ID != scope.FactoryID {
			return nil, 0, factoryd.ErrNotAuthorized
		}
		filter.ID = &scope.FactoryID
		return s.s.FindFactories(ctx, filter, opts)
	default:
		return nil, 0, factoryd.ErrNotAuthorized
	}
}

// CreateFactory requires the global admin scope.
func (s *FactoryService) CreateFactory(ctx context.Context, f *factoryd.Factory) error {
	if _, err := authorizeAdmin(ctx); err != nil {
		return err
	}

	return s.s.CreateFactory(ctx, f)
}

// UpdateFactory checks to see if the authorizer on context has access
// to the factory and then applies the changeset.
func (s *FactoryService) UpdateFactory(ctx context.Context, id platform.ID, upd factoryd.FactoryUpdate) (*factoryd.Factory, error) {
	if _, err := authorizeForFactory(ctx, id); err != nil {
		return nil, err
	}

	return s.s.UpdateFactory(ctx, id, upd)
}

// DeleteFactory checks to see if the authorizer on context has access
// to the factory and then runs the cascading delete.
func (s *FactoryService) DeleteFactory(ctx context.Context, id platform.ID) error {
	if _, err := authorizeForFactory(ctx, id); err != nil {
		return err
	}

	return s.s.DeleteFactory(ctx, id)
}
