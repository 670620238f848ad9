package authorizer

import (
	"context"

	"github.com/plantops/factoryd"
	factorydcontext "github.com/plantops/factoryd/context"
	"github.com/plantops/factoryd/kit/platform"
)

var _ factoryd.EntityService = (*EntityService)(nil)

// EntityService wraps a factoryd.EntityService and authorizes actions
// against it appropriately. Ownership follows the entity's factory_id:
// whoever is allowed to act on the factory is allowed to act on its
// entities.
type EntityService struct {
	s factoryd.EntityService
}

// NewEntityService constructs an instance of an authorizing entity service.
func NewEntityService(s factoryd.EntityService) *EntityService {
	return &EntityService{
		s: s,
	}
}

// FindEntityByID fetches the entity and then checks the scope against
// its owning factory. An absent entity reports not found before any
// authorization concern.
func (s *EntityService) FindEntityByID(ctx context.Context, id platform.ID) (*factoryd.Entity, error) {
	e, err := s.s.FindEntityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := authorizeForFactory(ctx, e.FactoryID); err != nil {
		return nil, err
	}

	return e, nil
}

// FindEntities narrows the filter to the caller's own factory unless
// the caller is an admin, for whom the listing is global.
func (s *EntityService) FindEntities(ctx context.Context, filter factoryd.EntityFilter, opts factoryd.FindOptions) ([]*factoryd.Entity, int, error) {
	scope, err := factorydcontext.GetScope(ctx)
	if err != nil {
		return nil, 0, err
	}

	switch scope.Kind {
	case factoryd.AdminScope:
		return s.s.FindEntities(ctx, filter, opts)
	case factoryd.FactoryScope:
		if filter.FactoryID != nil && *filter.FactoryID != scope.FactoryID {
			return nil, 0, factoryd.ErrNotAuthorized
		}
		filter.FactoryID = &scope.FactoryID
		return s.s.FindEntities(ctx, filter, opts)
	default:
		return nil, 0, factoryd.ErrNotAuthorized
	}
}

// CreateEntity requires the caller scope to cover the target factory.
// Existence of the target factory is validated by the wrapped service.
func (s *EntityService) CreateEntity(ctx context.Context, e *factoryd.Entity) error {
	if _, err := authorizeForFactory(ctx, e.FactoryID); err != nil {
		return err
	}

	return s.s.CreateEntity(ctx, e)
}

// UpdateEntity checks the scope against the entity's current owning
// factory before applying the changeset.
func (s *EntityService) UpdateEntity(ctx context.Context, id platform.ID, upd factoryd.EntityUpdate) (*factoryd.Entity, error) {
	e, err := s.s.FindEntityByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := authorizeForFactory(ctx, e.FactoryID); err != nil {
		return nil, err
	}

	return s.s.UpdateEntity(ctx, id, upd)
}

// DeleteEntity checks the scope against the entity's owning factory
// before removing it.
func (s *EntityService) DeleteEntity(ctx context.Context, id platform.ID) error {
	e, err := s.s.FindEntityByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := authorizeForFactory(ctx, e.FactoryID); err != nil {
		return err
	}

	return s.s.DeleteEntity(ctx, id)
}
