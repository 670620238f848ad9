package factoryd

import (
	"context"

	"github.com/plantops/factoryd/kit/platform"
)

// Factory is a tenant organization. It owns entities and users are
// scoped to it.
type Factory struct {
	ID       platform.ID `json:"id,omitempty"`
	Name     string      `json:"name"`
	Location string      `json:"location"`
	Capacity int64       `json:"capacity"`
}

// ops for factory errors and op logs.
const (
	OpFindFactoryByID = "FindFactoryByID"
	OpFindFactories   = "FindFactories"
	OpCreateFactory   = "CreateFactory"
	OpUpdateFactory   = "UpdateFactory"
	OpDeleteFactory   = "DeleteFactory"
)

// FactoryService represents a service for managing factory data.
type FactoryService interface {
	// Returns a single factory by ID.
	FindFactoryByID(ctx context.Context, id platform.ID) (*Factory, error)

	// Returns a list of factories that match filter and the total count of
	// matching factories. Options provide pagination.
	FindFactories(ctx context.Context, filter FactoryFilter, opts FindOptions) ([]*Factory, int, error)

	// Creates a new factory and sets f.ID with the new identifier.
	CreateFactory(ctx context.Context, f *Factory) error

	// Updates a single factory with changeset.
	// Returns the new factory state after update.
	UpdateFactory(ctx context.Context, id platform.ID, upd FactoryUpdate) (*Factory, error)

	// Removes a factory by ID. Entities owned by the factory are removed
	// with it and users scoped to it are detached.
	DeleteFactory(ctx context.Context, id platform.ID) error
}

// FactoryUpdate represents updates to a factory.
// Only fields which are set are updated.
type FactoryUpdate struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	Capacity *int64  `json:"capacity,omitempty"`
}

// FactoryFilter represents a set of filters that restrict the returned results.
type FactoryFilter struct {
	ID *platform.ID
}

// Valid returns an error if mandatory factory fields are missing.
func (f *Factory) Valid() error {
	if f.Name == "" || f.Location == "" || f.Capacity == 0 {
		return ErrMissingFields
	}
	return nil
}
