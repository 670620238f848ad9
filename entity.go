package factoryd

import (
	"context"

	"github.com/plantops/factoryd/kit/platform"
)

// Entity is a resource record owned by exactly one factory.
type Entity struct {
	ID        platform.ID `json:"id,omitempty"`
	Name      string      `json:"name"`
	FactoryID platform.ID `json:"factory_id"`
}

// ops for entity errors and op logs.
const (
	OpFindEntityByID = "FindEntityByID"
	OpFindEntities   = "FindEntities"
	OpCreateEntity   = "CreateEntity"
	OpUpdateEntity   = "UpdateEntity"
	OpDeleteEntity   = "DeleteEntity"
)

// EntityService represents a service for managing entity data.
type EntityService interface {
	// Returns a single entity by ID.
	FindEntityByID(ctx context.Context, id platform.ID) (*Entity, error)

	// Returns a list of entities that match filter and the total count of
	// matching entities. Options provide pagination.
	FindEntities(ctx context.Context, filter EntityFilter, opts FindOptions) ([]*Entity, int, error)

	// Creates a new entity and sets e.ID with the new identifier. The
	// target factory must exist.
	CreateEntity(ctx context.Context, e *Entity) error

	// Updates a single entity with changeset.
	// Returns the new entity state after update.
	UpdateEntity(ctx context.Context, id platform.ID, upd EntityUpdate) (*Entity, error)

	// Removes an entity by ID.
	DeleteEntity(ctx context.Context, id platform.ID) error
}

// EntityUpdate represents updates to an entity.
// Only fields which are set are updated.
//
// A set FactoryID is not checked for existence; reassignment to a
// factory that is gone is accepted. See the service tests documenting
// this behavior.
type EntityUpdate struct {
	Name      *string      `json:"name,omitempty"`
	FactoryID *platform.ID `json:"factory_id,omitempty"`
}

// EntityFilter represents a set of filters that restrict the returned results.
type EntityFilter struct {
	FactoryID *platform.ID
}

// Valid returns an error if mandatory entity fields are missing.
func (e *Entity) Valid() error {
	if e.Name == "" || !e.FactoryID.Valid() {
		return ErrMissingFields
	}
	return nil
}
