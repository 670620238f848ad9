// Package tenant implements the factory, entity and user registries
// over the kv store, together with their HTTP handlers.
package tenant

import (
	"github.com/plantops/factoryd"
)

// Service implements the factory, entity, user and passwords services
// over a tenant store. Operations that touch several records, like the
// factory cascade delete, run inside a single store transaction.
type Service struct {
	store *Store
}

var (
	_ factoryd.FactoryService   = (*Service)(nil)
	_ factoryd.EntityService    = (*Service)(nil)
	_ factoryd.UserService      = (*Service)(nil)
	_ factoryd.PasswordsService = (*Service)(nil)
)

// NewService creates a new base tenant service.
func NewService(st *Store) *Service {
	return &Service{store: st}
}

// windowBounds turns find options into slice bounds over a full result
// set of length total. An out of range page yields an empty window.
func windowBounds(total int, opts factoryd.FindOptions) (lo, hi int) {
	skip, size, _ := opts.Window(total)
	lo = skip
	if lo > total {
		lo = total
	}
	hi = lo + size
	if hi > total {
		hi = total
	}
	return lo, hi
}
