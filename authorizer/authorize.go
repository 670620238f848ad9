// Package authorizer wraps the tenant services with scope checks. The
// scope variant is resolved once per request by the authentication
// middleware; wrappers here only consult it, they never re-derive it.
package authorizer

import (
	"context"

	"github.com/plantops/factoryd"
	factorydcontext "github.com/plantops/factoryd/context"
	"github.com/plantops/factoryd/kit/platform"
)

// authorizeForFactory returns the request scope if it allows operations
// targeting the factory id, and the blanket denial otherwise.
func authorizeForFactory(ctx context.Context, id platform.ID) (factoryd.Scope, error) {
	scope, err := factorydcontext.GetScope(ctx)
	if err != nil {
		return factoryd.Scope{}, err
	}

	if !scope.Allows(id) {
		return factoryd.Scope{}, factoryd.ErrNotAuthorized
	}

	return scope, nil
}

// authorizeAdmin returns the request scope only when it is the global
// admin scope.
func authorizeAdmin(ctx context.Context) (factoryd.Scope, error) {
	scope, err := factorydcontext.GetScope(ctx)
	if err != nil {
		return factoryd.Scope{}, err
	}

	if !scope.Admin() {
		return factoryd.Scope{}, factoryd.ErrNotAuthorized
	}

	return scope, nil
}
