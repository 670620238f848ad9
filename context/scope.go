// Package context exposes the request scope carried on a
// context.Context. The authentication middleware resolves the scope
// once per request; everything downstream reads it from here instead
// of re-deriving it.
package context

import (
	"context"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform/errors"
)

type contextKey string

const scopeCtxKey = contextKey("factoryd/scope/v1")

// SetScope sets the resolved scope on context.
func SetScope(ctx context.Context, s factoryd.Scope) context.Context {
	return context.WithValue(ctx, scopeCtxKey, s)
}

// GetScope retrieves the scope from context; errors if no scope has
// been set, which means the handler was mounted outside the
// authentication middleware.
func GetScope(ctx context.Context) (factoryd.Scope, error) {
	s, ok := ctx.Value(scopeCtxKey).(factoryd.Scope)
	if !ok {
		return factoryd.Scope{}, &errors.Error{
			Code: errors.EInternal,
			Msg:  "scope not found on context",
		}
	}
	return s, nil
}
