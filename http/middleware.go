package http

import (
	"net/http"

	"github.com/plantops/factoryd"
	factorydcontext "github.com/plantops/factoryd/context"
	kithttp "github.com/plantops/factoryd/kit/transport/http"
)

// RequireAdmin gates a route subtree to the global admin scope. The
// service wrappers check scope again, this keeps the admin surface
// denied at the router even for handlers that only read.
func RequireAdmin(api *kithttp.API) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			scope, err := factorydcontext.GetScope(r.Context())
			if err != nil || !scope.Admin() {
				api.Err(w, r, factoryd.ErrNotAuthorized)
				return
			}
			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(fn)
	}
}
