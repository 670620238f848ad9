package http

import (
	"net/http"
	"strings"

	"github.com/plantops/factoryd"
	factorydcontext "github.com/plantops/factoryd/context"
	"github.com/plantops/factoryd/jsonweb"
	"github.com/plantops/factoryd/kit/platform/errors"
	kithttp "github.com/plantops/factoryd/kit/transport/http"
	"github.com/plantops/factoryd/tenant"
)

const bearerPrefix = "Bearer "

// GetToken pulls the bearer token off the Authorization header.
func GetToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", &errors.Error{
			Code: errors.EUnauthorized,
			Msg:  "token required",
		}
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", &errors.Error{
			Code: errors.EUnauthorized,
			Msg:  "unknown authorization scheme",
		}
	}
	return strings.TrimPrefix(header, bearerPrefix), nil
}

// NewAuthenticationMiddleware authenticates incoming requests. It
// parses the bearer token, resolves the principal by name and computes
// the scope once, placing it on the request context for the handlers
// downstream. The user service here is the raw one, scope does not
// exist yet at this point in the chain.
func NewAuthenticationMiddleware(api *kithttp.API, parser *jsonweb.TokenParser, userSvc factoryd.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tok, err := GetToken(r)
			if err != nil {
				api.Err(w, r, err)
				return
			}

			token, err := parser.Parse(tok)
			if err != nil {
				api.Err(w, r, err)
				return
			}

			name := token.Username()
			user, err := userSvc.FindUser(ctx, factoryd.UserFilter{Name: &name})
			if err != nil {
				// A session naming a user that no longer exists answers
				// not found rather than unauthorized.
				api.Err(w, r, tenant.ErrUserNotFound)
				return
			}

			ctx = factorydcontext.SetScope(ctx, factoryd.ScopeFromUser(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(fn)
	}
}
