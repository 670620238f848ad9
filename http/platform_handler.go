// Package http assembles the public API surface: the credential
// routes, the authenticated tenant routes and the admin subtree.
package http

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/jsonweb"
	kithttp "github.com/plantops/factoryd/kit/transport/http"
	"github.com/plantops/factoryd/session"
	"github.com/plantops/factoryd/tenant"
)

// APIBackend is all services and associated parameters required to
// construct the platform handler.
type APIBackend struct {
	Logger *zap.Logger

	// Scope checked services, served to the route handlers.
	FactoryService factoryd.FactoryService
	EntityService  factoryd.EntityService
	UserService    factoryd.UserService

	// Raw user service for resolving principals during authentication.
	UserLookupService factoryd.UserService

	SessionService *session.Service
	TokenParser    *jsonweb.TokenParser

	MetricsRegistry *prometheus.Registry
}

// PlatformHandler is the root http handler of the daemon.
type PlatformHandler struct {
	chi.Router
}

// NewPlatformHandler builds the full route tree. The credential routes
// and /metrics are reachable without a session; everything else sits
// behind the authentication middleware, and the /admin subtree behind
// the admin gate on top of that.
func NewPlatformHandler(b APIBackend) *PlatformHandler {
	log := b.Logger
	api := kithttp.NewAPI(kithttp.WithLog(log))

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		middleware.RealIP,
	)

	r.Mount(session.PrefixAuth, session.NewHTTPHandler(log, b.SessionService))

	if b.MetricsRegistry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(b.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(NewAuthenticationMiddleware(api, b.TokenParser, b.UserLookupService))

		r.Mount(tenant.PrefixFactories, tenant.NewHTTPFactoryHandler(log, b.FactoryService, b.EntityService))
		r.Mount(tenant.PrefixEntities, tenant.NewHTTPEntityHandler(log, b.EntityService, b.FactoryService))

		r.Group(func(r chi.Router) {
			r.Use(RequireAdmin(api))

			r.Mount(tenant.PrefixAdminFactories, tenant.NewHTTPFactoryHandler(log, b.FactoryService, b.EntityService))
			r.Mount(tenant.PrefixAdminEntities, tenant.NewHTTPEntityHandler(log, b.EntityService, b.FactoryService))
			r.Mount(tenant.PrefixAdminUsers, tenant.NewHTTPUserHandler(log, b.UserService, b.FactoryService))
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.Respond(w, r, http.StatusNotFound, kithttp.Body{
			OK:      false,
			Message: "path not found",
		})
	})

	return &PlatformHandler{Router: r}
}
