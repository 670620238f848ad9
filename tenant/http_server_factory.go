package tenant

import (
	"math"
	"net/http"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
	kithttp "github.com/plantops/factoryd/kit/transport/http"
)

// Prefixes the factory handler is mounted under. The admin prefix
// carries the full surface, the scoped prefix is narrowed by the
// caller's factory scope inside the service.
const (
	PrefixFactories      = "/factories"
	PrefixAdminFactories = "/admin/factories"
)

// FactoryHandler represents an HTTP API handler for factories.
type FactoryHandler struct {
	chi.Router
	api        *kithttp.API
	log        *zap.Logger
	factorySvc factoryd.FactoryService
	entitySvc  factoryd.EntityService
}

// NewHTTPFactoryHandler constructs a new http server. The entity
// service is used to resolve the names of the entities each factory
// owns on read responses.
func NewHTTPFactoryHandler(log *zap.Logger, factorySvc factoryd.FactoryService, entitySvc factoryd.EntityService) *FactoryHandler {
	h := &FactoryHandler{
		api:        kithttp.NewAPI(kithttp.WithLog(log)),
		log:        log,
		factorySvc: factorySvc,
		entitySvc:  entitySvc,
	}

	r := chi.NewRouter()
	r.Post("/", h.handlePostFactory)
	r.Get("/", h.handleGetFactories)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGetFactory)
		r.Put("/", h.handlePutFactory)
		r.Delete("/", h.handleDeleteFactory)
	})

	h.Router = r
	return h
}

type factoryResponse struct {
	ID       platform.ID `json:"id"`
	Name     string      `json:"name"`
	Location string      `json:"location"`
	Capacity int64       `json:"capacity"`
	Entities []string    `json:"entities"`
}

// allRows is the window used for in-process joins, where the full set
// of matching rows is needed rather than a page.
var allRows = factoryd.FindOptions{Page: 1, PerPage: math.MaxInt32}

func (h *FactoryHandler) newFactoryResponse(r *http.Request, f *factoryd.Factory) (factoryResponse, error) {
	entities, _, err := h.entitySvc.FindEntities(r.Context(), factoryd.EntityFilter{FactoryID: &f.ID}, allRows)
	if err != nil {
		return factoryResponse{}, err
	}

	names := make([]string, 0, len(entities))
	for _, e := range entities {
		names = append(names, e.Name)
	}

	return factoryResponse{
		ID:       f.ID,
		Name:     f.Name,
		Location: f.Location,
		Capacity: f.Capacity,
		Entities: names,
	}, nil
}

type postFactoryRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Capacity int64  `json:"capacity"`
}

func (h *FactoryHandler) handlePostFactory(w http.ResponseWriter, r *http.Request) {
	var req postFactoryRequest
	if err := h.api.DecodeJSON(r, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	factory := &factoryd.Factory{
		Name:     req.Name,
		Location: req.Location,
		Capacity: req.Capacity,
	}
	if err := h.factorySvc.CreateFactory(r.Context(), factory); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusCreated, kithttp.Body{
		OK:      true,
		Data:    factory,
		Message: "factory created successfully",
	})
}

func (h *FactoryHandler) handleGetFactories(w http.ResponseWriter, r *http.Request) {
	opts, err := kithttp.DecodeFindOptions(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	factories, total, err := h.factorySvc.FindFactories(r.Context(), factoryd.FactoryFilter{}, opts)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	resp := make([]factoryResponse, 0, len(factories))
	for _, f := range factories {
		fr, err := h.newFactoryResponse(r, f)
		if err != nil {
			h.api.Err(w, r, err)
			return
		}
		resp = append(resp, fr)
	}

	_, _, pagination := opts.Window(total)
	h.api.Respond(w, r, http.StatusOK, kithttp.Body{
		OK:         true,
		Data:       resp,
		Pagination: pagination,
	})
}

func (h *FactoryHandler) handleGetFactory(w http.ResponseWriter, r *http.Request) {
	id, err := platform.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, r, InvalidFactoryIDError(err))
		return
	}

	factory, err := h.factorySvc.FindFactoryByID(r.Context(), *id)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	resp, err := h.newFactoryResponse(r, factory)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.OKBody(resp))
}

func (h *FactoryHandler) handlePutFactory(w http.ResponseWriter, r *http.Request) {
	id, err := platform.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, r, InvalidFactoryIDError(err))
		return
	}

	var upd factoryd.FactoryUpdate
	if err := h.api.DecodeJSON(r, &upd); err != nil {
		h.api.Err(w, r, err)
		return
	}

	factory, err := h.factorySvc.UpdateFactory(r.Context(), *id, upd)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.Body{
		OK:      true,
		Data:    factory,
		Message: "factory updated successfully",
	})
}

func (h *FactoryHandler) handleDeleteFactory(w http.ResponseWriter, r *http.Request) {
	id, err := platform.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, r, InvalidFactoryIDError(err))
		return
	}

	if err := h.factorySvc.DeleteFactory(r.Context(), *id); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.Body{
		OK:      true,
		Message: "factory deleted successfully",
	})
}
