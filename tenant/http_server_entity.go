package tenant

import (
	"net/http"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"github.com/plantops/factoryd"
	factorydcontext "github.com/plantops/factoryd/context"
	"github.com/plantops/factoryd/kit/platform"
	kithttp "github.com/plantops/factoryd/kit/transport/http"
)

const (
	PrefixEntities      = "/entities"
	PrefixAdminEntities = "/admin/entities"
)

// EntityHandler represents an HTTP API handler for entities.
type EntityHandler struct {
	chi.Router
	api        *kithttp.API
	log        *zap.Logger
	entitySvc  factoryd.EntityService
	factorySvc factoryd.FactoryService
}

// NewHTTPEntityHandler constructs a new http server. The factory
// service resolves owning factory names on read responses.
func NewHTTPEntityHandler(log *zap.Logger, entitySvc factoryd.EntityService, factorySvc factoryd.FactoryService) *EntityHandler {
	h := &EntityHandler{
		api:        kithttp.NewAPI(kithttp.WithLog(log)),
		log:        log,
		entitySvc:  entitySvc,
		factorySvc: factorySvc,
	}

	r := chi.NewRouter()
	r.Post("/", h.handlePostEntity)
	r.Get("/", h.handleGetEntities)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGetEntity)
		r.Put("/", h.handlePutEntity)
		r.Delete("/", h.handleDeleteEntity)
	})

	h.Router = r
	return h
}

type entityResponse struct {
	ID        platform.ID `json:"id"`
	Name      string      `json:"name"`
	FactoryID platform.ID `json:"factory_id"`
	Factory   string      `json:"factory,omitempty"`
}

// N.B. factory_id is purposefully typed as string instead of
// platform.ID so a malformed value yields the specific
// "invalid factory_id format" error rather than the generic decoder
// message.
type postEntityRequest struct {
	Name      string `json:"name"`
	FactoryID string `json:"factory_id"`
}

func (h *EntityHandler) handlePostEntity(w http.ResponseWriter, r *http.Request) {
	var req postEntityRequest
	if err := h.api.DecodeJSON(r, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	if req.Name == "" || req.FactoryID == "" {
		h.api.Err(w, r, factoryd.ErrMissingFields)
		return
	}

	factoryID, err := platform.IDFromString(req.FactoryID)
	if err != nil {
		h.api.Err(w, r, factoryd.ErrInvalidFactoryIDFormat)
		return
	}

	entity := &factoryd.Entity{
		Name:      req.Name,
		FactoryID: *factoryID,
	}
	if err := h.entitySvc.CreateEntity(r.Context(), entity); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusCreated, kithttp.Body{
		OK:      true,
		Data:    entity,
		Message: "entity created successfully",
	})
}

func (h *EntityHandler) handleGetEntities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	opts, err := kithttp.DecodeFindOptions(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	entities, total, err := h.entitySvc.FindEntities(ctx, factoryd.EntityFilter{}, opts)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	scope, err := factorydcontext.GetScope(ctx)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	_, _, pagination := opts.Window(total)

	// Factory scoped listings return bare entities. Admin listings join
	// the owning factory's name; entities whose factory is gone are
	// dropped from the page, the total is left as counted.
	if !scope.Admin() {
		h.api.Respond(w, r, http.StatusOK, kithttp.Body{
			OK:         true,
			Data:       entities,
			Pagination: pagination,
		})
		return
	}

	resp := make([]entityResponse, 0, len(entities))
	for _, e := range entities {
		factory, err := h.factorySvc.FindFactoryByID(ctx, e.FactoryID)
		if err != nil {
			continue
		}
		resp = append(resp, entityResponse{
			ID:        e.ID,
			Name:      e.Name,
			FactoryID: e.FactoryID,
			Factory:   factory.Name,
		})
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.Body{
		OK:         true,
		Data:       resp,
		Pagination: pagination,
	})
}

func (h *EntityHandler) handleGetEntity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := platform.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, r, InvalidEntityIDError(err))
		return
	}

	entity, err := h.entitySvc.FindEntityByID(ctx, *id)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	resp := entityResponse{
		ID:        entity.ID,
		Name:      entity.Name,
		FactoryID: entity.FactoryID,
	}
	if factory, err := h.factorySvc.FindFactoryByID(ctx, entity.FactoryID); err == nil {
		resp.Factory = factory.Name
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.OKBody(resp))
}

type putEntityRequest struct {
	Name      *string `json:"name"`
	FactoryID *string `json:"factory_id"`
}

func (h *EntityHandler) handlePutEntity(w http.ResponseWriter, r *http.Request) {
	id, err := platform.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, r, InvalidEntityIDError(err))
		return
	}

	var req putEntityRequest
	if err := h.api.DecodeJSON(r, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	upd := factoryd.EntityUpdate{Name: req.Name}
	if req.FactoryID != nil {
		factoryID, err := platform.IDFromString(*req.FactoryID)
		if err != nil {
			h.api.Err(w, r, factoryd.ErrInvalidFactoryIDFormat)
			return
		}
		upd.FactoryID = factoryID
	}

	entity, err := h.entitySvc.UpdateEntity(r.Context(), *id, upd)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.Body{
		OK:      true,
		Data:    entity,
		Message: "entity updated successfully",
	})
}

func (h *EntityHandler) handleDeleteEntity(w http.ResponseWriter, r *http.Request) {
	id, err := platform.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, r, InvalidEntityIDError(err))
		return
	}

	if err := h.entitySvc.DeleteEntity(r.Context(), *id); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.Body{
		OK:      true,
		Message: "entity deleted successfully",
	})
}
