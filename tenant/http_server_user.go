package tenant

import (
	"net/http"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	"github.com/plantops/factoryd"
	"github.com/plantops/factoryd/kit/platform"
	kithttp "github.com/plantops/factoryd/kit/transport/http"
)

const PrefixAdminUsers = "/admin/users"

// UserHandler represents an HTTP API handler for users. The whole
// surface is admin only.
type UserHandler struct {
	chi.Router
	api        *kithttp.API
	log        *zap.Logger
	userSvc    factoryd.UserService
	factorySvc factoryd.FactoryService
}

// NewHTTPUserHandler constructs a new http server.
func NewHTTPUserHandler(log *zap.Logger, userSvc factoryd.UserService, factorySvc factoryd.FactoryService) *UserHandler {
	h := &UserHandler{
		api:        kithttp.NewAPI(kithttp.WithLog(log)),
		log:        log,
		userSvc:    userSvc,
		factorySvc: factorySvc,
	}

	r := chi.NewRouter()
	r.Get("/", h.handleGetUsers)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.handleGetUser)
		r.Put("/", h.handlePutUser)
		r.Delete("/", h.handleDeleteUser)
	})

	h.Router = r
	return h
}

// userResponse never carries the password hash. Factory is the name of
// the owning factory, null for admins and detached users.
type userResponse struct {
	ID       platform.ID `json:"id"`
	Username string      `json:"username"`
	IsAdmin  bool        `json:"is_admin"`
	Factory  *string     `json:"factory"`
}

func (h *UserHandler) newUserResponse(r *http.Request, u *factoryd.User) userResponse {
	resp := userResponse{
		ID:       u.ID,
		Username: u.Name,
		IsAdmin:  u.Admin,
	}
	if u.FactoryID.Valid() {
		if factory, err := h.factorySvc.FindFactoryByID(r.Context(), u.FactoryID); err == nil {
			resp.Factory = &factory.Name
		}
	}
	return resp
}

func (h *UserHandler) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	opts, err := kithttp.DecodeFindOptions(r)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	users, total, err := h.userSvc.FindUsers(r.Context(), factoryd.UserFilter{}, opts)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, h.newUserResponse(r, u))
	}

	_, _, pagination := opts.Window(total)
	h.api.Respond(w, r, http.StatusOK, kithttp.Body{
		OK:         true,
		Data:       resp,
		Pagination: pagination,
	})
}

func (h *UserHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := platform.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, r, InvalidUserIDError(err))
		return
	}

	user, err := h.userSvc.FindUserByID(r.Context(), *id)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.OKBody(h.newUserResponse(r, user)))
}

type putUserRequest struct {
	Username  *string `json:"username"`
	FactoryID *string `json:"factory_id"`
}

func (h *UserHandler) handlePutUser(w http.ResponseWriter, r *http.Request) {
	id, err := platform.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, r, InvalidUserIDError(err))
		return
	}

	var req putUserRequest
	if err := h.api.DecodeJSON(r, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	upd := factoryd.UserUpdate{Name: req.Username}
	if req.FactoryID != nil {
		factoryID, err := platform.IDFromString(*req.FactoryID)
		if err != nil {
			h.api.Err(w, r, factoryd.ErrInvalidFactoryIDFormat)
			return
		}
		upd.FactoryID = factoryID
	}

	user, err := h.userSvc.UpdateUser(r.Context(), *id, upd)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.Body{
		OK:      true,
		Data:    h.newUserResponse(r, user),
		Message: "user updated successfully",
	})
}

func (h *UserHandler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := platform.IDFromString(chi.URLParam(r, "id"))
	if err != nil {
		h.api.Err(w, r, InvalidUserIDError(err))
		return
	}

	if err := h.userSvc.DeleteUser(r.Context(), *id); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, kithttp.Body{
		OK:      true,
		Message: "user deleted successfully",
	})
}
