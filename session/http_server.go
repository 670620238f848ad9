package session

import (
	"net/http"

	"github.com/go-chi/chi"
	"go.uber.org/zap"

	kithttp "github.com/plantops/factoryd/kit/transport/http"
)

// PrefixAuth is where the credential handler is mounted. Everything
// under it is reachable without a session.
const PrefixAuth = "/auth"

// Handler represents an HTTP API handler for registration and login.
type Handler struct {
	chi.Router
	api *kithttp.API
	log *zap.Logger
	svc *Service
}

// NewHTTPHandler constructs a new http server.
func NewHTTPHandler(log *zap.Logger, svc *Service) *Handler {
	h := &Handler{
		api: kithttp.NewAPI(kithttp.WithLog(log)),
		log: log,
		svc: svc,
	}

	r := chi.NewRouter()
	r.Post("/register", h.handleRegister)
	r.Post("/adminregister", h.handleRegisterAdmin)
	r.Post("/login", h.handleLogin)

	h.Router = r
	return h
}

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	FactoryID string `json:"factory_id"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.api.DecodeJSON(r, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	if _, err := h.svc.Register(r.Context(), req.Username, req.Password, req.FactoryID); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusCreated, kithttp.Body{
		OK:      true,
		Message: "user registered successfully",
	})
}

type adminRegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminRegisterRequest
	if err := h.api.DecodeJSON(r, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	if _, err := h.svc.RegisterAdmin(r.Context(), req.Username, req.Password); err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusCreated, kithttp.Body{
		OK:      true,
		Message: "user registered successfully",
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// accessTokenResponse keeps access_token at the top level of the body,
// beside ok, rather than nested under data.
type accessTokenResponse struct {
	OK          bool   `json:"ok"`
	AccessToken string `json:"access_token"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.api.DecodeJSON(r, &req); err != nil {
		h.api.Err(w, r, err)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.api.Err(w, r, err)
		return
	}

	h.api.Respond(w, r, http.StatusOK, accessTokenResponse{
		OK:          true,
		AccessToken: token,
	})
}
