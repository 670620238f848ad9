package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/plantops/factoryd/kit/platform/errors"
)

// PlatformErrorCodeHeader shows the error code of a platform error.
const PlatformErrorCodeHeader = "X-Platform-Error-Code"

// API provides a consolidated means for handling API request and
// response activity. All handler packages share one shape of error
// body through it.
type API struct {
	logger *zap.Logger

	unmarshalErrFn func(encoding string, err error) error
	okErrFn        func(err error) error
	errFn          func(err error) (interface{}, int, error)
}

// APIOptFn is a functional option for the API type.
type APIOptFn func(*API)

// WithLog sets the logger. Errors that cross the encoder are logged
// before being written out.
func WithLog(logger *zap.Logger) APIOptFn {
	return func(a *API) {
		a.logger = logger
	}
}

// WithErrFn sets the err handling func for issues when writing to the response body.
func WithErrFn(fn func(err error) (interface{}, int, error)) APIOptFn {
	return func(a *API) {
		a.errFn = fn
	}
}

// NewAPI creates a new API type.
func NewAPI(opts ...APIOptFn) *API {
	api := API{
		unmarshalErrFn: func(encoding string, err error) error {
			return &errors.Error{
				Code: errors.EInvalid,
				Msg:  "failed to unmarshal " + encoding,
				Err:  err,
			}
		},
		errFn: func(err error) (interface{}, int, error) {
			return errBody{
				OK:      false,
				Message: errors.ErrorMessage(err),
			}, ErrorCodeToStatusCode(errors.ErrorCode(err)), nil
		},
	}
	for _, o := range opts {
		o(&api)
	}
	return &api
}

// DecodeJSON decodes reader with json.
func (a *API) DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return a.unmarshalErrFn("json", err)
	}
	return nil
}

// Respond writes to the response writer. Repsonses that fail to write
// are logged, the client has already seen the status line at that point.
func (a *API) Respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	if status == http.StatusNoContent || v == nil {
		w.WriteHeader(status)
		return
	}

	b, err := json.Marshal(v)
	if err != nil {
		a.Err(w, r, &errors.Error{
			Code: errors.EInternal,
			Err:  err,
		})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(b); err != nil {
		a.logErr("failed to write response body", r, err)
	}
}

// Err writes the error out with the ok=false envelope and the status
// corresponding to its platform error code. Errors that carry no code
// are treated as internal.
func (a *API) Err(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	a.logErr("api error encountered", r, err)

	v, status, eErr := a.errFn(err)
	if eErr != nil {
		a.logErr("failed to write err to response writer", r, eErr)
		a.Respond(w, r, http.StatusInternalServerError, errBody{
			OK:      false,
			Message: "failed to write error to response body",
		})
		return
	}

	w.Header().Set(PlatformErrorCodeHeader, errors.ErrorCode(err))
	a.Respond(w, r, status, v)
}

func (a *API) logErr(msg string, r *http.Request, err error) {
	if a.logger == nil {
		return
	}
	a.logger.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
}

type errBody struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
