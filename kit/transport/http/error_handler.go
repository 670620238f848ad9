package http

import (
	"net/http"

	"github.com/plantops/factoryd/kit/platform/errors"
)

// ErrorCodeToStatusCode maps a platform error code to an http status.
// Unknown codes map to 500 so unexpected failures never masquerade as
// client errors.
func ErrorCodeToStatusCode(code string) int {
	if status, ok := statusCodePlatformError[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// statusCodePlatformError is the map converting a platform error code
// to a status code. Conflicts reuse the validation status, matching the
// duplicate-username behavior of the API.
var statusCodePlatformError = map[string]int{
	errors.EInternal:            http.StatusInternalServerError,
	errors.EInvalid:             http.StatusBadRequest,
	errors.EUnprocessableEntity: http.StatusUnprocessableEntity,
	errors.EConflict:            http.StatusBadRequest,
	errors.ENotFound:            http.StatusNotFound,
	errors.EUnavailable:         http.StatusServiceUnavailable,
	errors.EForbidden:           http.StatusForbidden,
	errors.EUnauthorized:        http.StatusUnauthorized,
	errors.EMethodNotAllowed:    http.StatusMethodNotAllowed,
}
