package factoryd

import (
	"github.com/plantops/factoryd/kit/platform/errors"
)

var (
	// ErrMissingFields is returned when a create or register request
	// leaves out a mandatory field.
	ErrMissingFields = &errors.Error{
		Code: errors.EInvalid,
		Msg:  "missing data",
	}

	// ErrNotAuthorized is the blanket denial for scope violations.
	ErrNotAuthorized = &errors.Error{
		Code: errors.EUnauthorized,
		Msg:  "not authorized",
	}

	// ErrInvalidFactoryIDFormat is returned when a supplied factory_id
	// does not parse as an ID.
	ErrInvalidFactoryIDFormat = &errors.Error{
		Code: errors.EInvalid,
		Msg:  "invalid factory_id format",
	}
)
