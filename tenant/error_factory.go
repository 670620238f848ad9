package tenant

import (
	"github.com/plantops/factoryd/kit/platform/errors"
)

var (
	// ErrFactoryNotFound is used when the factory is not found.
	ErrFactoryNotFound = &errors.Error{
		Code: errors.ENotFound,
		Msg:  "factory not found",
	}
)

// InvalidFactoryIDError is used when a service was provided an invalid ID.
func InvalidFactoryIDError(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInvalid,
		Msg:  "factory id provided is invalid",
		Err:  err,
	}
}

// ErrCorruptFactory is used when the factory cannot be unmarshalled
// from the bytes stored in the kv.
func ErrCorruptFactory(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  "factory could not be unmarshalled",
		Err:  err,
		Op:   "kv/UnmarshalFactory",
	}
}

// ErrUnprocessableFactory is used when a factory is not able to be processed.
func ErrUnprocessableFactory(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EUnprocessableEntity,
		Msg:  "factory could not be marshalled",
		Err:  err,
		Op:   "kv/MarshalFactory",
	}
}
