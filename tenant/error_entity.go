package tenant

import (
	"github.com/plantops/factoryd/kit/platform/errors"
)

var (
	// ErrEntityNotFound is used when the entity is not found.
	ErrEntityNotFound = &errors.Error{
		Code: errors.ENotFound,
		Msg:  "entity not found",
	}
)

// InvalidEntityIDError is used when a service was provided an invalid ID.
func InvalidEntityIDError(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInvalid,
		Msg:  "entity id provided is invalid",
		Err:  err,
	}
}

// ErrCorruptEntity is used when the entity cannot be unmarshalled from
// the bytes stored in the kv.
func ErrCorruptEntity(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  "entity could not be unmarshalled",
		Err:  err,
		Op:   "kv/UnmarshalEntity",
	}
}

// ErrUnprocessableEntity is used when an entity is not able to be processed.
func ErrUnprocessableEntity(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EUnprocessableEntity,
		Msg:  "entity could not be marshalled",
		Err:  err,
		Op:   "kv/MarshalEntity",
	}
}
