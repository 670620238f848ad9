package tenant

import (
	"fmt"

	"github.com/plantops/factoryd/kit/platform/errors"
)

// MinPasswordLength is the shortest password we allow into the system.
const MinPasswordLength = 8

var (
	// ErrUserNotFound is used when the user is not found.
	ErrUserNotFound = &errors.Error{
		Code: errors.ENotFound,
		Msg:  "user not found",
	}

	// EIncorrectPassword is returned when any password operation fails
	// in which we do not want to leak information.
	EIncorrectPassword = &errors.Error{
		Code: errors.EUnauthorized,
		Msg:  "invalid credentials",
	}

	// EShortPassword is used when a password is less than the minimum
	// acceptable password length.
	EShortPassword = &errors.Error{
		Code: errors.EInvalid,
		Msg:  "passwords must be at least 8 characters long",
	}
)

// UserAlreadyExistsError is used when attempting to create a user with
// a name that already exists. The validation code is reused so the API
// answers 400, matching the historical register behavior.
func UserAlreadyExistsError(n string) *errors.Error {
	return &errors.Error{
		Code: errors.EConflict,
		Msg:  fmt.Sprintf("user with name %s already exists", n),
	}
}

// InvalidUserIDError is used when a service was provided an invalid ID.
func InvalidUserIDError(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInvalid,
		Msg:  "user id provided is invalid",
		Err:  err,
	}
}

// ErrCorruptUser is used when the user cannot be unmarshalled from the
// bytes stored in the kv.
func ErrCorruptUser(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EInternal,
		Msg:  "user could not be unmarshalled",
		Err:  err,
		Op:   "kv/UnmarshalUser",
	}
}

// ErrUnprocessableUser is used when a user is not able to be processed.
func ErrUnprocessableUser(err error) *errors.Error {
	return &errors.Error{
		Code: errors.EUnprocessableEntity,
		Msg:  "user could not be marshalled",
		Err:  err,
		Op:   "kv/MarshalUser",
	}
}
