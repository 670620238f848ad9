package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Error codes understood by the HTTP layer. Every error crossing a
// service boundary carries one of these.
const (
	EInternal            = "internal error"
	ENotFound            = "not found"
	EConflict            = "conflict"             // action cannot be performed
	EInvalid             = "invalid"              // validation failed
	EUnprocessableEntity = "unprocessable entity" // data type is correct, but out of range
	EUnavailable         = "unavailable"
	EForbidden           = "forbidden"
	EUnauthorized        = "unauthorized"
	EMethodNotAllowed    = "method not allowed"
)

// Error is the platform error struct.
//
// Errors may have error codes, human-readable messages, and a logical
// stack trace. The Code targets automated handlers so that recovery
// can occur; Msg is for the operator; Op and Err chain errors together
// in a logical stack trace.
//
// To create a simple error,
//
//	&Error{Code: ENotFound}
//
// To show where the error happens, add Op.
//
//	&Error{Code: ENotFound, Op: "bolt.FindUserByID"}
//
// To show an error with an unpredictable value, add the value in Msg.
//
//	&Error{Code: EConflict, Msg: fmt.Sprintf("user with name %s already exists", name)}
//
// To show an error wrapped with another error.
//
//	&Error{Code: EInternal, Err: err}
type Error struct {
	Code string
	Msg  string
	Op   string
	Err  error
}

// WithErrorOp sets the op on the error.
func WithErrorOp(op string) func(*Error) {
	return func(e *Error) {
		e.Op = op
	}
}

// Error implements the error interface by writing out the recursive messages.
func (e *Error) Error() string {
	if e.Msg != "" && e.Err != nil {
		var b strings.Builder
		b.WriteString(e.Msg)
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
		return b.String()
	} else if e.Msg != "" {
		return e.Msg
	} else if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("<%s>", e.Code)
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	return e.Err
}

// ErrInternalServiceError returns the error unmodified when it is
// already a platform error, and wraps it as an EInternal otherwise.
// Useful as a blanket conversion at a service boundary.
func ErrInternalServiceError(err error, options ...func(*Error)) error {
	if err == nil {
		return nil
	}

	if e, ok := err.(*Error); ok {
		return e
	}
	e := &Error{
		Code: EInternal,
		Err:  err,
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// ErrorCode returns the code of the root error, if available; otherwise returns EInternal.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	e, ok := err.(*Error)
	if !ok {
		return EInternal
	}

	if e == nil {
		return ""
	}

	if e.Code != "" {
		return e.Code
	}

	if e.Err != nil {
		return ErrorCode(e.Err)
	}

	return EInternal
}

// ErrorMessage returns the human-readable message of the error, if available.
// Otherwise returns a generic error message.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	e, ok := err.(*Error)
	if !ok {
		return "An internal error has occurred."
	}

	if e == nil {
		return ""
	}

	if e.Msg != "" {
		return e.Msg
	}

	if e.Err != nil {
		return ErrorMessage(e.Err)
	}

	return "An internal error has occurred."
}

// errEncode is a JSON encoding helper needed to handle the recursive
// stack of errors.
type errEncode struct {
	Code string      `json:"code"`
	Msg  string      `json:"message,omitempty"`
	Op   string      `json:"op,omitempty"`
	Err  interface{} `json:"error,omitempty"`
}

// MarshalJSON recursively marshals the stack of Err.
func (e *Error) MarshalJSON() ([]byte, error) {
	ee := errEncode{
		Code: e.Code,
		Msg:  e.Msg,
		Op:   e.Op,
	}
	if e.Err != nil {
		if inner, ok := e.Err.(*Error); ok {
			ee.Err = inner
		} else {
			ee.Err = e.Err.Error()
		}
	}
	return json.Marshal(ee)
}

// UnmarshalJSON recursively unmarshals the error stack.
func (e *Error) UnmarshalJSON(b []byte) error {
	ee := new(errEncode)
	if err := json.Unmarshal(b, ee); err != nil {
		return err
	}
	e.Code = ee.Code
	e.Msg = ee.Msg
	e.Op = ee.Op
	e.Err = decodeInternalError(ee.Err)
	return nil
}

func decodeInternalError(target interface{}) error {
	if errStr, ok := target.(string); ok {
		return errors.New(errStr)
	}
	if m, ok := target.(map[string]interface{}); ok {
		internalErr := new(Error)
		if code, ok := m["code"].(string); ok {
			internalErr.Code = code
		}
		if msg, ok := m["message"].(string); ok {
			internalErr.Msg = msg
		}
		if op, ok := m["op"].(string); ok {
			internalErr.Op = op
		}
		internalErr.Err = decodeInternalError(m["error"])
		return internalErr
	}
	return nil
}
