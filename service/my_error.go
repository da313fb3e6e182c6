package service

import (
	"errors"
	"fmt"
)

const (
	// ErrInternalServerError means that an internal server error has occurred (e.g. the session store is unreachable).
	ErrInternalServerError = "internal_server_error"
	// ErrEntityNotFound means that record is absent in the session store.
	ErrEntityNotFound = "entity_not_found"
	// ErrBadParameter means that the client sent a request the router cannot route (e.g. malformed upgrade target).
	ErrBadParameter = "bad_parameter"
	// ErrBadGateway means that the backend container could not be reached after a successful lookup.
	ErrBadGateway = "bad_gateway"
)

// MyError represents an error within the context of the router services.
type MyError struct {
	// Code is a machine-readable code.
	Code string `json:"code,omitempty"`
	// Message is a human-readable message used for logging.
	Message string `json:"message"`
	// Inner is a wrapped error that is never shown to API consumers, except as detail of bad_gateway.
	Inner error `json:"-"`
}

// NewMyError creates a new MyError.
func NewMyError(code string, message string, inner error) *MyError {
	return &MyError{
		Code:    code,
		Message: message,
		Inner:   inner,
	}
}

func NewInternalServerError(message string, inner error) *MyError {
	myInner := ToMyError(inner)
	if myInner != nil {
		return myInner
	}

	return NewMyError(ErrInternalServerError, message, inner)
}

func NewEntityNotFoundError(message string, inner error) *MyError {
	myInner := ToMyError(inner)
	if myInner != nil {
		return myInner
	}

	return NewMyError(ErrEntityNotFound, message, inner)
}

func NewBadParameterError(message string, inner error) *MyError {
	myInner := ToMyError(inner)
	if myInner != nil {
		return myInner
	}

	return NewMyError(ErrBadParameter, message, inner)
}

// NewBadGatewayError wraps a forwarding failure. Unlike the other constructors it always creates a new
// bad_gateway error, since the inner error describes the transport failure shown as detail.
func NewBadGatewayError(message string, inner error) *MyError {
	return NewMyError(ErrBadGateway, message, inner)
}

func (e MyError) Error() string {
	if e.Inner != nil {
		return fmt.Sprintf("%s %s: %v", e.Code, e.Message, e.Inner)
	}

	return fmt.Sprintf("%s %s", e.Code, e.Message)
}

// Unwrap the error returning the error's reason.
func (e MyError) Unwrap() error {
	return e.Inner
}

// ToMyError returns a pointer to a router error, or nil if it is not a router error.
func ToMyError(err error) *MyError {
	var e *MyError
	if errors.As(err, &e) {
		return e
	}

	return nil
}

// ToMyErrorCode returns the code of the error, if available.
func ToMyErrorCode(err error) string {
	myerror := ToMyError(err)
	if myerror != nil {
		return myerror.Code
	}
	return ""
}

func IsMyError(err error, code string) bool {
	myerror := ToMyError(err)
	if myerror != nil {
		return myerror.Code == code
	}
	return false
}

func IsInternalServerError(err error) bool {
	return IsMyError(err, ErrInternalServerError)
}

func IsEntityNotFoundError(err error) bool {
	return IsMyError(err, ErrEntityNotFound)
}

func IsBadParameterError(err error) bool {
	return IsMyError(err, ErrBadParameter)
}

func IsBadGatewayError(err error) bool {
	return IsMyError(err, ErrBadGateway)
}
