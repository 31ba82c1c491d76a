package protocol

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies request failures
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindProtocol
	KindNotFound
	KindConflict
	KindUnprocessable
)

// StatusCode returns the response status code of the kind
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation, KindProtocol:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Error is a classified request failure, its Message is returned to the client verbatim.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// StatusCode returns the response status code
func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

// NewError creates a classified error
func NewError(kind Kind, format string, args ...interface{}) *Error {
	if len(args) == 0 {
		return &Error{Kind: kind, Message: format}
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error
func Validation(format string, args ...interface{}) *Error {
	return NewError(KindValidation, format, args...)
}

// NotFound creates a not found error
func NotFound(format string, args ...interface{}) *Error {
	return NewError(KindNotFound, format, args...)
}

// AsError returns err as *Error, classifying unknown errors as internal
func AsError(err error) *Error {
	var ret *Error
	if errors.As(err, &ret) {
		return ret
	}
	if err == nil {
		return NewError(KindInternal, "Internal error.")
	}
	return NewError(KindInternal, "Internal error: %v", err)
}
