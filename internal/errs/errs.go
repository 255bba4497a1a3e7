// Package errs defines the error taxonomy shared by the gateway, the services
// and the HTTP handlers.
//
// Every failure that reaches a handler is classified into one Kind, and the
// Kind alone decides the HTTP status of the response.
package errs

import (
	"errors"
	"net/http"
)

// Kind classifies a failure.
type Kind string

const (
	// KindValidation is malformed or missing input. It never reaches the database.
	KindValidation Kind = "validation"
	// KindAuth is a credential mismatch or an unknown identity.
	KindAuth Kind = "auth"
	// KindDatabase is a connectivity or statement failure.
	KindDatabase Kind = "database"
	// KindInternal is anything not classified above.
	KindInternal Kind = "internal"
)

// Error is a classified failure carrying an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	// Fields lists the offending input fields, when known.
	Fields []string
	// Op names the operation that failed, e.g. "db.insert".
	Op  string
	Err error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a KindValidation error.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Auth returns a KindAuth error.
func Auth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// Database wraps a driver failure for the named operation.
func Database(op string, err error) *Error {
	return &Error{Kind: KindDatabase, Message: "database error", Op: op, Err: err}
}

// Internal wraps an unclassified failure for the named operation.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal error", Op: op, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns the first *Error in err's chain, or nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}

// HTTPStatus maps a Kind to a response status.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
