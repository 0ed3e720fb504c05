// Package apperrors defines the error kinds the API knows how to report.
// Anything that is not an *Error reaching the HTTP boundary is treated as an
// unexpected failure and rendered as a generic 500.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindConflict
	KindInvalidCredentials
	KindInsufficientStock
	KindUnauthenticated
	KindInvalidToken
	KindTokenExpired
	KindForbidden
	KindNotFound
)

var kindNames = map[Kind]string{
	KindInternal:           "Internal",
	KindValidation:         "ValidationError",
	KindBadRequest:         "BadRequest",
	KindConflict:           "Conflict",
	KindInvalidCredentials: "InvalidCredentials",
	KindInsufficientStock:  "InsufficientStock",
	KindUnauthenticated:    "Unauthenticated",
	KindInvalidToken:       "InvalidToken",
	KindTokenExpired:       "TokenExpired",
	KindForbidden:          "Forbidden",
	KindNotFound:           "NotFound",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// HTTPStatus maps a kind to the status code it is reported with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindBadRequest, KindConflict, KindInvalidCredentials, KindInsufficientStock:
		return http.StatusBadRequest
	case KindUnauthenticated, KindInvalidToken, KindTokenExpired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Status() int { return e.Kind.HTTPStatus() }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

func BadRequest(message string) *Error         { return New(KindBadRequest, message) }
func Conflict(message string) *Error           { return New(KindConflict, message) }
func NotFound(message string) *Error           { return New(KindNotFound, message) }
func Forbidden(message string) *Error          { return New(KindForbidden, message) }
func Unauthenticated(message string) *Error    { return New(KindUnauthenticated, message) }
func InvalidToken(message string) *Error       { return New(KindInvalidToken, message) }
func TokenExpired(message string) *Error       { return New(KindTokenExpired, message) }
func InsufficientStock(message string) *Error  { return New(KindInsufficientStock, message) }
func InvalidCredentials(message string) *Error { return New(KindInvalidCredentials, message) }

// As returns the *Error inside err, if there is one.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
