package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is the single error shape crossing module boundaries. Business logic
// returns these; the HTTP layer owns the translation to a status code and a
// response envelope. Codes are part of the API contract; keep them stable.
type Error struct {
	Code    string
	Message string
	Status  int
	Details any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeAuthentication  = "AUTHENTICATION_ERROR"
	CodeTenantIsolation = "TENANT_ISOLATION_ERROR"
	CodeRateLimited     = "RATE_LIMIT_EXCEEDED"
	CodeInternal        = "INTERNAL_SERVER_ERROR"
)

func BadRequest(message string) *Error {
	return &Error{Code: CodeBadRequest, Message: message, Status: http.StatusBadRequest}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message, Status: http.StatusForbidden}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message, Status: http.StatusNotFound}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message, Status: http.StatusConflict}
}

func Validation(message string, details any) *Error {
	return &Error{Code: CodeValidation, Message: message, Status: http.StatusUnprocessableEntity, Details: details}
}

// Authentication is deliberately generic: login failures must not reveal
// whether the email exists or the password was wrong.
func Authentication(message string) *Error {
	return &Error{Code: CodeAuthentication, Message: message, Status: http.StatusUnauthorized}
}

func TenantIsolation() *Error {
	return &Error{
		Code:    CodeTenantIsolation,
		Message: "access to another company's data is not allowed",
		Status:  http.StatusForbidden,
	}
}

func RateLimited() *Error {
	return &Error{
		Code:    CodeRateLimited,
		Message: "too many requests, please try again later",
		Status:  http.StatusTooManyRequests,
	}
}

func Internal(message string) *Error {
	return &Error{Code: CodeInternal, Message: message, Status: http.StatusInternalServerError}
}

// From normalizes any error to an *Error. Unclassified errors become an
// internal error; the original message goes into Details so the boundary can
// decide whether to expose it (never in production).
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	out := Internal("an unexpected error occurred")
	if err != nil {
		out.Details = map[string]string{"cause": err.Error()}
	}
	return out
}

// Is reports whether err is an *Error with the given code.
func Is(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
