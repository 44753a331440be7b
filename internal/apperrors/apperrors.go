package apperrors

import "net/http"

// FieldErrors maps a field name to the list of messages raised against it.
// Every failure response carries one, even when the failure is not a field
// validation failure: auth failures populate a synthetic "auth" field, scope
// failures the name of the hidden resource, and so on. Handlers serialize it
// as the "errors" member of the response envelope.
type FieldErrors map[string][]string

// Error is a request-terminating outcome with an HTTP status, a stable
// user-facing message and a per-field error map. Services return it through
// the regular error channel; the handler layer maps it onto the envelope.
type Error struct {
	Status  int
	Message string
	Fields  FieldErrors
}

func (e *Error) Error() string {
	return e.Message
}

// Unauthenticated is the outcome for a request with no resolvable principal.
func Unauthenticated() *Error {
	return &Error{
		Status:  http.StatusUnauthorized,
		Message: "You are not logged in.",
		Fields:  FieldErrors{"auth": {"You must be logged in."}},
	}
}

// Forbidden is the outcome for a principal acting outside their rights.
func Forbidden(field, detail string) *Error {
	return &Error{
		Status:  http.StatusForbidden,
		Message: "You do not have permission.",
		Fields:  FieldErrors{field: {detail}},
	}
}

// NotFound is the outcome for a missing entity. Scope-hidden entities use the
// same outcome on purpose: a caller can never distinguish "does not exist"
// from "exists outside your scope".
func NotFound(message, field, detail string) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Message: message,
		Fields:  FieldErrors{field: {detail}},
	}
}

// Conflict is the outcome for a blocked self-referential action.
func Conflict(message, field, detail string) *Error {
	return &Error{
		Status:  http.StatusConflict,
		Message: message,
		Fields:  FieldErrors{field: {detail}},
	}
}

// Validation is the outcome for field-level validation failures, including
// assignment-policy failures attributed to the assignee field.
func Validation(message string, fields FieldErrors) *Error {
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Message: message,
		Fields:  fields,
	}
}

// Internal is the fallback outcome for unexpected failures.
func Internal() *Error {
	return &Error{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong.",
		Fields:  FieldErrors{"server": {"An unexpected error occurred."}},
	}
}

// From coerces any error into an *Error, wrapping unknown errors as Internal.
func From(err error) *Error {
	if appErr, ok := err.(*Error); ok {
		return appErr
	}
	return Internal()
}
