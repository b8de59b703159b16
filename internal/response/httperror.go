package response

import (
	"errors"
	"net/http"
)

// HTTPError is the normalized JSON error envelope returned for any failed
// request. Status travels in the HTTP header, not the body.
type HTTPError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// StatusCode returns the HTTP status for the error, satisfying the
// statusCode interface used during normalization.
func (e HTTPError) StatusCode() int {
	return e.Status
}

// Is matches HTTPErrors by status and code, so errors.Is recognizes a
// predefined error through joins and WithMessage/WithDetails copies.
func (e HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Status == e.Status && t.Code == e.Code
}

// WithMessage returns a copy of the error with a custom message.
func (e HTTPError) WithMessage(message string) HTTPError {
	e.Message = message
	return e
}

// WithDetails returns a copy of the error with structured details.
// Details are client-visible; never put internal error text here.
func (e HTTPError) WithDetails(details map[string]any) HTTPError {
	e.Details = details
	return e
}

// Predefined HTTP errors covering the statuses this application produces.
var (
	ErrBadRequest = HTTPError{
		Status:  http.StatusBadRequest,
		Code:    "bad_request",
		Message: http.StatusText(http.StatusBadRequest),
	}

	ErrUnauthorized = HTTPError{
		Status:  http.StatusUnauthorized,
		Code:    "unauthorized",
		Message: http.StatusText(http.StatusUnauthorized),
	}

	ErrForbidden = HTTPError{
		Status:  http.StatusForbidden,
		Code:    "forbidden",
		Message: http.StatusText(http.StatusForbidden),
	}

	ErrNotFound = HTTPError{
		Status:  http.StatusNotFound,
		Code:    "not_found",
		Message: http.StatusText(http.StatusNotFound),
	}

	ErrMethodNotAllowed = HTTPError{
		Status:  http.StatusMethodNotAllowed,
		Code:    "method_not_allowed",
		Message: http.StatusText(http.StatusMethodNotAllowed),
	}

	ErrConflict = HTTPError{
		Status:  http.StatusConflict,
		Code:    "conflict",
		Message: http.StatusText(http.StatusConflict),
	}

	ErrUnprocessableEntity = HTTPError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "unprocessable_entity",
		Message: http.StatusText(http.StatusUnprocessableEntity),
	}

	ErrInternalServerError = HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    "internal_server_error",
		Message: http.StatusText(http.StatusInternalServerError),
	}

	ErrServiceUnavailable = HTTPError{
		Status:  http.StatusServiceUnavailable,
		Code:    "service_unavailable",
		Message: http.StatusText(http.StatusServiceUnavailable),
	}
)

// statusCode is the interface errors may implement to declare their own
// HTTP status.
type statusCode interface {
	StatusCode() int
}

// ToHTTPError normalizes any error into an HTTPError. An HTTPError anywhere
// in the chain wins; otherwise a declared status code is honored; anything
// else becomes a generic 500 so internal detail never reaches the client.
func ToHTTPError(err error) HTTPError {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	if sc, ok := err.(statusCode); ok {
		switch sc.StatusCode() {
		case http.StatusBadRequest:
			return ErrBadRequest
		case http.StatusUnauthorized:
			return ErrUnauthorized
		case http.StatusForbidden:
			return ErrForbidden
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusMethodNotAllowed:
			return ErrMethodNotAllowed
		case http.StatusConflict:
			return ErrConflict
		case http.StatusUnprocessableEntity:
			return ErrUnprocessableEntity
		case http.StatusServiceUnavailable:
			return ErrServiceUnavailable
		}
	}

	return ErrInternalServerError
}
