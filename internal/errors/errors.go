package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrNotFound is returned when a referenced user or entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("user with that username or email already exists")
	// ErrAuthenticationFailure is returned for bad credentials. It never says
	// which of email or password was wrong.
	ErrAuthenticationFailure = errors.New("invalid email or password")
	// ErrForbidden is returned when an identity may not act on a resource.
	ErrForbidden = errors.New("forbidden")
)

// IsDomain reports whether err is one of the sentinel errors above.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDuplicateUser) ||
		errors.Is(err, ErrAuthenticationFailure) ||
		errors.Is(err, ErrForbidden)
}

// IsStorage reports whether err is an unexpected persistence failure.
func IsStorage(err error) bool {
	return err != nil && !IsDomain(err)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Forbidden is reported as
// not found so that other users' entries stay invisible.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrDuplicateUser):
		return NewHTTPError(http.StatusConflict, ErrDuplicateUser.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrAuthenticationFailure):
		return NewHTTPError(http.StatusUnauthorized, ErrAuthenticationFailure.Error(), "INVALID_CREDENTIALS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
