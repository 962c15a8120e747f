package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrPasswordRequired is returned when signup carries an empty password.
	ErrPasswordRequired = errors.New("Password required")
	// ErrPasswordTooLong is returned when a password exceeds what bcrypt can hash.
	ErrPasswordTooLong = errors.New("Password too long")
	// ErrInvalidPhoto is returned when the uploaded profile photo is rejected.
	ErrInvalidPhoto = errors.New("Invalid photo upload")
	// ErrEmailTaken is returned when signup uses an email that is already registered.
	ErrEmailTaken = errors.New("Email already registered")
	// ErrInvalidCredentials is returned when login email or password is wrong.
	// The message is identical for both causes.
	ErrInvalidCredentials = errors.New("Incorrect email or password")
	// ErrNotAuthenticated is returned when a protected route is called without a bearer token.
	ErrNotAuthenticated = errors.New("Not authenticated")
	// ErrInvalidToken is returned for any token that cannot be accepted.
	ErrInvalidToken = errors.New("Invalid token")
	// ErrUserNotFound is returned when the user record does not exist.
	ErrUserNotFound = errors.New("User not found")
	// ErrItemNotFound is returned when the item record does not exist.
	ErrItemNotFound = errors.New("Item not found")
	// ErrNameRequired is returned when an item is created without a name.
	ErrNameRequired = errors.New("name required")
	// ErrInvalidID is returned when a path id is not a positive integer.
	ErrInvalidID = errors.New("id must be a positive integer")
	// ErrInvalidPaging is returned when offset or limit are out of range.
	ErrInvalidPaging = errors.New("offset must be >= 0 and limit >= 1")
	// ErrInvalidCategory is returned when an item category is unknown.
	ErrInvalidCategory = errors.New("category must be part or tool")
	// ErrInvalidAmount is returned when price or quantity is negative.
	ErrInvalidAmount = errors.New("price and quantity must not be negative")
)

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

// MapErrorToHTTP maps domain errors to HTTP errors.
// Login failures map to 400 and gate failures to 401, matching the public API.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrPasswordRequired),
		errors.Is(err, ErrPasswordTooLong),
		errors.Is(err, ErrInvalidPhoto),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidPaging),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, unwrapMessage(err), "VALIDATION_ERROR")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, ErrEmailTaken.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNotAuthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrNotAuthenticated.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidToken.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, ErrItemNotFound.Error(), "ITEM_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

// unwrapMessage returns the sentinel text for validation errors so wrapped
// causes (file names, parser details) do not leak into responses.
func unwrapMessage(err error) string {
	for _, sentinel := range []error{ErrPasswordRequired, ErrPasswordTooLong, ErrInvalidPhoto, ErrNameRequired, ErrInvalidID, ErrInvalidPaging, ErrInvalidCategory, ErrInvalidAmount} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
