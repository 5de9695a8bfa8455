package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrPropertyNotFound is returned when a property is not found.
	ErrPropertyNotFound = errors.New("property not found")
	// ErrInquiryNotFound is returned when an inquiry is not found.
	ErrInquiryNotFound = errors.New("inquiry not found")
	// ErrFavoriteNotFound is returned when a favorite is not found.
	ErrFavoriteNotFound = errors.New("favorite not found")
	// ErrOwnerNotFound is returned when a property references a user that does not exist.
	ErrOwnerNotFound = errors.New("property owner does not exist")
	// ErrUnauthorized is returned when the request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized: please log in")
	// ErrForbidden is returned when the caller lacks the role or ownership for an action.
	ErrForbidden = errors.New("forbidden: insufficient permissions")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserAlreadyExists is returned when the username or email is taken.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrDuplicateFavorite is returned when the property is already in the user's favorites.
	ErrDuplicateFavorite = errors.New("property is already a favorite")
	// ErrInvalidUpload is returned for upload payloads that are not images or exceed the limit.
	ErrInvalidUpload = errors.New("invalid image upload")
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

var mapping = []struct {
	err    error
	status int
	code   string
}{
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrPropertyNotFound, http.StatusNotFound, "PROPERTY_NOT_FOUND"},
	{ErrInquiryNotFound, http.StatusNotFound, "INQUIRY_NOT_FOUND"},
	{ErrFavoriteNotFound, http.StatusNotFound, "FAVORITE_NOT_FOUND"},
	{ErrOwnerNotFound, http.StatusBadRequest, "OWNER_NOT_FOUND"},
	{ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrUserAlreadyExists, http.StatusConflict, "USER_ALREADY_EXISTS"},
	{ErrDuplicateFavorite, http.StatusConflict, "DUPLICATE_FAVORITE"},
	{ErrInvalidUpload, http.StatusBadRequest, "INVALID_UPLOAD"},
}

// MapErrorToHTTP maps domain errors, possibly wrapped, to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mapping {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// Validation wraps a request validation failure as a 400 response.
func Validation(detail string) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, detail, "VALIDATION_ERROR")
}

// ToEchoError converts err into an *echo.HTTPError carrying an ErrorResponse body.
// An *HTTPError anywhere in the chain is used as is; anything else goes through MapErrorToHTTP.
func ToEchoError(err error) *echo.HTTPError {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		httpErr = MapErrorToHTTP(err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse()).SetInternal(err)
}
