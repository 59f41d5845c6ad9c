package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrItemNotFound is returned when a gallery item is not found.
	ErrItemNotFound = errors.New("Item not found")
	// ErrTitleRequired is returned when an upload is missing its title.
	ErrTitleRequired = errors.New("Title is required")
	// ErrNoImage is returned when an upload carries no image part.
	ErrNoImage = errors.New("No image uploaded")
	// ErrUpstreamStorage is returned when the asset host rejects or fails an upload.
	ErrUpstreamStorage = errors.New("image storage failed")
)

// MsgResponse is the body of every non-5xx error and of simple success messages.
type MsgResponse struct {
	Msg string `json:"msg"`
}

// ErrorResponse is the body of 5xx errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized
// surfaces as a 500 with the error's message.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrItemNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrTitleRequired), errors.Is(err, ErrNoImage):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
