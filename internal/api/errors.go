package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the failure shape of every call: the HTTP status plus the
// backend's envelope, {response: {data: {message}}}.
type APIError struct {
	StatusCode int         `json:"-"`
	Response   errResponse `json:"response"`
}

type errResponse struct {
	Data errData `json:"data"`
}

type errData struct {
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Response.Data.Message != "" {
		return fmt.Sprintf("api: %s (%s)", e.Response.Data.Message, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("api: %s", http.StatusText(e.StatusCode))
}

// NewError builds an APIError carrying the server-supplied message.
func NewError(status int, message string) *APIError {
	e := &APIError{StatusCode: status}
	e.Response.Data.Message = message
	return e
}

// Message extracts the server-supplied message from an error, or "" when the
// failure carried none (callers then fall back to their own wording).
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Response.Data.Message
	}
	return ""
}
