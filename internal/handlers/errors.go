package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// APIError is the body of every error response: {"success": false, "message": ...}.
type APIError struct {
	Status  int    `json:"-"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (e *APIError) Error() string  { return e.Message }
func (e *APIError) GetStatus() int { return e.Status }

func newAPIError(status int, message string, _ ...error) huma.StatusError {
	// The form only distinguishes bad input; schema failures are plain 400s.
	if status == http.StatusUnprocessableEntity {
		status = http.StatusBadRequest
	}
	return &APIError{Status: status, Message: message}
}

func init() {
	// Validation details from huma are dropped; the message is enough for the form.
	huma.NewError = newAPIError
}
