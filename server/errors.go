package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/rustyeddy/tradejournal/journal"
)

// APIError is the JSON body of every failed request.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func newAPIError(status int, code, msg string, details any) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: msg, Details: details}
}

func errInvalidRequest(err error) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format", err.Error())
}

func errInvalidParameter(err error) *APIError {
	return newAPIError(http.StatusBadRequest, "INVALID_PARAMETER", "Invalid parameter value", err.Error())
}

var (
	errNotFound    = newAPIError(http.StatusNotFound, "NOT_FOUND", "Trade not found", nil)
	errRateLimited = newAPIError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Rate limit exceeded", nil)
	errInternal    = newAPIError(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", nil)
)

// toAPIError maps store and validation errors onto HTTP responses.
func toAPIError(err error) *APIError {
	var verr *journal.ValidationError
	switch {
	case errors.As(err, &verr):
		return newAPIError(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", verr.Problems)
	case errors.Is(err, journal.ErrNotFound):
		return errNotFound
	}
	return errInternal
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	apiErr, ok := err.(*APIError)
	if !ok {
		apiErr = toAPIError(err)
	}
	if apiErr.StatusCode >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	render.Render(w, r, apiErr)
}
