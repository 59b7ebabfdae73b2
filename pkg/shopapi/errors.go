package shopapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNetwork is returned when the remote API could not be reached
	ErrNetwork = errors.New("network error")

	// ErrInvalidResponse is returned when a JSON success body cannot be decoded
	ErrInvalidResponse = errors.New("invalid response from shop API")

	// ErrSessionExpired is returned when a 401 survives the refresh policy.
	// The bound session has been cleared by then.
	ErrSessionExpired = errors.New("session expired")

	// ErrRefreshUnavailable is returned when a 401 could not be retried
	// because the refresh call itself failed for a transient reason. The
	// session is kept.
	ErrRefreshUnavailable = errors.New("token refresh unavailable")
)

// APIError is a non-2xx answer from the shop API.
type APIError struct {
	StatusCode int
	Message    string
	// ServerMessage is false when Message is the generic fallback.
	ServerMessage bool
}

func (e *APIError) Error() string {
	return e.Message
}

// newAPIError reads the human readable message out of an error body,
// checking "message" first and "error" second.
func newAPIError(status int, body []byte) *APIError {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, field := range []string{"message", "error"} {
			if msg, ok := payload[field].(string); ok && msg != "" {
				return &APIError{StatusCode: status, Message: msg, ServerMessage: true}
			}
		}
	}
	return &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("API error: %d", status),
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized || errors.Is(err, ErrSessionExpired)
}

// RefreshRejected reports whether err from the refresh endpoint means the
// refresh token itself is no good. Outages and 5xx answers do not count.
func RefreshRejected(err error) bool {
	status := StatusCode(err)
	return status == http.StatusUnauthorized || status == http.StatusBadRequest
}

// ServerMessage returns the message the server gave for err, if any.
func ServerMessage(err error) (string, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.ServerMessage {
		return apiErr.Message, true
	}
	return "", false
}
