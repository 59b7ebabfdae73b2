package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/storage"
	"github.com/ikkim/storefront/pkg/shopapi"
)

// ErrorInfo is the client facing form of an error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError turns infrastructure failures (shop API, storage) into a
// status, code and message. Domain errors are mapped by controllers.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: getDefaultErrorMessage(context),
		}
	}

	// 1. forced logout after a failed refresh
	if errors.Is(err, shopapi.ErrSessionExpired) {
		return ErrorInfo{
			Status:  http.StatusUnauthorized,
			Code:    AuthSessionExpired,
			Message: "Your session has expired. Please log in again",
		}
	}

	// 2. refresh endpoint down, session kept
	if errors.Is(err, shopapi.ErrRefreshUnavailable) {
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    UpstreamUnreachable,
			Message: "Could not renew your session. Please try again later",
		}
	}

	// 3. shop API answered with an error status
	var apiErr *shopapi.APIError
	if errors.As(err, &apiErr) {
		return parseAPIError(apiErr)
	}

	// 4. shop API unreachable or unreadable
	if errors.Is(err, shopapi.ErrNetwork) || errors.Is(err, shopapi.ErrInvalidResponse) {
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    UpstreamUnreachable,
			Message: "The shop service is unavailable. Please try again later",
		}
	}

	// 5. profile storage
	if errors.Is(err, storage.ErrInvalidProfile) {
		return ErrorInfo{
			Status:  http.StatusBadRequest,
			Code:    ProfileInvalid,
			Message: "Invalid browser profile",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

// parseAPIError passes 4xx answers through with the server's message and
// reports 5xx answers as a bad gateway.
func parseAPIError(apiErr *shopapi.APIError) ErrorInfo {
	switch {
	case apiErr.StatusCode == http.StatusUnauthorized:
		return ErrorInfo{Status: http.StatusUnauthorized, Code: AuthUnauthorized, Message: apiErr.Message}
	case apiErr.StatusCode == http.StatusNotFound:
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: apiErr.Message}
	case apiErr.StatusCode >= 400 && apiErr.StatusCode < 500:
		return ErrorInfo{Status: apiErr.StatusCode, Code: UpstreamRejected, Message: apiErr.Message}
	default:
		return ErrorInfo{Status: http.StatusBadGateway, Code: UpstreamError, Message: apiErr.Message}
	}
}

func getDefaultErrorMessage(context string) string {
	if context == "" {
		return "Something went wrong. Please try again later"
	}
	return "Failed to " + context + ". Please try again later"
}

// ParseAndRespond parses err and writes the matching error response.
func ParseAndRespond(c *gin.Context, err error, context string) {
	info := ParseError(err, context)
	if info.Status == http.StatusUnauthorized {
		RespondWithRedirect(c, info.Status, info.Code, info.Message, "/login")
		return
	}
	RespondWithError(c, info.Status, info.Code, info.Message)
}
