package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
)

// NotificationsKey is the gin context key under which the request's
// notification collector is stored.
const NotificationsKey = "notifications"

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error         string               `json:"error"`   // error code (codes.go)
	Message       string               `json:"message"` // user facing message
	Redirect      string               `json:"redirect,omitempty"`
	Notifications []model.Notification `json:"notifications,omitempty"`
}

type notificationLister interface {
	List() []model.Notification
}

// Notifications returns what the request collected so far.
func Notifications(c *gin.Context) []model.Notification {
	if v, ok := c.Get(NotificationsKey); ok {
		if l, ok := v.(notificationLister); ok {
			return l.List()
		}
	}
	return nil
}

// RespondWithError writes an error response carrying the request's
// notifications.
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:         errorCode,
		Message:       message,
		Notifications: Notifications(c),
	})
}

// RespondWithRedirect is RespondWithError plus a navigation target.
func RespondWithRedirect(c *gin.Context, statusCode int, errorCode, message, redirect string) {
	c.JSON(statusCode, ErrorResponse{
		Error:         errorCode,
		Message:       message,
		Redirect:      redirect,
		Notifications: Notifications(c),
	})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Please log in to continue"
	}
	RespondWithRedirect(c, http.StatusUnauthorized, AuthUnauthorized, message, "/login")
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong. Please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// ValidationError lists per-field problems.
type ValidationError struct {
	Error         string               `json:"error"`
	Message       string               `json:"message"`
	Fields        map[string]string    `json:"fields,omitempty"`
	Notifications []model.Notification `json:"notifications,omitempty"`
}

func RespondWithValidationError(c *gin.Context, message string, fields map[string]string) {
	if message == "" {
		message = "Please fill in all required fields"
	}
	c.JSON(http.StatusBadRequest, ValidationError{
		Error:         ValidationInvalidInput,
		Message:       message,
		Fields:        fields,
		Notifications: Notifications(c),
	})
}
