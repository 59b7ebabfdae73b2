package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/service"
	"github.com/ikkim/storefront/internal/errors"
)

// NotificationMiddleware attaches a notification collector to the request
// context so services can queue toasts for the response.
func NotificationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, collector := service.WithNotifications(c.Request.Context())
		c.Request = c.Request.WithContext(ctx)
		c.Set(errors.NotificationsKey, collector)
		c.Next()
	}
}
