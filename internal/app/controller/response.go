package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/app/model"
	apperrors "github.com/ikkim/storefront/internal/errors"
)

// respond writes a success body. Every page view response carries the
// notifications queued while handling the request.
func respond(c *gin.Context, status int, body gin.H) {
	notifications := apperrors.Notifications(c)
	if notifications == nil {
		notifications = []model.Notification{}
	}
	body["notifications"] = notifications
	c.JSON(status, body)
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
