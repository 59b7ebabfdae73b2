package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	storageDriver string
}

func NewHealthController(storageDriver string) *HealthController {
	return &HealthController{storageDriver: storageDriver}
}

// Health reports liveness
// GET /health
func (ctrl *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Storefront API is running",
		"storage": ctrl.storageDriver,
	})
}
